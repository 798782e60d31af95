// Package rpc exposes the batch Build Driver over gRPC as CompileWatcher, a
// server-streaming service that lets an out-of-process watcher (an editor
// plugin, a CI dashboard) request a build and receive its diagnostics as
// they're produced, without linking against novac's Go packages directly.
//
// Grounded on funxy's internal/evaluator/builtins_grpc.go, which never
// goes through protoc-generated stubs: builtinGrpcRegister assembles a
// grpc.ServiceDesc by hand (ServiceName, HandlerType, Methods/Streams,
// Metadata) and wires its Handler/Handler closures directly to runtime
// values, and builtinGrpcServe/builtinGrpcServeAsync/builtinGrpcStop drive
// net.Listen + (*grpc.Server).Serve/GracefulStop the same way this package
// does. novac has no .proto-compiled CompileWatcher stubs either, so in
// place of the generated package's protobuf codec this registers a small
// JSON codec (a standard, documented extension point of
// google.golang.org/grpc/encoding) and exchanges plain Go structs instead of
// generated proto.Message types.
package rpc

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// jsonCodec implements encoding.Codec by delegating to encoding/json,
// registered under the name "json" so a server built with
// grpc.ForceServerCodec(jsonCodec{}) (and a client dialing with
// grpc.CallContentSubtype("json")) can exchange WatchRequest/Diagnostic
// values without generated marshal code.
type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return "json"
}

// Codec is the shared jsonCodec instance. NewServer installs it via
// grpc.ForceServerCodec; a watcher client dials with the matching
// grpc.CallContentSubtype(CodecName) or its own equivalent json codec.
var Codec = jsonCodec{}

// CodecName is jsonCodec's registered name, exported so callers configuring
// their own grpc.Server/grpc.ClientConn options don't have to hardcode "json".
const CodecName = "json"

func init() {
	// Registers Codec under CodecName so a client dialing with
	// grpc.CallContentSubtype(CodecName) resolves to it via grpc's
	// content-subtype codec lookup; NewServer separately forces it
	// server-side with grpc.ForceServerCodec, bypassing that lookup.
	encoding.RegisterCodec(Codec)
}
