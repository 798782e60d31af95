package rpc

import (
	"context"

	"google.golang.org/grpc"

	"github.com/novalang/novac/internal/diagnostics"
)

// WatchRequest asks CompileWatcher to run a build over rootDir (or the
// server's configured project root, if empty) and stream back every
// diagnostic the build produces.
type WatchRequest struct {
	RootDir string `json:"rootDir,omitempty"`
}

// Diagnostic is the wire shape of internal/diagnostics.Diagnostic. It's a
// separate type rather than the diagnostics package's own struct because a
// watcher on the other end of the wire has no reason to depend on novac's
// internal packages; ServiceName/Metadata below name this as
// "novac.CompileWatcher" precisely so external tooling can treat it as a
// small, independent wire contract.
type Diagnostic struct {
	File        string `json:"file"`
	Start       uint32 `json:"start"`
	Length      uint32 `json:"length"`
	Code        uint32 `json:"code"`
	Category    string `json:"category"`
	MessageText string `json:"messageText"`
}

func diagnosticFromInternal(d *diagnostics.Diagnostic) *Diagnostic {
	return &Diagnostic{
		File:        d.File,
		Start:       d.Start,
		Length:      d.Length,
		Code:        d.Code,
		Category:    d.Category.String(),
		MessageText: d.MessageText,
	}
}

// WatchComplete is sent once after the last Diagnostic, summarizing the
// build that produced them, so a watcher doesn't have to count messages to
// know when a build finished and whether it's safe to show a clean result.
type WatchComplete struct {
	BuildID    string `json:"buildId"`
	FileCount  int    `json:"fileCount"`
	ErrorCount int    `json:"errorCount"`
}

// CompileWatcherServer is the service interface RegisterCompileWatcherServer
// binds to a *grpc.Server. Implementations stream every diagnostic produced
// by a build over stream, then return nil to end the call cleanly.
type CompileWatcherServer interface {
	Watch(req *WatchRequest, stream CompileWatcher_WatchServer) error
}

// CompileWatcher_WatchServer is the server side of the Watch stream: a
// Diagnostic per finding, and exactly one Complete call before the handler
// returns.
type CompileWatcher_WatchServer interface {
	grpc.ServerStream
	Send(*Diagnostic) error
	Complete(*WatchComplete) error
}

// watchEnvelope is the single wire message exchanged on the stream; exactly
// one of Diagnostic or Complete is set. grpc.ServiceDesc's StreamDesc only
// gives us one SendMsg/RecvMsg shape per stream, so Send/Complete both
// marshal into this envelope rather than needing two independent stream
// types the way a .proto "oneof" would generate.
type watchEnvelope struct {
	Diagnostic *Diagnostic    `json:"diagnostic,omitempty"`
	Complete   *WatchComplete `json:"complete,omitempty"`
}

type compileWatcherWatchServer struct {
	grpc.ServerStream
}

func (s *compileWatcherWatchServer) Send(d *Diagnostic) error {
	return s.SendMsg(&watchEnvelope{Diagnostic: d})
}

func (s *compileWatcherWatchServer) Complete(c *WatchComplete) error {
	return s.SendMsg(&watchEnvelope{Complete: c})
}

func watchHandler(srv interface{}, stream grpc.ServerStream) error {
	req := new(WatchRequest)
	if err := stream.RecvMsg(req); err != nil {
		return err
	}
	return srv.(CompileWatcherServer).Watch(req, &compileWatcherWatchServer{ServerStream: stream})
}

// ServiceDesc is CompileWatcher's hand-authored grpc.ServiceDesc, built the
// same way funxy's builtinGrpcRegister assembles one at runtime: a
// ServiceName, a HandlerType used only for RegisterService's interface
// check, no unary Methods, and one server-streaming entry in Streams.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: "novac.CompileWatcher",
	HandlerType: (*CompileWatcherServer)(nil),
	Methods:     []grpc.MethodDesc{},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Watch",
			Handler:       watchHandler,
			ServerStreams: true,
		},
	},
	Metadata: "novac/internal/rpc/compilewatcher",
}

// RegisterCompileWatcherServer binds srv to s under ServiceDesc, the way
// builtinGrpcRegister calls server.RegisterService(desc, handlerWrapper).
func RegisterCompileWatcherServer(s *grpc.Server, srv CompileWatcherServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// compileWatcherClient is a minimal hand-rolled client counterpart, used by
// tests and by any novac-internal caller that wants to watch a build over a
// real network connection instead of linking internal/build directly.
type compileWatcherClient struct {
	cc *grpc.ClientConn
}

// NewCompileWatcherClient wraps cc for calling Watch. cc must have been
// dialed with grpc.WithDefaultCallOptions(grpc.CallContentSubtype(CodecName))
// (or an equivalent per-call option) so its requests/responses marshal
// through Codec instead of grpc's default protobuf codec.
func NewCompileWatcherClient(cc *grpc.ClientConn) CompileWatcherClient {
	return &compileWatcherClient{cc: cc}
}

// CompileWatcherClient is the client side of the Watch stream.
type CompileWatcherClient interface {
	Watch(ctx context.Context, req *WatchRequest, opts ...grpc.CallOption) (CompileWatcher_WatchClient, error)
}

// CompileWatcher_WatchClient is the client side of the Watch stream: callers
// alternate Recv calls, distinguishing a Diagnostic from the terminal
// WatchComplete by which field of the envelope is set.
type CompileWatcher_WatchClient interface {
	grpc.ClientStream
	Recv() (*Diagnostic, *WatchComplete, error)
}

type compileWatcherWatchClient struct {
	grpc.ClientStream
}

func (c *compileWatcherClient) Watch(ctx context.Context, req *WatchRequest, opts ...grpc.CallOption) (CompileWatcher_WatchClient, error) {
	stream, err := c.cc.NewStream(ctx, &ServiceDesc.Streams[0], "/novac.CompileWatcher/Watch", opts...)
	if err != nil {
		return nil, err
	}
	x := &compileWatcherWatchClient{ClientStream: stream}
	if err := x.SendMsg(req); err != nil {
		return nil, err
	}
	if err := x.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

func (c *compileWatcherWatchClient) Recv() (*Diagnostic, *WatchComplete, error) {
	env := new(watchEnvelope)
	if err := c.RecvMsg(env); err != nil {
		return nil, nil, err
	}
	return env.Diagnostic, env.Complete, nil
}
