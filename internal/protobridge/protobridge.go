// Package protobridge synthesizes ambient declarations from .proto file
// descriptors, feeding the Type Environment's preloaded lib-context
// declarations (ambient globals available to every source file) with typed
// bindings for protobuf messages — a common real-world need for a checker
// whose projects talk to a gRPC service.
//
// Grounded on funxy's internal/evaluator/builtins_grpc.go, which
// already imports github.com/jhump/protoreflect/desc/protoparse to turn a
// .proto file into []*desc.FileDescriptor via protoparse.Parser{ImportPaths:
// ...}.ParseFiles(path). LoadDescriptors reuses that exact call shape; this
// package only adds the descriptor -> ambient-declaration-text step the
// funxy's dynamic-dispatch evaluator never needed (funxy invokes RPCs at
// runtime through desc.MessageDescriptor/dynamic.Message directly, with no
// static type-checking step to feed).
package protobridge

import (
	"fmt"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
)

// LoadDescriptors parses the named .proto files (resolving their own
// imports against importPaths) into file descriptors, the same
// protoparse.Parser{ImportPaths: ...}.ParseFiles(...) shape
// builtinGrpcLoadProto uses.
func LoadDescriptors(importPaths []string, files ...string) ([]*desc.FileDescriptor, error) {
	if len(importPaths) == 0 {
		importPaths = []string{"."}
	}
	parser := protoparse.Parser{ImportPaths: importPaths}
	fds, err := parser.ParseFiles(files...)
	if err != nil {
		return nil, fmt.Errorf("protobridge: parsing %v: %w", files, err)
	}
	return fds, nil
}
