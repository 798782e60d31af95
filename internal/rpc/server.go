package rpc

import (
	"net"

	"google.golang.org/grpc"

	"github.com/novalang/novac/internal/build"
	"github.com/novalang/novac/internal/config"
)

// Watcher implements CompileWatcherServer against a concrete project
// configuration, running a full build per Watch call. It deliberately has
// no persistent file-watching loop of its own (no fsnotify-style dependency
// is part of this project's stack); a caller that wants continuous
// rebuilds issues repeated Watch calls, each a fresh, independently
// cacheable build via internal/build and internal/buildcache.
type Watcher struct {
	baseCfg *config.Config
}

// NewWatcher constructs a Watcher whose builds start from baseCfg, with
// WatchRequest.RootDir overriding baseCfg.RootDir per call when set.
func NewWatcher(baseCfg *config.Config) *Watcher {
	return &Watcher{baseCfg: baseCfg}
}

// Watch runs one build and streams every resulting diagnostic, in the
// Result's already-sorted order, followed by one WatchComplete summarizing
// the run.
func (w *Watcher) Watch(req *WatchRequest, stream CompileWatcher_WatchServer) error {
	cfg := *w.baseCfg
	if req.RootDir != "" {
		cfg.RootDir = req.RootDir
	}

	driver := build.NewDriver(&cfg)
	result, err := driver.Build(stream.Context(), nil)
	if err != nil {
		return err
	}

	errCount := 0
	for _, d := range result.Diagnostics {
		if d.Category.String() == "error" {
			errCount++
		}
		if err := stream.Send(diagnosticFromInternal(d)); err != nil {
			return err
		}
	}
	return stream.Complete(&WatchComplete{
		BuildID:    result.BuildID,
		FileCount:  len(result.Files),
		ErrorCount: errCount,
	})
}

// NewServer constructs a *grpc.Server with CompileWatcher registered and
// the JSON codec forced, the way builtinGrpcServer builds a bare
// grpc.NewServer() before builtinGrpcRegister attaches a service to it.
func NewServer(w *Watcher) *grpc.Server {
	s := grpc.NewServer(grpc.ForceServerCodec(Codec))
	RegisterCompileWatcherServer(s, w)
	return s
}

// Serve listens on addr and blocks serving CompileWatcher until the
// listener errors or the server is stopped, mirroring builtinGrpcServe's
// net.Listen("tcp", addr) + server.Serve(lis).
func Serve(s *grpc.Server, addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(lis)
}

// ServeAsync starts Serve in a background goroutine and returns immediately,
// the way builtinGrpcServeAsync wraps server.Serve(lis) in a go func() so
// the caller's script can keep running. errc receives Serve's terminal
// error, if any, once the server stops.
func ServeAsync(s *grpc.Server, addr string) (errc <-chan error, err error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	ch := make(chan error, 1)
	go func() {
		ch <- s.Serve(lis)
	}()
	return ch, nil
}

// Stop gracefully drains in-flight Watch calls before returning, the way
// builtinGrpcStop calls server.GracefulStop() rather than Stop().
func Stop(s *grpc.Server) {
	s.GracefulStop()
}

// Dial opens a client connection to addr configured for CompileWatcher's
// JSON wire codec, the same grpc.NewClient(target,
// grpc.WithTransportCredentials(...)) shape builtinGrpcConnect uses.
func Dial(addr string, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	opts = append(opts,
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(CodecName)),
	)
	return grpc.NewClient(addr, opts...)
}
