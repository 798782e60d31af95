package rpc

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"github.com/novalang/novac/internal/config"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func startTestServer(t *testing.T, w *Watcher) (*grpc.ClientConn, func()) {
	t.Helper()
	lis := bufconn.Listen(1024 * 1024)
	s := NewServer(w)
	go func() { _ = s.Serve(lis) }()

	dialer := func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	}
	cc, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(dialer),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(CodecName)),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return cc, func() {
		_ = cc.Close()
		Stop(s)
	}
}

func TestWatchStreamsDiagnosticsThenCompletes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.ts"), `const x: number = "oops";`)

	cfg := config.Default()
	cfg.RootDir = dir
	w := NewWatcher(cfg)

	cc, closeAll := startTestServer(t, w)
	defer closeAll()

	client := NewCompileWatcherClient(cc)
	stream, err := client.Watch(context.Background(), &WatchRequest{})
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}

	var diags []*Diagnostic
	var complete *WatchComplete
	for {
		d, c, err := stream.Recv()
		if err != nil {
			t.Fatalf("Recv: %v", err)
		}
		if c != nil {
			complete = c
			break
		}
		diags = append(diags, d)
	}

	if complete == nil {
		t.Fatalf("expected a terminal WatchComplete message")
	}
	if complete.BuildID == "" {
		t.Fatalf("expected a non-empty build id")
	}
	if complete.FileCount != 1 {
		t.Fatalf("expected 1 file checked, got %d", complete.FileCount)
	}
	if len(diags) == 0 {
		t.Fatalf("expected at least one diagnostic for the type mismatch")
	}
	if complete.ErrorCount != len(diags) {
		t.Fatalf("expected ErrorCount (%d) to match streamed diagnostic count (%d)", complete.ErrorCount, len(diags))
	}
}

func TestWatchHonorsRequestRootDirOverride(t *testing.T) {
	baseDir := t.TempDir()
	overrideDir := t.TempDir()
	writeFile(t, filepath.Join(overrideDir, "ok.ts"), `export const fine: number = 1;`)

	cfg := config.Default()
	cfg.RootDir = baseDir
	w := NewWatcher(cfg)

	cc, closeAll := startTestServer(t, w)
	defer closeAll()

	client := NewCompileWatcherClient(cc)
	stream, err := client.Watch(context.Background(), &WatchRequest{RootDir: overrideDir})
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}

	var complete *WatchComplete
	for complete == nil {
		_, c, err := stream.Recv()
		if err != nil {
			t.Fatalf("Recv: %v", err)
		}
		complete = c
	}
	if complete.FileCount != 1 {
		t.Fatalf("expected the override root's single file to be built, got FileCount=%d", complete.FileCount)
	}
	if complete.ErrorCount != 0 {
		t.Fatalf("expected no errors for a well-typed file, got %d", complete.ErrorCount)
	}
}
