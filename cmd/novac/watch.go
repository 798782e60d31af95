package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/novalang/novac/internal/config"
	"github.com/novalang/novac/internal/rpc"
)

// runWatch parses "watch" subcommand flags by hand (no new CLI-parsing
// dependency; funxy's own cmd/funxy handlers walk os.Args the same
// way for their subcommands), loads the project config rooted at the
// current directory, and serves CompileWatcher until interrupted.
func runWatch(args []string) {
	addr := ":7070"
	rootDir := "."
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--addr":
			if i+1 < len(args) {
				i++
				addr = args[i]
			}
		case "--project":
			if i+1 < len(args) {
				i++
				rootDir = args[i]
			}
		}
	}

	cfg, _, err := config.FindAndLoad(rootDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "novac: loading config: %v\n", err)
		os.Exit(1)
	}
	cfg.RootDir = rootDir

	watcher := rpc.NewWatcher(cfg)
	server := rpc.NewServer(watcher)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigc
		fmt.Fprintln(os.Stderr, "novac: shutting down")
		rpc.Stop(server)
	}()

	fmt.Fprintf(os.Stderr, "novac: watching %s, serving CompileWatcher on %s\n", rootDir, addr)
	if err := rpc.Serve(server, addr); err != nil {
		fmt.Fprintf(os.Stderr, "novac: serve: %v\n", err)
		os.Exit(1)
	}
}
