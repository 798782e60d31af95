// Command novac is the batch type checker's CLI entry point: by default it
// loads novac.yaml (if any), runs one build over the project, prints every
// diagnostic, and exits non-zero on error — the same "load config, run the
// pipeline once, report" shape as funxy's cmd/funxy runPipeline, minus
// funxy's script-execution/bundling machinery this project has no use
// for. A "watch" subcommand instead serves internal/rpc's CompileWatcher
// over gRPC so editors/CI dashboards can request builds remotely.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/novalang/novac/internal/build"
	"github.com/novalang/novac/internal/config"
	"github.com/novalang/novac/internal/diagnostics"
)

func main() {
	// Catch panics and print a short message instead of a raw stack trace,
	// the same DEBUG-env-var escape hatch funxy's cmd/funxy main()
	// uses to re-panic for a real stack trace during development.
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "internal error: %v\n", r)
			os.Exit(1)
		}
	}()

	args := os.Args[1:]
	if len(args) > 0 {
		switch args[0] {
		case "-help", "--help", "help":
			printUsage()
			return
		case "watch":
			runWatch(args[1:])
			return
		}
	}
	os.Exit(runBuild(args))
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage:
  %[1]s [project-dir]        run one build and print its diagnostics
  %[1]s watch [--addr host:port]
                             serve CompileWatcher over gRPC, building on request
  %[1]s --help               show this message
`, os.Args[0])
}

// runBuild loads a project's config (defaulting to the current directory,
// or args[0] if given), runs one build, prints every diagnostic to stderr
// and a one-line summary to stdout, and returns the process exit code.
func runBuild(args []string) int {
	rootDir := "."
	if len(args) > 0 {
		rootDir = args[0]
	}

	cfg, _, err := config.FindAndLoad(rootDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "novac: loading config: %v\n", err)
		return 1
	}
	if len(args) > 0 {
		cfg.RootDir = rootDir
	}

	driver := build.NewDriver(cfg)
	result, err := driver.Build(context.Background(), nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "novac: build failed: %v\n", err)
		return 1
	}

	printDiagnostics(result.Diagnostics)
	fmt.Println(result.Summary())

	for _, d := range result.Diagnostics {
		if d.Category == diagnostics.CategoryError {
			return 1
		}
	}
	return 0
}

func printDiagnostics(diags []*diagnostics.Diagnostic) {
	for _, d := range diags {
		color := categoryColor(d.Category)
		if color == "" {
			fmt.Fprintln(os.Stderr, d.Error())
			continue
		}
		fmt.Fprintf(os.Stderr, "%s%s%s\n", color, d.Error(), ansiReset)
	}
}
