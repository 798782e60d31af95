package main

import (
	"os"
	"sync"

	"github.com/mattn/go-isatty"

	"github.com/novalang/novac/internal/diagnostics"
)

// colorEnabled caches whether stderr (where diagnostics print) is a real
// terminal that wants ANSI color, following the same NO_COLOR-env-var-first,
// isatty-second detection funxy's builtins_term.go uses for stdout —
// adapted here to stderr since that's where novac writes diagnostics.
var (
	colorOnce  sync.Once
	colorOnVal bool
)

func colorEnabled() bool {
	colorOnce.Do(func() {
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			colorOnVal = false
			return
		}
		fd := os.Stderr.Fd()
		colorOnVal = isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	})
	return colorOnVal
}

const (
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiDim    = "\x1b[2m"
	ansiReset  = "\x1b[0m"
)

// categoryColor returns the ANSI prefix for d's category, or "" when color
// is disabled.
func categoryColor(cat diagnostics.Category) string {
	if !colorEnabled() {
		return ""
	}
	switch cat {
	case diagnostics.CategoryError:
		return ansiRed
	case diagnostics.CategoryWarning:
		return ansiYellow
	default:
		return ansiDim
	}
}
