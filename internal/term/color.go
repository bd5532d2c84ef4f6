// Package term colors CLI output and reports terminal properties.
//
// Colors are off when NO_COLOR is set (any value, https://no-color.org/),
// when Disable(true) was called for --no-color, or when stdout is not a
// terminal.
package term

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"unicode/utf8"
)

// SGR sequences.
const (
	reset  = "\x1b[0m"
	bold   = "\x1b[1m"
	dim    = "\x1b[2m"
	red    = "\x1b[31m"
	green  = "\x1b[32m"
	yellow = "\x1b[33m"
	cyan   = "\x1b[36m"
)

var (
	mu       sync.Mutex
	disabled bool

	detectOnce sync.Once
	noColor    bool
)

// Disable forces colors off. It cannot turn colors on when NO_COLOR is set
// or stdout is not a terminal.
func Disable(off bool) {
	mu.Lock()
	defer mu.Unlock()
	disabled = off
}

// Enabled reports whether output is colored.
func Enabled() bool {
	detectOnce.Do(func() {
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			noColor = true
			return
		}
		noColor = !IsTerminal(os.Stdout)
	})

	mu.Lock()
	defer mu.Unlock()
	return !disabled && !noColor
}

func wrap(code, s string) string {
	if !Enabled() {
		return s
	}
	return code + s + reset
}

// Green marks created files and successful runs.
func Green(s string) string { return wrap(green, s) }

// Red marks failures.
func Red(s string) string { return wrap(red, s) }

// Yellow marks overwrites and warnings.
func Yellow(s string) string { return wrap(yellow, s) }

// Dim marks skipped and ignored entries.
func Dim(s string) string { return wrap(dim, s) }

// Bold marks headers.
func Bold(s string) string { return wrap(bold, s) }

// Cyan marks aliases and paths.
func Cyan(s string) string { return wrap(cyan, s) }

func Greenf(format string, a ...any) string  { return Green(fmt.Sprintf(format, a...)) }
func Redf(format string, a ...any) string    { return Red(fmt.Sprintf(format, a...)) }
func Yellowf(format string, a ...any) string { return Yellow(fmt.Sprintf(format, a...)) }
func Dimf(format string, a ...any) string    { return Dim(fmt.Sprintf(format, a...)) }

// PadRight pads s to width visible runes before coloring it. fmt's %-Ns
// counts escape bytes, so colored columns must be padded this way.
func PadRight(s string, width int, color func(string) string) string {
	if n := utf8.RuneCountInString(s); n < width {
		s += strings.Repeat(" ", width-n)
	}
	return color(s)
}
