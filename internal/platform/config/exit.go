package config

import (
	"fmt"
	"io"
	"os"
)

// ExitUsage is the exit code for invalid command-line usage.
const ExitUsage = 2

var (
	stderr io.Writer = os.Stderr
	exit             = os.Exit
)

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	ExitCodef(1, format, args...)
}

// ExitCodef writes a formatted error message to stderr and exits with code.
func ExitCodef(code int, format string, args ...any) {
	fmt.Fprintf(stderr, format+"\n", args...)
	exit(code)
}
