package appshell

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// Main runs a tool with a context cancelled on SIGINT/SIGTERM and exits
// with its code.
func Main(run func(context.Context, []string, io.Writer, io.Writer) int) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	// Normalize cancellation exit code.
	if ctx.Err() != nil && code == 0 {
		code = 130
	}

	stop()
	os.Exit(code)
}
