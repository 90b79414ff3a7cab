// Command goxmi loads XMI exports and inspects, converts or serves the
// resulting UML document graph.
package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"

	"github.com/umlkit/goxmi/cmd/internal/cliutil"
)

// Exit codes.
const (
	exitOK     = 0 // success
	exitError  = 1 // user error, processing failure, or severe diagnostic
	exitIssues = 2 // lint found issues at or above the failure threshold
)

// exitCodeError carries a non-zero exit code out of a command.
type exitCodeError struct {
	code int
	err  error
}

func (e *exitCodeError) Error() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

func (e *exitCodeError) Unwrap() error { return e.err }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	var exitErr *exitCodeError
	if errors.As(err, &exitErr) {
		if exitErr.err != nil {
			cliutil.PrintError(stderr, "%v", exitErr.err)
		}
		return exitErr.code
	}
	cliutil.PrintError(stderr, "%v", err)
	return exitError
}
