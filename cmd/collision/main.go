// Package main implements the collision command.
//
// collision races a pool of workers on one shared counter and reports
// whether any increments were lost:
//
//	collision inc     # unsynchronized increments
//	collision sync    # mutex-guarded increments (any value but "inc")
//
// Without exactly one argument it prints usage and exits without running.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"

	"github.com/kolkov/collision/collision"
	"github.com/kolkov/collision/internal/collision/experiment"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	strategy, err := experiment.ParseArgs(args)
	if errors.Is(err, experiment.ErrUsage) {
		printUsage(stdout)
		return 0
	}

	cfg := experiment.NewConfig(runtime.GOMAXPROCS(0), strategy)
	if _, err := experiment.New(cfg, stdout, stderr).Run(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "collision %s\n", collision.BuildVersion())
	fmt.Fprintln(w, experiment.Usage)
}
