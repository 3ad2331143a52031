package experiment

import (
	"errors"
	"fmt"

	"github.com/kolkov/collision/internal/collision/counter"
)

// Usage is printed when the argument count is wrong.
const Usage = "1 argument is required. 'inc' will be unsynchronised, anything else will be synchronised."

var (
	// ErrUsage reports a command line without exactly one argument.
	ErrUsage = errors.New("exactly one argument is required")

	// ErrInvalidConfig reports a Config that cannot run safely.
	ErrInvalidConfig = errors.New("invalid experiment config")
)

// Config holds the constants of a run. It is computed once at startup and
// never modified afterwards.
type Config struct {
	// Workers is the number of concurrent worker tasks and the pool size.
	Workers int

	// Iterations is the number of increments each worker performs.
	Iterations int32

	// Strategy selects guarded or unguarded increments.
	Strategy counter.Strategy
}

// ParseArgs selects the increment strategy from the command-line
// arguments (program name excluded). Anything but exactly one argument
// yields ErrUsage.
func ParseArgs(args []string) (counter.Strategy, error) {
	if len(args) != 1 {
		return counter.Synchronized, fmt.Errorf("got %d arguments: %w", len(args), ErrUsage)
	}
	return counter.FromArg(args[0]), nil
}

// NewConfig derives the run constants from the available hardware
// parallelism.
//
// Workers oversubscribes the CPUs by a quarter, floor(parallelism × 1.25)
// and at least 1, to increase interleaving. Iterations is chosen so that
// Workers × Iterations stays below the counter's range with a margin of 2.
func NewConfig(parallelism int, strategy counter.Strategy) Config {
	workers := max(parallelism*5/4, 1)
	return Config{
		Workers:    workers,
		Iterations: int32((counter.MaxRev - 2) / workers),
		Strategy:   strategy,
	}
}

// Expected returns the counter value a run ends with when no update is
// lost.
func (c Config) Expected() int64 {
	return int64(c.Workers) * int64(c.Iterations)
}

// Validate checks that the run fits the counter's range.
func (c Config) Validate() error {
	switch {
	case c.Workers < 1:
		return fmt.Errorf("%w: workers = %d, want >= 1", ErrInvalidConfig, c.Workers)
	case c.Iterations < 0:
		return fmt.Errorf("%w: iterations = %d, want >= 0", ErrInvalidConfig, c.Iterations)
	case c.Expected() > counter.MaxRev:
		return fmt.Errorf("%w: %d workers × %d iterations overflows the counter",
			ErrInvalidConfig, c.Workers, c.Iterations)
	}
	return nil
}
