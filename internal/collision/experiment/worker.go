package experiment

import (
	"fmt"
	"io"

	"github.com/kolkov/collision/internal/collision/counter"
	"github.com/kolkov/collision/internal/collision/pool"
)

// WorkerResult is the outcome of one worker task.
type WorkerResult struct {
	// Index is the worker's submission index.
	Index int

	// Iterations is the number of increments the worker performed.
	// Equal to Config.Iterations on normal completion.
	Iterations int32

	// Completed reports whether the task finished, normally or not.
	Completed bool

	// Err is set when the task failed.
	Err error
}

// newWorker returns a task that increments c cfg.Iterations times using
// the configured strategy, then prints an unguarded snapshot of c.
func newWorker(c *counter.Counter, cfg Config, out io.Writer) pool.Task {
	inc := cfg.Strategy.Incrementer()
	racy := cfg.Strategy.Racy()

	return func() (int32, error) {
		var i int32
		for ; i < cfg.Iterations; i++ {
			inc(c)
		}

		// Diagnostic only: not synchronized with the other workers.
		fmt.Fprintf(out, "%X, %t\n", c.Rev(), racy)
		return i, nil
	}
}
