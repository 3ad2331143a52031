// Package experiment runs the lost-update experiment: a fixed pool of
// workers increments one shared counter with the selected strategy, and the
// final value is checked against the number of increments performed.
//
// A run moves through Configuring → Spawning → Running → Awaiting-All →
// Verifying → Terminated. Every transition is unconditional; a failing
// worker or an interrupted wait is dumped to stderr and the run still goes
// on to shut the pool down and verify whatever the counter holds.
//
// Output goes to the writers given to New:
//
//	starting 10 workers, each counting to CCCCCCC.
//	CCCCCCC, false
//	...
//	worker 0 counted to CCCCCCC and done = true.
//	...
//	yea got 7FFFFFF8!
package experiment

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/kolkov/collision/internal/collision/counter"
	"github.com/kolkov/collision/internal/collision/pool"
	"github.com/kolkov/collision/internal/collision/stacktrace"
)

// Result is the outcome of a run.
type Result struct {
	Config Config

	// Workers holds one result per worker in submission order.
	Workers []WorkerResult

	// Observed is the final counter value.
	Observed int32

	// Expected is Config.Expected().
	Expected int64

	// Matched reports Observed == Expected.
	Matched bool
}

// Lost returns how many increments are missing from the counter.
func (r *Result) Lost() int64 {
	return r.Expected - int64(r.Observed)
}

// Failed returns the workers that did not finish normally.
func (r *Result) Failed() []WorkerResult {
	var failed []WorkerResult
	for _, w := range r.Workers {
		if !w.Completed || w.Err != nil {
			failed = append(failed, w)
		}
	}
	return failed
}

// Experiment is a single-shot run over one shared counter.
type Experiment struct {
	cfg     Config
	counter *counter.Counter
	stdout  io.Writer
	stderr  io.Writer

	// newTask builds the task for worker i. Replaced in tests.
	newTask func(i int) pool.Task
}

// New prepares a run of cfg over a fresh counter.
func New(cfg Config, stdout, stderr io.Writer) *Experiment {
	e := &Experiment{
		cfg:     cfg,
		counter: counter.New(),
		stdout:  newLockedWriter(stdout),
		stderr:  newLockedWriter(stderr),
	}
	e.newTask = func(int) pool.Task {
		return newWorker(e.counter, e.cfg, e.stdout)
	}
	return e
}

// Counter returns the shared counter of the run.
func (e *Experiment) Counter() *counter.Counter {
	return e.counter
}

// Run executes the experiment once.
//
// ctx only interrupts the wait for the workers; tasks already submitted
// are never cancelled. The returned error is non-nil only when the Config
// is invalid, in which case no worker is started. A mismatch between
// observed and expected values is reported in the Result, not as an error.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}

	fmt.Fprintf(e.stdout, "starting %d workers, each counting to %X.\n", e.cfg.Workers, e.cfg.Iterations)

	tasks := make([]pool.Task, e.cfg.Workers)
	for i := range tasks {
		tasks[i] = e.newTask(i)
	}

	p := pool.New(e.cfg.Workers)
	futures, err := p.InvokeAll(ctx, tasks)
	if err != nil {
		e.dump(err, stacktrace.Capture(0))
	}

	workers := e.collect(futures)
	p.Shutdown()

	return e.verify(workers), nil
}

// collect gathers one result per worker in submission order and prints it.
// Futures that are missing or not done are reported as incomplete; failed
// workers are additionally dumped to stderr.
func (e *Experiment) collect(futures []*pool.Future) []WorkerResult {
	results := make([]WorkerResult, e.cfg.Workers)
	for i := range results {
		results[i].Index = i
		if i >= len(futures) || !futures[i].Done() {
			fmt.Fprintf(e.stdout, "worker %d counted to %X and done = %t.\n", i, 0, false)
			continue
		}

		n, err := futures[i].Get()
		results[i].Iterations = n
		results[i].Completed = true
		results[i].Err = err
		if err != nil {
			e.dumpWorker(i, err)
		}
		fmt.Fprintf(e.stdout, "worker %d counted to %X and done = %t.\n", i, n, true)
	}
	return results
}

// verify reads the counter once, unguarded, and reports the outcome.
func (e *Experiment) verify(workers []WorkerResult) *Result {
	r := &Result{
		Config:   e.cfg,
		Workers:  workers,
		Observed: e.counter.Rev(),
		Expected: e.cfg.Expected(),
	}
	r.Matched = int64(r.Observed) == r.Expected

	if r.Matched {
		fmt.Fprintf(e.stdout, "yea got %X!\n", r.Observed)
	} else {
		fmt.Fprintf(e.stdout, "got rev = %X, want %X.\n", r.Observed, r.Expected)
	}
	return r
}

func (e *Experiment) dumpWorker(i int, err error) {
	var trace *stacktrace.Trace
	var taskErr *pool.TaskError
	if errors.As(err, &taskErr) {
		trace = taskErr.Stack
	}
	e.dump(fmt.Errorf("worker %d: %w", i, err), trace)
}

func (e *Experiment) dump(err error, trace *stacktrace.Trace) {
	fmt.Fprintf(e.stderr, "collision: %v\n", err)
	if trace != nil {
		fmt.Fprint(e.stderr, trace.Format())
	}
}
