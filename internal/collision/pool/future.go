package pool

import (
	"fmt"

	"github.com/kolkov/collision/internal/collision/stacktrace"
)

// Future is the pending result of a submitted Task.
type Future struct {
	index int
	task  Task
	done  chan struct{}

	// Written once by run before done is closed.
	value int32
	err   error
}

func newFuture(index int, task Task) *Future {
	return &Future{
		index: index,
		task:  task,
		done:  make(chan struct{}),
	}
}

// Index returns the task's submission index.
func (f *Future) Index() int {
	return f.index
}

// Done reports whether the task has finished, normally or by panic.
func (f *Future) Done() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Get blocks until the task finishes and returns its result.
func (f *Future) Get() (int32, error) {
	<-f.done
	return f.value, f.err
}

func (f *Future) run() {
	defer close(f.done)
	defer func() {
		if r := recover(); r != nil {
			f.value = 0
			f.err = &TaskError{
				Index: f.index,
				Value: r,
				Stack: stacktrace.Capture(1),
			}
		}
	}()

	f.value, f.err = f.task()
}

// TaskError reports a task that panicked.
//
// Stack is captured at the point of recovery and therefore includes the
// panicking frames.
type TaskError struct {
	Index int
	Value any
	Stack *stacktrace.Trace
}

// Error implements the error interface.
func (e *TaskError) Error() string {
	return fmt.Sprintf("task %d panicked: %v", e.Index, e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *TaskError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Trace returns the formatted stack of the panic.
func (e *TaskError) Trace() string {
	return e.Stack.Format()
}
