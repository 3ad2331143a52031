package pool

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// TestNew_Size tests pool sizing.
func TestNew_Size(t *testing.T) {
	tests := []struct {
		size int
		want int
	}{
		{-1, 1},
		{0, 1},
		{1, 1},
		{5, 5},
	}

	for _, tt := range tests {
		p := New(tt.size)
		if got := p.Size(); got != tt.want {
			t.Errorf("New(%d).Size() = %d, want %d", tt.size, got, tt.want)
		}
		p.Shutdown()
		p.AwaitTermination()
	}
}

// TestInvokeAll_SubmissionOrder tests that futures come back in order.
func TestInvokeAll_SubmissionOrder(t *testing.T) {
	p := New(4)
	defer p.Shutdown()

	tasks := make([]Task, 10)
	for i := range tasks {
		tasks[i] = func() (int32, error) {
			// Later tasks finish first.
			time.Sleep(time.Duration(len(tasks)-i) * time.Millisecond)
			return int32(i * 10), nil
		}
	}

	futures, err := p.InvokeAll(context.Background(), tasks)
	if err != nil {
		t.Fatalf("InvokeAll() error: %v", err)
	}
	if len(futures) != len(tasks) {
		t.Fatalf("got %d futures, want %d", len(futures), len(tasks))
	}

	for i, f := range futures {
		if !f.Done() {
			t.Errorf("future %d not done after InvokeAll", i)
		}
		if f.Index() != i {
			t.Errorf("future %d Index() = %d", i, f.Index())
		}
		v, err := f.Get()
		if err != nil {
			t.Errorf("future %d error: %v", i, err)
		}
		if v != int32(i*10) {
			t.Errorf("future %d value = %d, want %d", i, v, i*10)
		}
	}
}

// TestPool_BoundedConcurrency tests that at most Size tasks run at once.
func TestPool_BoundedConcurrency(t *testing.T) {
	const size = 3

	p := New(size)
	defer p.Shutdown()

	var running, peak atomic.Int32
	tasks := make([]Task, 12)
	for i := range tasks {
		tasks[i] = func() (int32, error) {
			n := running.Add(1)
			for {
				old := peak.Load()
				if n <= old || peak.CompareAndSwap(old, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			running.Add(-1)
			return 0, nil
		}
	}

	if _, err := p.InvokeAll(context.Background(), tasks); err != nil {
		t.Fatalf("InvokeAll() error: %v", err)
	}

	if got := peak.Load(); got > size {
		t.Errorf("peak concurrency = %d, want <= %d", got, size)
	}
}

// TestFuture_TaskError tests that returned errors pass through unchanged.
func TestFuture_TaskError(t *testing.T) {
	p := New(1)
	defer p.Shutdown()

	errBoom := errors.New("boom")
	f, err := p.Submit(func() (int32, error) { return 7, errBoom })
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}

	v, err := f.Get()
	if !errors.Is(err, errBoom) {
		t.Errorf("Get() error = %v, want %v", err, errBoom)
	}
	if v != 7 {
		t.Errorf("Get() value = %d, want 7", v)
	}
}

//go:noinline
func explode() (int32, error) {
	panic("worker exploded")
}

// TestFuture_Panic tests that a panicking task is recovered with a stack.
func TestFuture_Panic(t *testing.T) {
	p := New(2)
	defer p.Shutdown()

	futures, err := p.InvokeAll(context.Background(), []Task{
		func() (int32, error) { return 1, nil },
		explode,
	})
	if err != nil {
		t.Fatalf("InvokeAll() error: %v", err)
	}

	if v, err := futures[0].Get(); err != nil || v != 1 {
		t.Errorf("healthy task = (%d, %v), want (1, nil)", v, err)
	}

	_, err = futures[1].Get()
	var taskErr *TaskError
	if !errors.As(err, &taskErr) {
		t.Fatalf("Get() error = %v, want *TaskError", err)
	}
	if taskErr.Index != 1 {
		t.Errorf("Index = %d, want 1", taskErr.Index)
	}
	if got := taskErr.Error(); got != "task 1 panicked: worker exploded" {
		t.Errorf("Error() = %q", got)
	}
	if !strings.Contains(taskErr.Trace(), "explode") {
		t.Errorf("Trace() missing panicking function:\n%s", taskErr.Trace())
	}
	if !futures[1].Done() {
		t.Error("panicked future should be done")
	}
}

// TestTaskError_Unwrap tests unwrapping of error panic values.
func TestTaskError_Unwrap(t *testing.T) {
	err := &TaskError{Index: 0, Value: io.ErrUnexpectedEOF}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("errors.Is should see the panic value")
	}

	err = &TaskError{Index: 0, Value: "not an error"}
	if err.Unwrap() != nil {
		t.Error("Unwrap() should be nil for non-error values")
	}
}

// TestShutdown_RejectsSubmit tests that submits fail after shutdown.
func TestShutdown_RejectsSubmit(t *testing.T) {
	p := New(2)
	p.Shutdown()

	if _, err := p.Submit(func() (int32, error) { return 0, nil }); !errors.Is(err, ErrShutdown) {
		t.Errorf("Submit() error = %v, want %v", err, ErrShutdown)
	}

	_, err := p.InvokeAll(context.Background(), []Task{func() (int32, error) { return 0, nil }})
	if !errors.Is(err, ErrShutdown) {
		t.Errorf("InvokeAll() error = %v, want %v", err, ErrShutdown)
	}

	p.AwaitTermination()
}

// TestShutdown_DrainsQueue tests that queued tasks still run after shutdown.
func TestShutdown_DrainsQueue(t *testing.T) {
	p := New(1)

	release := make(chan struct{})
	var ran atomic.Int32
	var futures []*Future
	for i := 0; i < 5; i++ {
		f, err := p.Submit(func() (int32, error) {
			<-release
			ran.Add(1)
			return 0, nil
		})
		if err != nil {
			t.Fatalf("Submit() error: %v", err)
		}
		futures = append(futures, f)
	}

	p.Shutdown()
	close(release)
	p.AwaitTermination()

	if got := ran.Load(); got != 5 {
		t.Errorf("ran %d tasks, want 5", got)
	}
	for i, f := range futures {
		if !f.Done() {
			t.Errorf("future %d not done", i)
		}
	}
}

// TestSubmit_Nil tests rejection of nil tasks.
func TestSubmit_Nil(t *testing.T) {
	p := New(1)
	defer p.Shutdown()

	if _, err := p.Submit(nil); err == nil {
		t.Error("Submit(nil) should fail")
	}
}

// TestInvokeAll_Interrupted tests that a done context interrupts the wait
// without cancelling running tasks.
func TestInvokeAll_Interrupted(t *testing.T) {
	p := New(2)

	release := make(chan struct{})
	var finished sync.WaitGroup
	finished.Add(2)
	blocking := func() (int32, error) {
		defer finished.Done()
		<-release
		return 1, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	futures, err := p.InvokeAll(ctx, []Task{blocking, blocking})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("InvokeAll() error = %v, want %v", err, context.Canceled)
	}
	if len(futures) != 2 {
		t.Fatalf("got %d futures, want 2", len(futures))
	}
	for i, f := range futures {
		if f.Done() {
			t.Errorf("future %d done before release", i)
		}
	}

	close(release)
	finished.Wait()
	for i, f := range futures {
		if v, err := f.Get(); err != nil || v != 1 {
			t.Errorf("future %d = (%d, %v), want (1, nil)", i, v, err)
		}
	}

	p.Shutdown()
	p.AwaitTermination()
}
