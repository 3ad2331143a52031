// Package stacktrace captures and formats call stacks for failure dumps.
//
// A Trace holds raw program counters captured with runtime.Callers and is
// only symbolized when formatted, so capturing inside a deferred recover
// stays cheap even when nothing ends up being printed.
//
// Usage:
//
//	defer func() {
//		if r := recover(); r != nil {
//			trace := stacktrace.Capture(1)
//			fmt.Fprint(os.Stderr, trace.Format())
//		}
//	}()
package stacktrace

import (
	"fmt"
	"runtime"
	"strings"
)

// MaxFrames is the maximum number of stack frames captured per trace.
const MaxFrames = 32

// Trace is a captured call stack.
type Trace struct {
	pcs []uintptr
}

// Capture records the stack of the calling goroutine.
//
// skip is the number of frames to omit above the caller of Capture:
// 0 starts the trace at the caller itself.
//
// Thread Safety: Safe for concurrent calls.
func Capture(skip int) *Trace {
	var pcs [MaxFrames]uintptr
	// Skip runtime.Callers and Capture.
	n := runtime.Callers(skip+2, pcs[:])
	return &Trace{pcs: append([]uintptr(nil), pcs[:n]...)}
}

// Len returns the number of captured frames.
func (t *Trace) Len() int {
	if t == nil {
		return 0
	}
	return len(t.pcs)
}

// Format renders the trace in the layout used by Go's own traceback:
//
//	main.worker()
//	    /path/to/file.go:45
//
// Runtime internal frames (panic machinery, goexit) are left out.
func (t *Trace) Format() string {
	if t.Len() == 0 {
		return "  <unknown>\n"
	}

	frames := runtime.CallersFrames(t.pcs)

	var buf strings.Builder
	for {
		frame, more := frames.Next()
		if frame.PC == 0 {
			break
		}

		if !strings.HasPrefix(frame.Function, "runtime.") {
			fmt.Fprintf(&buf, "  %s()\n", frame.Function)
			fmt.Fprintf(&buf, "      %s:%d\n", frame.File, frame.Line)
		}

		if !more {
			break
		}
	}

	if buf.Len() == 0 {
		return "  <runtime internal>\n"
	}
	return buf.String()
}

// String implements fmt.Stringer.
func (t *Trace) String() string {
	return t.Format()
}
