package counter

// Strategy selects how workers increment the shared counter.
type Strategy int

const (
	// Synchronized guards every increment with the counter's mutex.
	Synchronized Strategy = iota
	// Unsynchronized increments with no mutual exclusion.
	Unsynchronized
)

// UnsynchronizedArg is the command-line value that selects Unsynchronized.
const UnsynchronizedArg = "inc"

// FromArg maps the command-line argument to a strategy: "inc" selects
// Unsynchronized, every other value (including "") selects Synchronized.
func FromArg(arg string) Strategy {
	if arg == UnsynchronizedArg {
		return Unsynchronized
	}
	return Synchronized
}

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case Synchronized:
		return "synchronized"
	case Unsynchronized:
		return "unsynchronized"
	default:
		return "unknown"
	}
}

// Racy reports whether increments run without mutual exclusion.
func (s Strategy) Racy() bool {
	return s == Unsynchronized
}

// Incrementer returns the increment operation for the strategy.
func (s Strategy) Incrementer() func(*Counter) {
	if s.Racy() {
		return (*Counter).Inc
	}
	return (*Counter).SyncInc
}
