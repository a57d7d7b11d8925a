package sim

import "fmt"

// CausalityError reports an attempt to schedule or dispatch an event at a
// virtual time earlier than the current clock. It is a programming-contract
// violation in the core, not bad input, and is fatal to the run.
type CausalityError struct {
	Now     float64 // clock value at the time of the violation
	At      float64 // the offending wake time
	Process string  // identity of the offending process
}

func (e *CausalityError) Error() string {
	return fmt.Sprintf("causality violation by %s: wake time t=%.4f is before clock t=%.4f",
		e.Process, e.At, e.Now)
}

// InvalidReleaseError reports a release of a machine claim that was never
// granted, was already released, or belongs to a different pool. Like
// CausalityError it signals a core bug and is fatal to the offending process.
type InvalidReleaseError struct {
	Pool   string
	Owner  string
	Reason string
}

func (e *InvalidReleaseError) Error() string {
	return fmt.Sprintf("invalid release on pool %s by %s: %s", e.Pool, e.Owner, e.Reason)
}

// InvalidRangeError reports a scenario configuration value outside its legal
// range (min > max, capacity < 1, non-positive mean, and so on). It is
// detected eagerly at scenario validation, before any event is scheduled,
// and is fatal for that scenario only.
type InvalidRangeError struct {
	Field  string
	Reason string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range for %s: %s", e.Field, e.Reason)
}
