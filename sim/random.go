package sim

import (
	"fmt"
	"math/rand"
)

// All stochastic draws in a run consume a single shared *rand.Rand seeded
// once at run construction, so a fixed seed reproduces the identical event
// sequence end-to-end.

// ExpDelay returns an exponentially distributed delay with the given mean,
// in minutes. Used for raw-material interarrival gaps (memoryless stream).
func ExpDelay(rng *rand.Rand, mean float64) float64 {
	return rng.ExpFloat64() * mean
}

// Range is a closed integer interval [Min, Max]; draws are inclusive of
// both ends. Used for processing durations, breakdown intervals and repair
// durations, all in minutes.
type Range struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Sample draws uniformly from [Min, Max].
func (r Range) Sample(rng *rand.Rand) int {
	if r.Min >= r.Max {
		return r.Min
	}
	return r.Min + rng.Intn(r.Max-r.Min+1)
}

// Validate checks the range at scenario construction; draws never fail.
func (r Range) Validate(field string) error {
	if r.Min < 0 {
		return &InvalidRangeError{Field: field, Reason: fmt.Sprintf("min must be non-negative, got %d", r.Min)}
	}
	if r.Min > r.Max {
		return &InvalidRangeError{Field: field, Reason: fmt.Sprintf("min %d exceeds max %d", r.Min, r.Max)}
	}
	return nil
}
