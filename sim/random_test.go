package sim

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestRange_SampleInclusiveBounds(t *testing.T) {
	// GIVEN a small range and many draws
	rng := rand.New(rand.NewSource(1))
	r := Range{Min: 3, Max: 7}
	seen := make(map[int]bool)
	for i := 0; i < 10000; i++ {
		v := r.Sample(rng)
		if v < r.Min || v > r.Max {
			t.Fatalf("Sample out of bounds: got %d, want [%d, %d]", v, r.Min, r.Max)
		}
		seen[v] = true
	}

	// THEN both endpoints are reachable
	if !seen[r.Min] || !seen[r.Max] {
		t.Errorf("endpoints not drawn in 10000 samples: seen=%v", seen)
	}
}

func TestRange_SampleDegenerate(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	r := Range{Min: 5, Max: 5}
	for i := 0; i < 100; i++ {
		if v := r.Sample(rng); v != 5 {
			t.Fatalf("degenerate range draw: got %d, want 5", v)
		}
	}
}

func TestRange_Validate(t *testing.T) {
	tests := []struct {
		name    string
		r       Range
		wantErr bool
	}{
		{"valid", Range{Min: 1, Max: 3}, false},
		{"degenerate", Range{Min: 3, Max: 3}, false},
		{"zero", Range{Min: 0, Max: 0}, false},
		{"min above max", Range{Min: 4, Max: 2}, true},
		{"negative min", Range{Min: -1, Max: 2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.r.Validate("test")
			if tt.wantErr {
				var rerr *InvalidRangeError
				if !errors.As(err, &rerr) {
					t.Errorf("Validate(%+v): got %v, want InvalidRangeError", tt.r, err)
				}
			} else if err != nil {
				t.Errorf("Validate(%+v): unexpected error %v", tt.r, err)
			}
		})
	}
}

func TestExpDelay_MeanConverges(t *testing.T) {
	// GIVEN many exponential draws with mean 15
	rng := rand.New(rand.NewSource(42))
	const mean = 15.0
	sum := 0.0
	const n = 200000
	for i := 0; i < n; i++ {
		d := ExpDelay(rng, mean)
		if d < 0 {
			t.Fatalf("ExpDelay returned negative delay %g", d)
		}
		sum += d
	}

	// THEN the sample mean converges to the configured mean
	got := sum / n
	if math.Abs(got-mean) > 0.5 {
		t.Errorf("sample mean: got %g, want %g ± 0.5", got, mean)
	}
}

func TestSharedStream_SameSeedSameSequence(t *testing.T) {
	// GIVEN two streams with the same seed
	a := rand.New(rand.NewSource(7))
	b := rand.New(rand.NewSource(7))
	r := Range{Min: 1, Max: 10}

	// THEN interleaved draws of both kinds match exactly
	for i := 0; i < 100; i++ {
		if got, want := ExpDelay(a, 15), ExpDelay(b, 15); got != want {
			t.Fatalf("ExpDelay draw %d diverged: %g vs %g", i, got, want)
		}
		if got, want := r.Sample(a), r.Sample(b); got != want {
			t.Fatalf("Sample draw %d diverged: %d vs %d", i, got, want)
		}
	}
}
