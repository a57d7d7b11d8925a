package sim

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// SweepCase is one combination of the batch sweep: a capacity configuration
// paired with a shift schedule, applied on top of the base scenario.
type SweepCase struct {
	Machines  map[string]int // per machine type capacity
	Operators map[string]int // per shift operator counts
}

// SweepResult pairs one case with its run outcome. A case whose derived
// scenario fails validation carries the error instead of a result; it never
// corrupts the other cases.
type SweepResult struct {
	Case   SweepCase
	Result RunResult
	Err    error
}

// Sweep runs the base scenario once per (capacities × schedules)
// combination and returns the results in combination order: capacities
// outer, schedules inner. Each case clones the base scenario, so runs share
// no state; workers > 1 executes cases in parallel without changing the
// result order.
func Sweep(base *Scenario, capacities []map[string]int, schedules []map[string]int, workers int) []SweepResult {
	cases := make([]SweepCase, 0, len(capacities)*len(schedules))
	for _, m := range capacities {
		for _, ops := range schedules {
			cases = append(cases, SweepCase{Machines: m, Operators: ops})
		}
	}
	results := make([]SweepResult, len(cases))

	if workers < 1 {
		workers = 1
	}
	logrus.Infof("sweep: %d cases (%d capacity configs × %d shift schedules), %d workers",
		len(cases), len(capacities), len(schedules), workers)

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, sc := range cases {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, sc SweepCase) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = runCase(base, sc)
		}(i, sc)
	}
	wg.Wait()
	return results
}

func runCase(base *Scenario, c SweepCase) SweepResult {
	sc := base.Clone()
	for name, count := range c.Machines {
		spec, ok := sc.Machines[name]
		if !ok {
			return SweepResult{Case: c, Err: fmt.Errorf("sweep case: unknown machine type %q", name)}
		}
		spec.Count = count
		sc.Machines[name] = spec
	}
	if c.Operators != nil {
		sc.Operators = c.Operators
	}
	result, err := RunScenario(sc, nil)
	return SweepResult{Case: c, Result: result, Err: err}
}
