package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweep_CartesianOrder(t *testing.T) {
	// GIVEN 2 capacity configs and 3 operator schedules
	base := shortScenario(42)
	capacities := []map[string]int{
		{"Machining": 4},
		{"Machining": 6},
	}
	schedules := []map[string]int{
		{"Day": 5, "Evening": 5, "Night": 5},
		{"Day": 10, "Evening": 10, "Night": 10},
		{"Day": 20, "Evening": 20, "Night": 20},
	}

	// WHEN the sweep runs
	results := Sweep(base, capacities, schedules, 1)

	// THEN there are 6 results in combination order: capacities outer,
	// schedules inner
	require.Len(t, results, 6)
	for i, r := range results {
		require.NoError(t, r.Err, "case %d", i)
		wantCapacity := capacities[i/len(schedules)]["Machining"]
		wantOps := schedules[i%len(schedules)]["Day"]
		assert.Equal(t, wantCapacity, r.Case.Machines["Machining"], "case %d capacity", i)
		assert.Equal(t, wantOps, r.Case.Operators["Day"], "case %d operators", i)
	}
}

func TestSweep_ParallelMatchesSequential(t *testing.T) {
	base := shortScenario(42)
	require.NotNil(t, base)
	sc := DefaultScenario()

	sequential := Sweep(base, sc.Sweep.Machines, sc.Sweep.Operators, 1)
	parallel := Sweep(base, sc.Sweep.Machines, sc.Sweep.Operators, 4)

	require.Len(t, parallel, len(sequential))
	for i := range sequential {
		require.NoError(t, sequential[i].Err)
		require.NoError(t, parallel[i].Err)
		assert.Equal(t, sequential[i].Result, parallel[i].Result, "case %d", i)
	}
}

func TestSweep_CaseErrorIsIsolated(t *testing.T) {
	// GIVEN a sweep where the middle capacity config is invalid
	base := shortScenario(42)
	capacities := []map[string]int{
		{"Machining": 4},
		{"Machining": 0}, // capacity below 1 fails validation
		{"Painting": 3},  // unknown machine type
	}
	schedules := []map[string]int{
		{"Day": 10, "Evening": 10, "Night": 10},
	}

	// WHEN the sweep runs
	results := Sweep(base, capacities, schedules, 2)

	// THEN the bad cases carry errors and the good case still completed
	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.NotZero(t, results[0].Result.RawMaterialsUsed)
	assert.Error(t, results[1].Err)
	assert.Error(t, results[2].Err)
}

func TestSweep_MoreMachinesReduceQueueing(t *testing.T) {
	// GIVEN the same seed run with a starved line and a generous line
	base := shortScenario(42)
	base.Horizon = 2 * 8 * 60
	starved := map[string]int{"Machining": 1, "Assembly": 1, "QualityControl": 1, "Packaging": 1}
	generous := map[string]int{"Machining": 8, "Assembly": 10, "QualityControl": 6, "Packaging": 4}

	results := Sweep(base, []map[string]int{starved, generous}, []map[string]int{base.Operators}, 1)
	require.Len(t, results, 2)
	require.NoError(t, results[0].Err)
	require.NoError(t, results[1].Err)

	// THEN the generous line waits less at the bottleneck stage
	starvedWait := results[0].Result.StageWaits[StageAssembly].Mean()
	generousWait := results[1].Result.StageWaits[StageAssembly].Mean()
	assert.LessOrEqual(t, generousWait, starvedWait,
		"mean assembly wait should not grow with more machines")
}

func TestSweep_CasesDoNotMutateBase(t *testing.T) {
	base := shortScenario(42)
	capacities := []map[string]int{{"Machining": 1}}
	schedules := []map[string]int{{"Day": 1, "Evening": 1, "Night": 1}}

	_ = Sweep(base, capacities, schedules, 1)

	assert.Equal(t, 5, base.Machines["Machining"].Count, "sweep mutated the base scenario")
	assert.Equal(t, 20, base.Operators["Day"], "sweep mutated the base operators")
}
