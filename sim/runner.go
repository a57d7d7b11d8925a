package sim

import (
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/factory-sim/factory-sim/sim/trace"
)

// runContext carries the per-run mutable state every process touches: the
// kernel, the shared random stream, the machine pools, the counters and the
// trace sink. One context per run, never shared across runs.
type runContext struct {
	kernel   *Kernel
	rng      *rand.Rand
	pools    [NumStages]*MachinePool
	metrics  *Metrics
	sink     trace.Sink
	scenario *Scenario
}

func (c *runContext) record(r trace.Record) {
	if c.sink != nil {
		c.sink.Record(r)
	}
}

// Simulation is one in-progress scenario execution. A Simulation is built
// from a validated scenario, runs to the scenario's horizon (all at once or
// in steps), and yields a RunResult. It is a pure function of
// (configuration, seed, horizon): two Simulations built from the same
// scenario produce identical event sequences and results.
type Simulation struct {
	ctx     *runContext
	horizon float64
}

// NewSimulation validates the scenario and assembles a ready-to-run
// simulation: one machine pool and breakdown process per machine type, one
// arrival process per product type, and the shift cycle, registered in that
// order so process start order is fixed. sink may be nil.
func NewSimulation(sc *Scenario, sink trace.Sink) (*Simulation, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	ctx := &runContext{
		kernel:   NewKernel(),
		rng:      rand.New(rand.NewSource(sc.Seed)),
		metrics:  NewMetrics(),
		sink:     sink,
		scenario: sc,
	}
	for _, stage := range Stages {
		pool, err := NewMachinePool(ctx.kernel, stage.String(), sc.Machines[stage.String()].Count)
		if err != nil {
			return nil, err
		}
		ctx.pools[stage] = pool
	}

	for _, stage := range Stages {
		if err := newBreakdownProcess(ctx, stage, sc.Machines[stage.String()]).start(); err != nil {
			return nil, err
		}
	}
	for _, product := range sc.Products {
		if err := newArrivalProcess(ctx, product).start(); err != nil {
			return nil, err
		}
	}
	if err := newShiftProcess(ctx, sc.ShiftMinutes).start(); err != nil {
		return nil, err
	}

	logrus.Debugf("simulation assembled: %d products, horizon=%.0f min, seed=%d",
		len(sc.Products), sc.Horizon, sc.Seed)
	return &Simulation{ctx: ctx, horizon: sc.Horizon}, nil
}

// Now returns the current virtual time.
func (s *Simulation) Now() float64 {
	return s.ctx.kernel.Now()
}

// Horizon returns the virtual time at which the run stops dispatching.
func (s *Simulation) Horizon() float64 {
	return s.horizon
}

// Done reports whether the run has reached its horizon.
func (s *Simulation) Done() bool {
	return s.ctx.kernel.Now() >= s.horizon
}

// Step advances the run to min(until, horizon) and returns. Used by live
// observers to pace the run; Run is equivalent to Step(horizon).
func (s *Simulation) Step(until float64) error {
	if until > s.horizon {
		until = s.horizon
	}
	return s.ctx.kernel.RunUntil(until)
}

// Run drives the simulation to its horizon and returns the final result.
func (s *Simulation) Run() (RunResult, error) {
	if err := s.ctx.kernel.RunUntil(s.horizon); err != nil {
		return RunResult{}, err
	}
	return s.Result(), nil
}

// Result returns the counters accumulated so far. Final once Done.
func (s *Simulation) Result() RunResult {
	return s.ctx.metrics.Result()
}

// PoolState is a point-in-time snapshot of one machine pool.
type PoolState struct {
	Machine  string `json:"machine"`
	Capacity int    `json:"capacity"`
	InUse    int    `json:"inUse"`
	Waiting  int    `json:"waiting"`
}

// PoolStates snapshots every machine pool in stage order.
func (s *Simulation) PoolStates() []PoolState {
	out := make([]PoolState, 0, NumStages)
	for _, stage := range Stages {
		p := s.ctx.pools[stage]
		out = append(out, PoolState{
			Machine:  p.Name(),
			Capacity: p.Capacity(),
			InUse:    p.InUse(),
			Waiting:  p.Waiting(),
		})
	}
	return out
}

// RunScenario executes one scenario to its horizon. Convenience wrapper
// over NewSimulation + Run.
func RunScenario(sc *Scenario, sink trace.Sink) (RunResult, error) {
	sim, err := NewSimulation(sc, sink)
	if err != nil {
		return RunResult{}, err
	}
	return sim.Run()
}
