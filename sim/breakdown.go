package sim

import "github.com/factory-sim/factory-sim/sim/trace"

// breakdownProcess models downtime for one machine type: it waits a drawn
// breakdown interval, then seizes one machine of that type for a drawn
// repair duration, and loops.
//
// The seizure goes through the same pool and FIFO discipline as production
// work, so when the pool is saturated the breakdown's announced time and
// its effective downtime window diverge: the breakdown "occurs" on
// schedule, but it removes a machine from productive use only once one
// frees up and the breakdown's claim reaches the head of the queue.
type breakdownProcess struct {
	run   *runContext
	stage Stage
	spec  MachineSpec
	claim *Claim
}

func newBreakdownProcess(run *runContext, stage Stage, spec MachineSpec) *breakdownProcess {
	return &breakdownProcess{run: run, stage: stage, spec: spec}
}

func (b *breakdownProcess) name() string {
	return "breakdown/" + b.stage.String()
}

// start schedules the first breakdown interval.
func (b *breakdownProcess) start() error {
	return b.scheduleNext()
}

func (b *breakdownProcess) scheduleNext() error {
	interval := b.spec.Breakdown.Sample(b.run.rng)
	return b.run.kernel.ScheduleAfter(b.name(), float64(interval), b.seize)
}

// seize contends for one machine of this type.
func (b *breakdownProcess) seize() error {
	claim, err := b.run.pools[b.stage].Request(b.name(), b.beginRepair)
	if err != nil {
		return err
	}
	b.claim = claim
	return nil
}

// beginRepair runs when the claim is granted: the machine is now down for
// the drawn repair duration.
func (b *breakdownProcess) beginRepair() error {
	b.run.record(trace.Record{
		Time:    b.run.kernel.Now(),
		Kind:    trace.KindBreakdown,
		Machine: b.stage.String(),
	})
	repair := b.spec.Repair.Sample(b.run.rng)
	return b.run.kernel.ScheduleAfter(b.name(), float64(repair), b.finishRepair)
}

// finishRepair returns the machine to productive use and loops.
func (b *breakdownProcess) finishRepair() error {
	if err := b.run.pools[b.stage].Release(b.claim); err != nil {
		return err
	}
	b.claim = nil
	b.run.record(trace.Record{
		Time:    b.run.kernel.Now(),
		Kind:    trace.KindRepairComplete,
		Machine: b.stage.String(),
	})
	return b.scheduleNext()
}
