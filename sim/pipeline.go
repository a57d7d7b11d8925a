package sim

import "github.com/factory-sim/factory-sim/sim/trace"

// unitProcess moves one product unit through the fixed stage sequence. It
// is a resumable state machine: each step either waits on a machine grant
// or on a timed hold, and the kernel resumes it through the continuations
// stored with those suspensions.
//
// The lifecycle per stage is: request the stage's pool; on grant record the
// waiting time and hold the machine for a drawn processing duration; on
// expiry release the machine and advance. After the last stage the unit is
// complete and the run's produced counter increments. There is no retry or
// abort path: every unit either completes or is abandoned mid-pipeline when
// the run reaches its horizon.
type unitProcess struct {
	run     *runContext
	name    string // e.g. "ProductA-3"
	product ProductSpec

	stageIdx      int
	enteredWaitAt float64
	claim         *Claim
}

func newUnitProcess(run *runContext, name string, product ProductSpec) *unitProcess {
	return &unitProcess{run: run, name: name, product: product}
}

// start announces the unit and begins waiting for the first stage.
func (u *unitProcess) start() error {
	u.run.record(trace.Record{
		Time:    u.run.kernel.Now(),
		Kind:    trace.KindArrival,
		Unit:    u.name,
		Product: u.product.Name,
	})
	return u.requestStage()
}

// requestStage suspends the unit until the current stage's pool grants it a
// machine. The grant may be synchronous when capacity is free.
func (u *unitProcess) requestStage() error {
	u.enteredWaitAt = u.run.kernel.Now()
	stage := Stages[u.stageIdx]
	claim, err := u.run.pools[stage].Request(u.name, u.enterStage)
	if err != nil {
		return err
	}
	u.claim = claim
	return nil
}

// enterStage runs when the stage grant arrives: it records the wait and
// holds the machine for the drawn processing duration.
func (u *unitProcess) enterStage() error {
	stage := Stages[u.stageIdx]
	now := u.run.kernel.Now()
	waited := now - u.enteredWaitAt
	u.run.metrics.observeWait(stage, waited)
	u.run.record(trace.Record{
		Time:    now,
		Kind:    trace.KindStageEntry,
		Unit:    u.name,
		Product: u.product.Name,
		Stage:   stage.String(),
		Waited:  waited,
	})
	duration := u.product.ProcessingFor(stage).Sample(u.run.rng)
	return u.run.kernel.ScheduleAfter(u.name, float64(duration), u.exitStage)
}

// exitStage releases the machine and advances to the next stage, or
// completes the unit after Packaging.
func (u *unitProcess) exitStage() error {
	stage := Stages[u.stageIdx]
	if err := u.run.pools[stage].Release(u.claim); err != nil {
		return err
	}
	u.claim = nil
	u.stageIdx++
	if u.stageIdx < NumStages {
		return u.requestStage()
	}
	u.run.metrics.Produced++
	u.run.record(trace.Record{
		Time:    u.run.kernel.Now(),
		Kind:    trace.KindCompletion,
		Unit:    u.name,
		Product: u.product.Name,
	})
	return nil
}
