package sim

import "fmt"

// arrivalProcess spawns pipeline units for one product type at
// exponentially distributed intervals. The generator never waits for a
// spawned unit: units run fully concurrently with the generator and with
// each other, interleaved by the kernel.
type arrivalProcess struct {
	run      *runContext
	product  ProductSpec
	nextUnit int
}

func newArrivalProcess(run *runContext, product ProductSpec) *arrivalProcess {
	return &arrivalProcess{run: run, product: product}
}

func (a *arrivalProcess) name() string {
	return "arrival/" + a.product.Name
}

// start schedules the first interarrival gap.
func (a *arrivalProcess) start() error {
	return a.scheduleNext()
}

func (a *arrivalProcess) scheduleNext() error {
	delay := ExpDelay(a.run.rng, a.product.MeanInterarrival)
	return a.run.kernel.ScheduleAfter(a.name(), delay, a.spawn)
}

// spawn consumes one raw material, launches an independent unit process
// with a fresh sequential id, and loops.
func (a *arrivalProcess) spawn() error {
	a.nextUnit++
	a.run.metrics.RawMaterialsUsed++
	unit := newUnitProcess(a.run, fmt.Sprintf("%s-%d", a.product.Name, a.nextUnit), a.product)
	if err := unit.start(); err != nil {
		return err
	}
	return a.scheduleNext()
}
