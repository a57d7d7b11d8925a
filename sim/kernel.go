package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Kernel owns the virtual clock and the time-ordered event queue. It is the
// only component that advances time: processes suspend by scheduling a
// continuation and are resumed when the kernel reaches their wake time.
//
// The kernel is logically single-threaded. At any instant exactly one
// continuation executes, and it runs to its next suspension point before
// another is resumed.
type Kernel struct {
	clock   float64
	queue   *eventQueue
	nextSeq uint64
}

// NewKernel creates a kernel with an empty queue and the clock at zero.
func NewKernel() *Kernel {
	return &Kernel{queue: newEventQueue()}
}

// Now returns the current virtual time in minutes.
func (k *Kernel) Now() float64 {
	return k.clock
}

// Pending returns the number of events waiting to be dispatched.
func (k *Kernel) Pending() int {
	return k.queue.len()
}

// ScheduleAfter suspends the named process for delay minutes: run is
// inserted at clock+delay and invoked when the clock reaches that time.
// A negative delay is a CausalityError.
func (k *Kernel) ScheduleAfter(process string, delay float64, run func() error) error {
	if delay < 0 {
		return &CausalityError{Now: k.clock, At: k.clock + delay, Process: process}
	}
	k.nextSeq++
	k.queue.schedule(&event{
		time:    k.clock + delay,
		seq:     k.nextSeq,
		process: process,
		run:     run,
	})
	return nil
}

// RunUntil dispatches events in order until the queue is empty or the next
// event's wake time exceeds horizon, then sets the clock to horizon.
// Processes still suspended at that point simply stop being resumed.
//
// The first continuation error aborts the run, wrapped with the virtual
// time and process identity at which it occurred. RunUntil may be called
// repeatedly with an increasing horizon to step a run incrementally.
func (k *Kernel) RunUntil(horizon float64) error {
	if horizon < k.clock {
		return &CausalityError{Now: k.clock, At: horizon, Process: "kernel"}
	}
	for k.queue.len() > 0 && k.queue.peek().time <= horizon {
		e := k.queue.popNext()
		if e.time < k.clock {
			// Unreachable given the ScheduleAfter guard and heap order;
			// kept as the clock-regression invariant check.
			return &CausalityError{Now: k.clock, At: e.time, Process: e.process}
		}
		k.clock = e.time
		logrus.Tracef("dispatch t=%.4f seq=%d process=%s", e.time, e.seq, e.process)
		if err := e.run(); err != nil {
			return fmt.Errorf("process %s failed at t=%.4f: %w", e.process, k.clock, err)
		}
	}
	k.clock = horizon
	return nil
}
