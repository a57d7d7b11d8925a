package sim

import "github.com/factory-sim/factory-sim/sim/trace"

// shiftProcess advances the staffing-period label every shift duration.
// It only emits observations: operator counts per shift are configured and
// reported, but nothing scales machine capacity by shift.
type shiftProcess struct {
	run     *runContext
	current Shift
	minutes float64
}

func newShiftProcess(run *runContext, minutes int) *shiftProcess {
	return &shiftProcess{run: run, current: ShiftDay, minutes: float64(minutes)}
}

func (s *shiftProcess) name() string {
	return "shift-cycle"
}

func (s *shiftProcess) start() error {
	return s.run.kernel.ScheduleAfter(s.name(), s.minutes, s.advance)
}

func (s *shiftProcess) advance() error {
	s.current = s.current.Next()
	s.run.record(trace.Record{
		Time:      s.run.kernel.Now(),
		Kind:      trace.KindShiftChange,
		Shift:     s.current.String(),
		Operators: s.run.scenario.Operators[s.current.String()],
	})
	return s.run.kernel.ScheduleAfter(s.name(), s.minutes, s.advance)
}
