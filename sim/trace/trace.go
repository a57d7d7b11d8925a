// Package trace records virtual-time-stamped observations of a simulation
// run: arrivals, stage entries with waiting time, completions, breakdowns,
// repairs and shift changes. Tracing is observability plumbing on top of
// the core; a run with a nil sink records nothing and behaves identically.
package trace

import (
	"fmt"
	"io"
)

// Kind tags a record by event family.
type Kind string

const (
	KindArrival        Kind = "arrival"
	KindStageEntry     Kind = "stage_entry"
	KindCompletion     Kind = "completion"
	KindBreakdown      Kind = "breakdown"
	KindRepairComplete Kind = "repair_complete"
	KindShiftChange    Kind = "shift_change"
)

// Record is one observation. Only the fields relevant to its Kind are set.
type Record struct {
	Time      float64 `json:"time"`
	Kind      Kind    `json:"kind"`
	Unit      string  `json:"unit,omitempty"`
	Product   string  `json:"product,omitempty"`
	Stage     string  `json:"stage,omitempty"`
	Machine   string  `json:"machine,omitempty"`
	Shift     string  `json:"shift,omitempty"`
	Waited    float64 `json:"waited,omitempty"`
	Operators int     `json:"operators,omitempty"`
}

// String renders the record as a human-readable trace line.
func (r Record) String() string {
	switch r.Kind {
	case KindArrival:
		return fmt.Sprintf("%.2f: %s (%s) entered the production line", r.Time, r.Unit, r.Product)
	case KindStageEntry:
		return fmt.Sprintf("%.2f: %s (%s) at %s, waited %.2f min", r.Time, r.Unit, r.Product, r.Stage, r.Waited)
	case KindCompletion:
		return fmt.Sprintf("%.2f: %s (%s) finished production", r.Time, r.Unit, r.Product)
	case KindBreakdown:
		return fmt.Sprintf("%.2f: machine breakdown in %s", r.Time, r.Machine)
	case KindRepairComplete:
		return fmt.Sprintf("%.2f: %s machine repaired", r.Time, r.Machine)
	case KindShiftChange:
		return fmt.Sprintf("%.2f: shift changed to %s (%d operators)", r.Time, r.Shift, r.Operators)
	default:
		return fmt.Sprintf("%.2f: %s", r.Time, r.Kind)
	}
}

// Sink receives records as the run progresses.
type Sink interface {
	Record(Record)
}

// Trace is an in-memory Sink that keeps every record in order.
type Trace struct {
	Records []Record
}

// New creates an empty in-memory trace.
func New() *Trace {
	return &Trace{Records: make([]Record, 0)}
}

// Record appends r to the trace.
func (t *Trace) Record(r Record) {
	t.Records = append(t.Records, r)
}

// Writer is a Sink that renders each record as a line on an io.Writer.
type Writer struct {
	W io.Writer
}

// Record writes r as a human-readable line. Write errors are ignored; a
// failing trace sink must not perturb the run.
func (w Writer) Record(r Record) {
	fmt.Fprintln(w.W, r.String())
}

// Func adapts a function to the Sink interface.
type Func func(Record)

// Record invokes the function.
func (f Func) Record(r Record) {
	f(r)
}

// Multi fans records out to several sinks in order.
type Multi []Sink

// Record forwards r to every sink.
func (m Multi) Record(r Record) {
	for _, s := range m {
		s.Record(r)
	}
}
