package sim

// StageWait aggregates waiting-time observations for one stage: how many
// grants were recorded, the total and the worst wait in minutes.
type StageWait struct {
	Count int64
	Total float64
	Max   float64
}

func (w *StageWait) observe(v float64) {
	w.Count++
	w.Total += v
	if v > w.Max {
		w.Max = v
	}
}

// Mean returns the average wait, or 0 before any observation.
func (w StageWait) Mean() float64 {
	if w.Count == 0 {
		return 0
	}
	return w.Total / float64(w.Count)
}

// Metrics holds the counters for a single run. Every run owns its own
// Metrics instance, passed through the run context rather than living in
// process-wide globals, so independent runs can execute in parallel.
type Metrics struct {
	Produced         int64
	RawMaterialsUsed int64
	StageWaits       [NumStages]StageWait
}

// NewMetrics creates zeroed counters for one run.
func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) observeWait(stage Stage, waited float64) {
	m.StageWaits[stage].observe(waited)
}

// Result freezes the counters into the run's final result.
func (m *Metrics) Result() RunResult {
	return RunResult{
		Produced:         m.Produced,
		RawMaterialsUsed: m.RawMaterialsUsed,
		StageWaits:       m.StageWaits,
	}
}

// RunResult is the outcome of one scenario run: units completing the final
// stage, raw materials consumed by arrivals, and per-stage waiting-time
// aggregates. Units still mid-pipeline at the horizon are abandoned and do
// not count as produced.
type RunResult struct {
	Produced         int64
	RawMaterialsUsed int64
	StageWaits       [NumStages]StageWait
}
