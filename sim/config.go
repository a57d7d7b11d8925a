package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ProductSpec describes one product type: how often raw material for it
// arrives, and how long each stage takes to process one unit.
type ProductSpec struct {
	Name             string           `yaml:"name"`
	MeanInterarrival float64          `yaml:"mean_interarrival"` // minutes, exponential mean
	Processing       map[string]Range `yaml:"processing"`        // keyed by stage name
}

// ProcessingFor returns the processing-time range for the given stage.
func (p ProductSpec) ProcessingFor(stage Stage) Range {
	return p.Processing[stage.String()]
}

// MachineSpec describes one machine type: how many identical machines the
// pool holds and the breakdown/repair behavior of the type.
type MachineSpec struct {
	Count     int   `yaml:"count"`
	Breakdown Range `yaml:"breakdown"` // minutes between breakdowns
	Repair    Range `yaml:"repair"`    // minutes to repair
}

// SweepSpec lists the capacity configurations and shift schedules a batch
// sweep combines. The Cartesian product is run in order: machines outer,
// operators inner.
type SweepSpec struct {
	Machines  []map[string]int `yaml:"machines"`
	Operators []map[string]int `yaml:"operators"`
}

// Scenario is the immutable input for one run: read-only for the run's
// duration, loaded from YAML or built programmatically.
//
// Operator counts are recorded per shift and surfaced in shift-change trace
// records, but no mechanism scales machine capacity by shift yet; the shift
// cycle is observational.
type Scenario struct {
	Seed         int64                  `yaml:"seed"`
	Horizon      float64                `yaml:"horizon"` // virtual minutes
	ShiftMinutes int                    `yaml:"shift_minutes"`
	Operators    map[string]int         `yaml:"operators_per_shift"`
	Products     []ProductSpec          `yaml:"products"`
	Machines     map[string]MachineSpec `yaml:"machines"` // keyed by stage name
	Sweep        *SweepSpec             `yaml:"sweep,omitempty"`
}

// LoadScenario reads and validates a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks every configured value eagerly, before any event is
// scheduled. Configuration errors are fatal for this scenario but never
// corrupt other scenarios in a sweep.
func (sc *Scenario) Validate() error {
	if sc.Horizon < 0 {
		return &InvalidRangeError{Field: "horizon", Reason: fmt.Sprintf("must be non-negative, got %g", sc.Horizon)}
	}
	if sc.ShiftMinutes <= 0 {
		return &InvalidRangeError{Field: "shift_minutes", Reason: fmt.Sprintf("must be positive, got %d", sc.ShiftMinutes)}
	}
	for name, count := range sc.Operators {
		if _, err := ParseShift(name); err != nil {
			return fmt.Errorf("operators_per_shift: %w", err)
		}
		if count < 0 {
			return &InvalidRangeError{
				Field:  fmt.Sprintf("operators_per_shift[%s]", name),
				Reason: fmt.Sprintf("must be non-negative, got %d", count),
			}
		}
	}

	if len(sc.Products) == 0 {
		return fmt.Errorf("scenario has no products")
	}
	seen := make(map[string]bool, len(sc.Products))
	for i, p := range sc.Products {
		if p.Name == "" {
			return fmt.Errorf("products[%d]: name is required", i)
		}
		if seen[p.Name] {
			return fmt.Errorf("products[%d]: duplicate product %q", i, p.Name)
		}
		seen[p.Name] = true
		if p.MeanInterarrival <= 0 {
			return &InvalidRangeError{
				Field:  fmt.Sprintf("products[%s].mean_interarrival", p.Name),
				Reason: fmt.Sprintf("must be positive, got %g", p.MeanInterarrival),
			}
		}
		for name := range p.Processing {
			if _, err := ParseStage(name); err != nil {
				return fmt.Errorf("products[%s].processing: %w", p.Name, err)
			}
		}
		for _, stage := range Stages {
			r, ok := p.Processing[stage.String()]
			if !ok {
				return fmt.Errorf("products[%s].processing: missing stage %s", p.Name, stage)
			}
			if err := r.Validate(fmt.Sprintf("products[%s].processing[%s]", p.Name, stage)); err != nil {
				return err
			}
		}
	}

	for name := range sc.Machines {
		if _, err := ParseStage(name); err != nil {
			return fmt.Errorf("machines: %w", err)
		}
	}
	for _, stage := range Stages {
		m, ok := sc.Machines[stage.String()]
		if !ok {
			return fmt.Errorf("machines: missing machine type %s", stage)
		}
		if m.Count < 1 {
			return &InvalidRangeError{
				Field:  fmt.Sprintf("machines[%s].count", stage),
				Reason: fmt.Sprintf("capacity must be at least 1, got %d", m.Count),
			}
		}
		if err := m.Breakdown.Validate(fmt.Sprintf("machines[%s].breakdown", stage)); err != nil {
			return err
		}
		if err := m.Repair.Validate(fmt.Sprintf("machines[%s].repair", stage)); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy. Sweeps clone the base scenario per combination
// so that runs never share mutable state.
func (sc *Scenario) Clone() *Scenario {
	out := *sc
	out.Operators = make(map[string]int, len(sc.Operators))
	for k, v := range sc.Operators {
		out.Operators[k] = v
	}
	out.Products = make([]ProductSpec, len(sc.Products))
	for i, p := range sc.Products {
		cp := p
		cp.Processing = make(map[string]Range, len(p.Processing))
		for k, v := range p.Processing {
			cp.Processing[k] = v
		}
		out.Products[i] = cp
	}
	out.Machines = make(map[string]MachineSpec, len(sc.Machines))
	for k, v := range sc.Machines {
		out.Machines[k] = v
	}
	out.Sweep = nil
	return &out
}

// DefaultScenario returns the built-in factory model: two product types,
// four machine types, 8-hour shifts, a 40-day horizon of 8-hour days.
func DefaultScenario() *Scenario {
	return &Scenario{
		Seed:         42,
		Horizon:      40 * 8 * 60,
		ShiftMinutes: 8 * 60,
		Operators:    map[string]int{"Day": 20, "Evening": 15, "Night": 10},
		Products: []ProductSpec{
			{
				Name:             "ProductA",
				MeanInterarrival: 15,
				Processing: map[string]Range{
					"Machining":      {Min: 10, Max: 20},
					"Assembly":       {Min: 20, Max: 30},
					"QualityControl": {Min: 3, Max: 7},
					"Packaging":      {Min: 1, Max: 3},
				},
			},
			{
				Name:             "ProductB",
				MeanInterarrival: 20,
				Processing: map[string]Range{
					"Machining":      {Min: 15, Max: 25},
					"Assembly":       {Min: 25, Max: 35},
					"QualityControl": {Min: 5, Max: 9},
					"Packaging":      {Min: 2, Max: 4},
				},
			},
		},
		Machines: map[string]MachineSpec{
			"Machining":      {Count: 5, Breakdown: Range{Min: 4 * 60, Max: 8 * 60}, Repair: Range{Min: 60, Max: 3 * 60}},
			"Assembly":       {Count: 8, Breakdown: Range{Min: 6 * 60, Max: 10 * 60}, Repair: Range{Min: 2 * 60, Max: 4 * 60}},
			"QualityControl": {Count: 3, Breakdown: Range{Min: 2 * 60, Max: 4 * 60}, Repair: Range{Min: 30, Max: 60}},
			"Packaging":      {Count: 2, Breakdown: Range{Min: 60, Max: 2 * 60}, Repair: Range{Min: 15, Max: 30}},
		},
		Sweep: &SweepSpec{
			Machines: []map[string]int{
				{"Machining": 4, "Assembly": 7, "QualityControl": 2, "Packaging": 1},
				{"Machining": 5, "Assembly": 8, "QualityControl": 3, "Packaging": 2},
				{"Machining": 6, "Assembly": 9, "QualityControl": 4, "Packaging": 3},
			},
			Operators: []map[string]int{
				{"Day": 15, "Evening": 10, "Night": 5},
				{"Day": 20, "Evening": 15, "Night": 10},
			},
		},
	}
}
