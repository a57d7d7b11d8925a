package sim

import "fmt"

// Stage is one of the four ordered production steps. Every unit visits all
// stages in declaration order; no stage may be skipped or reordered.
type Stage int

const (
	StageMachining Stage = iota
	StageAssembly
	StageQualityControl
	StagePackaging
)

// Stages is the fixed stage sequence. Machine types are identified by the
// same names: each stage is served by the machine pool of its name.
var Stages = [...]Stage{StageMachining, StageAssembly, StageQualityControl, StagePackaging}

// NumStages is the length of the fixed stage sequence.
const NumStages = 4

func (s Stage) String() string {
	switch s {
	case StageMachining:
		return "Machining"
	case StageAssembly:
		return "Assembly"
	case StageQualityControl:
		return "QualityControl"
	case StagePackaging:
		return "Packaging"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// ParseStage parses a stage name as used in scenario files.
func ParseStage(s string) (Stage, error) {
	switch s {
	case "Machining":
		return StageMachining, nil
	case "Assembly":
		return StageAssembly, nil
	case "QualityControl":
		return StageQualityControl, nil
	case "Packaging":
		return StagePackaging, nil
	default:
		return StageMachining, fmt.Errorf("invalid stage: %q (must be one of Machining, Assembly, QualityControl, Packaging)", s)
	}
}

// Shift labels the staffing period. It cycles Day → Evening → Night → Day.
type Shift int

const (
	ShiftDay Shift = iota
	ShiftEvening
	ShiftNight
)

// shifts in cycle order.
var shifts = [...]Shift{ShiftDay, ShiftEvening, ShiftNight}

func (s Shift) String() string {
	switch s {
	case ShiftDay:
		return "Day"
	case ShiftEvening:
		return "Evening"
	case ShiftNight:
		return "Night"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Next returns the shift following s in the cycle.
func (s Shift) Next() Shift {
	return shifts[(int(s)+1)%len(shifts)]
}

// ParseShift parses a shift name as used in scenario files.
func ParseShift(s string) (Shift, error) {
	switch s {
	case "Day":
		return ShiftDay, nil
	case "Evening":
		return ShiftEvening, nil
	case "Night":
		return ShiftNight, nil
	default:
		return ShiftDay, fmt.Errorf("invalid shift: %q (must be Day, Evening or Night)", s)
	}
}
