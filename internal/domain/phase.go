package domain

// Phase is one of the three timer phases.
type Phase string

const (
	PhaseWork       Phase = "work"
	PhaseShortBreak Phase = "short_break"
	PhaseLongBreak  Phase = "long_break"
)

// LongBreakEvery is the number of completed work sessions between long breaks.
const LongBreakEvery = 4

// IsBreak reports whether the phase is one of the two break phases.
func (p Phase) IsBreak() bool {
	return p == PhaseShortBreak || p == PhaseLongBreak
}

// Label returns the human-readable phase name.
func (p Phase) Label() string {
	switch p {
	case PhaseWork:
		return "Focus Time"
	case PhaseShortBreak:
		return "Short Break"
	case PhaseLongBreak:
		return "Long Break"
	default:
		return string(p)
	}
}

// ChatName is the lower-case name used in status replies ("work" / "break").
func (p Phase) ChatName() string {
	if p.IsBreak() {
		return "break"
	}
	return "work"
}

// ValidPhases is the canonical set of accepted phase strings.
var ValidPhases = map[string]bool{
	string(PhaseWork): true, string(PhaseShortBreak): true, string(PhaseLongBreak): true,
}
