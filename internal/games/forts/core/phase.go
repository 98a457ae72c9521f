package core

import "time"

// Phase is a step of the round loop.
type Phase string

const (
	PhaseNameEntry Phase = "name_entry"
	PhaseCardDraw  Phase = "card_draw"
	PhaseBuild     Phase = "build"
	PhaseDefense   Phase = "defense"
	PhaseRepair    Phase = "repair"
	PhaseRoundEnd  Phase = "round_end"
)

// Default phase timings.
const (
	DefaultBuildDuration    = 3 * time.Minute
	DefaultRoundEndDuration = 5 * time.Second
)

// Valid reports whether p is a known phase.
func (p Phase) Valid() bool {
	switch p {
	case PhaseNameEntry, PhaseCardDraw, PhaseBuild, PhaseDefense, PhaseRepair, PhaseRoundEnd:
		return true
	}
	return false
}

// Title returns the player-facing phase name.
func (p Phase) Title() string {
	switch p {
	case PhaseNameEntry:
		return "Name your fort"
	case PhaseCardDraw:
		return "Card draw"
	case PhaseBuild:
		return "Build"
	case PhaseDefense:
		return "Defense"
	case PhaseRepair:
		return "Repair"
	case PhaseRoundEnd:
		return "Round end"
	default:
		return string(p)
	}
}

// AcceptsPlacement reports whether tile placement input is processed.
func (p Phase) AcceptsPlacement() bool {
	return p == PhaseBuild || p == PhaseRepair
}

// Durations holds the lengths of the timed phases.
type Durations struct {
	Build    time.Duration
	RoundEnd time.Duration
}

// DefaultDurations returns the standard phase timings.
func DefaultDurations() Durations {
	return Durations{Build: DefaultBuildDuration, RoundEnd: DefaultRoundEndDuration}
}

// Remaining returns how long is left until deadline, never negative.
// A zero deadline means the phase is untimed and reports zero.
func Remaining(deadline, now time.Time) time.Duration {
	if deadline.IsZero() || !now.Before(deadline) {
		return 0
	}
	return deadline.Sub(now)
}
