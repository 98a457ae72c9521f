package forts

import (
	"fmt"
	"strings"

	fort "github.com/vovakirdan/tui-forts/internal/games/forts/core"
)

// RoundReport is the outcome of one simulated round.
type RoundReport struct {
	Round     int
	Damaged   int
	Repaired  int
	Defense   int
	Towers    int
	Resources fort.Amounts
}

// Simulation drives an engine through whole rounds without a player:
// every phase is ended immediately and damage is repaired while the
// ledger allows it.
type Simulation struct {
	Engine *fort.Engine
	State  fort.State
	Sink   SaveSink // optional; receives every round and a final save
}

// Run plays rounds more sieges and returns one report per siege.
func (sim *Simulation) Run(rounds int) ([]RoundReport, error) {
	e := sim.Engine
	reports := make([]RoundReport, 0, rounds)

	if sim.State.Phase == fort.PhaseNameEntry {
		sim.State = e.Dispatch(sim.State, fort.SubmitName{Name: sim.State.FortName})
	}

	for len(reports) < rounds {
		s := sim.State
		switch s.Phase {
		case fort.PhaseCardDraw:
			s = e.Dispatch(s, fort.ContinueDraw{})
		case fort.PhaseBuild:
			s = e.Dispatch(s, fort.BuildTimeUp{})
		case fort.PhaseDefense:
			s = e.Dispatch(s, fort.CompleteDefense{})
		case fort.PhaseRepair:
			damaged := len(s.DamagedTiles)
			if sim.Sink != nil {
				if err := sim.Sink.RecordRoundData(roundData(s)); err != nil {
					return reports, fmt.Errorf("forts: cannot record round %d: %w", s.Round, err)
				}
			}
			s = repairAll(e, s)
			reports = append(reports, RoundReport{
				Round:     s.Round,
				Damaged:   damaged,
				Repaired:  damaged - len(s.DamagedTiles),
				Defense:   s.Stats.Defense,
				Towers:    s.Stats.Towers,
				Resources: s.Ledger.Stored(),
			})
			s = e.Dispatch(s, fort.AdvanceRepair{})
		case fort.PhaseRoundEnd:
			s = e.Dispatch(s, fort.RoundEndElapsed{})
		default:
			return reports, fmt.Errorf("forts: cannot simulate phase %q", s.Phase)
		}
		sim.State = s
	}

	if sim.Sink != nil {
		data, err := saveData(sim.State, e.Clock().Now())
		if err != nil {
			return reports, fmt.Errorf("forts: cannot encode fort: %w", err)
		}
		if err := sim.Sink.SaveFortData(data); err != nil {
			return reports, fmt.Errorf("forts: cannot save fort: %w", err)
		}
	}
	return reports, nil
}

// repairAll repairs damaged tiles in siege order until the ledger runs out.
func repairAll(e *fort.Engine, s fort.State) fort.State {
	for _, key := range append([]fort.Key(nil), s.DamagedTiles...) {
		next := e.Dispatch(s, fort.RepairTile{Key: key})
		if len(next.DamagedTiles) == len(s.DamagedTiles) {
			break
		}
		s = next
	}
	return s
}

// FormatReports renders reports as an aligned text table.
func FormatReports(reports []RoundReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-5s  %-7s  %-8s  %-7s  %-6s  %s\n", "Round", "Damaged", "Repaired", "Defense", "Towers", "Wood/Stone/Food")
	fmt.Fprintf(&b, "%-5s  %-7s  %-8s  %-7s  %-6s  %s\n", "-----", "-------", "--------", "-------", "------", "---------------")
	for _, r := range reports {
		fmt.Fprintf(&b, "%-5d  %-7d  %-8d  %-7d  %-6d  %d/%d/%d\n",
			r.Round, r.Damaged, r.Repaired, r.Defense, r.Towers,
			r.Resources.Wood, r.Resources.Stone, r.Resources.Food)
	}
	return b.String()
}
