// Package scoring implements cross-country team scoring: squad aggregation,
// compacted place points over the top five of seven, and team ranking with
// the displacer tie-break cascade.
//
// Everything here is a pure function of its inputs. Callers may score
// several heats concurrently as long as they share only the read-only
// roster.
package scoring

import (
	"fmt"

	"github.com/okian/wildcat/internal/domain/heat"
	"github.com/okian/wildcat/internal/domain/model"
)

// Team scoring constants.
const (
	ScoringSize = 5 // finishers whose points make up the team score
	CountedSize = 7 // scorers plus displacers
)

// TeamLookup resolves a runner's team.
type TeamLookup interface {
	TeamOf(runner model.RunnerID) (model.TeamID, error)
}

// Roster is the read-only view the engine needs from a roster index.
type Roster interface {
	TeamLookup
	Teams() []model.TeamID
}

// ScoreDivision scores one finish stream: aggregate, place, rank. The input
// finishes are left untouched; the returned division carries copies with
// their score numbers set.
func ScoreDivision(finishes []model.Finish, lookup TeamLookup, teams []model.TeamID) (heat.Division, error) {
	squads, err := aggregate(finishes, lookup, teams)
	if err != nil {
		return heat.Division{}, err
	}
	scored := place(finishes, squads)
	return heat.Division{
		Finishes: scored,
		Results:  rank(squads),
	}, nil
}

// ScoreHeat scores a heat of the given mode. A combined heat is split into
// varsity and JV first and each division is scored independently.
func ScoreHeat(mode heat.Mode, finishes []model.Finish, r Roster) (heat.Heat, error) {
	teams := r.Teams()
	switch mode {
	case heat.ModeSingle:
		div, err := ScoreDivision(finishes, r, teams)
		if err != nil {
			return nil, fmt.Errorf("score heat: %w", err)
		}
		return heat.Single{Division: div}, nil
	case heat.ModeCombined:
		varsity, jv, err := heat.Split(finishes, r)
		if err != nil {
			return nil, fmt.Errorf("score heat: %w", err)
		}
		v, err := ScoreDivision(varsity, r, teams)
		if err != nil {
			return nil, fmt.Errorf("score varsity: %w", err)
		}
		j, err := ScoreDivision(jv, r, teams)
		if err != nil {
			return nil, fmt.Errorf("score jv: %w", err)
		}
		return heat.Combined{Varsity: v, JV: j}, nil
	}
	return nil, fmt.Errorf("score heat: %w: %q", heat.ErrUnknownMode, mode)
}

// Scorer scores heats against a fixed roster.
type Scorer interface {
	Score(mode heat.Mode, finishes []model.Finish) (heat.Heat, error)
}

// Engine is a Scorer bound to one meet's roster.
type Engine struct {
	roster Roster
}

// NewEngine returns an Engine over r.
func NewEngine(r Roster) *Engine {
	return &Engine{roster: r}
}

// Score implements Scorer.
func (e *Engine) Score(mode heat.Mode, finishes []model.Finish) (heat.Heat, error) {
	return ScoreHeat(mode, finishes, e.roster)
}
