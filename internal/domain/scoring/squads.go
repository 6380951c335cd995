package scoring

import (
	"fmt"

	"github.com/okian/wildcat/internal/domain/model"
	"github.com/okian/wildcat/internal/domain/racetime"
)

// teamSquad pairs a squad with its team while scoring is in progress.
type teamSquad struct {
	team  model.TeamID
	squad model.Squad
}

// aggregate builds one squad per known team, in the order of teams. Each
// squad lists its team's finishers in finish order with their overall
// place numbers. Finishers whose team is not in teams are skipped.
func aggregate(finishes []model.Finish, lookup TeamLookup, teams []model.TeamID) ([]teamSquad, error) {
	squads := make([]teamSquad, len(teams))
	byTeam := make(map[model.TeamID]int, len(teams))
	for i, team := range teams {
		squads[i] = teamSquad{team: team, squad: model.Squad{Places: []model.Place{}}}
		byTeam[team] = i
	}

	for i, f := range finishes {
		team, err := lookup.TeamOf(f.RunnerID)
		if err != nil {
			return nil, fmt.Errorf("aggregate squads: %w", err)
		}
		idx, ok := byTeam[team]
		if !ok {
			continue
		}
		squads[idx].squad.Places = append(squads[idx].squad.Places, model.Place{
			RunnerID:    f.RunnerID,
			PlaceNumber: uint(i + 1),
		})
	}
	return squads, nil
}

// eligible reports whether a squad has enough finishers to score.
func eligible(s model.Squad) bool {
	return len(s.Places) >= ScoringSize
}

// counted returns the places that count toward the scorer set: the scoring
// five plus up to two displacers.
func counted(s model.Squad) []model.Place {
	n := min(CountedSize, len(s.Places))
	return s.Places[:n]
}

// place assigns compacted score numbers and fills in each eligible squad's
// time and score. It returns a new finish sequence; finishes and the
// squads' Places slices are not modified.
func place(finishes []model.Finish, squads []teamSquad) []model.Finish {
	// Scorers are tracked by overall place so a runner scanned twice cannot
	// pick up two score numbers through one roster entry.
	scorers := make(map[uint]struct{})
	for i := range squads {
		s := &squads[i].squad
		s.Score = 0
		s.Time = racetime.Time{}
		if !eligible(*s) {
			continue
		}
		for _, p := range s.Places[:ScoringSize] {
			s.Time = s.Time.Add(finishes[p.PlaceNumber-1].Time)
		}
		for _, p := range counted(*s) {
			scorers[p.PlaceNumber] = struct{}{}
		}
	}

	scored := make([]model.Finish, len(finishes))
	next := uint(1)
	for i, f := range finishes {
		f.Score = 0
		if _, ok := scorers[uint(i+1)]; ok {
			f.Score = next
			next++
		}
		scored[i] = f
	}

	for i := range squads {
		s := &squads[i].squad
		if !eligible(*s) {
			continue
		}
		for _, p := range s.Places[:ScoringSize] {
			s.Score += scored[p.PlaceNumber-1].Score
		}
	}
	return scored
}
