// Package heat models a timed heat in either of its two shapes and splits
// a combined heat's finish stream into varsity and JV.
package heat

import (
	"fmt"
	"strings"

	"github.com/okian/wildcat/internal/domain/model"
)

// VarsitySize is how many finishers per team run varsity in a combined heat.
const VarsitySize = 7

// Mode selects the shape of a heat.
type Mode string

// Heat modes.
const (
	ModeSingle   Mode = "single"
	ModeCombined Mode = "combined"
)

// ParseMode reads a mode name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeSingle:
		return ModeSingle, nil
	case ModeCombined:
		return ModeCombined, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Division is one scored finish stream and its team standings.
type Division struct {
	Finishes []model.Finish
	Results  []model.Result
}

// Heat is either Single or Combined. Use Match to handle both shapes.
type Heat interface {
	Mode() Mode
	sealed()
}

// Single is a heat with one finish stream and one set of results.
type Single struct {
	Division
}

// Combined is a heat whose finishers were split into varsity and JV.
type Combined struct {
	Varsity Division
	JV      Division
}

func (Single) Mode() Mode   { return ModeSingle }
func (Combined) Mode() Mode { return ModeCombined }
func (Single) sealed()      {}
func (Combined) sealed()    {}

// Match calls exactly one of single or combined depending on h's shape.
// It panics on a nil heat.
func Match[T any](h Heat, single func(Single) T, combined func(Combined) T) T {
	switch v := h.(type) {
	case Single:
		return single(v)
	case *Single:
		return single(*v)
	case Combined:
		return combined(v)
	case *Combined:
		return combined(*v)
	}
	panic(fmt.Sprintf("heat: unexpected shape %T", h))
}

// Divisions lists the heat's divisions with their display labels, in
// report order.
func Divisions(h Heat) []Labeled {
	return Match(h,
		func(s Single) []Labeled {
			return []Labeled{{Label: "", Division: s.Division}}
		},
		func(c Combined) []Labeled {
			return []Labeled{
				{Label: "Varsity", Division: c.Varsity},
				{Label: "JV", Division: c.JV},
			}
		},
	)
}

// Labeled pairs a division with its label ("" for a single heat).
type Labeled struct {
	Label    string
	Division Division
}

// TeamLookup resolves a runner's team.
type TeamLookup interface {
	TeamOf(runner model.RunnerID) (model.TeamID, error)
}

// Split routes each team's first VarsitySize finishers to varsity and the
// rest to JV, preserving finish order in both. On a lookup failure no
// partial output is returned.
func Split(finishes []model.Finish, lookup TeamLookup) (varsity, jv []model.Finish, err error) {
	counts := make(map[model.TeamID]int)
	varsity = make([]model.Finish, 0, len(finishes))
	jv = make([]model.Finish, 0)

	for _, f := range finishes {
		team, err := lookup.TeamOf(f.RunnerID)
		if err != nil {
			return nil, nil, fmt.Errorf("split combined heat: %w", err)
		}
		if counts[team] < VarsitySize {
			counts[team]++
			varsity = append(varsity, f)
			continue
		}
		jv = append(jv, f)
	}
	return varsity, jv, nil
}

// Submission is a heat handed in for scoring. ID is the client's
// idempotency key and may be empty; an empty Mode means the service default.
type Submission struct {
	ID       string
	Mode     Mode
	Finishes []model.Finish
}
