// Package model contains the race domain records passed between layers.
package model

import "github.com/okian/wildcat/internal/domain/racetime"

// RunnerID identifies a runner; it is the number printed on the bib barcode.
type RunnerID int

// TeamID identifies a team. IDs are assigned in roster order and carry no
// meaning about performance.
type TeamID int

// Class is a runner's class year.
type Class int

// Class years.
const (
	Freshman Class = iota + 1
	Sophomore
	Junior
	Senior
)

// Abbrev returns the report abbreviation, e.g. "Fr.".
func (c Class) Abbrev() string {
	switch c {
	case Freshman:
		return "Fr."
	case Sophomore:
		return "So."
	case Junior:
		return "Jr."
	case Senior:
		return "Sr."
	}
	return ""
}

// String returns the short name, e.g. "Fr".
func (c Class) String() string {
	switch c {
	case Freshman:
		return "Fr"
	case Sophomore:
		return "So"
	case Junior:
		return "Jr"
	case Senior:
		return "Sr"
	}
	return ""
}

// ClassFromGrade maps a grade level (9-12) to a class year.
func ClassFromGrade(grade int) (Class, bool) {
	switch grade {
	case 9:
		return Freshman, true
	case 10:
		return Sophomore, true
	case 11:
		return Junior, true
	case 12:
		return Senior, true
	}
	return 0, false
}

// Gender of a runner.
type Gender int

// Genders.
const (
	Female Gender = iota + 1
	Male
)

func (g Gender) String() string {
	switch g {
	case Female:
		return "F"
	case Male:
		return "M"
	}
	return ""
}

// Runner is a rostered athlete. Class and Gender are nil when unknown.
type Runner struct {
	Name   string
	Class  *Class
	Gender *Gender
}

// Team is a school entered in the meet.
type Team struct {
	Initials string
	Name     string
	Location string
}

// Finish is one runner crossing the line. Score is 0 until the runner is
// counted toward a team score.
type Finish struct {
	RunnerID RunnerID
	Time     racetime.Time
	Score    uint
}

// Place references one finisher by overall position (1-based).
type Place struct {
	RunnerID    RunnerID
	PlaceNumber uint
}

// Squad is one team's performance in a heat. Places holds every finisher of
// the team in finish order. A zero Score marks a non-scoring squad.
type Squad struct {
	Score  uint
	Time   racetime.Time
	Places []Place
}

// Scoring reports whether the squad produced a team score.
func (s Squad) Scoring() bool { return s.Score > 0 }

// Result is a squad's final standing.
type Result struct {
	Place  uint
	TeamID TeamID
	Squad  Squad
}
