// Package roster provides the read-only runner/team index built once per meet.
package roster

import (
	"fmt"

	"github.com/okian/wildcat/internal/domain/model"
)

// Index maps runners to teams and teams to their ordered runner lists.
// It is immutable once built and safe for concurrent readers.
type Index struct {
	runnerToTeam  map[model.RunnerID]model.TeamID
	teamToRunners map[model.TeamID][]model.RunnerID
	teams         []model.TeamID
}

// Builder accumulates roster entries in import order.
type Builder struct {
	idx *Index
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{idx: &Index{
		runnerToTeam:  make(map[model.RunnerID]model.TeamID),
		teamToRunners: make(map[model.TeamID][]model.RunnerID),
	}}
}

// AddTeam registers a team with no runners yet. Adding a known team is a no-op.
func (b *Builder) AddTeam(team model.TeamID) *Builder {
	if _, ok := b.idx.teamToRunners[team]; !ok {
		b.idx.teamToRunners[team] = []model.RunnerID{}
		b.idx.teams = append(b.idx.teams, team)
	}
	return b
}

// Add assigns runner to team, registering the team on first sight.
// A runner may belong to one team only.
func (b *Builder) Add(runner model.RunnerID, team model.TeamID) error {
	if existing, ok := b.idx.runnerToTeam[runner]; ok {
		return fmt.Errorf("%w: runner %d already on team %d", ErrDuplicateRunner, runner, existing)
	}
	b.AddTeam(team)
	b.idx.runnerToTeam[runner] = team
	b.idx.teamToRunners[team] = append(b.idx.teamToRunners[team], runner)
	return nil
}

// Build returns the finished Index. The Builder must not be used afterward.
func (b *Builder) Build() *Index {
	idx := b.idx
	b.idx = nil
	return idx
}

// TeamOf returns the team of runner or ErrUnknownRunner.
func (x *Index) TeamOf(runner model.RunnerID) (model.TeamID, error) {
	team, ok := x.runnerToTeam[runner]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownRunner, runner)
	}
	return team, nil
}

// Runners returns a copy of the team's runners in roster order.
func (x *Index) Runners(team model.TeamID) []model.RunnerID {
	runners := x.teamToRunners[team]
	out := make([]model.RunnerID, len(runners))
	copy(out, runners)
	return out
}

// Teams returns every known team in registration order.
func (x *Index) Teams() []model.TeamID {
	out := make([]model.TeamID, len(x.teams))
	copy(out, x.teams)
	return out
}

// Len returns the number of rostered runners.
func (x *Index) Len() int { return len(x.runnerToTeam) }
