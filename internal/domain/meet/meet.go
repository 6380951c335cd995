// Package meet bundles the read-only entry data of one event: runners,
// teams and the roster index joining them.
package meet

import (
	"github.com/okian/wildcat/internal/domain/model"
	"github.com/okian/wildcat/internal/domain/roster"
)

// Meet is the entry list of an event. It is built once and then only read.
type Meet struct {
	Name    string
	Runners map[model.RunnerID]model.Runner
	Teams   map[model.TeamID]model.Team
	Roster  *roster.Index
}

// TeamIDs returns the known teams in registration order.
func (m *Meet) TeamIDs() []model.TeamID {
	return m.Roster.Teams()
}

// TeamInitials returns the initials of the runner's team, or "" if the
// runner is not rostered.
func (m *Meet) TeamInitials(runner model.RunnerID) string {
	team, err := m.Roster.TeamOf(runner)
	if err != nil {
		return ""
	}
	return m.Teams[team].Initials
}

// Runner returns the runner record, if known.
func (m *Meet) Runner(id model.RunnerID) (model.Runner, bool) {
	r, ok := m.Runners[id]
	return r, ok
}
