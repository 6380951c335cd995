// Package types contains the wire shapes shared by the HTTP API, the
// exporters and the simulation client.
package types

// FinishEntry is one submitted finish. Exactly one of Time ("MM:SS.hh") or
// Seconds should be set; Time wins when both are present.
type FinishEntry struct {
	RunnerID int      `json:"runner_id" yaml:"runner_id"`
	Time     string   `json:"time,omitempty" yaml:"time,omitempty"`
	Seconds  *float64 `json:"seconds,omitempty" yaml:"seconds,omitempty"`
}

// HeatRequest submits a heat for scoring. SubmissionID makes the request
// idempotent; Mode is "single" or "combined".
type HeatRequest struct {
	SubmissionID string        `json:"submission_id"`
	Mode         string        `json:"mode"`
	Finishes     []FinishEntry `json:"finishes"`
}

// SubmitResponse acknowledges an asynchronous heat submission.
type SubmitResponse struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// FinishRow is one line of the individual results.
type FinishRow struct {
	Place    int    `json:"place" yaml:"place"`
	RunnerID int    `json:"runner_id" yaml:"runner_id"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Team     string `json:"team" yaml:"team"`
	Class    string `json:"class,omitempty" yaml:"class,omitempty"`
	Time     string `json:"time" yaml:"time"`
	Score    uint   `json:"score,omitempty" yaml:"score,omitempty"`
}

// TeamRow is one team's standing.
type TeamRow struct {
	Place      uint   `json:"place" yaml:"place"`
	TeamID     int    `json:"team_id" yaml:"team_id"`
	Team       string `json:"team" yaml:"team"`
	Score      uint   `json:"score" yaml:"score"`
	Time       string `json:"time,omitempty" yaml:"time,omitempty"`
	Scorers    []uint `json:"scorers" yaml:"scorers,flow"`
	Displacers []uint `json:"displacers,omitempty" yaml:"displacers,flow,omitempty"`
}

// DivisionDoc is a scored division. Label is empty for a single heat.
type DivisionDoc struct {
	Label       string      `json:"label,omitempty" yaml:"label,omitempty"`
	Individuals []FinishRow `json:"individuals" yaml:"individuals"`
	Teams       []TeamRow   `json:"teams" yaml:"teams"`
}

// HeatDoc is a heat as exported or served.
type HeatDoc struct {
	ID        string        `json:"id,omitempty" yaml:"id,omitempty"`
	Meet      string        `json:"meet,omitempty" yaml:"meet,omitempty"`
	Mode      string        `json:"mode" yaml:"mode"`
	Status    string        `json:"status,omitempty" yaml:"status,omitempty"`
	Error     string        `json:"error,omitempty" yaml:"error,omitempty"`
	Divisions []DivisionDoc `json:"divisions,omitempty" yaml:"divisions,omitempty"`
}

// TeamInfo describes a rostered team.
type TeamInfo struct {
	ID       int    `json:"id"`
	Initials string `json:"initials"`
	Name     string `json:"name,omitempty"`
	Location string `json:"location,omitempty"`
	Runners  int    `json:"runners"`
}
