package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/okian/wildcat/internal/domain/heat"
	"github.com/okian/wildcat/internal/domain/meet"
	"github.com/okian/wildcat/internal/domain/model"
	"github.com/okian/wildcat/internal/domain/scoring"
	"github.com/okian/wildcat/internal/domain/types"
	"gopkg.in/yaml.v3"
)

// Format selects an output encoding.
type Format string

// Supported formats.
const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"

	// FormatSummary prints one line per team for each division.
	FormatSummary Format = "summary"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatYAML, FormatJSON, FormatSummary:
		return f, nil
	case "":
		return FormatText, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Document converts a scored heat into its exported shape.
func Document(m *meet.Meet, h heat.Heat) types.HeatDoc {
	doc := types.HeatDoc{Meet: m.Name, Mode: string(h.Mode())}
	for _, d := range heat.Divisions(h) {
		doc.Divisions = append(doc.Divisions, division(m, d))
	}
	return doc
}

func division(m *meet.Meet, d heat.Labeled) types.DivisionDoc {
	out := types.DivisionDoc{
		Label:       d.Label,
		Individuals: make([]types.FinishRow, 0, len(d.Division.Finishes)),
		Teams:       make([]types.TeamRow, 0, len(d.Division.Results)),
	}
	for i, f := range d.Division.Finishes {
		row := types.FinishRow{
			Place:    i + 1,
			RunnerID: int(f.RunnerID),
			Team:     m.TeamInitials(f.RunnerID),
			Time:     f.Time.String(),
			Score:    f.Score,
		}
		if r, ok := m.Runner(f.RunnerID); ok {
			row.Name = r.Name
			if r.Class != nil {
				row.Class = r.Class.String()
			}
		}
		out.Individuals = append(out.Individuals, row)
	}
	for _, r := range d.Division.Results {
		out.Teams = append(out.Teams, teamRow(m, r))
	}
	return out
}

func teamRow(m *meet.Meet, r model.Result) types.TeamRow {
	row := types.TeamRow{
		Place:   r.Place,
		TeamID:  int(r.TeamID),
		Team:    m.Teams[r.TeamID].Initials,
		Score:   r.Squad.Score,
		Scorers: []uint{},
	}
	if r.Squad.Scoring() {
		row.Time = r.Squad.Time.String()
	}
	for i, p := range r.Squad.Places {
		switch {
		case i < scoring.ScoringSize:
			row.Scorers = append(row.Scorers, p.PlaceNumber)
		case i < scoring.CountedSize:
			row.Displacers = append(row.Displacers, p.PlaceNumber)
		}
	}
	return row
}

// WriteYAML encodes doc as YAML with two-space indentation.
func WriteYAML(w io.Writer, doc types.HeatDoc) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// WriteJSON encodes doc as indented JSON.
func WriteJSON(w io.Writer, doc types.HeatDoc) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// Write renders h in the requested format.
func Write(w io.Writer, f Format, m *meet.Meet, h heat.Heat) error {
	switch f {
	case FormatText:
		return WriteMeet(w, m, h)
	case FormatYAML:
		return WriteYAML(w, Document(m, h))
	case FormatJSON:
		return WriteJSON(w, Document(m, h))
	case FormatSummary:
		return WriteMeetSummary(w, m, h)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}
