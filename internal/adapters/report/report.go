// Package report renders scored heats as printable result sheets and as
// machine-readable documents.
package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/okian/wildcat/internal/domain/heat"
	"github.com/okian/wildcat/internal/domain/meet"
	"github.com/okian/wildcat/internal/domain/model"
	"github.com/okian/wildcat/internal/domain/scoring"
)

// Footer closes every printed meet report.
const Footer = "\t\t\tWildcat Timing & Scoring System © 2010-2015"

const rule = "=================================================================================="

// Column starts of the individuals table.
const (
	colTeam  = 7
	colName  = 24
	colGrade = 58
	colTime  = 65
	colScore = 77
)

// FormatPlaces renders a squad's place numbers as "p1 p2 p3 p4 p5 (p6 p7)".
// The parenthesised displacers appear only when the squad has a sixth.
func FormatPlaces(s model.Squad) string {
	var b strings.Builder
	for i := 0; i < scoring.ScoringSize && i < len(s.Places); i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.FormatUint(uint64(s.Places[i].PlaceNumber), 10))
	}
	if len(s.Places) > scoring.ScoringSize {
		b.WriteString(" (")
		b.WriteString(strconv.FormatUint(uint64(s.Places[5].PlaceNumber), 10))
		if len(s.Places) > scoring.ScoringSize+1 {
			b.WriteByte(' ')
			b.WriteString(strconv.FormatUint(uint64(s.Places[6].PlaceNumber), 10))
		}
		b.WriteByte(')')
	}
	return b.String()
}

// WriteSummary prints one line per result:
// "place INITIALS - score - time - p1 p2 p3 p4 p5 (p6 p7)".
func WriteSummary(w io.Writer, results []model.Result, teams map[model.TeamID]model.Team) error {
	bw := bufio.NewWriter(w)
	for _, r := range results {
		fmt.Fprintf(bw, "%d %s - %d - %s - %s\n",
			r.Place, teams[r.TeamID].Initials, r.Squad.Score, r.Squad.Time, FormatPlaces(r.Squad))
	}
	return bw.Flush()
}

// WriteMeetSummary prints the team summary of every division in h. Combined
// heats head each division with its label.
func WriteMeetSummary(w io.Writer, m *meet.Meet, h heat.Heat) error {
	for _, d := range heat.Divisions(h) {
		if d.Label != "" {
			if _, err := io.WriteString(w, d.Label+"\n"); err != nil {
				return err
			}
		}
		if err := WriteSummary(w, d.Division.Results, m.Teams); err != nil {
			return fmt.Errorf("write %s summary: %w", h.Mode(), err)
		}
	}
	return nil
}

// WriteHeat prints one division's result sheet: the individuals table
// followed by the team scores. title, when set, heads the sheet.
func WriteHeat(w io.Writer, m *meet.Meet, div heat.Division, title string) error {
	bw := bufio.NewWriter(w)

	bw.WriteString("\n")
	if title != "" {
		bw.WriteString(strings.ToUpper(title) + "\n")
	}
	bw.WriteString("RACE #_______________________ DIV #___________________________\n\n")
	bw.WriteString("INDIVIDUALS\n" + rule + "\n\n")
	bw.WriteString("Place  Team             Name                              Grade  Time        Score\n")
	bw.WriteString(strings.Repeat("-", len(rule)) + "\n")

	for i, f := range div.Finishes {
		var row column
		row.add(0, strconv.Itoa(i+1))
		row.add(colTeam, m.TeamInitials(f.RunnerID))
		runner, _ := m.Runner(f.RunnerID)
		row.add(colName, runner.Name)
		if runner.Class != nil {
			row.add(colGrade, runner.Class.Abbrev())
		}
		row.add(colTime, f.Time.String())
		if f.Score != 0 {
			row.add(colScore, strconv.FormatUint(uint64(f.Score), 10))
		}
		bw.WriteString(row.String() + "\n")
	}

	bw.WriteString(rule + "\n\n\nTEAM SCORES\n" + rule + "\n\n")
	for _, r := range div.Results {
		fmt.Fprintf(bw, "#%d %s\n    %s", r.Place, m.Teams[r.TeamID].Initials, FormatPlaces(r.Squad))
		if r.Squad.Scoring() {
			fmt.Fprintf(bw, " = %d\n    %s", r.Squad.Score, r.Squad.Time)
		}
		bw.WriteString("\n\n")
	}
	bw.WriteString("\n" + rule + "\n\n")
	return bw.Flush()
}

// WriteMeet prints every division of h followed by the footer.
func WriteMeet(w io.Writer, m *meet.Meet, h heat.Heat) error {
	for i, d := range heat.Divisions(h) {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := WriteHeat(w, m, d.Division, d.Label); err != nil {
			return fmt.Errorf("write %s: %w", h.Mode(), err)
		}
	}
	_, err := io.WriteString(w, "\n"+Footer+"\n\n")
	return err
}

// column lays text out at fixed character positions, pushing later cells
// right when an earlier one overflows.
type column struct {
	b strings.Builder
}

func (c *column) add(at int, s string) {
	if n := at - c.b.Len(); n > 0 {
		c.b.WriteString(strings.Repeat(" ", n))
	}
	c.b.WriteString(s)
}

func (c *column) String() string { return c.b.String() }
