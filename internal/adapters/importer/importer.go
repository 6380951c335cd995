// Package importer reads the meet's roster, barcode and chute-timer files
// and joins scans with times into a finish sequence.
//
// Roster lines are tab-delimited: runner id, name, team initials, grade
// (9-12), gender (G/F or B/M). Barcode files hold one runner id per line in
// scan order. Timer files hold seven tab-delimited fields per line, the
// last being elapsed seconds.
package importer

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/okian/wildcat/internal/domain/meet"
	"github.com/okian/wildcat/internal/domain/model"
	"github.com/okian/wildcat/internal/domain/racetime"
	"github.com/okian/wildcat/internal/domain/roster"
)

const (
	rosterMinFields = 3
	timesFields     = 7
)

func newTabReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true
	return cr
}

// ReadRoster parses a roster. Teams get sequential IDs in order of first
// appearance.
func ReadRoster(r io.Reader) (*meet.Meet, error) {
	m := &meet.Meet{
		Runners: make(map[model.RunnerID]model.Runner),
		Teams:   make(map[model.TeamID]model.Team),
	}
	b := roster.NewBuilder()
	byInitials := make(map[string]model.TeamID)

	cr := newTabReader(r)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: roster: %w", ErrMalformed, err)
		}
		line, _ := cr.FieldPos(0)
		if blank(rec) {
			continue
		}
		if len(rec) < rosterMinFields {
			return nil, fmt.Errorf("%w: roster line %d: want at least %d fields, got %d", ErrMalformed, line, rosterMinFields, len(rec))
		}

		id, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil {
			return nil, fmt.Errorf("%w: roster line %d: runner id %q must be an integer", ErrMalformed, line, rec[0])
		}

		initials := strings.TrimSpace(rec[2])
		team, ok := byInitials[initials]
		if !ok {
			team = model.TeamID(len(byInitials))
			byInitials[initials] = team
			m.Teams[team] = model.Team{Initials: initials}
		}
		if err := b.Add(model.RunnerID(id), team); err != nil {
			return nil, fmt.Errorf("%w: roster line %d: %w", ErrMalformed, line, err)
		}

		runner := model.Runner{Name: strings.TrimSpace(rec[1])}
		if len(rec) > 3 {
			class, err := parseGrade(rec[3])
			if err != nil {
				return nil, fmt.Errorf("%w: roster line %d: %w", ErrMalformed, line, err)
			}
			runner.Class = class
		}
		if len(rec) > 4 {
			runner.Gender = parseGender(rec[4])
		}
		m.Runners[model.RunnerID(id)] = runner
	}

	m.Roster = b.Build()
	return m, nil
}

// parseGrade maps 9-12 to a class. A blank or non-numeric grade means the
// class is unknown; a number outside 9-12 is an error.
func parseGrade(s string) (*model.Class, error) {
	grade, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil, nil //nolint:nilnil // unknown class is not an error
	}
	class, ok := model.ClassFromGrade(grade)
	if !ok {
		return nil, fmt.Errorf("grade %d must be between 9 and 12", grade)
	}
	return &class, nil
}

func parseGender(s string) *model.Gender {
	var g model.Gender
	switch strings.TrimSpace(s) {
	case "G", "g", "F", "f":
		g = model.Female
	case "B", "b", "M", "m":
		g = model.Male
	default:
		return nil
	}
	return &g
}

// ReadBarcodes parses runner ids in scan order, one per line. Blank lines
// are allowed only at the end of the file.
func ReadBarcodes(r io.Reader) ([]model.RunnerID, error) {
	var out []model.RunnerID
	sc := bufio.NewScanner(r)
	line, gap := 0, 0
	for sc.Scan() {
		line++
		tok := strings.TrimSpace(sc.Text())
		if tok == "" {
			if gap == 0 {
				gap = line
			}
			continue
		}
		if gap != 0 {
			return nil, fmt.Errorf("%w: barcode line %d: blank line between scans", ErrMalformed, gap)
		}
		id, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("%w: barcode line %d: %q is not a number", ErrMalformed, line, tok)
		}
		out = append(out, model.RunnerID(id))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: barcodes: %w", ErrMalformed, err)
	}
	return out, nil
}

// ReadTimes parses chute-timer rows and returns the elapsed seconds column.
func ReadTimes(r io.Reader) ([]float64, error) {
	var out []float64
	cr := newTabReader(r)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: times: %w", ErrMalformed, err)
		}
		line, _ := cr.FieldPos(0)
		if blank(rec) {
			continue
		}
		if len(rec) < timesFields {
			return nil, fmt.Errorf("%w: times line %d: want %d fields, got %d", ErrMalformed, line, timesFields, len(rec))
		}
		tok := strings.TrimSpace(rec[timesFields-1])
		secs, err := strconv.ParseFloat(tok, 64)
		if err != nil || secs < 0 {
			return nil, fmt.Errorf("%w: times line %d: %q is not a timestamp", ErrMalformed, line, tok)
		}
		out = append(out, secs)
	}
	return out, nil
}

// MakeFinishes pairs the i-th time with the i-th barcode. Extra entries on
// the longer side are dropped.
func MakeFinishes(times []float64, barcodes []model.RunnerID) []model.Finish {
	n := min(len(times), len(barcodes))
	out := make([]model.Finish, n)
	for i := range n {
		out[i] = model.Finish{RunnerID: barcodes[i], Time: racetime.FromSeconds(times[i])}
	}
	return out
}

// Files names the three inputs of a scored heat.
type Files struct {
	Roster   string
	Barcodes string
	Times    string
}

// Load opens and parses all three files.
func Load(files Files) (*meet.Meet, []model.Finish, error) {
	m, err := openWith(files.Roster, ReadRoster)
	if err != nil {
		return nil, nil, err
	}
	barcodes, err := openWith(files.Barcodes, ReadBarcodes)
	if err != nil {
		return nil, nil, err
	}
	times, err := openWith(files.Times, ReadTimes)
	if err != nil {
		return nil, nil, err
	}
	return m, MakeFinishes(times, barcodes), nil
}

// OpenRoster reads a roster file.
func OpenRoster(path string) (*meet.Meet, error) {
	return openWith(path, ReadRoster)
}

func openWith[T any](path string, read func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	defer func() { _ = f.Close() }()

	v, err := read(f)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
