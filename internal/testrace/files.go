package testrace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/okian/wildcat/internal/adapters/importer"
	"github.com/okian/wildcat/internal/domain/model"
)

const filePermission = 0o600

// File names written by WriteFiles.
const (
	RosterFile   = "roster.txt"
	BarcodesFile = "barcodes.txt"
	TimesFile    = "times.txt"
)

// WriteRoster writes the meet roster in importer format.
func (r *Race) WriteRoster(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, team := range r.Meet.TeamIDs() {
		initials := r.Meet.Teams[team].Initials
		ids := r.Meet.Roster.Runners(team)
		slices.Sort(ids)
		for _, id := range ids {
			runner := r.Meet.Runners[id]
			grade := ""
			if runner.Class != nil {
				grade = fmt.Sprint(int(*runner.Class) + 8)
			}
			gender := ""
			if runner.Gender != nil {
				gender = runner.Gender.String()
			}
			if _, err := fmt.Fprintf(bw, "%d\t%s\t%s\t%s\t%s\n", id, runner.Name, initials, grade, gender); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// WriteBarcodes writes scanned runner ids, one per line.
func (r *Race) WriteBarcodes(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, id := range r.Barcodes {
		if _, err := fmt.Fprintf(bw, "%d\n", id); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteTimes writes chute-timer rows with elapsed seconds in the last column.
func (r *Race) WriteTimes(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i, secs := range r.Times {
		if _, err := fmt.Fprintf(bw, "%d\t0\t0\t0\t0\t0\t%.2f\n", i+1, secs); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFiles writes roster, barcode and time files into dir and returns
// their paths.
func (r *Race) WriteFiles(dir string) (importer.Files, error) {
	files := importer.Files{
		Roster:   filepath.Join(dir, RosterFile),
		Barcodes: filepath.Join(dir, BarcodesFile),
		Times:    filepath.Join(dir, TimesFile),
	}
	writers := []struct {
		path  string
		write func(io.Writer) error
	}{
		{files.Roster, r.WriteRoster},
		{files.Barcodes, r.WriteBarcodes},
		{files.Times, r.WriteTimes},
	}
	for _, fw := range writers {
		if err := writeFile(fw.path, fw.write); err != nil {
			return importer.Files{}, err
		}
	}
	return files, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePermission)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// TeamOf is a convenience for tests that need a runner's team.
func (r *Race) TeamOf(id model.RunnerID) model.TeamID {
	team, _ := r.Meet.Roster.TeamOf(id)
	return team
}
