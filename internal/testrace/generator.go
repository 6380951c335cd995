// Package testrace generates synthetic meets for tests, demos and load
// runs against the scoring service.
package testrace

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/okian/wildcat/internal/domain/meet"
	"github.com/okian/wildcat/internal/domain/model"
	"github.com/okian/wildcat/internal/domain/racetime"
	"github.com/okian/wildcat/internal/domain/roster"
)

const (
	firstRunnerID  = 1001
	runnerIDStride = 100
	hundredths     = 100
)

var (
	schoolNames = []string{
		"North", "South", "East", "West", "Central", "Valley",
		"Lakeside", "Ridge", "Harbor", "Summit", "Prairie", "Canyon",
	}
	firstNames = []string{
		"Ava", "Ben", "Cal", "Dee", "Eli", "Fay", "Gus", "Hal",
		"Ivy", "Jo", "Kai", "Lu", "Max", "Nia", "Oz", "Pia",
	}
	lastNames = []string{
		"Adams", "Brooks", "Cruz", "Diaz", "Ellis", "Ford",
		"Gray", "Hayes", "Irwin", "James", "Kent", "Lowe",
	}
)

// Race is a generated meet plus its raw timing data: barcodes in scan order
// and elapsed seconds in chute order, the same shapes the importer reads.
type Race struct {
	Meet     *meet.Meet
	Barcodes []model.RunnerID
	Times    []float64
}

// Finishes zips times and barcodes into a finish sequence.
func (r *Race) Finishes() []model.Finish {
	n := min(len(r.Times), len(r.Barcodes))
	out := make([]model.Finish, n)
	for i := range n {
		out[i] = model.Finish{RunnerID: r.Barcodes[i], Time: secondsToTime(r.Times[i])}
	}
	return out
}

// Generate builds a random but reproducible meet.
func Generate(cfg Config) (*Race, error) {
	if cfg.Teams < 1 || cfg.Teams > len(schoolNames)*10 {
		return nil, fmt.Errorf("%w: teams=%d", ErrInvalidConfig, cfg.Teams)
	}
	if cfg.MinRunners < 0 || cfg.MaxRunners < cfg.MinRunners || cfg.MaxRunners >= runnerIDStride {
		return nil, fmt.Errorf("%w: runners=%d..%d", ErrInvalidConfig, cfg.MinRunners, cfg.MaxRunners)
	}

	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // reproducible test data
	m := &meet.Meet{
		Name:    fmt.Sprintf("Simulated Invitational #%d", cfg.Seed),
		Runners: make(map[model.RunnerID]model.Runner),
		Teams:   make(map[model.TeamID]model.Team),
	}
	b := roster.NewBuilder()

	var field []model.RunnerID
	for t := range cfg.Teams {
		team := model.TeamID(t)
		school := schoolNames[t%len(schoolNames)]
		if t >= len(schoolNames) {
			school = fmt.Sprintf("%s %d", school, t/len(schoolNames)+1)
		}
		m.Teams[team] = model.Team{
			Initials: initials(school, t),
			Name:     school + " High School",
			Location: school + " City",
		}
		b.AddTeam(team)

		n := cfg.MinRunners + rng.Intn(cfg.MaxRunners-cfg.MinRunners+1)
		for i := range n {
			id := model.RunnerID(firstRunnerID + t*runnerIDStride + i)
			if err := b.Add(id, team); err != nil {
				return nil, err
			}
			class := model.Class(1 + rng.Intn(4))
			gender := model.Gender(1 + rng.Intn(2))
			m.Runners[id] = model.Runner{
				Name:   firstNames[rng.Intn(len(firstNames))] + " " + lastNames[rng.Intn(len(lastNames))],
				Class:  &class,
				Gender: &gender,
			}
			field = append(field, id)
		}
	}
	m.Roster = b.Build()

	rng.Shuffle(len(field), func(i, j int) { field[i], field[j] = field[j], field[i] })

	times := make([]float64, len(field))
	elapsed := cfg.WinningTime.Seconds()
	for i := range field {
		times[i] = math.Round(elapsed*hundredths) / hundredths
		elapsed += rng.Float64() * cfg.MaxGap.Seconds()
	}

	return &Race{Meet: m, Barcodes: field, Times: times}, nil
}

func initials(school string, idx int) string {
	base := strings.ToUpper(school[:2]) + "HS"
	if idx >= len(schoolNames) {
		return fmt.Sprintf("%s%d", base, idx/len(schoolNames)+1)
	}
	return base
}

func secondsToTime(s float64) racetime.Time {
	return racetime.FromSeconds(s)
}
