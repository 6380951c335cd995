package loadtest

import (
	"math"
	"math/rand"
	"slices"

	"github.com/google/uuid"
	"github.com/okian/wildcat/internal/domain/heat"
	"github.com/okian/wildcat/internal/domain/meet"
	"github.com/okian/wildcat/internal/domain/model"
	"github.com/okian/wildcat/internal/domain/types"
)

// Finish times start near a 16 minute 5K and spread by up to 4s per place.
const (
	winningSeconds = 960.0
	maxGapSeconds  = 4.0
	hundredths     = 100
)

// generateHeats builds n heats over the rostered field. Each heat has its own
// finish order and times and a fresh submission ID.
func generateHeats(m *meet.Meet, n int, seed int64, combined bool) []types.HeatRequest {
	field := make([]model.RunnerID, 0, len(m.Runners))
	for id := range m.Runners {
		field = append(field, id)
	}
	slices.Sort(field)

	mode := heat.ModeSingle
	if combined {
		mode = heat.ModeCombined
	}

	out := make([]types.HeatRequest, n)
	for i := range out {
		rng := rand.New(rand.NewSource(seed + int64(i))) //nolint:gosec // reproducible load
		order := slices.Clone(field)
		rng.Shuffle(len(order), func(a, b int) { order[a], order[b] = order[b], order[a] })

		entries := make([]types.FinishEntry, len(order))
		elapsed := winningSeconds
		for j, id := range order {
			s := math.Round(elapsed*hundredths) / hundredths
			entries[j] = types.FinishEntry{RunnerID: int(id), Seconds: &s}
			elapsed += rng.Float64() * maxGapSeconds
		}
		out[i] = types.HeatRequest{
			SubmissionID: uuid.NewString(),
			Mode:         string(mode),
			Finishes:     entries,
		}
	}
	return out
}
