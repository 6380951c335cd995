package loadtest

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/okian/wildcat/internal/adapters/repository"
	"github.com/okian/wildcat/internal/domain/types"
)

// awaitHeats polls every heat until it leaves the pending state or the wait
// expires. Heats still pending at the deadline are returned as an error.
func awaitHeats(ctx context.Context, c *client, cfg *Config, ids []string) ([]types.HeatDoc, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Wait)
	defer cancel()

	docs := make([]types.HeatDoc, 0, len(ids))
	for _, id := range ids {
		for {
			var doc types.HeatDoc
			status, err := c.get(ctx, "/heats/"+id, &doc)
			if err != nil {
				return docs, fmt.Errorf("get heat %s: %w", id, err)
			}
			if status != http.StatusOK {
				return docs, fmt.Errorf("get heat %s: status %d", id, status)
			}
			if doc.Status != string(repository.StatusPending) {
				docs = append(docs, doc)
				break
			}
			select {
			case <-ctx.Done():
				return docs, fmt.Errorf("heat %s still pending: %w", id, ctx.Err())
			case <-time.After(cfg.PollInterval):
			}
		}
	}
	return docs, nil
}

// verifyHeat checks the standings rules on every division of a scored heat.
func verifyHeat(doc types.HeatDoc) error { //nolint:gocritic // hugeParam: read-only copy
	if doc.Status != string(repository.StatusScored) {
		return fmt.Errorf("%w: heat %s is %s: %s", ErrVerification, doc.ID, doc.Status, doc.Error)
	}
	for _, div := range doc.Divisions {
		if err := verifyDivision(div); err != nil {
			return fmt.Errorf("%w: heat %s %s: %w", ErrVerification, doc.ID, div.Label, err)
		}
	}
	return nil
}

func verifyDivision(div types.DivisionDoc) error {
	// Score numbers are 1..k in finish order with no gaps.
	scoreAt := make(map[int]uint, len(div.Individuals))
	var next uint = 1
	for _, f := range div.Individuals {
		scoreAt[f.Place] = f.Score
		if f.Score == 0 {
			continue
		}
		if f.Score != next {
			return fmt.Errorf("place %d has score %d, want %d", f.Place, f.Score, next)
		}
		next++
	}

	// Scoring teams first, places non-decreasing, score is the sum of the
	// scorers' score numbers.
	seenNonScoring := false
	var prev uint
	for i, t := range div.Teams {
		scoring := t.Score > 0
		if scoring && seenNonScoring {
			return fmt.Errorf("team %s scores after a non-scoring team", t.Team)
		}
		if !scoring {
			seenNonScoring = true
		}
		if i > 0 && t.Place < prev {
			return fmt.Errorf("team %s placed %d after %d", t.Team, t.Place, prev)
		}
		prev = t.Place
		if !scoring {
			continue
		}

		var sum uint
		for _, p := range slices.Concat(t.Scorers, t.Displacers) {
			if scoreAt[int(p)] == 0 {
				return fmt.Errorf("team %s runner at place %d has no score number", t.Team, p)
			}
		}
		for _, p := range t.Scorers {
			sum += scoreAt[int(p)]
		}
		if sum != t.Score {
			return fmt.Errorf("team %s score %d, scorers sum to %d", t.Team, t.Score, sum)
		}
	}
	return nil
}
