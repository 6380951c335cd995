package scoring

import (
	"cmp"
	"slices"

	"github.com/okian/wildcat/internal/domain/model"
)

// Compare orders two squads for the team standings. It returns a negative
// number when a ranks ahead of b, positive when b ranks ahead, 0 when tied.
//
// Scoring squads rank ahead of non-scoring ones; lower score wins; equal
// scores go to the better 6th runner (both squads need six), then the
// better 7th runner (both squads need exactly seven), then the better 5th.
// A squad with a score but fewer than five places counts as non-scoring.
func Compare(a, b model.Squad) int {
	as, bs := ranked(a), ranked(b)
	switch {
	case !as && !bs:
		return 0
	case !bs:
		return -1
	case !as:
		return 1
	}

	if c := cmp.Compare(a.Score, b.Score); c != 0 {
		return c
	}

	const sixth, seventh, fifth = 5, 6, 4
	if len(a.Places) > sixth && len(b.Places) > sixth {
		if c := cmp.Compare(a.Places[sixth].PlaceNumber, b.Places[sixth].PlaceNumber); c != 0 {
			return c
		}
	}
	if len(a.Places) == CountedSize && len(b.Places) == CountedSize {
		if c := cmp.Compare(a.Places[seventh].PlaceNumber, b.Places[seventh].PlaceNumber); c != 0 {
			return c
		}
	}
	return cmp.Compare(a.Places[fifth].PlaceNumber, b.Places[fifth].PlaceNumber)
}

// ranked reports whether s holds a team score backed by a full scoring five.
func ranked(s model.Squad) bool {
	return s.Scoring() && eligible(s)
}

// rank orders squads best first and numbers their places. The place counter
// only advances past scoring squads, so every non-scoring squad shares the
// place after the last scoring squad.
func rank(squads []teamSquad) []model.Result {
	results := make([]model.Result, len(squads))
	for i, ts := range squads {
		results[i] = model.Result{TeamID: ts.team, Squad: ts.squad}
	}

	slices.SortStableFunc(results, func(a, b model.Result) int {
		return Compare(a.Squad, b.Squad)
	})

	standing := uint(1)
	for i := range results {
		results[i].Place = standing
		if ranked(results[i].Squad) {
			standing++
		}
	}
	return results
}
