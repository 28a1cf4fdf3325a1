package search

import (
	"github.com/shopspring/decimal"

	"github.com/openfairdb/ofdb-core/internal/entity"
)

// AverageRatings is the per-context mean plus the overall total
// described in spec.md §4.4: avg_ratings(place) aggregates ratings
// over the six contexts, each the arithmetic mean of signed values in
// [-1..2]; total is the mean across contexts that have at least one
// rating (empty set → 0).
//
// decimal.Decimal is used rather than float64 so repeated
// add-then-divide aggregation across many ratings cannot accumulate
// binary floating-point error into the index's ordering key.
type AverageRatings struct {
	PerContext map[entity.RatingContext]decimal.Decimal
	Total      decimal.Decimal
}

// ComputeAverageRatings aggregates ratings, ignoring any whose
// ArchivedAt is set.
func ComputeAverageRatings(ratings []*entity.Rating) AverageRatings {
	sums := map[entity.RatingContext]decimal.Decimal{}
	counts := map[entity.RatingContext]int{}

	for _, r := range ratings {
		if r.ArchivedAt != nil {
			continue
		}

		sums[r.Context] = sums[r.Context].Add(decimal.NewFromInt(int64(r.Value)))
		counts[r.Context]++
	}

	perContext := map[entity.RatingContext]decimal.Decimal{}
	contextTotal := decimal.Zero
	contextsWithRatings := 0

	for _, ctx := range entity.AllRatingContexts() {
		count := counts[ctx]
		if count == 0 {
			perContext[ctx] = decimal.Zero
			continue
		}

		mean := sums[ctx].DivRound(decimal.NewFromInt(int64(count)), 6)
		perContext[ctx] = mean
		contextTotal = contextTotal.Add(mean)
		contextsWithRatings++
	}

	total := decimal.Zero
	if contextsWithRatings > 0 {
		total = contextTotal.DivRound(decimal.NewFromInt(int64(contextsWithRatings)), 6)
	}

	return AverageRatings{PerContext: perContext, Total: total}
}
