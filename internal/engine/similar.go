package engine

import (
	"context"
	"log/slog"
	"math"
	"sort"
)

// DefaultTopN is the result-count limit used when the caller passes a
// non-positive topN.
const DefaultTopN = 5

// Recommendation is one similarity query result.
type Recommendation struct {
	DatasetID       int64   `json:"dataset_id"`
	Title           string  `json:"title"`
	SimilarityScore float64 `json:"similarity_score"`
	DatasetDOI      string  `json:"dataset_doi,omitempty"`
}

// Similar returns the topN datasets most similar to the target dataset under
// the given field's vector space, excluding the target itself. Scores are
// cosine similarities rounded to 4 decimal places, in descending order; ties
// keep no guaranteed relative order.
//
// Not-found and empty-state conditions (unknown dataset id, empty corpus,
// unfit field) yield an empty result without error; only a failed lazy
// training surfaces as one.
func (e *Engine) Similar(ctx context.Context, targetID int64, field Field, topN int) ([]Recommendation, error) {
	snap, err := e.ensure(ctx)
	if err != nil {
		return nil, err
	}

	if topN <= 0 {
		topN = DefaultTopN
	}

	if len(snap.rows) == 0 {
		slog.Debug("corpus is empty, returning no results")
		return nil, nil
	}

	model, ok := snap.models[field]
	if !ok {
		slog.Warn("engine not trained for field, returning no results", "field", field.String())
		return nil, nil
	}

	targetIdx, ok := snap.byID[targetID]
	if !ok {
		slog.Warn("dataset not in corpus, returning no results", "datasetID", targetID)
		return nil, nil
	}

	scores := model.Similarities(targetIdx)

	// rank every row by descending similarity; the target itself ranks
	// first (or among the top on degenerate corpora), so keep topN+1
	// candidates before dropping it
	ranked := make([]int, len(scores))
	for i := range ranked {
		ranked[i] = i
	}
	sort.Slice(ranked, func(a, b int) bool {
		return scores[ranked[a]] > scores[ranked[b]]
	})
	if len(ranked) > topN+1 {
		ranked = ranked[:topN+1]
	}

	recommendations := make([]Recommendation, 0, topN)
	for _, i := range ranked {
		if i == targetIdx {
			continue
		}
		if len(recommendations) == topN {
			break
		}
		row := snap.rows[i]
		recommendations = append(recommendations, Recommendation{
			DatasetID:       row.DatasetID,
			Title:           row.Title,
			SimilarityScore: round4(scores[i]),
			DatasetDOI:      row.DatasetDOI,
		})
	}

	return recommendations, nil
}

// round4 rounds to 4 decimal places, matching the precision exposed to
// result consumers.
func round4(f float64) float64 {
	return math.Round(f*10000) / 10000
}
