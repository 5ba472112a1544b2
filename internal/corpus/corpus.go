// Package corpus materializes the text corpus that the recommendation engine
// vectorizes. One Row is produced per stored dataset; the slice order defines
// the positional index used by every field's vector matrix.
package corpus

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/csvhub/recommend/internal/normalize"
	"github.com/csvhub/recommend/internal/store"
)

// Row is the per-dataset corpus record. All field values are derived from
// the dataset's metadata at extraction time; the engine never writes back.
type Row struct {
	DatasetID   int64
	Title       string
	Description string
	Authors     string // lowercase author names, space-joined
	Affiliation string // lowercase affiliations (only present ones), space-joined
	Tags        string // lowercase trimmed tags, space-joined
	DatasetDOI  string // empty when absent
	FullText    string // normalized, synonym-expanded combined text
}

// Lister is the read-only slice of the dataset store the extractor needs.
type Lister interface {
	ListDatasets(ctx context.Context) ([]store.Dataset, error)
}

// Extract reads every dataset from source and builds one corpus Row each,
// in listing order. The combined raw text (title, description, publication
// type, authors, affiliations, tags) runs through the normalization
// pipeline; the categorical fields keep only the lowercasing and joining
// applied here. Datasets are never mutated. An empty store yields an empty
// slice, not an error.
func Extract(ctx context.Context, source Lister, pipeline *normalize.Pipeline) ([]Row, error) {
	datasets, err := source.ListDatasets(ctx)
	if err != nil {
		return nil, fmt.Errorf("extracting corpus: %w", err)
	}
	if len(datasets) == 0 {
		slog.Debug("no datasets found, corpus is empty")
		return nil, nil
	}

	rows := make([]Row, 0, len(datasets))
	for _, ds := range datasets {
		var names, affiliations []string
		for _, author := range ds.Authors {
			names = append(names, strings.ToLower(author.Name))
			if author.Affiliation != "" {
				affiliations = append(affiliations, strings.ToLower(author.Affiliation))
			}
		}

		var tags []string
		for _, tag := range strings.Split(ds.Tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, strings.ToLower(tag))
			}
		}

		authorsText := strings.Join(names, " ")
		affiliationText := strings.Join(affiliations, " ")
		tagsText := strings.Join(tags, " ")

		// a dataset without a publication type contributes nothing for that
		// component, not a placeholder string
		components := []string{
			ds.Title,
			ds.Description,
			ds.PublicationType.Display(),
			authorsText,
			affiliationText,
			tagsText,
		}
		raw := joinNonEmpty(components)

		rows = append(rows, Row{
			DatasetID:   ds.ID,
			Title:       ds.Title,
			Description: ds.Description,
			Authors:     authorsText,
			Affiliation: affiliationText,
			Tags:        tagsText,
			DatasetDOI:  ds.DatasetDOI,
			FullText:    pipeline.Process(raw),
		})
	}

	slog.Info("corpus extraction complete", "rows", len(rows))
	return rows, nil
}

// joinNonEmpty joins the non-empty components with single spaces.
func joinNonEmpty(components []string) string {
	parts := make([]string, 0, len(components))
	for _, c := range components {
		if c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, " ")
}
