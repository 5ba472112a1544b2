// Package engine owns the dataset recommendation index: the extracted corpus,
// one fitted TF-IDF vector space per tracked metadata field, and a free-text
// search index per categorical field.
//
// The engine holds all fitted state in an immutable snapshot behind an atomic
// pointer. Retraining builds a complete replacement snapshot and swaps it in,
// so concurrent readers always observe either the previous fully-consistent
// state or the new one, never a half-updated mix. A failed retrain keeps the
// last good snapshot serving.
//
// Usage Example:
//
//	eng := engine.New(store, engine.WithPipeline(normalize.Default()))
//	recs, err := eng.Similar(ctx, datasetID, engine.FullText, 5)
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/csvhub/recommend/internal/corpus"
	"github.com/csvhub/recommend/internal/normalize"
	"github.com/csvhub/recommend/internal/search"
	"github.com/csvhub/recommend/internal/tfidf"
)

// snapshot is one fully-fitted, immutable training result. Row i of every
// vectorizer corresponds to rows[i].
type snapshot struct {
	rows    []corpus.Row
	byID    map[int64]int // dataset id -> row index
	models  map[Field]*tfidf.Vectorizer
	indexes map[Field]*search.Index
}

// Engine is the process-wide recommendation index handle. Construct one at
// the composition root and share it; all methods are safe for concurrent use.
type Engine struct {
	source   corpus.Lister
	pipeline *normalize.Pipeline

	current atomic.Pointer[snapshot]
	trainMu sync.Mutex // serializes retrains; readers never take it
}

// Option configures an Engine.
type Option func(*Engine)

// WithPipeline overrides the normalization pipeline used during extraction.
func WithPipeline(p *normalize.Pipeline) Option {
	return func(e *Engine) {
		e.pipeline = p
	}
}

// New creates an untrained Engine reading datasets from source. Training
// happens lazily on first use, or eagerly via Retrain.
func New(source corpus.Lister, opts ...Option) *Engine {
	e := &Engine{
		source:   source,
		pipeline: normalize.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Retrain unconditionally re-extracts the corpus and re-fits every field's
// vector space and search index, then atomically swaps the new snapshot in.
// It is idempotent and may be called repeatedly; concurrent calls are
// serialized. On failure the previous snapshot keeps serving and the error
// is returned.
func (e *Engine) Retrain(ctx context.Context) error {
	e.trainMu.Lock()
	defer e.trainMu.Unlock()

	snap, err := e.build(ctx)
	if err != nil {
		slog.Error("retrain failed, keeping previous snapshot", "error", err)
		return fmt.Errorf("retraining recommendation engine: %w", err)
	}

	e.current.Store(snap)
	slog.Info("recommendation engine trained", "rows", len(snap.rows), "fields", len(snap.models))
	return nil
}

// Ready reports whether the engine holds a trained snapshot.
func (e *Engine) Ready() bool {
	return e.current.Load() != nil
}

// Rows returns the corpus row count of the current snapshot, training
// lazily if needed.
func (e *Engine) Rows(ctx context.Context) (int, error) {
	snap, err := e.ensure(ctx)
	if err != nil {
		return 0, err
	}
	return len(snap.rows), nil
}

// Corpus returns the corpus rows of the current snapshot, training lazily
// if needed. Callers must treat the slice as read-only.
func (e *Engine) Corpus(ctx context.Context) ([]corpus.Row, error) {
	snap, err := e.ensure(ctx)
	if err != nil {
		return nil, err
	}
	return snap.rows, nil
}

// Model returns the fitted vectorizer for a field, or ok=false when the
// field was never trained or the corpus was empty.
func (e *Engine) Model(ctx context.Context, field Field) (*tfidf.Vectorizer, bool, error) {
	snap, err := e.ensure(ctx)
	if err != nil {
		return nil, false, err
	}
	model, ok := snap.models[field]
	return model, ok, nil
}

// SearchField runs a free-text query against one categorical field's index.
// FullText has no search index; querying it (or an empty engine) returns nil.
func (e *Engine) SearchField(ctx context.Context, field Field, query string, limit int) ([]search.Result, error) {
	snap, err := e.ensure(ctx)
	if err != nil {
		return nil, err
	}

	ix, ok := snap.indexes[field]
	if !ok {
		slog.Warn("no search index for field", "field", field.String())
		return nil, nil
	}
	return ix.Search(query, limit), nil
}

// ensure returns the current snapshot, training first if the engine has
// never been trained.
func (e *Engine) ensure(ctx context.Context) (*snapshot, error) {
	if snap := e.current.Load(); snap != nil {
		return snap, nil
	}

	if err := e.Retrain(ctx); err != nil {
		return nil, err
	}
	return e.current.Load(), nil
}

// build extracts the corpus and fits every vector space and search index
// into a fresh snapshot. A corpus with zero rows produces a valid, empty
// snapshot: queryable, always returning nothing.
func (e *Engine) build(ctx context.Context) (*snapshot, error) {
	rows, err := corpus.Extract(ctx, e.source, e.pipeline)
	if err != nil {
		return nil, err
	}

	snap := &snapshot{
		rows:    rows,
		byID:    make(map[int64]int, len(rows)),
		models:  make(map[Field]*tfidf.Vectorizer),
		indexes: make(map[Field]*search.Index),
	}

	if len(rows) == 0 {
		slog.Warn("corpus is empty, engine is ready but will return no results")
		return snap, nil
	}

	ids := make([]int64, len(rows))
	for i, row := range rows {
		snap.byID[row.DatasetID] = i
		ids[i] = row.DatasetID
	}

	// the full-text field was tokenized by the normalization pipeline, so
	// its vectorizer splits on whitespace with no further processing
	fullText := tfidf.NewVectorizer(tfidf.SplitTokenizer)
	fullText.Fit(fieldDocs(rows, FullText))
	snap.models[FullText] = fullText

	for _, field := range categoricalFields {
		docs := fieldDocs(rows, field)

		v := tfidf.NewVectorizer(tfidf.WordTokenizer)
		v.Fit(docs)
		snap.models[field] = v

		snap.indexes[field] = search.NewIndex(ids, docs)
	}

	return snap, nil
}

// fieldDocs projects the corpus rows onto one field's document slice.
func fieldDocs(rows []corpus.Row, field Field) []string {
	docs := make([]string, len(rows))
	for i, row := range rows {
		switch field {
		case FullText:
			docs[i] = row.FullText
		case Authors:
			docs[i] = row.Authors
		case Tags:
			docs[i] = row.Tags
		case Affiliation:
			docs[i] = row.Affiliation
		}
	}
	return docs
}
