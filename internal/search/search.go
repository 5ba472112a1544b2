// Package search provides a per-field free-text index over corpus rows,
// keyed by dataset id. It backs keyword lookups on the categorical metadata
// fields (authors, tags, affiliation); the similarity ranking itself never
// consults it.
//
// Documents and queries are stemmed with the English snowball stemmer before
// matching, so "sensors" matches "sensor". A document is a hit when it
// contains at least one stemmed query term; hits are ordered by BM25 score.
// On small corpora the BM25 IDF term clamps to zero for common words, so a
// query-coverage fallback keeps hit scores positive and the ordering
// deterministic.
package search

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/chriscorrea/bm25md"
	"github.com/kljensen/snowball"
)

// tokenRegex extracts word tokens for stemming
var tokenRegex = regexp.MustCompile(`\b[a-zA-Z0-9]+\b`)

// Result is one ranked hit from the index.
type Result struct {
	DatasetID int64   `json:"dataset_id"`
	Score     float64 `json:"score"`
}

// Index is an immutable free-text index over one corpus field. Like the
// vector spaces, an Index is rebuilt wholesale on every retrain.
type Index struct {
	corpus *bm25md.Corpus
	ids    []int64
	terms  []map[string]struct{} // stemmed term set per document
}

// NewIndex builds an index from parallel slices of dataset ids and field
// text. Both slices must have equal length; row i of docs belongs to ids[i].
func NewIndex(ids []int64, docs []string) *Index {
	ix := &Index{
		corpus: bm25md.NewCorpus(),
		ids:    ids,
		terms:  make([]map[string]struct{}, len(docs)),
	}

	parser := bm25md.NewMarkdownFieldParser()
	for i, doc := range docs {
		stemmedTokens := stemTokens(doc)
		stemmed := strings.Join(stemmedTokens, " ")

		fields := parser.ParseDocument(stemmed)
		ix.corpus.AddDocument(bm25md.Document{
			ID:       i,
			Fields:   fields,
			Original: doc,
		})

		terms := make(map[string]struct{}, len(stemmedTokens))
		for _, token := range stemmedTokens {
			terms[token] = struct{}{}
		}
		ix.terms[i] = terms
	}

	slog.Debug("field index built", "documents", len(docs))
	return ix
}

// Size returns the number of indexed documents.
func (ix *Index) Size() int {
	return len(ix.ids)
}

// Search returns the documents containing at least one stemmed query term,
// in descending score order, capped at limit. A non-positive limit means no
// cap. An empty index or blank query returns nil.
//
// The score is the document's BM25 score for the query; when BM25 yields
// zero (every query term too common for the corpus size), the fraction of
// query terms the document covers is used instead, so hit scores are always
// positive. Ties break on ascending dataset id.
func (ix *Index) Search(query string, limit int) []Result {
	if len(ix.ids) == 0 || strings.TrimSpace(query) == "" {
		return nil
	}

	queryTokens := stemTokens(query)
	if len(queryTokens) == 0 {
		return nil
	}
	stemmedQuery := strings.Join(queryTokens, " ")

	queryTerms := make(map[string]struct{}, len(queryTokens))
	for _, token := range queryTokens {
		queryTerms[token] = struct{}{}
	}

	var results []Result
	for i, id := range ix.ids {
		matched := 0
		for term := range queryTerms {
			if _, ok := ix.terms[i][term]; ok {
				matched++
			}
		}
		if matched == 0 {
			continue
		}

		score := ix.corpus.Score(stemmedQuery, i)
		if score <= 0 {
			score = float64(matched) / float64(len(queryTerms))
		}
		results = append(results, Result{DatasetID: id, Score: score})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].DatasetID < results[j].DatasetID
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	return results
}

// stemTokens lowercases text and stems each word token with the English
// snowball stemmer. Tokens that fail to stem are kept as-is.
func stemTokens(text string) []string {
	tokens := tokenRegex.FindAllString(strings.ToLower(text), -1)
	if len(tokens) == 0 {
		return nil
	}

	stemmed := make([]string, len(tokens))
	for i, token := range tokens {
		s, err := snowball.Stem(token, "english", true)
		if err != nil {
			s = token
		}
		stemmed[i] = s
	}

	return stemmed
}
