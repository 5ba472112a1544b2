// Package tfidf provides TF-IDF (Term Frequency-Inverse Document Frequency)
// vectorization and cosine similarity for dataset metadata fields.
//
// This package implements a corpus-based approach to similarity ranking using
// classical information retrieval techniques. Fitting pre-calculates one
// sparse weight vector and its L2 norm per document, making subsequent
// similarity queries fast.
//
// The TF-IDF weighting combines:
//   - Term Frequency (TF): How frequently a term appears in a document
//   - Inverse Document Frequency (IDF): How rare a term is across the corpus
//
// Usage Example:
//
//	v := tfidf.NewVectorizer(tfidf.SplitTokenizer)
//	v.Fit(documents)
//	scores := v.Similarities(targetIndex)
//
// Two tokenizers are provided: SplitTokenizer for pre-normalized text that is
// already space-joined tokens, and WordTokenizer for raw field text.
package tfidf

import (
	"log/slog"
	"math"
	"regexp"
	"strings"
)

// wordRegex is compiled once at package initialization for word-boundary tokenization
var wordRegex = regexp.MustCompile(`[a-z0-9_]+`)

// Tokenizer breaks a document into terms before weighting.
type Tokenizer func(text string) []string

// SplitTokenizer splits on whitespace only. Use it for documents that were
// already tokenized and space-joined upstream; no further filtering or case
// folding is applied.
func SplitTokenizer(text string) []string {
	return strings.Fields(text)
}

// WordTokenizer lowercases the text and extracts word-boundary tokens.
func WordTokenizer(text string) []string {
	return wordRegex.FindAllString(strings.ToLower(text), -1)
}

// Vectorizer holds the fitted TF-IDF weight vectors for one corpus field.
// A fitted Vectorizer is read-only and safe for concurrent use.
type Vectorizer struct {
	tokenize  Tokenizer
	vectors   []map[string]float64 // TF-IDF weights per document
	norms     []float64            // L2 norm per document vector
	docFreq   map[string]int       // document frequency per term
	totalDocs int
}

// NewVectorizer creates an unfitted Vectorizer using the given tokenizer.
func NewVectorizer(tokenize Tokenizer) *Vectorizer {
	return &Vectorizer{
		tokenize: tokenize,
		docFreq:  make(map[string]int),
	}
}

// Fit computes TF-IDF weight vectors for every document. Fitting an empty
// document slice produces an empty (but valid) model. Refitting replaces all
// previous state.
func (v *Vectorizer) Fit(documents []string) {
	v.vectors = make([]map[string]float64, len(documents))
	v.norms = make([]float64, len(documents))
	v.docFreq = make(map[string]int)
	v.totalDocs = len(documents)

	if len(documents) == 0 {
		slog.Debug("fitting empty document collection")
		return
	}

	slog.Debug("fitting tf-idf vectorizer", "documentCount", len(documents))

	// first pass: term frequencies and document frequencies
	termFreqs := make([]map[string]float64, len(documents))
	for docIdx, doc := range documents {
		tokens := v.tokenize(doc)
		termFreqs[docIdx] = termFrequency(tokens)
		for term := range termFreqs[docIdx] {
			v.docFreq[term]++
		}
	}

	// second pass: weight each term by its IDF and precompute vector norms
	for docIdx, tf := range termFreqs {
		vector := make(map[string]float64, len(tf))
		var sumSquares float64
		for term, freq := range tf {
			// IDF: log(total_docs / docs_containing_term)
			idf := math.Log(float64(v.totalDocs) / float64(v.docFreq[term]))
			weight := freq * idf
			if weight == 0 {
				continue // term appears in every document
			}
			vector[term] = weight
			sumSquares += weight * weight
		}
		v.vectors[docIdx] = vector
		v.norms[docIdx] = math.Sqrt(sumSquares)
	}

	slog.Debug("tf-idf vectorizer fitted", "totalTerms", len(v.docFreq), "documents", v.totalDocs)
}

// Rows returns the number of document vectors in the fitted model.
func (v *Vectorizer) Rows() int {
	return len(v.vectors)
}

// Terms returns the number of distinct terms observed during fitting.
func (v *Vectorizer) Terms() int {
	return len(v.docFreq)
}

// Cosine returns the cosine similarity between two document vectors, in
// [0, 1] for the non-negative weights produced here. Out-of-range indices
// and zero-norm vectors score 0.
func (v *Vectorizer) Cosine(i, j int) float64 {
	if i < 0 || i >= len(v.vectors) || j < 0 || j >= len(v.vectors) {
		slog.Debug("cosine index out of range", "i", i, "j", j, "rows", len(v.vectors))
		return 0
	}
	if v.norms[i] == 0 || v.norms[j] == 0 {
		return 0
	}

	// iterate the smaller vector
	a, b := v.vectors[i], v.vectors[j]
	if len(b) < len(a) {
		a, b = b, a
	}

	var dot float64
	for term, wa := range a {
		if wb, ok := b[term]; ok {
			dot += wa * wb
		}
	}

	return dot / (v.norms[i] * v.norms[j])
}

// Similarities returns the cosine similarity of the target document against
// every document in the model, including itself. The result index matches
// the fitted document index. An out-of-range target yields nil.
func (v *Vectorizer) Similarities(target int) []float64 {
	if target < 0 || target >= len(v.vectors) {
		slog.Debug("similarity target out of range", "target", target, "rows", len(v.vectors))
		return nil
	}

	scores := make([]float64, len(v.vectors))
	for i := range v.vectors {
		scores[i] = v.Cosine(target, i)
	}
	return scores
}

// termFrequency computes relative term frequencies for a token slice:
// (count of term in document) / (total terms in document).
func termFrequency(tokens []string) map[string]float64 {
	if len(tokens) == 0 {
		return map[string]float64{}
	}

	counts := make(map[string]int)
	for _, token := range tokens {
		counts[token]++
	}

	total := float64(len(tokens))
	freqs := make(map[string]float64, len(counts))
	for term, count := range counts {
		freqs[term] = float64(count) / total
	}

	return freqs
}
