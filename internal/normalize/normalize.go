// Package normalize implements the text normalization pipeline that prepares
// dataset metadata for TF-IDF vectorization.
//
// The pipeline applies a fixed sequence of transformations: HTML stripping,
// contraction expansion, lowercasing, character cleanup, tokenization,
// stopword removal, verb-only lemmatization, and synonym expansion. The
// result is a single space-joined token string ready for an identity-split
// vectorizer.
//
// Usage Example:
//
//	p := normalize.Default()
//	text := p.Process("<p>Developers don't test enough</p>")
//	// "developer not test enough ..." plus synonym expansions
package normalize

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// compiled once at package initialization
var (
	nonAlphaRegex  = regexp.MustCompile(`[^a-zA-Z\s]`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
	nonWordRegex   = regexp.MustCompile(`[^a-zA-Z0-9_]`)
	hasAlnumRegex  = regexp.MustCompile(`[a-zA-Z0-9_]`)
)

// Pipeline converts raw free text into a normalized, synonym-expanded token
// string. A Pipeline is safe for concurrent use.
type Pipeline struct {
	thesaurus Thesaurus
}

// New creates a Pipeline using the given Thesaurus for synonym expansion.
func New(thesaurus Thesaurus) *Pipeline {
	if thesaurus == nil {
		thesaurus = NopThesaurus()
	}
	return &Pipeline{thesaurus: thesaurus}
}

// Default creates a Pipeline backed by the built-in static thesaurus.
func Default() *Pipeline {
	return New(DefaultThesaurus())
}

// Process runs the full normalization pipeline over text and returns a
// single string of space-separated lowercase tokens. Empty or
// whitespace-only input yields an empty string.
//
// No stage raises for well-formed UTF-8 input; unparseable HTML is treated
// as plain text. Should a stage panic anyway, Process recovers and falls
// back to the lowercased input string.
func (p *Pipeline) Process(text string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("normalization stage panicked, using lowercase fallback", "panic", r)
			result = strings.ToLower(text)
		}
	}()

	text = stripHTML(text)
	text = expandContractions(text)
	text = strings.ToLower(text)
	text = cleanText(text)

	tokens := strings.Fields(text)
	tokens = stripNonWord(tokens)
	tokens = removeStopwords(tokens)
	tokens = lemmatizeVerbs(tokens)
	tokens = p.expandSynonyms(tokens)

	return strings.Join(tokens, " ")
}

// stripHTML removes markup and returns only the visible text. Content that
// does not parse as HTML comes back unchanged.
func stripHTML(text string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		slog.Debug("html parse failed, treating input as plain text", "error", err)
		return text
	}
	return doc.Text()
}

// cleanText strips everything outside the basic Latin alphabet and
// whitespace, then collapses whitespace runs.
func cleanText(text string) string {
	text = nonAlphaRegex.ReplaceAllString(text, " ")
	text = whitespaceRegex.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// stripNonWord drops tokens with no alphanumeric content and removes any
// remaining non-word characters from the survivors.
func stripNonWord(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if !hasAlnumRegex.MatchString(tok) {
			continue
		}
		if cleaned := nonWordRegex.ReplaceAllString(tok, ""); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}

// removeStopwords filters out English stopwords.
func removeStopwords(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if !isStopword(tok) {
			out = append(out, tok)
		}
	}
	return out
}

// expandSynonyms appends every synonym of each distinct token, repeated the
// same number of times the base token occurs. The base tokens keep their own
// occurrence counts, so a token appearing k times with m synonyms grows the
// stream by exactly k*m tokens. Frequencies end up biased toward concepts
// with many synonyms; that weighting is intentional.
func (p *Pipeline) expandSynonyms(tokens []string) []string {
	if len(tokens) == 0 {
		return tokens
	}

	// count occurrences, preserving first-appearance order
	counts := make(map[string]int, len(tokens))
	order := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if counts[tok] == 0 {
			order = append(order, tok)
		}
		counts[tok]++
	}

	var expanded []string
	for _, tok := range order {
		count := counts[tok]
		for i := 0; i < count; i++ {
			expanded = append(expanded, tok)
		}
		for _, syn := range p.thesaurus.Synonyms(tok) {
			if syn == tok {
				continue
			}
			for i := 0; i < count; i++ {
				expanded = append(expanded, syn)
			}
		}
	}

	return expanded
}
