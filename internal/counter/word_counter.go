package counter

import (
	"log/slog"
	"strings"
)

// WordCounter counts whitespace-separated words. For the corpus fields this
// is the closest analogue to the token count the vectorizers see, since the
// normalization pipeline already joins tokens with single spaces.
type WordCounter struct{}

// NewWordCounter creates a new WordCounter instance.
func NewWordCounter() Counter {
	return &WordCounter{}
}

// Count returns the number of words in text. Splitting follows
// strings.Fields: any run of Unicode whitespace separates words, leading and
// trailing whitespace is ignored.
func (wc *WordCounter) Count(text string) int {
	if text == "" {
		return 0
	}

	count := len(strings.Fields(text))
	slog.Debug("counted field words", "textLength", len(text), "words", count)
	return count
}

// Name returns the name of this counting method (for logging and debugging).
func (wc *WordCounter) Name() string {
	return "words"
}
