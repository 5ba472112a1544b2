package counter

import (
	"log/slog"
	"unicode/utf8"
)

// CharCounter counts Unicode characters (runes), not bytes. Author names and
// affiliations routinely carry non-ASCII characters, so byte length would
// overstate them.
type CharCounter struct{}

// NewCharCounter creates a new CharCounter instance.
func NewCharCounter() Counter {
	return &CharCounter{}
}

// Count returns the number of runes in text.
func (cc *CharCounter) Count(text string) int {
	if text == "" {
		return 0
	}

	count := utf8.RuneCountInString(text)
	slog.Debug("counted field characters", "textLength", len(text), "characters", count)
	return count
}

// Name returns the name of this counting method (for logging and debugging).
func (cc *CharCounter) Name() string {
	return "characters"
}
