// Package counter provides text counting for corpus statistics.
//
// Three counting strategies are available: token counting (using OpenAI's
// tiktoken with the cl100k_base encoding), word counting, and character
// counting. The stats reporting uses these to describe how much text each
// corpus field carries.
//
// Usage Example:
//
//	c, err := counter.NewCounter(counter.Tokens)
//	count := c.Count(row.FullText)
package counter

// Counter defines the interface for different text counting strategies.
type Counter interface {
	// Count returns the number of units (tokens, words, or characters) in given text.
	Count(text string) int

	// Name returns a human-readable name for this counting method (for logging)
	Name() string
}

// CountingMethod represents the different available counting strategies.
type CountingMethod int

const (
	// Tokens uses tiktoken with cl100k_base encoding (default)
	Tokens CountingMethod = iota
	// Words counts words using whitespace splitting
	Words
	// Characters counts individual characters including whitespace
	Characters
)

// String returns the string representation of the counting method.
func (cm CountingMethod) String() string {
	switch cm {
	case Tokens:
		return "tokens"
	case Words:
		return "words"
	case Characters:
		return "characters"
	default:
		return "unknown"
	}
}

// NewCounter creates a Counter for the specified method. Returns an error if
// the counter cannot be initialized (e.g., the tiktoken encoding fails to
// load).
func NewCounter(method CountingMethod) (Counter, error) {
	switch method {
	case Words:
		return NewWordCounter(), nil
	case Characters:
		return NewCharCounter(), nil
	default:
		return NewTokenCounter()
	}
}
