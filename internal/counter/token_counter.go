package counter

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter counts tokens with tiktoken's cl100k_base encoding. It is the
// default method for the stats report since token counts are what downstream
// consumers of dataset descriptions tend to budget against.
type TokenCounter struct {
	encoding *tiktoken.Tiktoken
	mu       sync.RWMutex // protects encoding access for thread safety
}

// NewTokenCounter creates a TokenCounter, loading the cl100k_base encoding.
func NewTokenCounter() (Counter, error) {
	slog.Debug("loading cl100k_base encoding for token counting")

	encoding, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cl100k_base encoding: %w", err)
	}

	return &TokenCounter{
		encoding: encoding,
	}, nil
}

// Count returns the number of cl100k_base tokens in text. Safe for
// concurrent use.
func (tc *TokenCounter) Count(text string) int {
	if text == "" {
		return 0
	}

	tc.mu.RLock()
	defer tc.mu.RUnlock()

	// nil params mean no special tokens allowed/disallowed
	tokens := tc.encoding.Encode(text, nil, nil)

	slog.Debug("counted field tokens", "textLength", len(text), "tokens", len(tokens))
	return len(tokens)
}

// Name returns the name of this counting method (for logging and debugging).
func (tc *TokenCounter) Name() string {
	return "tokens (cl100k_base)"
}
