// Package tokens estimates token counts for compiled context documents.
package tokens

import (
	"strings"
	"sync"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// Estimator counts tokens with tiktoken when the encoding is available and
// falls back to a word-count heuristic otherwise (offline environments have
// no BPE cache and the hook must not make network requests block startup).
type Estimator struct {
	encoder *tiktoken.Tiktoken
}

var (
	defaultEstimator *Estimator
	defaultOnce      sync.Once
)

// Default returns the shared estimator, initialized once per process.
func Default() *Estimator {
	defaultOnce.Do(func() {
		defaultEstimator = New("cl100k_base")
	})
	return defaultEstimator
}

// New builds an estimator for the given tiktoken encoding name.
func New(encoding string) *Estimator {
	est := &Estimator{}
	if enc, err := tiktoken.GetEncoding(encoding); err == nil {
		est.encoder = enc
	}
	return est
}

// Count returns the token count for text.
func (e *Estimator) Count(text string) int {
	if text == "" {
		return 0
	}
	if e.encoder == nil {
		return heuristicCount(text)
	}
	return len(e.encoder.Encode(text, nil, nil))
}

// Precise reports whether counts come from tiktoken rather than the heuristic.
func (e *Estimator) Precise() bool {
	return e.encoder != nil
}

// heuristicCount approximates English/code text at 1.3 tokens per word.
func heuristicCount(text string) int {
	return int(float64(len(strings.Fields(text))) * 1.3)
}
