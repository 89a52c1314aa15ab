package pipeline

import (
	"errors"
	"math/rand/v2"
	"time"

	"github.com/advisordocs/reportgen/internal/extract"
)

// Extraction is the only phase that calls a rate-limited upstream, so it is
// the only phase retried. Transcript reading, template filling and PDF
// conversion fail the job on first error.
const maxExtractAttempts = 3

// transient reports whether extraction failed with a status the model API
// documents as retryable (429 or 5xx, surfaced as extract.RetryableError).
func transient(err error) bool {
	var retryErr *extract.RetryableError
	return errors.As(err, &retryErr)
}

// extractDelay returns the wait before re-running extraction attempt n
// (0-indexed): exponential from one second, capped at 30s, plus jitter of up
// to half the base.
func extractDelay(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	return base + time.Duration(rand.Int64N(int64(base)/2))
}
