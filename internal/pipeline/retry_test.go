package pipeline

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/advisordocs/reportgen/internal/extract"
)

func TestTransient(t *testing.T) {
	retryable := &extract.RetryableError{StatusCode: 529, Message: "overloaded"}
	if !transient(retryable) {
		t.Error("expected RetryableError to be transient")
	}
	if !transient(fmt.Errorf("reasoning pass: %w", retryable)) {
		t.Error("expected wrapped RetryableError to be transient")
	}
	if transient(errors.New("parse extracted json: unexpected end")) {
		t.Error("expected plain error not to be transient")
	}
}

func TestExtractDelay_GrowsAndCaps(t *testing.T) {
	for attempt := 0; attempt < 10; attempt++ {
		d := extractDelay(attempt)
		if d < time.Second {
			t.Errorf("attempt %d: delay below base, got %v", attempt, d)
		}
		if d > 45*time.Second {
			t.Errorf("attempt %d: delay above cap plus jitter, got %v", attempt, d)
		}
	}
	if extractDelay(0) > 2*time.Second {
		t.Errorf("first delay should be near 1s, got %v", extractDelay(0))
	}
}
