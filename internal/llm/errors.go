package llm

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrUnavailable marks a generate attempt against an unconfigured handle.
var ErrUnavailable = errors.New("llm: no provider configured")

// RateLimitError marks a recoverable quota rejection from a provider.
// RetryAfter is zero when the provider did not suggest a delay.
type RateLimitError struct {
	RetryAfter time.Duration
	Err        error
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("llm: rate limited, retry after %s: %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("llm: rate limited: %v", e.Err)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

var retryAfterRe = regexp.MustCompile(`(?i)(?:retry|try)(?:ing)?\s+(?:again\s+)?(?:in|after)\s+(\d+(?:\.\d+)?)\s*s`)

var rateLimitMarkers = []string{
	"rate limit",
	"rate_limit",
	"429",
	"too many requests",
	"quota",
	"resource exhausted",
	"resource_exhausted",
}

// AsRateLimit classifies err as a rate-limit rejection. Typed errors from
// the adapters win; otherwise the message text is inspected for known
// indicators and a suggested retry delay.
func AsRateLimit(err error) (*RateLimitError, bool) {
	if err == nil {
		return nil, false
	}

	var rl *RateLimitError
	if errors.As(err, &rl) {
		return rl, true
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range rateLimitMarkers {
		if strings.Contains(msg, marker) {
			rl = &RateLimitError{Err: err}
			if m := retryAfterRe.FindStringSubmatch(err.Error()); m != nil {
				if secs, perr := strconv.ParseFloat(m[1], 64); perr == nil {
					rl.RetryAfter = time.Duration(secs * float64(time.Second))
				}
			}
			return rl, true
		}
	}
	return nil, false
}
