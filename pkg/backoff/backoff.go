// Package backoff provides the retry delay policy as a pure function of
// the attempt number, kept separate from the loop that decides whether a
// failure is retryable.
package backoff

import "time"

type Policy struct {
	Base time.Duration
	Max  time.Duration
}

// Delay returns the wait before retrying after the given zero-based
// attempt: Base doubled per attempt, capped at Max.
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	d := p.Base
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= p.Max {
			return p.Max
		}
	}
	if d > p.Max {
		return p.Max
	}
	return d
}
