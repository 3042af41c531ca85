package sentinel

import "time"

// RetryState tracks connection attempts for one Connect invocation. It is a
// value type: each decision returns the advanced state instead of mutating a
// shared counter, so attempt counts never leak across connect calls.
type RetryState struct {
	Attempts int
	// Limit bounds the number of retries; 0 or negative means unlimited.
	Limit    int
	Interval time.Duration
}

// Next reports whether another attempt is allowed and returns the state
// advanced by one attempt. Exhaustion of the limit is the only reason this
// ever says no; cancellation is the caller's concern.
func (s RetryState) Next() (RetryState, bool) {
	if s.Limit > 0 && s.Attempts >= s.Limit {
		return s, false
	}
	s.Attempts++
	return s, true
}
