package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// A Result classifies how a single synchronization attempt ended.
type Result int

const (
	// Success means the mirror now matches the remote.
	Success Result = iota

	// TransportFailure covers network, auth, and remote-side
	// failures during clone or fetch, including timeouts.  These
	// are safe to retry.
	TransportFailure

	// LocalCorruption means the mirror directory exists but is not
	// a readable repository.  An operator has to repair it.
	LocalCorruption

	// ConfigurationError means the request itself was bad or not
	// allowed and must be corrected before it is resent.
	ConfigurationError

	// InternalError is anything else, such as a permission error
	// while cleaning up a failed clone.
	InternalError
)

var resultNames = map[Result]string{
	Success:            "Success",
	TransportFailure:   "TransportFailure",
	LocalCorruption:    "LocalCorruption",
	ConfigurationError: "ConfigurationError",
	InternalError:      "InternalError",
}

func (r Result) String() string {
	if s, ok := resultNames[r]; ok {
		return s
	}
	return "Unknown"
}

// Retryable reports whether a later notification for the same
// repository can reasonably be expected to succeed without anyone
// intervening.
func (r Result) Retryable() bool {
	return r == TransportFailure
}

// MarshalJSON encodes the result by name so that stored outcomes and
// API responses stay readable.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (r *Result) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	for k, v := range resultNames {
		if v == s {
			*r = k
			return nil
		}
	}
	return fmt.Errorf("unknown result %q", s)
}

// Operation names the step of the state machine that produced an
// outcome.
type Operation string

// The operations that can produce an outcome.
const (
	OpResolve Operation = "resolve"
	OpInspect Operation = "inspect"
	OpClone   Operation = "clone"
	OpFetch   Operation = "fetch"
)

// SyncOutcome is the result of one synchronization attempt.  It is
// created once at the end of the attempt and never modified; the next
// attempt for the same repository supersedes it.
type SyncOutcome struct {
	Repo       string
	StartedAt  time.Time
	FinishedAt time.Time
	Result     Result
	Operation  Operation `json:",omitempty"`
	Revision   string    `json:",omitempty"`
	Detail     string    `json:",omitempty"`
}

// Duration is the wall clock time the attempt took.
func (o SyncOutcome) Duration() time.Duration {
	return o.FinishedAt.Sub(o.StartedAt)
}

// OK is shorthand for a successful outcome.
func (o SyncOutcome) OK() bool {
	return o.Result == Success
}
