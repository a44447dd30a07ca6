package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultString(t *testing.T) {
	cases := map[Result]string{
		Success:            "Success",
		TransportFailure:   "TransportFailure",
		LocalCorruption:    "LocalCorruption",
		ConfigurationError: "ConfigurationError",
		InternalError:      "InternalError",
		Result(42):         "Unknown",
	}
	for r, want := range cases {
		assert.Equal(t, want, r.String())
	}
}

func TestResultRetryable(t *testing.T) {
	assert.True(t, TransportFailure.Retryable())
	assert.False(t, LocalCorruption.Retryable())
	assert.False(t, ConfigurationError.Retryable())
	assert.False(t, InternalError.Retryable())
}

func TestOutcomeJSONUsesResultNames(t *testing.T) {
	start := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	o := SyncOutcome{
		Repo:       "org/repo",
		StartedAt:  start,
		FinishedAt: start.Add(2 * time.Second),
		Result:     LocalCorruption,
		Operation:  OpInspect,
	}

	b, err := json.Marshal(o)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"Result":"LocalCorruption"`)

	var back SyncOutcome
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, LocalCorruption, back.Result)
	assert.Equal(t, 2*time.Second, back.Duration())
	assert.False(t, back.OK())
}

func TestResultUnmarshalRejectsUnknown(t *testing.T) {
	var r Result
	assert.Error(t, json.Unmarshal([]byte(`"Sideways"`), &r))
}

func TestSyncStateString(t *testing.T) {
	assert.Equal(t, "Absent", Absent.String())
	assert.Equal(t, "Present", Present.String())
	assert.Equal(t, "Failed", Failed.String())
	assert.Equal(t, "corrupt", DiskCorrupt.String())
}
