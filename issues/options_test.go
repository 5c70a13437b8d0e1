package issues_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bugboard/go-bugboard/issues"
)

func TestTypeOptions(t *testing.T) {
	require.True(t, issues.TypeBug.Valid())
	require.False(t, issues.Type("INCIDENT").Valid())
	require.Equal(t, "Documentation", issues.TypeDocumentation.Label())
}

func TestPriorityOptions(t *testing.T) {
	t.Run("none has no wire value", func(t *testing.T) {
		require.Empty(t, string(issues.PriorityNone))
		require.True(t, issues.PriorityNone.Valid())
	})

	t.Run("labels", func(t *testing.T) {
		require.Equal(t, "None", issues.PriorityNone.Label())
		require.Equal(t, "High", issues.PriorityHigh.Label())
	})
}

func TestTimestamp(t *testing.T) {
	t.Run("zoneless form reads as UTC", func(t *testing.T) {
		var ts issues.Timestamp
		require.NoError(t, json.Unmarshal([]byte(`"2026-08-30T10:15:00"`), &ts))
		require.Equal(t, time.Date(2026, 8, 30, 10, 15, 0, 0, time.UTC), ts.Time)
	})

	t.Run("RFC3339 accepted", func(t *testing.T) {
		var ts issues.Timestamp
		require.NoError(t, json.Unmarshal([]byte(`"2026-08-30T10:15:00+02:00"`), &ts))
		require.Equal(t, 8, int(ts.Month()))
	})

	t.Run("null yields the zero time", func(t *testing.T) {
		var ts issues.Timestamp
		require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
		require.True(t, ts.IsZero())
	})

	t.Run("garbage is an error", func(t *testing.T) {
		var ts issues.Timestamp
		require.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
	})
}
