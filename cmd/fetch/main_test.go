package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"stockrelay/internal/provider"
)

func TestNewest(t *testing.T) {
	series := provider.Series{
		"2024-01-01 15:50:00": {"4. close": "1"},
		"2024-01-01 16:00:00": {"4. close": "3"},
		"2024-01-01 15:55:00": {"4. close": "2"},
	}

	got := newest(series, 2)
	require.Len(t, got, 2)
	require.Equal(t, "2024-01-01 16:00:00", got[0].Time)
	require.Equal(t, "2024-01-01 15:55:00", got[1].Time)
	require.Equal(t, "2", got[1].Fields["4. close"])

	require.Len(t, newest(series, 0), 3)
	require.Len(t, newest(series, 10), 3)
	require.Empty(t, newest(provider.Series{}, 5))
}

func TestRender(t *testing.T) {
	series := provider.Series{
		"2024-01-01 15:55:00": {"4. close": "2"},
		"2024-01-01 16:00:00": {"4. close": "3"},
	}

	b, err := render(series, 1)
	require.NoError(t, err)

	var got []point
	require.NoError(t, json.Unmarshal(b, &got))
	require.Equal(t, []point{{Time: "2024-01-01 16:00:00", Fields: map[string]string{"4. close": "3"}}}, got)
	require.Contains(t, string(b), "\n  {")
}
