package observability

import (
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestNewMetricsForTesting_IsolatedRegistries(t *testing.T) {
	m1, reg1 := NewMetricsForTesting()
	m2, _ := NewMetricsForTesting()

	m1.RowsRead.WithLabelValues("disasters.csv").Add(3)
	m2.RowsRead.WithLabelValues("disasters.csv").Add(1)

	assert.InDelta(t, 3.0, testutil.ToFloat64(m1.RowsRead.WithLabelValues("disasters.csv")), 0)

	families, err := reg1.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "globe_etl_rows_read_total")
}
