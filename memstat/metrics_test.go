package memstat

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCollectorExportsGaugeFamily(t *testing.T) {
	c := NewCollector(func() Snapshot {
		return Snapshot{
			TotalAllocated:   1000,
			StartupAllocated: 100,
			PeakAllocated:    2000,
			RSS:              1400,
			Databases: []DatabaseStats{
				{MainEntries: 10, MainSlotCount: 16},
			},
		}
	})

	registry := prometheus.NewRegistry()
	require.NoError(t, registry.Register(c))

	count, err := testutil.GatherAndCount(registry)
	require.NoError(t, err)
	require.Equal(t, len(metricDescs), count)

	families, err := registry.Gather()
	require.NoError(t, err)
	found := false
	for _, f := range families {
		if f.GetName() == "objectstore_total_allocated_bytes" {
			found = true
			require.Equal(t, float64(1000), f.GetMetric()[0].GetGauge().GetValue())
		}
	}
	require.True(t, found, "expected objectstore_total_allocated_bytes in gathered families")
}
