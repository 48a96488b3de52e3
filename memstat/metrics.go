package memstat

import "github.com/prometheus/client_golang/prometheus"

// metricDescs names every gauge Collector exports, matching the flat
// key/value set Stats() reports via MEMORY STATS so the two surfaces
// never drift.
var metricDescs = []struct {
	name string
	help string
	get  func(Overhead) float64
}{
	{"objectstore_total_allocated_bytes", "Allocator-reported total bytes in use.", func(o Overhead) float64 { return float64(o.TotalAllocated) }},
	{"objectstore_startup_allocated_bytes", "Bytes allocated at process startup.", func(o Overhead) float64 { return float64(o.StartupAllocated) }},
	{"objectstore_peak_allocated_bytes", "Peak allocator-reported bytes.", func(o Overhead) float64 { return float64(o.PeakAllocated) }},
	{"objectstore_fragmentation_ratio", "RSS divided by allocator-reported bytes.", func(o Overhead) float64 { return o.Fragmentation }},
	{"objectstore_replication_backlog_bytes", "Replication backlog buffer bytes.", func(o Overhead) float64 { return float64(o.ReplicationBacklogBytes) }},
	{"objectstore_clients_slaves_bytes", "Aggregate replica client output buffer bytes.", func(o Overhead) float64 { return float64(o.ClientsSlaves) }},
	{"objectstore_clients_normal_bytes", "Aggregate normal client output buffer bytes.", func(o Overhead) float64 { return float64(o.ClientsNormal) }},
	{"objectstore_aof_buffer_bytes", "Append-only-log buffer bytes.", func(o Overhead) float64 { return float64(o.AOFBufferBytes) }},
	{"objectstore_db_main_overhead_bytes", "Aggregate main-table hash overhead across databases.", func(o Overhead) float64 { return float64(o.DatabasesMainOverhead) }},
	{"objectstore_db_expires_overhead_bytes", "Aggregate expiration-table hash overhead across databases.", func(o Overhead) float64 { return float64(o.DatabasesExpiresOverhead) }},
	{"objectstore_overhead_total_bytes", "Sum of every overhead term.", func(o Overhead) float64 { return float64(o.OverheadTotal) }},
	{"objectstore_dataset_bytes", "Total bytes minus overhead.", func(o Overhead) float64 { return float64(o.DatasetBytes) }},
	{"objectstore_dataset_percentage", "Dataset bytes as a percentage of non-startup allocation.", func(o Overhead) float64 { return o.DatasetPercentage }},
	{"objectstore_bytes_per_key", "Dataset bytes divided by total key count.", func(o Overhead) float64 { return float64(o.BytesPerKey) }},
	{"objectstore_peak_percentage", "Total allocated as a percentage of peak allocated.", func(o Overhead) float64 { return o.PeakPercentage }},
}

// Collector adapts ComputeOverhead's snapshot into a
// prometheus.Collector, re-deriving the Overhead on every scrape from
// the caller-supplied Snapshot source rather than caching it, so no
// gauge can go stale between scrapes.
type Collector struct {
	snapshot func() Snapshot
}

// NewCollector builds a Collector that calls src on every Collect pass
// to obtain a fresh Snapshot, runs it through ComputeOverhead, and
// exports the result as a family of gauges.
func NewCollector(src func() Snapshot) *Collector {
	return &Collector{snapshot: src}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, m := range metricDescs {
		ch <- prometheus.NewDesc(m.name, m.help, nil, nil)
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	overhead := ComputeOverhead(c.snapshot())
	for _, m := range metricDescs {
		desc := prometheus.NewDesc(m.name, m.help, nil, nil)
		ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, m.get(overhead))
	}
}
