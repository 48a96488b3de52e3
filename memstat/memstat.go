// Package memstat implements the aggregate memory-overhead reporter
// and "doctor" diagnostic: a whole-process snapshot of allocator
// bookkeeping, client buffers, and per-database hash overhead, reduced
// to a handful of derived ratios and a plain-English diagnosis.
package memstat

import (
	"fmt"
	"strings"

	"objectstore/config"
	"objectstore/logger"
)

// entryHeaderSize and entryPtrSize approximate the per-entry struct
// and per-slot pointer costs for per-database overhead accounting,
// matching the fixed costs objectstore's size estimator uses for its
// own header/bucket-pointer terms.
const (
	entryHeaderSize = 56
	entryPtrSize    = 8
	valueHeaderSize = 56
)

// DatabaseStats carries one database's key-table bookkeeping: entry
// counts and slot counts for both the main table and the expiration
// table.
type DatabaseStats struct {
	MainEntries     int64
	MainSlotCount   int64
	ExpireEntries   int64
	ExpireSlotCount int64
}

// ClientBufferStats sums per-client buffer usage, tallied separately
// for normal and replica ("slave") connections.
type ClientBufferStats struct {
	NormalCount int64
	NormalBytes int64
	SlaveCount  int64
	SlaveBytes  int64
}

// Snapshot is the raw, externally-gathered process state
// ComputeOverhead reduces into an Overhead report. Every field here is
// a fact this package does not itself collect: allocator stats, RSS,
// client buffers, and replication/AOF buffers all belong to outside
// collaborators.
type Snapshot struct {
	TotalAllocated          int64
	StartupAllocated        int64
	PeakAllocated           int64
	RSS                     int64
	ReplicationBacklogBytes int64
	AOFBufferBytes          int64
	Clients                 ClientBufferStats
	Databases               []DatabaseStats
}

// Overhead is the derived whole-process memory accounting report.
type Overhead struct {
	TotalAllocated           int64
	StartupAllocated         int64
	PeakAllocated            int64
	Fragmentation            float64
	ReplicationBacklogBytes  int64
	ClientsSlaves            int64
	ClientsNormal            int64
	AOFBufferBytes           int64
	DatabasesMainOverhead    int64
	DatabasesExpiresOverhead int64
	OverheadTotal            int64
	DatasetBytes             int64
	DatasetPercentage        float64
	BytesPerKey              int64
	PeakPercentage           float64

	// retained for doctor's client-buffer-per-connection rules.
	normalClientCount int64
	slaveClientCount  int64
}

// ComputeOverhead reduces a Snapshot into an Overhead report.
func ComputeOverhead(s Snapshot) Overhead {
	o := Overhead{
		TotalAllocated:          s.TotalAllocated,
		StartupAllocated:        s.StartupAllocated,
		PeakAllocated:           s.PeakAllocated,
		ReplicationBacklogBytes: s.ReplicationBacklogBytes,
		ClientsSlaves:           s.Clients.SlaveBytes,
		ClientsNormal:           s.Clients.NormalBytes,
		AOFBufferBytes:          s.AOFBufferBytes,
		normalClientCount:       s.Clients.NormalCount,
		slaveClientCount:        s.Clients.SlaveCount,
	}

	if s.TotalAllocated > 0 {
		o.Fragmentation = float64(s.RSS) / float64(s.TotalAllocated)
	} else {
		o.Fragmentation = 1.0
	}

	var totalKeys int64
	for _, db := range s.Databases {
		o.DatabasesMainOverhead += db.MainEntries*entryHeaderSize + db.MainSlotCount*entryPtrSize + db.MainEntries*valueHeaderSize
		o.DatabasesExpiresOverhead += db.ExpireEntries*entryHeaderSize + db.ExpireSlotCount*entryPtrSize
		totalKeys += db.MainEntries
	}

	o.OverheadTotal = o.ReplicationBacklogBytes + o.ClientsSlaves + o.ClientsNormal +
		o.AOFBufferBytes + o.DatabasesMainOverhead + o.DatabasesExpiresOverhead

	o.DatasetBytes = o.TotalAllocated - o.OverheadTotal

	denom := o.TotalAllocated - o.StartupAllocated
	if denom <= 0 {
		denom = 1
	}
	o.DatasetPercentage = float64(o.DatasetBytes) / float64(denom) * 100

	if totalKeys > 0 {
		o.BytesPerKey = o.DatasetBytes / totalKeys
	}

	if o.PeakAllocated > 0 {
		o.PeakPercentage = float64(o.TotalAllocated) / float64(o.PeakAllocated) * 100
	}

	return o
}

// Stat is one row of the flat report MEMORY STATS surfaces: a name
// plus either an integer byte count or a derived ratio/percentage.
type Stat struct {
	Name    string
	Int     int64
	Float   float64
	IsFloat bool
}

func intStat(name string, v int64) Stat     { return Stat{Name: name, Int: v} }
func floatStat(name string, v float64) Stat { return Stat{Name: name, Float: v, IsFloat: true} }

// Stats flattens an Overhead into the key/value report MEMORY STATS
// surfaces, in a fixed order so the reply is stable across calls.
func Stats(o Overhead) []Stat {
	return []Stat{
		intStat("peak.allocated", o.PeakAllocated),
		intStat("total.allocated", o.TotalAllocated),
		intStat("startup.allocated", o.StartupAllocated),
		intStat("replication.backlog", o.ReplicationBacklogBytes),
		intStat("clients.slaves", o.ClientsSlaves),
		intStat("clients.normal", o.ClientsNormal),
		intStat("aof.buffer", o.AOFBufferBytes),
		intStat("db.overhead.main", o.DatabasesMainOverhead),
		intStat("db.overhead.expires", o.DatabasesExpiresOverhead),
		intStat("overhead.total", o.OverheadTotal),
		intStat("dataset.bytes", o.DatasetBytes),
		floatStat("dataset.percentage", o.DatasetPercentage),
		intStat("keys.bytes-per-key", o.BytesPerKey),
		floatStat("peak.percentage", o.PeakPercentage),
		floatStat("fragmentation", o.Fragmentation),
	}
}

// Doctor produces a human-readable diagnostic derived from the
// overhead snapshot, one paragraph per rule that holds, rules applied
// in a fixed order. When "empty" fires, every other rule is skipped.
func Doctor(o Overhead, cfg *config.Config) string {
	if o.TotalAllocated < cfg.DoctorEmptyThresholdBytes {
		logger.TraceIf("doctor", "empty rule fired at %d allocated bytes", o.TotalAllocated)
		return "Empty dataset, skipping further diagnostics."
	}

	var paragraphs []string

	if o.PeakAllocated > 0 && float64(o.PeakAllocated)/float64(o.TotalAllocated) > cfg.DoctorBigPeakRatio {
		paragraphs = append(paragraphs, "High allocator peak: the allocator reports a peak memory much higher than the currently used one.")
	}
	if o.Fragmentation > cfg.DoctorHighFragRatio {
		paragraphs = append(paragraphs, fmt.Sprintf("High fragmentation: fragmentation ratio is %.2f, above the %.2f threshold.", o.Fragmentation, cfg.DoctorHighFragRatio))
	}
	if o.normalClientCount > 0 && float64(o.ClientsNormal)/float64(o.normalClientCount) > float64(cfg.DoctorBigClientBufBytes) {
		paragraphs = append(paragraphs, "Big client buffers: the normal clients output buffers are using a lot of memory on average.")
	}
	if o.slaveClientCount > 0 && float64(o.ClientsSlaves)/float64(o.slaveClientCount) > float64(cfg.DoctorBigSlaveBufBytes) {
		paragraphs = append(paragraphs, "Big replica buffers: the replica output buffers are using a lot of memory on average.")
	}

	if len(paragraphs) == 0 {
		return "Sam, I can't find any memory issue in your instance. I can only account for what occurs on this base."
	}
	logger.TraceIf("doctor", "%d diagnostic rule(s) fired", len(paragraphs))
	return strings.Join(paragraphs, "\n\n")
}
