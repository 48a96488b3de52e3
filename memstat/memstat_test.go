package memstat

import (
	"strings"
	"testing"

	"objectstore/config"
)

func TestComputeOverheadBasicArithmetic(t *testing.T) {
	s := Snapshot{
		TotalAllocated:   1000,
		StartupAllocated: 100,
		PeakAllocated:    2000,
		RSS:              1400,
		Clients:          ClientBufferStats{NormalCount: 2, NormalBytes: 100, SlaveCount: 1, SlaveBytes: 50},
		Databases: []DatabaseStats{
			{MainEntries: 10, MainSlotCount: 16, ExpireEntries: 2, ExpireSlotCount: 4},
		},
	}
	o := ComputeOverhead(s)
	if o.Fragmentation != 1.4 {
		t.Fatalf("expected fragmentation 1.4, got %v", o.Fragmentation)
	}
	if o.OverheadTotal <= 0 {
		t.Fatalf("expected positive overhead total")
	}
	if o.DatasetBytes != o.TotalAllocated-o.OverheadTotal {
		t.Fatalf("expected dataset bytes = total - overhead")
	}
	if o.BytesPerKey != o.DatasetBytes/10 {
		t.Fatalf("expected bytes per key computed from total main entries")
	}
}

func TestComputeOverheadZeroAllocatedFloorsFragmentation(t *testing.T) {
	o := ComputeOverhead(Snapshot{})
	if o.Fragmentation != 1.0 {
		t.Fatalf("expected fragmentation floor of 1.0 with zero allocation, got %v", o.Fragmentation)
	}
}

func TestDoctorEmptyBelowThreshold(t *testing.T) {
	cfg := config.Load()
	o := ComputeOverhead(Snapshot{TotalAllocated: 1024})
	msg := Doctor(o, cfg)
	if !strings.Contains(msg, "Empty dataset") {
		t.Fatalf("expected empty-dataset message, got %q", msg)
	}
}

func TestDoctorAllClearWhenNoRuleFires(t *testing.T) {
	cfg := config.Load()
	s := Snapshot{TotalAllocated: 100 * 1024 * 1024, RSS: 100 * 1024 * 1024}
	o := ComputeOverhead(s)
	msg := Doctor(o, cfg)
	if !strings.Contains(msg, "can't find any memory issue") {
		t.Fatalf("expected all-clear message, got %q", msg)
	}
}

func TestDoctorBigPeakOnly(t *testing.T) {
	cfg := config.Load()
	s := Snapshot{
		TotalAllocated: 10 * 1024 * 1024,
		PeakAllocated:  20 * 1024 * 1024,
		RSS:            11 * 1024 * 1024,
		Clients:        ClientBufferStats{NormalCount: 50, NormalBytes: 8 * 1024 * 1024},
	}
	o := ComputeOverhead(s)
	msg := Doctor(o, cfg)
	if !strings.Contains(msg, "peak") {
		t.Fatalf("expected big-peak paragraph, got %q", msg)
	}
	if strings.Contains(msg, "\n\n") {
		t.Fatalf("expected exactly one paragraph, got %q", msg)
	}
}

func TestDoctorHighFragmentationRule(t *testing.T) {
	cfg := config.Load()
	s := Snapshot{TotalAllocated: 100 * 1024 * 1024, RSS: 200 * 1024 * 1024}
	o := ComputeOverhead(s)
	msg := Doctor(o, cfg)
	if !strings.Contains(msg, "fragmentation") {
		t.Fatalf("expected high fragmentation diagnosis, got %q", msg)
	}
}

func TestStatsFlattensOverhead(t *testing.T) {
	o := ComputeOverhead(Snapshot{TotalAllocated: 500, RSS: 500})
	flat := Stats(o)
	byName := make(map[string]Stat, len(flat))
	for _, st := range flat {
		byName[st.Name] = st
	}
	if byName["total.allocated"].Int != 500 {
		t.Fatalf("expected total.allocated 500 in flattened stats")
	}
	if !byName["fragmentation"].IsFloat || byName["fragmentation"].Float != 1.0 {
		t.Fatalf("expected fragmentation ratio 1.0, got %+v", byName["fragmentation"])
	}
	if flat[0].Name != "peak.allocated" {
		t.Fatalf("expected stable report order starting at peak.allocated, got %q", flat[0].Name)
	}
}
