package introspect

import (
	"testing"

	"objectstore/config"
	"objectstore/evict"
	"objectstore/memstat"
	"objectstore/objectstore"
)

type fakeReply struct {
	nullCalled bool
	errMsg     string
	status     string
	statuses   []string
	bulk       []byte
	i64        int64
	dbl        float64
	multiN     int
}

func (f *fakeReply) ReplyNull()            { f.nullCalled = true }
func (f *fakeReply) ReplyError(msg string) { f.errMsg = msg }
func (f *fakeReply) ReplyStatus(msg string) {
	f.status = msg
	f.statuses = append(f.statuses, msg)
}
func (f *fakeReply) ReplyBulkString(b []byte)   { f.bulk = b }
func (f *fakeReply) ReplyI64(v int64)           { f.i64 = v }
func (f *fakeReply) ReplyDouble(v float64)      { f.dbl = v }
func (f *fakeReply) ReplyMultiBulkHeader(n int) { f.multiN = n }
func (f *fakeReply) DeferredMultiBulkLength() func(int) {
	return func(n int) { f.multiN = n }
}

type fakeKeys struct {
	m map[string]*objectstore.Obj
}

func (k *fakeKeys) Lookup(key string) (*objectstore.Obj, bool) {
	o, ok := k.m[key]
	return o, ok
}

func TestObjectRefcountAndEncoding(t *testing.T) {
	policy := evict.New(evict.Recency, false)
	store := objectstore.NewStore(policy, 10000)
	o := store.NewStringRaw([]byte("hello world this is raw"))
	keys := &fakeKeys{m: map[string]*objectstore.Obj{"k": o}}
	obj := &Object{Keys: keys, Policy: policy}

	rw := &fakeReply{}
	obj.Refcount(rw, "k")
	if rw.i64 != 1 {
		t.Fatalf("expected refcount 1, got %d", rw.i64)
	}

	rw = &fakeReply{}
	obj.Encoding(rw, "k")
	if rw.status != "raw" {
		t.Fatalf("expected raw encoding, got %q", rw.status)
	}

	rw = &fakeReply{}
	obj.Refcount(rw, "missing")
	if !rw.nullCalled {
		t.Fatalf("expected null reply for missing key")
	}
}

func TestObjectIdletimeErrorsUnderFrequencyMode(t *testing.T) {
	policy := evict.New(evict.Frequency, false)
	store := objectstore.NewStore(policy, 10000)
	o := store.NewStringRaw([]byte("x"))
	keys := &fakeKeys{m: map[string]*objectstore.Obj{"k": o}}
	obj := &Object{Keys: keys, Policy: policy}

	rw := &fakeReply{}
	obj.Idletime(rw, "k")
	if rw.errMsg == "" {
		t.Fatalf("expected error reply under frequency mode")
	}
}

func TestObjectFreqErrorsUnderRecencyMode(t *testing.T) {
	policy := evict.New(evict.Recency, false)
	store := objectstore.NewStore(policy, 10000)
	o := store.NewStringRaw([]byte("x"))
	keys := &fakeKeys{m: map[string]*objectstore.Obj{"k": o}}
	obj := &Object{Keys: keys, Policy: policy}

	rw := &fakeReply{}
	obj.Freq(rw, "k")
	if rw.errMsg == "" {
		t.Fatalf("expected error reply under recency mode")
	}
}

func TestMemoryUsageRejectsNegativeSamples(t *testing.T) {
	policy := evict.New(evict.Recency, false)
	store := objectstore.NewStore(policy, 10000)
	keys := &fakeKeys{m: map[string]*objectstore.Obj{}}
	mem := &Memory{Keys: keys, Store: store, Config: config.Load(), Snap: func() memstat.Snapshot { return memstat.Snapshot{} }}

	rw := &fakeReply{}
	mem.Usage(rw, "k", -1)
	if rw.errMsg == "" {
		t.Fatalf("expected syntax error for negative sample count")
	}
}

func TestMemoryUsageReportsSize(t *testing.T) {
	policy := evict.New(evict.Recency, false)
	store := objectstore.NewStore(policy, 10000)
	o := store.NewStringRaw([]byte("some value"))
	keys := &fakeKeys{m: map[string]*objectstore.Obj{"k": o}}
	mem := &Memory{Keys: keys, Store: store, Config: config.Load(), Snap: func() memstat.Snapshot { return memstat.Snapshot{} }}

	rw := &fakeReply{}
	mem.Usage(rw, "k", 5)
	if rw.i64 <= 0 {
		t.Fatalf("expected positive usage size, got %d", rw.i64)
	}
}

func TestMemoryDoctorDelegatesToMemstat(t *testing.T) {
	mem := &Memory{Config: config.Load(), Snap: func() memstat.Snapshot { return memstat.Snapshot{TotalAllocated: 1024} }}
	rw := &fakeReply{}
	mem.Doctor(rw)
	if len(rw.bulk) == 0 {
		t.Fatalf("expected non-empty doctor diagnostic")
	}
}

func TestMemoryUsageDefaultUsesConfiguredSampleSize(t *testing.T) {
	policy := evict.New(evict.Recency, false)
	store := objectstore.NewStore(policy, 10000)
	o := store.NewStringRaw([]byte("some value"))
	keys := &fakeKeys{m: map[string]*objectstore.Obj{"k": o}}
	mem := &Memory{Keys: keys, Store: store, Config: config.Load(), Snap: func() memstat.Snapshot { return memstat.Snapshot{} }}

	rw := &fakeReply{}
	mem.UsageDefault(rw, "k")
	if rw.i64 <= 0 {
		t.Fatalf("expected positive usage size under default samples, got %d", rw.i64)
	}
}

func TestMemoryStatsEmitsStableOrderedReport(t *testing.T) {
	mem := &Memory{Config: config.Load(), Snap: func() memstat.Snapshot {
		return memstat.Snapshot{TotalAllocated: 1000, RSS: 1000, PeakAllocated: 2000}
	}}
	rw := &fakeReply{}
	mem.Stats(rw)
	want := memstat.Stats(memstat.ComputeOverhead(memstat.Snapshot{TotalAllocated: 1000, RSS: 1000, PeakAllocated: 2000}))
	if rw.multiN != len(want)*2 {
		t.Fatalf("expected %d reply elements, got %d", len(want)*2, rw.multiN)
	}
	if len(rw.statuses) != len(want) || rw.statuses[0] != want[0].Name {
		t.Fatalf("expected stat names in fixed order, got %v", rw.statuses)
	}
}

func TestMemoryHelpListsSubcommands(t *testing.T) {
	mem := &Memory{}
	rw := &fakeReply{}
	mem.Help(rw)
	if rw.multiN != len(memorySubcommands) {
		t.Fatalf("expected multi bulk header count %d, got %d", len(memorySubcommands), rw.multiN)
	}
}
