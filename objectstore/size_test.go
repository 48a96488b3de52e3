package objectstore

import (
	"testing"

	"objectstore/allocator"
)

func TestComputeSizeIntIsFixedCost(t *testing.T) {
	s := newTestStore()
	o := s.NewStringFromIntUnshared(5)
	if ComputeSize(o, 5, nil) != objHeaderSize {
		t.Fatalf("expected fixed header cost for Int encoding")
	}
}

func TestComputeSizeInlineStringGrowsWithLength(t *testing.T) {
	s := newTestStore()
	short := s.NewStringInline([]byte("a"))
	long := s.NewStringInline([]byte("aaaaaaaaaa"))
	if ComputeSize(long, 5, nil) <= ComputeSize(short, 5, nil) {
		t.Fatalf("expected longer inline string to report larger size")
	}
}

func TestComputeSizeHeapStringUsesAllocator(t *testing.T) {
	s := newTestStore()
	a := allocator.New()
	o := s.NewStringRaw(a.Alloc(100))
	sz := ComputeSize(o, 5, a)
	if sz < 100 {
		t.Fatalf("expected size to account for at least 100 bytes, got %d", sz)
	}
}

func TestComputeSizeListCompactMatchesBlobLen(t *testing.T) {
	s := newTestStore()
	o := s.NewList()
	o.payload.list.Append([]byte("hello"))
	if ComputeSize(o, 5, nil) != objHeaderSize+o.payload.list.BlobLen() {
		t.Fatalf("expected compute_size to equal header + blob_len")
	}
}

func TestComputeSizeZeroSamplesMeansExhaustive(t *testing.T) {
	s := newTestStore()
	o := s.NewHash()
	for i := 0; i < 20; i++ {
		o.payload.ht.Set(string(rune('a'+i)), []byte("value"))
	}
	if got, want := ComputeSize(o, 0, nil), ComputeSize(o, 20, nil); got != want {
		t.Fatalf("expected sample size 0 to visit every element, got %d want %d", got, want)
	}

	linked := s.NewListLinked()
	for i := 0; i < 50; i++ {
		linked.payload.linked.PushBack(make([]byte, 16))
	}
	if got, want := ComputeSize(linked, 0, nil), ComputeSize(linked, 50, nil); got != want {
		t.Fatalf("expected exhaustive linked-list estimate, got %d want %d", got, want)
	}
}

func TestComputeSizeMonotonicWithSampleSizeAtPopulation(t *testing.T) {
	s := newTestStore()
	o := s.NewHash()
	for i := 0; i < 20; i++ {
		o.payload.ht.Set(string(rune('a'+i)), []byte("value"))
	}
	exhaustive := ComputeSize(o, 20, nil)
	exhaustive2 := ComputeSize(o, 1000, nil)
	if exhaustive != exhaustive2 {
		t.Fatalf("expected size to stabilize once sample_size >= population, got %d vs %d", exhaustive, exhaustive2)
	}
}

func TestComputeSizeLinkedListSamplingTracksExhaustive(t *testing.T) {
	s := newTestStore()
	o := s.NewListLinked()
	for i := 0; i < 1000; i++ {
		o.payload.linked.PushBack(make([]byte, 32))
	}
	sampled := ComputeSize(o, 5, nil)
	exhaustive := ComputeSize(o, 1000, nil)
	diff := sampled - exhaustive
	if diff < 0 {
		diff = -diff
	}
	if float64(diff) > 0.20*float64(exhaustive) {
		t.Fatalf("sampled estimate %d more than 20%% off exhaustive %d", sampled, exhaustive)
	}
}

func TestComputeSizeModuleDelegatesToMemUsage(t *testing.T) {
	s := newTestStore()
	o := s.NewModule("test", fakeModule{usage: 42})
	if ComputeSize(o, 5, nil) != 42 {
		t.Fatalf("expected delegated mem usage 42, got %d", ComputeSize(o, 5, nil))
	}
}

type fakeModule struct{ usage int64 }

func (f fakeModule) Free()           {}
func (f fakeModule) MemUsage() int64 { return f.usage }
