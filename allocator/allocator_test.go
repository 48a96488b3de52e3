package allocator

import "testing"

func TestAllocTracksUsedMemory(t *testing.T) {
	a := New()
	buf := a.Alloc(10)
	if len(buf) != 10 {
		t.Fatalf("expected length 10, got %d", len(buf))
	}
	if a.AllocatedSize(buf) < 10 {
		t.Fatalf("allocated size %d smaller than request", a.AllocatedSize(buf))
	}
	if a.UsedMemory() != a.AllocatedSize(buf) {
		t.Fatalf("used memory %d does not match allocated size %d", a.UsedMemory(), a.AllocatedSize(buf))
	}
	a.Free(buf)
	if a.UsedMemory() != 0 {
		t.Fatalf("expected 0 used memory after free, got %d", a.UsedMemory())
	}
}

func TestReallocPreservesContent(t *testing.T) {
	a := New()
	buf := a.Alloc(5)
	copy(buf, []byte("hello"))
	buf = a.Realloc(buf, 100)
	if string(buf[:5]) != "hello" {
		t.Fatalf("expected content preserved, got %q", buf[:5])
	}
	a.Free(buf)
	if a.UsedMemory() != 0 {
		t.Fatalf("expected 0 used memory after free, got %d", a.UsedMemory())
	}
}

func TestShrinkRemovesSlack(t *testing.T) {
	a := New()
	buf := a.Alloc(1000)
	buf = buf[:800]
	buf = a.Shrink(buf, 800)
	if cap(buf) != 800 {
		t.Fatalf("expected exact capacity 800 after shrink, got %d", cap(buf))
	}
}

func TestFragmentationRatioFloorsAtOneWhenEmpty(t *testing.T) {
	a := New()
	if r := a.FragmentationRatio(1000); r != 1.0 {
		t.Fatalf("expected floor of 1.0 with no outstanding allocations, got %v", r)
	}
}
