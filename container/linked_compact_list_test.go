package container

import "testing"

func TestLinkedCompactListPushAndSample(t *testing.T) {
	l := NewLinkedCompactList()
	l.PushBack([]byte("a"))
	l.PushBack([]byte("bb"))
	l.PushBack([]byte("ccc"))
	if l.Len() != 3 {
		t.Fatalf("expected len 3, got %d", l.Len())
	}
	sample := l.HeadSample(2)
	if len(sample) != 2 || string(sample[0]) != "a" || string(sample[1]) != "bb" {
		t.Fatalf("unexpected head sample: %v", sample)
	}
	if l.BlobLen() != 6 {
		t.Fatalf("expected blob len 6, got %d", l.BlobLen())
	}
}

func TestLinkedCompactListRelease(t *testing.T) {
	l := NewLinkedCompactList()
	l.PushBack([]byte("x"))
	l.Release()
	if l.ElementCount() != 0 {
		t.Fatalf("expected 0 elements after release, got %d", l.ElementCount())
	}
}
