package container

import (
	"bytes"
	"testing"
)

func TestCompactListAppendAndElements(t *testing.T) {
	cl := NewCompactList([]byte("a"), []byte("bb"))
	cl.Append([]byte("ccc"))
	elems := cl.Elements()
	if len(elems) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(elems))
	}
	want := [][]byte{[]byte("a"), []byte("bb"), []byte("ccc")}
	for i, w := range want {
		if !bytes.Equal(elems[i], w) {
			t.Fatalf("element %d: expected %q, got %q", i, w, elems[i])
		}
	}
	if cl.ElementCount() != 3 {
		t.Fatalf("expected ElementCount 3, got %d", cl.ElementCount())
	}
}

func TestCompactListBlobLenAndRelease(t *testing.T) {
	cl := NewCompactList([]byte("hello"))
	if cl.BlobLen() <= 0 {
		t.Fatalf("expected positive blob len, got %d", cl.BlobLen())
	}
	cl.Release()
	if cl.ElementCount() != 0 {
		t.Fatalf("expected 0 elements after release, got %d", cl.ElementCount())
	}
}
