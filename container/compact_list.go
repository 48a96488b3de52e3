package container

import (
	"bytes"
	"encoding/binary"
	"io"
	"sync"
)

// blobBuilders pools the scratch buffers used while re-encoding a
// blob.
var blobBuilders = sync.Pool{
	New: func() interface{} { return new(bytes.Buffer) },
}

// CompactList is a single contiguous length-prefixed byte blob encoding a
// sequence of elements: a 4-byte element count followed by, per element,
// a 4-byte length prefix and the element's bytes. It backs the compact
// encodings of List (plain sequence), SortedSet (alternating
// member/score pairs), and Hash (alternating key/value pairs).
type CompactList struct {
	buf []byte
}

// NewCompactList creates a CompactList from an initial set of elements.
func NewCompactList(elements ...[]byte) *CompactList {
	cl := &CompactList{}
	cl.buf = encodeElements(elements)
	return cl
}

func encodeElements(elements [][]byte) []byte {
	buf := blobBuilders.Get().(*bytes.Buffer)
	defer blobBuilders.Put(buf)
	buf.Reset()
	binary.Write(buf, binary.LittleEndian, uint32(len(elements)))
	for _, e := range elements {
		binary.Write(buf, binary.LittleEndian, uint32(len(e)))
		buf.Write(e)
	}
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out
}

// Append adds an element to the end of the list, reallocating the blob.
func (cl *CompactList) Append(elem []byte) {
	elements := cl.Elements()
	elements = append(elements, elem)
	cl.buf = encodeElements(elements)
}

// Elements decodes and returns every element in the list, in order.
func (cl *CompactList) Elements() [][]byte {
	if len(cl.buf) < 4 {
		return nil
	}
	r := bytes.NewReader(cl.buf)
	var count uint32
	binary.Read(r, binary.LittleEndian, &count)
	out := make([][]byte, 0, count)
	for i := uint32(0); i < count; i++ {
		var n uint32
		if binary.Read(r, binary.LittleEndian, &n) != nil {
			break
		}
		elem := make([]byte, n)
		if _, err := io.ReadFull(r, elem); err != nil {
			break
		}
		out = append(out, elem)
	}
	return out
}

// BlobLen implements Container: the raw byte size of the encoded blob.
func (cl *CompactList) BlobLen() int64 {
	return int64(len(cl.buf))
}

// ElementCount implements Container.
func (cl *CompactList) ElementCount() int {
	if len(cl.buf) < 4 {
		return 0
	}
	return int(binary.LittleEndian.Uint32(cl.buf[:4]))
}

// Release implements Container.
func (cl *CompactList) Release() {
	cl.buf = nil
}
