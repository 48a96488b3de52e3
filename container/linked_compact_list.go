package container

import "container/list"

// LinkedCompactList is a doubly-linked list of compact-list nodes: the
// List encoding used once a sequence grows too large to keep as one
// contiguous blob. Built on container/list.
type LinkedCompactList struct {
	nodes *list.List
}

// NewLinkedCompactList creates an empty linked compact list.
func NewLinkedCompactList() *LinkedCompactList {
	return &LinkedCompactList{nodes: list.New()}
}

// PushBack appends a node carrying the given payload.
func (l *LinkedCompactList) PushBack(payload []byte) {
	l.nodes.PushBack(payload)
}

// Len reports the total number of nodes.
func (l *LinkedCompactList) Len() int {
	return l.nodes.Len()
}

// HeadSample returns up to n payloads starting from the head of the
// list, for the size estimator's head-first sampling.
func (l *LinkedCompactList) HeadSample(n int) [][]byte {
	if n <= 0 {
		return nil
	}
	out := make([][]byte, 0, n)
	for e := l.nodes.Front(); e != nil && len(out) < n; e = e.Next() {
		out = append(out, e.Value.([]byte))
	}
	return out
}

// BlobLen implements Container: sum of every node's payload length. The
// node-pointer overhead itself is not blob data and is charged
// separately by the size estimator.
func (l *LinkedCompactList) BlobLen() int64 {
	var total int64
	for e := l.nodes.Front(); e != nil; e = e.Next() {
		total += int64(len(e.Value.([]byte)))
	}
	return total
}

// ElementCount implements Container.
func (l *LinkedCompactList) ElementCount() int {
	return l.nodes.Len()
}

// Release implements Container.
func (l *LinkedCompactList) Release() {
	l.nodes.Init()
}
