package container

import "sort"

// intWidth classifies the byte width needed to hold a signed value:
// int16, int32, or int64.
func intWidth(v int64) int {
	switch {
	case v >= -32768 && v <= 32767:
		return 2
	case v >= -2147483648 && v <= 2147483647:
		return 4
	default:
		return 8
	}
}

// IntegerSet is a sorted set of distinct int64 values, encoded at a
// uniform width that starts at 2 bytes and widens as larger values are
// added; removing members never narrows it. Backs Set×IntegerSet.
type IntegerSet struct {
	width   int // 2, 4, or 8
	members []int64
}

// NewIntegerSet creates an IntegerSet containing the given values.
func NewIntegerSet(values ...int64) *IntegerSet {
	s := &IntegerSet{width: 2}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add inserts v if not already present, widening the encoding if v
// needs more bytes than the set's current width.
func (s *IntegerSet) Add(v int64) bool {
	i := sort.Search(len(s.members), func(i int) bool { return s.members[i] >= v })
	if i < len(s.members) && s.members[i] == v {
		return false
	}
	if w := intWidth(v); w > s.width {
		s.width = w
	}
	s.members = append(s.members, 0)
	copy(s.members[i+1:], s.members[i:])
	s.members[i] = v
	return true
}

// Remove deletes v if present.
func (s *IntegerSet) Remove(v int64) bool {
	i := sort.Search(len(s.members), func(i int) bool { return s.members[i] >= v })
	if i >= len(s.members) || s.members[i] != v {
		return false
	}
	s.members = append(s.members[:i], s.members[i+1:]...)
	return true
}

// Contains reports whether v is a member, via binary search over the
// sorted backing slice.
func (s *IntegerSet) Contains(v int64) bool {
	i := sort.Search(len(s.members), func(i int) bool { return s.members[i] >= v })
	return i < len(s.members) && s.members[i] == v
}

// Width reports the current per-element byte width (2, 4, or 8).
func (s *IntegerSet) Width() int {
	return s.width
}

// Members returns the sorted members.
func (s *IntegerSet) Members() []int64 {
	return s.members
}

// BlobLen implements Container: width * element count, matching the
// reference intset's contiguous fixed-width array layout.
func (s *IntegerSet) BlobLen() int64 {
	return int64(s.width * len(s.members))
}

// ElementCount implements Container.
func (s *IntegerSet) ElementCount() int {
	return len(s.members)
}

// Release implements Container.
func (s *IntegerSet) Release() {
	s.members = nil
}
