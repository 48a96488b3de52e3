package container

import "github.com/google/btree"

// skipListNodeOverhead approximates the per-node forward-pointer-array
// cost a real probabilistic skip list carries. SkipList is backed by a
// B-tree rather than per-node level arrays, so the size estimate charges
// every node exactly one level's worth of overhead rather than a
// geometric distribution.
const skipListNodeOverhead = 32

// skipListDegree is the B-tree branching factor backing SkipList. It
// has no bearing on the size-estimate formula, which charges a fixed
// per-node cost regardless of branching, only on lookup/insert cost.
const skipListDegree = 32

type skipListEntry struct {
	member string
	score  float64
}

func lessSkipListEntry(a, b skipListEntry) bool {
	if a.score != b.score {
		return a.score < b.score
	}
	return a.member < b.member
}

// SkipList is an ordered member/score structure backing the
// SortedSet×SkipList encoding's ordered side (the dict side is a
// HashTable). Ordering and rank traversal are delegated to a
// google/btree.BTreeG keyed on (score, member), which gives correct
// ordering and O(log n) insert/delete without reimplementing a
// probabilistic skip list's level/balancing machinery.
type SkipList struct {
	tree     *btree.BTreeG[skipListEntry]
	byMember map[string]float64
}

// NewSkipList creates an empty SkipList.
func NewSkipList() *SkipList {
	return &SkipList{
		tree:     btree.NewG(skipListDegree, lessSkipListEntry),
		byMember: make(map[string]float64),
	}
}

// Insert adds or updates member with score, maintaining sort order.
func (s *SkipList) Insert(member string, score float64) {
	s.Remove(member)
	s.tree.ReplaceOrInsert(skipListEntry{member: member, score: score})
	s.byMember[member] = score
}

// Remove deletes member regardless of its score, reporting whether it
// was present.
func (s *SkipList) Remove(member string) bool {
	score, ok := s.byMember[member]
	if !ok {
		return false
	}
	delete(s.byMember, member)
	s.tree.Delete(skipListEntry{member: member, score: score})
	return true
}

// Score returns member's score and whether it is present.
func (s *SkipList) Score(member string) (float64, bool) {
	score, ok := s.byMember[member]
	return score, ok
}

// Range returns members in [start, stop] rank order (inclusive,
// 0-indexed), clamped to the available range. Negative indices count
// back from the end, as in ZRANGE (-1 is the last element).
func (s *SkipList) Range(start, stop int) []string {
	n := s.tree.Len()
	if start < 0 {
		start += n
	}
	if stop < 0 {
		stop += n
	}
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	if start > stop || start >= n {
		return nil
	}
	out := make([]string, 0, stop-start+1)
	i := 0
	s.tree.Ascend(func(e skipListEntry) bool {
		if i >= start && i <= stop {
			out = append(out, e.member)
		}
		i++
		return i <= stop
	})
	return out
}

// HeadSample returns up to n (member, score) entries from the front of
// the ordering, for the size estimator's head-first sampling.
func (s *SkipList) HeadSample(n int) []struct {
	Member string
	Score  float64
} {
	if n > s.tree.Len() {
		n = s.tree.Len()
	}
	out := make([]struct {
		Member string
		Score  float64
	}, 0, n)
	s.tree.Ascend(func(e skipListEntry) bool {
		if len(out) >= n {
			return false
		}
		out = append(out, struct {
			Member string
			Score  float64
		}{Member: e.member, Score: e.score})
		return len(out) < n
	})
	return out
}

// BlobLen implements Container: member bytes plus a fixed per-entry
// cost for the score and level-0 forward pointer.
func (s *SkipList) BlobLen() int64 {
	var total int64
	s.tree.Ascend(func(e skipListEntry) bool {
		total += int64(len(e.member)) + 8 + skipListNodeOverhead
		return true
	})
	return total
}

// ElementCount implements Container.
func (s *SkipList) ElementCount() int {
	return s.tree.Len()
}

// Release implements Container.
func (s *SkipList) Release() {
	s.tree.Clear(false)
	s.byMember = nil
}
