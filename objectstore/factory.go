package objectstore

import (
	"strconv"
	"strings"

	"objectstore/config"
	"objectstore/container"
	"objectstore/evict"
)

// Store ties together the pieces a single in-process value object
// layer needs: the configured eviction policy (for access_meta
// stamping and the shared-integer-sharing decision), the shared
// small-integer pool itself, and the encoding thresholds. One Store
// corresponds to one running instance, the way a single *sql.DB ties
// its config and pools together.
type Store struct {
	policy      evict.Policy
	sharedInts  []*Obj
	sharedCount int
	poolStats   evict.Counters

	inlineMax      int
	slackThreshold float64
	initFreq       int
}

// NewStore creates a Store with the default encoding thresholds and
// pre-creates the shared small-integer pool for sharedCount values in
// [0, sharedCount), unless the policy forbids sharing.
func NewStore(policy evict.Policy, sharedCount int) *Store {
	s := &Store{
		policy:         policy,
		sharedCount:    sharedCount,
		inlineMax:      DefaultInlineMax,
		slackThreshold: defaultSlackThreshold,
		initFreq:       defaultInitFreq,
	}
	s.fillSharedPool()
	return s
}

// NewStoreFromConfig wires a Config into a Store: the eviction policy,
// the shared-pool size, and the encoding thresholds.
func NewStoreFromConfig(cfg *config.Config) *Store {
	s := &Store{
		policy:         evict.NewFromConfig(cfg),
		sharedCount:    cfg.SharedIntCount,
		inlineMax:      cfg.InlineMax,
		slackThreshold: cfg.SlackShrinkThreshold,
		initFreq:       cfg.InitFreq,
	}
	s.fillSharedPool()
	return s
}

func (s *Store) fillSharedPool() {
	if s.policy != nil && s.policy.NoSharedIntegers() {
		return
	}
	s.sharedInts = make([]*Obj, s.sharedCount)
	for v := range s.sharedInts {
		o := &Obj{typ: TypeString, encoding: EncodingInt, refcount: 1}
		o.payload.intVal = int64(v)
		o.accessMeta = stampAccessMeta(s.policy, s.initFreq)
		o.refcount = Immortal
		s.sharedInts[v] = o
	}
}

func (s *Store) sharingAllowed() bool {
	return s.policy == nil || !s.policy.NoSharedIntegers()
}

// sharedInt returns the pooled object for v, incrementing its
// (immortal, no-op) refcount, or nil if v is out of pool range or
// sharing is disabled.
func (s *Store) sharedInt(v int64) *Obj {
	if !s.sharingAllowed() || s.sharedInts == nil {
		s.poolStats.Miss()
		return nil
	}
	if v < 0 || v >= int64(len(s.sharedInts)) {
		s.poolStats.Miss()
		return nil
	}
	o := s.sharedInts[v]
	Incr(o)
	s.poolStats.Hit()
	return o
}

// SharedPoolStats reports how often integer construction was satisfied
// by the shared pool versus falling through to a private allocation.
func (s *Store) SharedPoolStats() (hits, misses int64) {
	h, m, _ := s.poolStats.Snapshot()
	return h, m
}

// NewStringRaw creates a HeapString: a separate header and heap
// buffer.
func (s *Store) NewStringRaw(b []byte) *Obj {
	o := s.newHeader(TypeString, EncodingHeapString)
	buf := defaultAllocator.Alloc(len(b))
	copy(buf, b)
	o.payload.strBuf = buf
	return o
}

// NewStringInline creates an InlineString. Go cannot co-allocate a
// header and a trailing buffer in one heap object, but the semantics
// it matters for here are the size (len + NUL + one metadata byte,
// computed in the size estimator) and lifetime (freeing the header
// frees the string, trivially true for any Go value once
// unreferenced).
func (s *Store) NewStringInline(b []byte) *Obj {
	o := s.newHeader(TypeString, EncodingInlineString)
	buf := make([]byte, len(b))
	copy(buf, b)
	o.payload.strBuf = buf
	return o
}

// NewString dispatches to inline or heap encoding based on the store's
// inline-length threshold.
func (s *Store) NewString(b []byte) *Obj {
	if len(b) <= s.inlineMax {
		return s.NewStringInline(b)
	}
	return s.NewStringRaw(b)
}

// NewStringFromInt returns a shared-pool object when allowed and in
// range, otherwise an Int-encoded object. A native signed word always
// fits int64 in Go, so no decimal-representation HeapString fallback
// is needed for values too large for a machine word.
func (s *Store) NewStringFromInt(v int64) *Obj {
	if v >= 0 {
		if shared := s.sharedInt(v); shared != nil {
			return shared
		}
	}
	o := s.newHeader(TypeString, EncodingInt)
	o.payload.intVal = v
	return o
}

// NewStringFromFloat formats v either fixed-trim (humanfriendly: strip
// trailing zeros, no exponent) or printf-%.17g-equivalent default,
// then builds a String object from the formatted text.
func (s *Store) NewStringFromFloat(v float64, humanfriendly bool) *Obj {
	return s.NewString([]byte(FormatFloat(v, humanfriendly)))
}

// FormatFloat implements new_string_from_float's two formatting modes.
func FormatFloat(v float64, humanfriendly bool) string {
	if humanfriendly {
		s := strconv.FormatFloat(v, 'f', 17, 64)
		return trimFloatSlack(s)
	}
	return strconv.FormatFloat(v, 'g', 17, 64)
}

// trimFloatSlack strips trailing fractional zeros (and a trailing
// decimal point) from a fixed-notation float string, the lossy
// humanfriendly mode.
func trimFloatSlack(s string) string {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		j := len(s)
		for j > i+1 && s[j-1] == '0' {
			j--
		}
		if j == i+1 {
			j = i
		}
		s = s[:j]
	}
	return s
}

// NewList creates an empty List in its initial CompactList encoding.
func (s *Store) NewList() *Obj {
	o := s.newHeader(TypeList, EncodingCompactList)
	o.payload.list = container.NewCompactList()
	return o
}

// NewListLinked creates an empty List already in LinkedCompactList
// encoding, for sequences known to be too large for a single blob.
func (s *Store) NewListLinked() *Obj {
	o := s.newHeader(TypeList, EncodingLinkedCompactList)
	o.payload.linked = container.NewLinkedCompactList()
	return o
}

// NewSet creates an empty Set in HashTable encoding.
func (s *Store) NewSet() *Obj {
	o := s.newHeader(TypeSet, EncodingHashTable)
	o.payload.ht = container.NewHashTable()
	return o
}

// NewIntSet creates an empty Set in IntegerSet encoding.
func (s *Store) NewIntSet() *Obj {
	o := s.newHeader(TypeSet, EncodingIntegerSet)
	o.payload.intset = container.NewIntegerSet()
	return o
}

// NewHash creates an empty Hash in HashTable encoding.
func (s *Store) NewHash() *Obj {
	o := s.newHeader(TypeHash, EncodingHashTable)
	o.payload.ht = container.NewHashTable()
	return o
}

// NewZSet creates an empty SortedSet in SkipList encoding (score dict
// plus ordered structure).
func (s *Store) NewZSet() *Obj {
	o := s.newHeader(TypeSortedSet, EncodingSkipList)
	o.payload.skiplist = container.NewSkipList()
	o.payload.zsetDict = container.NewHashTable()
	return o
}

// NewZSetCompact creates an empty SortedSet in its compact
// (CompactList, alternating member/score) encoding.
func (s *Store) NewZSetCompact() *Obj {
	o := s.newHeader(TypeSortedSet, EncodingCompactList)
	o.payload.list = container.NewCompactList()
	return o
}

// NewModule wraps value behind the Module type tag. valueType is not
// stored: dispatch is done through the ModuleValue interface.
func (s *Store) NewModule(valueType string, value ModuleValue) *Obj {
	o := s.newHeader(TypeModule, encodingModule)
	o.payload.module = value
	return o
}

func (s *Store) newHeader(t Type, e Encoding) *Obj {
	return &Obj{typ: t, encoding: e, refcount: 1, accessMeta: stampAccessMeta(s.policy, s.initFreq)}
}

// MakeImmortal requires refcount == 1 and sets refcount = Immortal.
func MakeImmortal(o *Obj) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.refcount != 1 {
		fatal("make_immortal requires refcount == 1")
	}
	o.refcount = Immortal
}

// DupString produces an unshared copy of a String object with the
// same encoding. Duplicating a shared-pool (Immortal) object yields a
// fresh, non-shared object with refcount == 1.
func (s *Store) DupString(o *Obj) *Obj {
	if o.typ != TypeString {
		fatal("dup_string on non-String object")
	}
	switch o.encoding {
	case EncodingInt:
		return s.NewStringFromIntUnshared(o.payload.intVal)
	case EncodingInlineString:
		return s.NewStringInline(o.payload.strBuf)
	case EncodingHeapString:
		return s.NewStringRaw(o.payload.strBuf)
	default:
		fatal("dup_string on unreachable String encoding")
		return nil
	}
}

// NewStringFromIntUnshared always returns a fresh Int-encoded object,
// bypassing the shared pool, for DupString's "fresh object" guarantee.
func (s *Store) NewStringFromIntUnshared(v int64) *Obj {
	o := s.newHeader(TypeString, EncodingInt)
	o.payload.intVal = v
	return o
}
