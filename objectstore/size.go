package objectstore

import "objectstore/allocator"

// objHeaderSize approximates sizeof(header) for size-estimation
// purposes: the fixed cost every Obj contributes regardless of
// payload, independent of Go's actual runtime struct layout.
const objHeaderSize = 56

// containerHeaderSize approximates the fixed per-container bookkeeping
// struct (dict/list/skiplist header) charged on top of the object
// header for aggregate types.
const containerHeaderSize = 48

// bucketPtrSize is sizeof(bucket_ptr) in the HashTable/SkipList dict
// slot-count term.
const bucketPtrSize = 8

// nodeOverhead approximates sizeof(node) for LinkedCompactList and
// dict-entry overhead for HashTable/SkipList sampling.
const nodeOverhead = 24

// ComputeSize approximates the bytes o contributes, with a distinct
// cost policy per (type, encoding) pair; container encodings sample up
// to sampleSize elements and extrapolate by population. sampleSize 0
// means exhaustive: every element is visited and the estimate is
// exact. alloc is consulted only for HeapString, whose
// allocator-reported size may exceed its logical length; nil falls
// back to the package allocator.
func ComputeSize(o *Obj, sampleSize int, alloc allocator.Allocator) int64 {
	switch o.typ {
	case TypeString:
		switch o.encoding {
		case EncodingInt:
			return objHeaderSize
		case EncodingInlineString:
			return objHeaderSize + int64(len(o.payload.strBuf)) + 2
		case EncodingHeapString:
			if alloc == nil {
				alloc = defaultAllocator
			}
			return objHeaderSize + alloc.AllocatedSize(o.payload.strBuf)
		default:
			fatal("compute_size: unknown String encoding")
		}
	case TypeList:
		switch o.encoding {
		case EncodingCompactList:
			return objHeaderSize + o.payload.list.BlobLen()
		case EncodingLinkedCompactList:
			return computeLinkedListSize(o, sampleSize)
		default:
			fatal("compute_size: unknown List encoding")
		}
	case TypeSet:
		switch o.encoding {
		case EncodingIntegerSet:
			return objHeaderSize + containerHeaderSize + o.payload.intset.BlobLen()
		case EncodingHashTable:
			return computeHashTableSize(o.payload.ht, sampleSize, false)
		default:
			fatal("compute_size: unknown Set encoding")
		}
	case TypeHash:
		switch o.encoding {
		case EncodingCompactList:
			return objHeaderSize + o.payload.list.BlobLen()
		case EncodingHashTable:
			return computeHashTableSize(o.payload.ht, sampleSize, true)
		default:
			fatal("compute_size: unknown Hash encoding")
		}
	case TypeSortedSet:
		switch o.encoding {
		case EncodingCompactList:
			return objHeaderSize + o.payload.list.BlobLen()
		case EncodingSkipList:
			return computeSkipListSize(o, sampleSize)
		default:
			fatal("compute_size: unknown SortedSet encoding")
		}
	case TypeModule:
		if o.payload.module == nil {
			return 0
		}
		return o.payload.module.MemUsage()
	default:
		fatal("compute_size: unknown type")
	}
	return 0
}

// clampSamples resolves a requested sample count against a population:
// 0 (or negative) means exhaustive, and a request beyond the
// population visits every element once.
func clampSamples(sampleSize, population int) int {
	if sampleSize <= 0 || sampleSize > population {
		return population
	}
	return sampleSize
}

func computeLinkedListSize(o *Obj, sampleSize int) int64 {
	l := o.payload.linked
	total := l.Len()
	base := int64(objHeaderSize + containerHeaderSize)
	if total == 0 {
		return base
	}
	samples := l.HeadSample(clampSamples(sampleSize, total))
	if len(samples) == 0 {
		return base
	}
	var sum int64
	for _, payload := range samples {
		sum += nodeOverhead + int64(len(payload))
	}
	mean := float64(sum) / float64(len(samples))
	return base + int64(mean*float64(total))
}

func computeHashTableSize(ht interface {
	Keys() []string
	Buckets() int
	ElementCount() int
	Get(string) ([]byte, bool)
}, sampleSize int, accountValue bool) int64 {
	base := objHeaderSize + containerHeaderSize + int64(ht.Buckets())*bucketPtrSize
	keys := ht.Keys()
	if len(keys) == 0 {
		return base
	}
	n := clampSamples(sampleSize, len(keys))
	var sum int64
	for i := 0; i < n; i++ {
		k := keys[i]
		elesize := nodeOverhead + int64(len(k))
		if accountValue {
			if v, ok := ht.Get(k); ok {
				elesize += int64(len(v))
			}
		}
		sum += elesize
	}
	mean := float64(sum) / float64(n)
	return base + int64(mean*float64(ht.ElementCount()))
}

func computeSkipListSize(o *Obj, sampleSize int) int64 {
	dict := o.payload.zsetDict
	sl := o.payload.skiplist
	base := objHeaderSize + containerHeaderSize + int64(dict.Buckets())*bucketPtrSize
	total := sl.ElementCount()
	if total == 0 {
		return base
	}
	samples := sl.HeadSample(clampSamples(sampleSize, total))
	if len(samples) == 0 {
		return base
	}
	var sum int64
	for _, s := range samples {
		sum += int64(len(s.Member)) + nodeOverhead
	}
	mean := float64(sum) / float64(len(samples))
	return base + int64(mean*float64(total))
}
