package objectstore

// Incr increments o's refcount. A no-op on Immortal objects.
func Incr(o *Obj) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.refcount == Immortal {
		return
	}
	o.refcount++
}

// Decr decrements o's refcount, running the type-dispatched payload
// destructor and freeing the header when it drops to zero. A no-op on
// Immortal; fatal if refcount is already non-positive.
func Decr(o *Obj) {
	o.mu.Lock()
	if o.refcount == Immortal {
		o.mu.Unlock()
		return
	}
	if o.refcount <= 0 {
		o.mu.Unlock()
		fatal("decr on object with non-positive refcount")
	}
	o.refcount--
	last := o.refcount == 0
	o.mu.Unlock()
	if last {
		destroy(o)
	}
}

// Reset sets refcount = 0 and returns o. The caller must immediately
// hand it to code that will Incr it.
func Reset(o *Obj) *Obj {
	o.mu.Lock()
	o.refcount = 0
	o.mu.Unlock()
	return o
}

// destroy dispatches on type to release the payload.
func destroy(o *Obj) {
	switch o.typ {
	case TypeString:
		// HeapString's buffer is a separate allocation returned to the
		// allocator; InlineString and Int carry no heap tail to release
		// beyond letting the Go GC reclaim the header itself.
		if o.encoding == EncodingHeapString {
			defaultAllocator.Free(o.payload.strBuf)
		}
		o.payload.strBuf = nil
	case TypeList:
		switch o.encoding {
		case EncodingCompactList:
			o.payload.list.Release()
		case EncodingLinkedCompactList:
			o.payload.linked.Release()
		default:
			fatal("destroy: unreachable List encoding")
		}
	case TypeSet:
		switch o.encoding {
		case EncodingHashTable:
			o.payload.ht.Release()
		case EncodingIntegerSet:
			o.payload.intset.Release()
		default:
			fatal("destroy: unreachable Set encoding")
		}
	case TypeHash:
		switch o.encoding {
		case EncodingHashTable:
			o.payload.ht.Release()
		case EncodingCompactList:
			o.payload.list.Release()
		default:
			fatal("destroy: unreachable Hash encoding")
		}
	case TypeSortedSet:
		switch o.encoding {
		case EncodingSkipList:
			o.payload.skiplist.Release()
			o.payload.zsetDict.Release()
		case EncodingCompactList:
			o.payload.list.Release()
		default:
			fatal("destroy: unreachable SortedSet encoding")
		}
	case TypeModule:
		o.payload.module.Free()
	default:
		fatal("destroy: unknown type")
	}
}
