package objectstore

import (
	"strconv"

	"objectstore/logger"
)

// TryEncode rewrites a String object into its most compact encoding,
// checking in a fixed order: integer parse first, inline-length
// second, slack-shrink last. Returns the object to use in place of o;
// o may have been decref'd and a different object returned.
func (s *Store) TryEncode(o *Obj) *Obj {
	if o.typ != TypeString {
		fatal("try_encode on non-String object")
	}
	if o.encoding == EncodingInt {
		return o
	}
	if o.Refcount() > 1 {
		return o
	}

	buf := o.payload.strBuf
	if len(buf) <= 20 {
		if v, ok := parseI64Strict(buf); ok {
			if v >= 0 {
				if shared := s.sharedInt(v); shared != nil {
					logger.TraceIf("encoding", "substituting shared pool object for %d", v)
					Decr(o)
					return shared
				}
			}
			logger.TraceIf("encoding", "rewriting %q to int encoding in place", buf)
			if o.encoding == EncodingHeapString {
				defaultAllocator.Free(buf)
			}
			o.encoding = EncodingInt
			o.payload.strBuf = nil
			o.payload.intVal = v
			return o
		}
	}

	if len(buf) <= s.inlineMax {
		if o.encoding == EncodingInlineString {
			return o
		}
		logger.TraceIf("encoding", "promoting %d-byte raw string to embstr", len(buf))
		emb := s.NewStringInline(buf)
		Decr(o)
		return emb
	}

	if o.encoding == EncodingHeapString {
		capacity := cap(buf)
		length := len(buf)
		if length > 0 && float64(capacity-length) > float64(length)*s.slackThreshold {
			logger.TraceIf("encoding", "shrinking %d bytes of slack off a %d-byte raw string", capacity-length, length)
			o.payload.strBuf = defaultAllocator.Shrink(buf, length)
		}
	}
	return o
}

// Decode yields a string-encoded view of o: if already
// string-encoded, incref and return; if Int-encoded, format and return
// a new, caller-owned object.
func (s *Store) Decode(o *Obj) *Obj {
	if o.typ != TypeString {
		fatal("decode on non-String object")
	}
	if o.encoding != EncodingInt {
		Incr(o)
		return o
	}
	text := strconv.FormatInt(o.payload.intVal, 10)
	return s.NewStringRaw([]byte(text))
}

// parseI64Strict parses b as a signed 64-bit decimal integer,
// accepting only the canonical formatting: no whitespace, no leading
// '+', no redundant leading zeros.
func parseI64Strict(b []byte) (int64, bool) {
	if len(b) == 0 {
		return 0, false
	}
	v, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return 0, false
	}
	// Reject non-canonical forms strconv accepts, such as a leading
	// '+' or leading zeros ("007"); round-tripping the canonical
	// decimal form catches them all.
	if strconv.FormatInt(v, 10) != string(b) {
		return 0, false
	}
	return v, true
}
