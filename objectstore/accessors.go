package objectstore

import (
	"math"
	"strconv"
	"strings"
)

// CompareFlags selects how Compare treats its operands.
type CompareFlags int

const (
	// CompareBinary is a memcmp-equivalent comparison, ties broken by
	// length.
	CompareBinary CompareFlags = iota
	// CompareLocale is a strcoll-equivalent, locale-aware comparison.
	// Go has no portable locale-collation API in the standard library;
	// this falls back to the same binary ordering, which is what the
	// "C" locale produces anyway.
	CompareLocale
)

// Len reports o's byte length: the decimal digit count for Int
// encoding, or the buffer length otherwise.
func Len(o *Obj) int {
	if o.typ != TypeString {
		fatal("len on non-String object")
	}
	if o.encoding == EncodingInt {
		return decimalDigitCount(o.payload.intVal)
	}
	return len(o.payload.strBuf)
}

// decimalDigitCount returns the number of bytes strconv.FormatInt(v,
// 10) would produce, without allocating.
func decimalDigitCount(v int64) int {
	n := 1
	if v < 0 {
		n++
		if v == math.MinInt64 {
			return len(strconv.FormatInt(v, 10))
		}
		v = -v
	}
	for v >= 10 {
		v /= 10
		n++
	}
	return n
}

func stringBytes(o *Obj) []byte {
	if o.encoding == EncodingInt {
		return []byte(strconv.FormatInt(o.payload.intVal, 10))
	}
	return o.payload.strBuf
}

// Equal reports whether a and b hold the same string value: a direct
// integer comparison when both operands are Int-encoded, else a byte
// comparison.
func Equal(a, b *Obj) bool {
	if a.encoding == EncodingInt && b.encoding == EncodingInt {
		return a.payload.intVal == b.payload.intVal
	}
	return string(stringBytes(a)) == string(stringBytes(b))
}

// Compare orders a against b, returning negative/zero/positive. Int
// operands are formatted before comparing.
func Compare(a, b *Obj, flags CompareFlags) int {
	as, bs := stringBytes(a), stringBytes(b)
	if flags == CompareLocale {
		return strings.Compare(string(as), string(bs))
	}
	return binaryCompare(as, bs)
}

// binaryCompare is memcmp-equivalent, ties broken by length.
func binaryCompare(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

// ToI64 parses o as a signed 64-bit integer: the payload directly for
// Int encoding, otherwise a strict decimal parse. Fails on empty
// input, leading whitespace, trailing garbage, and overflow.
func ToI64(o *Obj) (int64, error) {
	if o.encoding == EncodingInt {
		return o.payload.intVal, nil
	}
	s := string(o.payload.strBuf)
	if s == "" {
		return 0, ErrParse
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		if strings.Contains(err.Error(), "range") {
			return 0, ErrRange
		}
		return 0, ErrParse
	}
	return v, nil
}

// ToF64 parses o as a double. The entire buffer must be consumed;
// trailing whitespace is not accepted; NaN and out-of-range are
// errors.
func ToF64(o *Obj) (float64, error) {
	if o.encoding == EncodingInt {
		return float64(o.payload.intVal), nil
	}
	s := string(o.payload.strBuf)
	if s == "" || strings.TrimSpace(s) != s {
		return 0, ErrParseFloat
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if strings.Contains(err.Error(), "range") {
			return 0, ErrRange
		}
		return 0, ErrParseFloat
	}
	if math.IsNaN(v) {
		return 0, ErrParseFloat
	}
	return v, nil
}

// ToF80 parses o as an extended double. Go has no native
// extended-precision float, so this delegates to the same float64
// parse ToF64 performs, which is the precision every surface of this
// layer ultimately renders a value back down to (replies, string
// formatting).
func ToF80(o *Obj) (float64, error) {
	return ToF64(o)
}

// ToI64OrReply implements the _or_reply variant: on failure, pushes a
// user-visible error (msg if non-empty, else the default) and returns
// the error.
func ToI64OrReply(o *Obj, rw ReplyWriter, msg string) (int64, error) {
	v, err := ToI64(o)
	if err != nil {
		if msg != "" {
			rw.ReplyError(msg)
		} else {
			rw.ReplyError(err.Error())
		}
		return 0, err
	}
	return v, nil
}

// ToF64OrReply implements the _or_reply variant for ToF64.
func ToF64OrReply(o *Obj, rw ReplyWriter, msg string) (float64, error) {
	v, err := ToF64(o)
	if err != nil {
		if msg != "" {
			rw.ReplyError(msg)
		} else {
			rw.ReplyError(err.Error())
		}
		return 0, err
	}
	return v, nil
}

// ToF80OrReply implements the _or_reply variant for ToF80.
func ToF80OrReply(o *Obj, rw ReplyWriter, msg string) (float64, error) {
	v, err := ToF80(o)
	if err != nil {
		if msg != "" {
			rw.ReplyError(msg)
		} else {
			rw.ReplyError(err.Error())
		}
		return 0, err
	}
	return v, nil
}
