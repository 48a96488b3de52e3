package objectstore

// ReplyWriter is the client reply API this layer depends on through an
// interface only: the OrReply accessor variants push a user-visible
// error and otherwise never touch the wire directly.
type ReplyWriter interface {
	ReplyNull()
	ReplyError(msg string)
	ReplyStatus(msg string)
	ReplyBulkString(b []byte)
	ReplyI64(v int64)
	ReplyDouble(v float64)
	// ReplyMultiBulkHeader announces an upcoming multi-bulk reply of n
	// elements; DeferredMultiBulkLength reserves a header slot to be
	// filled in once the element count is known.
	ReplyMultiBulkHeader(n int)
	DeferredMultiBulkLength() func(n int)
}
