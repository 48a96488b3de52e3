// Package container provides the container primitives the value
// object layer treats as opaque: compact list, linked compact list,
// integer set, hash table, and skip list. The value object layer
// (package objectstore) only ever touches these through the Container
// interface below — create, release, and blob-length — plus whatever
// sampling hooks the size estimator needs.
//
// These are deliberately simple implementations. Probabilistic
// skip-list balancing and incremental rehashing are container
// internals the layers above never observe, so SkipList delegates its
// ordering to google/btree and HashTable wraps a Go map with tracked
// bucket accounting instead.
package container

// Container is the minimal contract every container primitive satisfies.
type Container interface {
	// Release frees the container's resources. Safe to call once.
	Release()
	// BlobLen reports the number of bytes the container's own backing
	// storage occupies, excluding any per-node overhead accounted for
	// separately by the size estimator.
	BlobLen() int64
	// ElementCount reports the number of logical elements stored.
	ElementCount() int
}
