// Package introspect implements the OBJECT and MEMORY command
// surfaces, the only user-visible commands this layer exposes. Each
// subcommand is a thin dispatcher over package objectstore (for
// OBJECT) and package memstat (for MEMORY), replying through the same
// ReplyWriter collaborator interface objectstore's OrReply accessors
// use. There is deliberately no wire transport here; hosts bind these
// methods to whatever framing they speak.
package introspect

import (
	"errors"

	"objectstore/allocator"
	"objectstore/config"
	"objectstore/evict"
	"objectstore/memstat"
	"objectstore/objectstore"
)

// ErrSyntax is the fixed reply MEMORY USAGE gives for an unknown option
// or a negative sample count.
var ErrSyntax = errors.New("syntax error")

// KeyLookup resolves a key to its value object without touching
// access metadata. The keyspace itself is an external collaborator;
// this layer never walks it directly.
type KeyLookup interface {
	Lookup(key string) (*objectstore.Obj, bool)
}

// Object implements the OBJECT command family.
type Object struct {
	Keys   KeyLookup
	Policy evict.Policy
}

// objectSubcommands lists the OBJECT subcommand names, for `OBJECT HELP`.
var objectSubcommands = []string{"refcount", "encoding", "idletime", "freq", "help"}

// Refcount implements OBJECT REFCOUNT <k>.
func (c *Object) Refcount(rw objectstore.ReplyWriter, key string) {
	o, ok := c.Keys.Lookup(key)
	if !ok {
		rw.ReplyNull()
		return
	}
	rw.ReplyI64(o.Refcount())
}

// Encoding implements OBJECT ENCODING <k>.
func (c *Object) Encoding(rw objectstore.ReplyWriter, key string) {
	o, ok := c.Keys.Lookup(key)
	if !ok {
		rw.ReplyNull()
		return
	}
	rw.ReplyStatus(o.Encoding().String())
}

// Idletime implements OBJECT IDLETIME <k>: seconds since last access.
// Errors if frequency eviction is active.
func (c *Object) Idletime(rw objectstore.ReplyWriter, key string) {
	if c.Policy.Mode() == evict.Frequency {
		rw.ReplyError(objectstore.ErrWrongEvictionModeIdle.Error())
		return
	}
	o, ok := c.Keys.Lookup(key)
	if !ok {
		rw.ReplyNull()
		return
	}
	nowTick := c.Policy.NowTicks()
	lastTick := o.AccessMeta()
	idle := int64(nowTick) - int64(lastTick)
	if idle < 0 {
		idle = 0
	}
	rw.ReplyI64(idle)
}

// Freq implements OBJECT FREQ <k>: logical access frequency after
// applying decay. Errors if recency eviction is active.
func (c *Object) Freq(rw objectstore.ReplyWriter, key string) {
	if c.Policy.Mode() != evict.Frequency {
		rw.ReplyError(objectstore.ErrWrongEvictionMode.Error())
		return
	}
	o, ok := c.Keys.Lookup(key)
	if !ok {
		rw.ReplyNull()
		return
	}
	meta := o.AccessMeta()
	counter := uint8(meta & 0xFF)
	lastDecayMinute := uint16(meta >> 8)
	decayed, _ := c.Policy.FrequencyDecay(counter, lastDecayMinute)
	rw.ReplyI64(int64(decayed))
}

// Help implements OBJECT HELP.
func (c *Object) Help(rw objectstore.ReplyWriter) {
	rw.ReplyMultiBulkHeader(len(objectSubcommands))
	for _, s := range objectSubcommands {
		rw.ReplyStatus(s)
	}
}

// Memory implements the MEMORY command family.
type Memory struct {
	Keys   KeyLookup
	Store  *objectstore.Store
	Config *config.Config
	Snap   func() memstat.Snapshot
	Alloc  allocator.Allocator
}

var memorySubcommands = []string{"usage", "stats", "doctor", "malloc-stats", "purge", "help"}

// Usage implements MEMORY USAGE <k> [SAMPLES N]. The reported total
// includes the value's own size, the key string's own allocation, and
// one dictionary entry slot. samples == 0 means exhaustive;
// samples < 0 is a syntax error.
func (m *Memory) Usage(rw objectstore.ReplyWriter, key string, samples int) {
	if samples < 0 {
		rw.ReplyError(ErrSyntax.Error())
		return
	}
	o, ok := m.Keys.Lookup(key)
	if !ok {
		rw.ReplyNull()
		return
	}
	total := objectstore.ComputeSize(o, samples, m.Alloc)
	total += int64(len(key)) + dictEntrySlotSize
	rw.ReplyI64(total)
}

// dictEntrySlotSize approximates the key's own string allocation plus
// one dictionary entry slot.
const dictEntrySlotSize = 56

// UsageDefault is Usage with the configured default sample count, for
// callers whose command line had no SAMPLES option.
func (m *Memory) UsageDefault(rw objectstore.ReplyWriter, key string) {
	m.Usage(rw, key, m.Config.DefaultSampleSize)
}

// Stats implements MEMORY STATS.
func (m *Memory) Stats(rw objectstore.ReplyWriter) {
	o := memstat.ComputeOverhead(m.Snap())
	flat := memstat.Stats(o)
	rw.ReplyMultiBulkHeader(len(flat) * 2)
	for _, st := range flat {
		rw.ReplyStatus(st.Name)
		if st.IsFloat {
			rw.ReplyDouble(st.Float)
		} else {
			rw.ReplyI64(st.Int)
		}
	}
}

// Doctor implements MEMORY DOCTOR.
func (m *Memory) Doctor(rw objectstore.ReplyWriter) {
	o := memstat.ComputeOverhead(m.Snap())
	rw.ReplyBulkString([]byte(memstat.Doctor(o, m.Config)))
}

// MallocStats implements MEMORY MALLOC-STATS: a fixed "not supported"
// string, since the pooled allocator this layer ships has no
// allocator-specific diagnostic dump.
func (m *Memory) MallocStats(rw objectstore.ReplyWriter) {
	rw.ReplyBulkString([]byte("Memory allocator stats not supported."))
}

// Purge implements MEMORY PURGE: OK, since the pooled allocator has no
// per-arena dirty-page release to perform.
func (m *Memory) Purge(rw objectstore.ReplyWriter) {
	rw.ReplyStatus("OK")
}

// Help implements MEMORY HELP.
func (m *Memory) Help(rw objectstore.ReplyWriter) {
	rw.ReplyMultiBulkHeader(len(memorySubcommands))
	for _, s := range memorySubcommands {
		rw.ReplyStatus(s)
	}
}
