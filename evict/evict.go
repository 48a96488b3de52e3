// Package evict provides the eviction-policy collaborator the value
// object layer depends on through an interface only: mode flags, a
// coarse wall-clock tick source, and frequency-counter decay. The
// layer above treats access metadata as opaque and defers all
// interpretation of it to this package, which reads it as either a
// recency tick or a logarithmic frequency counter with
// minute-resolution decay.
package evict

import (
	"sync/atomic"
	"time"

	"objectstore/config"
)

// Mode selects how access_meta is interpreted.
type Mode int

const (
	// Recency stores a coarse wall-clock tick at last access in the low
	// 24 bits of access_meta.
	Recency Mode = iota
	// Frequency stores a minute-resolution last-decay tick in the high
	// 16 bits and a logarithmic counter in the low 8 bits.
	Frequency
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	if m == Frequency {
		return "frequency"
	}
	return "recency"
}

// Policy is the eviction-policy contract: current mode flags plus the
// two access-metadata interpretation primitives. NoSharedIntegers is
// reported separately because it can be toggled independently of the
// recency/frequency choice.
type Policy interface {
	// Mode reports the currently configured eviction mode.
	Mode() Mode
	// NoSharedIntegers reports whether the shared small-integer pool is
	// disabled, in which case new_string_from_int never returns a
	// pooled object even for values in range.
	NoSharedIntegers() bool
	// NowTicks returns the current coarse-resolution wall-clock tick,
	// for stamping access_meta under recency mode.
	NowTicks() uint32
	// FrequencyDecay applies logarithmic counter decay: given the
	// stored counter and the minute-resolution tick of its last decay,
	// returns the decayed counter and the current minute tick.
	FrequencyDecay(counter uint8, lastDecayMinute uint16) (newCounter uint8, nowMinute uint16)
}

// Default is the standard Policy: a monotonic tick clock plus a
// logarithmic frequency counter decayed by one per minute elapsed
// since the last decay, floored at zero.
type Default struct {
	mode             Mode
	noSharedIntegers bool
	start            time.Time
}

// New creates a Default policy in the given mode.
func New(mode Mode, noSharedIntegers bool) *Default {
	return &Default{mode: mode, noSharedIntegers: noSharedIntegers, start: time.Now()}
}

// NewFromConfig bridges config.Config's eviction settings into a
// Default policy.
func NewFromConfig(cfg *config.Config) *Default {
	mode := Recency
	if cfg.Eviction == config.EvictionFrequency {
		mode = Frequency
	}
	return New(mode, cfg.NoSharedIntegers)
}

// Mode implements Policy.
func (d *Default) Mode() Mode { return d.mode }

// NoSharedIntegers implements Policy.
func (d *Default) NoSharedIntegers() bool { return d.noSharedIntegers }

// NowTicks implements Policy: seconds elapsed since the policy was
// created, truncated to the 24 bits the recency field holds.
func (d *Default) NowTicks() uint32 {
	elapsed := uint32(time.Since(d.start).Seconds())
	return elapsed & 0x00FFFFFF
}

// nowMinute returns the current minute tick, truncated to 16 bits.
func (d *Default) nowMinute() uint16 {
	return uint16((time.Since(d.start) / time.Minute) & 0xFFFF)
}

// FrequencyDecay implements Policy: decrements counter by one for
// every minute elapsed since lastDecayMinute, floored at zero.
func (d *Default) FrequencyDecay(counter uint8, lastDecayMinute uint16) (uint8, uint16) {
	now := d.nowMinute()
	elapsed := now - lastDecayMinute
	if elapsed > 0 {
		if uint16(counter) <= elapsed {
			counter = 0
		} else {
			counter -= uint8(elapsed)
		}
	}
	return counter, now
}

// Counters is hit/miss/eviction bookkeeping for the pools and caches
// this policy governs, such as the shared small-integer pool.
type Counters struct {
	hits      int64
	misses    int64
	evictions int64
}

// Hit records a cache/pool hit.
func (c *Counters) Hit() { atomic.AddInt64(&c.hits, 1) }

// Miss records a cache/pool miss.
func (c *Counters) Miss() { atomic.AddInt64(&c.misses, 1) }

// Evicted records an eviction.
func (c *Counters) Evicted() { atomic.AddInt64(&c.evictions, 1) }

// Snapshot reports the current counter values.
func (c *Counters) Snapshot() (hits, misses, evictions int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses), atomic.LoadInt64(&c.evictions)
}
