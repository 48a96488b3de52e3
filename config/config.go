// Package config provides centralized configuration for the value object
// layer.
//
// All configuration values are loaded from environment variables with
// sensible, spec-mandated defaults. Several fields are pinned by contract
// (see the bit-exact-compatibility list below) and exist here mainly so
// that callers have one documented place to read them from, not because
// they are expected to vary between deployments.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/c2h5oh/datasize"

	"objectstore/logger"
)

// EvictionMode selects how Obj.AccessMeta is interpreted by the eviction
// policy collaborator. This package only carries the selection; the
// objectstore and evict packages are the ones that act on it.
type EvictionMode int

const (
	// EvictionRecency stores a coarse last-access tick in AccessMeta.
	EvictionRecency EvictionMode = iota
	// EvictionFrequency stores a decaying logarithmic access counter.
	EvictionFrequency
)

func (m EvictionMode) String() string {
	if m == EvictionFrequency {
		return "frequency"
	}
	return "recency"
}

// Config holds all configuration values for the value object layer.
//
// Values have sensible defaults and can be overridden through environment
// variables. There is no file-based or flag-based tier here: this layer
// has no server process to read flags for, so environment variables are
// the only override mechanism.
type Config struct {
	// Encoding Thresholds
	// ===================

	// InlineMax is the largest string length (in bytes) that gets the
	// single-allocation InlineString encoding instead of HeapString.
	// Environment: VOBJ_INLINE_MAX
	// Default: 44 (bit-exact; chosen so header+buffer fit a 64-byte bin)
	InlineMax int

	// SharedIntCount is the size of the shared small-integer pool, i.e.
	// the half-open range [0, SharedIntCount) of immortal pooled ints.
	// Environment: VOBJ_SHARED_INT_COUNT
	// Default: 10000 (bit-exact)
	SharedIntCount int

	// SlackShrinkThreshold is the fraction of wasted buffer capacity
	// (avail/len) above which try_encode shrinks a HeapString in place.
	// Environment: VOBJ_SLACK_SHRINK_THRESHOLD
	// Default: 0.10 (bit-exact)
	SlackShrinkThreshold float64

	// Eviction Policy
	// ===============

	// Eviction selects recency or frequency interpretation of AccessMeta.
	// Environment: VOBJ_EVICTION_MODE ("recency" or "frequency")
	// Default: recency
	Eviction EvictionMode

	// NoSharedIntegers disables the shared small-integer pool even for
	// values that would otherwise qualify.
	// Environment: VOBJ_NO_SHARED_INTEGERS
	// Default: false
	NoSharedIntegers bool

	// InitFreq is the initial logarithmic frequency counter value given
	// to a freshly created object under frequency-mode eviction.
	// Environment: VOBJ_INIT_FREQ
	// Default: 5 (bit-exact)
	InitFreq int

	// Size Estimation
	// ===============

	// DefaultSampleSize bounds how many container elements compute_size
	// inspects before extrapolating to the full population.
	// Environment: VOBJ_DEFAULT_SAMPLE_SIZE
	// Default: 5 (bit-exact)
	DefaultSampleSize int

	// Memory Doctor Thresholds
	// ========================

	// DoctorEmptyThresholdBytes: below this total allocation, the doctor
	// reports "empty" and skips every other rule.
	// Environment: VOBJ_DOCTOR_EMPTY_THRESHOLD_BYTES (plain byte count or
	// a human-friendly size such as "5MB")
	// Default: 5 * 1024 * 1024 (5 MiB, bit-exact)
	DoctorEmptyThresholdBytes int64

	// DoctorBigPeakRatio: peak/total above this ratio triggers the
	// big-peak paragraph.
	// Environment: VOBJ_DOCTOR_BIG_PEAK_RATIO
	// Default: 1.5 (bit-exact)
	DoctorBigPeakRatio float64

	// DoctorHighFragRatio: fragmentation above this ratio triggers the
	// high-fragmentation paragraph.
	// Environment: VOBJ_DOCTOR_HIGH_FRAG_RATIO
	// Default: 1.4 (bit-exact)
	DoctorHighFragRatio float64

	// DoctorBigClientBufBytes: average normal-client buffer usage above
	// this triggers the big-client-buffer paragraph.
	// Environment: VOBJ_DOCTOR_BIG_CLIENT_BUF_BYTES (plain byte count or
	// a human-friendly size such as "200KB")
	// Default: 200 * 1024 (200 KiB, bit-exact)
	DoctorBigClientBufBytes int64

	// DoctorBigSlaveBufBytes: average slave-client buffer usage above
	// this triggers the big-slave-buffer paragraph.
	// Environment: VOBJ_DOCTOR_BIG_SLAVE_BUF_BYTES (plain byte count or
	// a human-friendly size such as "10MB")
	// Default: 10 * 1024 * 1024 (10 MiB, bit-exact)
	DoctorBigSlaveBufBytes int64
}

// Load creates a new Config populated from environment variables, falling
// back to the documented defaults for anything unset or unparsable.
func Load() *Config {
	return &Config{
		InlineMax:            getEnvInt("VOBJ_INLINE_MAX", 44),
		SharedIntCount:       getEnvInt("VOBJ_SHARED_INT_COUNT", 10000),
		SlackShrinkThreshold: getEnvFloat("VOBJ_SLACK_SHRINK_THRESHOLD", 0.10),

		Eviction:         getEnvEvictionMode("VOBJ_EVICTION_MODE", EvictionRecency),
		NoSharedIntegers: getEnvBool("VOBJ_NO_SHARED_INTEGERS", false),
		InitFreq:         getEnvInt("VOBJ_INIT_FREQ", 5),

		DefaultSampleSize: getEnvInt("VOBJ_DEFAULT_SAMPLE_SIZE", 5),

		DoctorEmptyThresholdBytes: getEnvByteSize("VOBJ_DOCTOR_EMPTY_THRESHOLD_BYTES", 5*datasize.MB),
		DoctorBigPeakRatio:        getEnvFloat("VOBJ_DOCTOR_BIG_PEAK_RATIO", 1.5),
		DoctorHighFragRatio:       getEnvFloat("VOBJ_DOCTOR_HIGH_FRAG_RATIO", 1.4),
		DoctorBigClientBufBytes:   getEnvByteSize("VOBJ_DOCTOR_BIG_CLIENT_BUF_BYTES", 200*datasize.KB),
		DoctorBigSlaveBufBytes:    getEnvByteSize("VOBJ_DOCTOR_BIG_SLAVE_BUF_BYTES", 10*datasize.MB),
	}
}

// =============================================================================
// Environment Variable Parsing Utilities
// =============================================================================

// getEnvInt retrieves an integer environment variable with a default fallback.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		logger.Warn("config: %s=%q is not an integer, using default %d", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvFloat retrieves a float environment variable with a default fallback.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		logger.Warn("config: %s=%q is not a float, using default %g", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable with a default
// fallback. "true" and "1" are true; anything else is false.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

// getEnvByteSize retrieves a byte-size environment variable, accepting
// either a plain integer byte count or a human-friendly size like
// "200KB" or "5MB" (datasize.ByteSize's textual format), falling back
// to defaultValue when unset or unparsable.
func getEnvByteSize(key string, defaultValue datasize.ByteSize) int64 {
	value := os.Getenv(key)
	if value == "" {
		return int64(defaultValue)
	}
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return n
	}
	var bs datasize.ByteSize
	if err := bs.UnmarshalText([]byte(value)); err == nil {
		return int64(bs)
	}
	logger.Warn("config: %s=%q is not a byte size, using default %d", key, value, int64(defaultValue))
	return int64(defaultValue)
}

// getEnvEvictionMode parses "recency" or "frequency" (case-insensitive).
func getEnvEvictionMode(key string, defaultValue EvictionMode) EvictionMode {
	if value := os.Getenv(key); value != "" {
		switch strings.ToLower(value) {
		case "frequency":
			return EvictionFrequency
		case "recency":
			return EvictionRecency
		}
		logger.Warn("config: %s=%q is not an eviction mode, using default %s", key, value, defaultValue)
	}
	return defaultValue
}
