package app

import (
	crand "crypto/rand"
	"encoding/binary"
	"math"
	"time"

	"github.com/jsamuelsen11/readycheck/internal/domain"
)

// jitterFraction is the maximum jitter as a fraction of the delay (±25%).
const jitterFraction = 0.25

// maxBackoff caps the delay between retries regardless of multiplier growth.
const maxBackoff = 30 * time.Second

// backoffDelay calculates the delay before a given retry using exponential
// backoff with ±25% jitter. The retry parameter is 1-indexed (retry 1
// precedes the second attempt).
func backoffDelay(spec domain.ServiceSpec, retry int) time.Duration {
	multiplier := spec.BackoffMultiplier
	if multiplier <= 0 {
		multiplier = domain.DefaultBackoffMultiplier
	}

	delay := float64(spec.Backoff) * math.Pow(multiplier, float64(retry-1))

	// Cap before applying jitter.
	if delay > float64(maxBackoff) {
		delay = float64(maxBackoff)
	}

	// Apply ±25% jitter to prevent thundering herd.
	jitter := delay * jitterFraction
	delay += jitter * (2*secureRandFloat64() - 1)

	if delay < 0 {
		delay = 0
	}

	return time.Duration(delay)
}

// IEEE 754 double-precision constants for random float generation.
const (
	significandBits = 53
	uint64Bits      = 64
)

// secureRandFloat64 returns a random float64 in [0, 1) using crypto/rand.
func secureRandFloat64() float64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0
	}
	return float64(binary.BigEndian.Uint64(b[:])>>(uint64Bits-significandBits)) / float64(uint64(1)<<significandBits)
}
