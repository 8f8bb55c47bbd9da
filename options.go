package waveread

import (
	"log/slog"
	"math"
)

const (
	// DefaultCacheSize is 1 MiB. It should be a reasonable multiple of the
	// span usually requested per Audio call.
	DefaultCacheSize = 1 << 20
	// DefaultCacheExtensionThreshold triggers a prefetch once a caller reads
	// past the middle of the cached data.
	DefaultCacheExtensionThreshold = 0.5
)

type Option func(*Reader)

// WithCacheSize sets the target window length in bytes.
func WithCacheSize(n int) Option {
	return func(r *Reader) {
		if n > 0 {
			r.cacheSize = n
		}
	}
}

// WithCacheExtensionThreshold sets how far into the cached data, as a
// fraction in [0,1], a read must start before a prefetch is scheduled.
func WithCacheExtensionThreshold(t float64) Option {
	return func(r *Reader) {
		r.threshold = clampThreshold(t)
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Reader) {
		if l != nil {
			r.logger = l
		}
	}
}

func clampThreshold(t float64) float64 {
	switch {
	case math.IsNaN(t):
		return DefaultCacheExtensionThreshold
	case t < 0:
		return 0
	case t > 1:
		return 1
	default:
		return t
	}
}
