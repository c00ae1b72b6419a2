package expiremap

import (
	"time"

	"github.com/samber/mo"
)

// Option configures a Map at construction time.
type Option func(*options)

type options struct {
	defaultTTL mo.Option[time.Duration]
	clock      Clock
}

// WithDefaultTTL sets the lifetime given to entries stored without an
// explicit TTL. Negative values are clamped to zero.
func WithDefaultTTL(d time.Duration) Option {
	return func(o *options) {
		o.defaultTTL = mo.Some(d)
	}
}

// WithOptionalDefaultTTL is WithDefaultTTL for callers that already hold an
// optional value, e.g. one decoded from configuration.
func WithOptionalDefaultTTL(d mo.Option[time.Duration]) Option {
	return func(o *options) {
		o.defaultTTL = d
	}
}

// WithClock replaces the wall clock. Tests use it to control expiry.
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		defaultTTL: mo.None[time.Duration](),
		clock:      SystemClock{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	o.defaultTTL = clampTTL(o.defaultTTL)
	return o
}

// clampTTL turns a negative duration into zero. None stays None.
func clampTTL(d mo.Option[time.Duration]) mo.Option[time.Duration] {
	v, ok := d.Get()
	if !ok {
		return d
	}
	if v < 0 {
		return mo.Some(time.Duration(0))
	}
	return d
}
