package classfile

import "go.uber.org/zap"

// Limits are the sanity ceilings applied while decoding.
type Limits struct {
	MaxPoolCount    int
	MaxStringLength int
	MaxMethods      int
	MaxAlloc        int64
	MinMajorVersion uint16
	MaxMajorVersion uint16
}

// DefaultLimits returns the ceilings of the supported format family.
func DefaultLimits() Limits {
	return Limits{
		MaxPoolCount:    DefaultMaxPoolCount,
		MaxStringLength: DefaultMaxStringLength,
		MaxMethods:      DefaultMaxMethods,
		MaxAlloc:        DefaultMaxAlloc,
		MinMajorVersion: MinMajorVersion,
		MaxMajorVersion: MaxMajorVersion,
	}
}

type options struct {
	logger *zap.Logger
	limits Limits
}

// Option configures a single decode.
type Option func(*options)

// WithLogger routes decode tracing to l. Debug level shows every record.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithLimits replaces the default ceilings.
func WithLimits(l Limits) Option {
	return func(o *options) {
		o.limits = l
	}
}

func buildOptions(opts []Option) options {
	o := options{limits: DefaultLimits()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = Logger()
	}
	return o
}
