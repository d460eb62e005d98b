package hybridmap

import (
	"go.uber.org/zap"
)

// Config describes the two tiers of a HybridMap.
type Config[K, V any, S Map[K, V], B Map[K, V]] struct {
	// MaxSmallSize is the largest number of entries the small tier holds.
	MaxSmallSize int

	NewSmall func() S
	NewBig   func() B

	// Transfer moves the small tier into the big one on a switch.
	// Nil means DefaultTransfer.
	Transfer Transfer[K, V, S, B]
}

type options struct {
	log  *zap.Logger
	name string
}

type Option func(*options)

// WithLogger sets the logger tier switches are reported to at debug level.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithName tags every log record of the map with a "map" field.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

func buildOptions(opts []Option) options {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.name != "" {
		o.log = o.log.With(zap.String("map", o.name))
	}
	return o
}
