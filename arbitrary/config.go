package arbitrary

import "github.com/imapwire/imapfuzz"

const (
	// DefaultMaxDepth bounds nesting of recursive values
	DefaultMaxDepth = 2048
	// DefaultMaxElements bounds the length of every list
	DefaultMaxElements = 8
	// DefaultMaxLength bounds the length of every leaf
	DefaultMaxLength = 255
	// DefaultStructuralDepth bounds how deep Structural descends
	DefaultStructuralDepth = 24
)

// Config controls what the generators emit.
type Config struct {
	Features        imapfuzz.Features
	MaxDepth        int
	MaxElements     int
	MaxLength       int
	StructuralDepth int
}

// Option modifies a Config.
type Option func(*Config)

// WithFeatures selects the extensions whose variants may be generated.
func WithFeatures(fs imapfuzz.Features) Option {
	return func(cfg *Config) {
		cfg.Features = fs
	}
}

// WithMaxDepth bounds nesting of recursive values.
func WithMaxDepth(depth int) Option {
	return func(cfg *Config) {
		cfg.MaxDepth = depth
	}
}

// WithMaxElements bounds list lengths.
func WithMaxElements(n int) Option {
	return func(cfg *Config) {
		cfg.MaxElements = n
	}
}

// WithMaxLength bounds leaf lengths.
func WithMaxLength(n int) Option {
	return func(cfg *Config) {
		cfg.MaxLength = n
	}
}

// WithStructuralDepth bounds the descent of Structural.
func WithStructuralDepth(depth int) Option {
	return func(cfg *Config) {
		cfg.StructuralDepth = depth
	}
}

// NewConfig applies opts over the defaults.
func NewConfig(opts ...Option) Config {
	cfg := Config{
		Features:        imapfuzz.AllFeatures,
		MaxDepth:        DefaultMaxDepth,
		MaxElements:     DefaultMaxElements,
		MaxLength:       DefaultMaxLength,
		StructuralDepth: DefaultStructuralDepth,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.MaxElements < 1 {
		cfg.MaxElements = 1
	}
	if cfg.MaxLength < 1 {
		cfg.MaxLength = 1
	}
	if cfg.MaxLength > 255 {
		cfg.MaxLength = 255
	}
	return cfg
}
