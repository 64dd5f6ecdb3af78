package replay

import (
	"runtime"
	"slices"

	"github.com/imapwire/imapfuzz"
	"github.com/imapwire/imapfuzz/fuzzing"
)

// DefaultMaxInputSize matches the default go-fuzz input limit.
const DefaultMaxInputSize = 1 << 20

// Config controls a replay run.
type Config struct {
	Workers      int
	Features     imapfuzz.Features
	Drivers      []string
	MaxInputSize int

	checks map[string]fuzzing.Check
	extra  []string
}

// Option modifies a Config.
type Option func(*Config)

// WithWorkers sets how many inputs run at once.
func WithWorkers(workers int) Option {
	return func(cfg *Config) {
		cfg.Workers = workers
	}
}

// WithFeatures selects the extensions the generators may use.
func WithFeatures(fs imapfuzz.Features) Option {
	return func(cfg *Config) {
		cfg.Features = fs
	}
}

// WithDrivers selects registered drivers by name.
func WithDrivers(names ...string) Option {
	return func(cfg *Config) {
		cfg.Drivers = names
	}
}

// WithMaxInputSize skips inputs longer than size.
func WithMaxInputSize(size int) Option {
	return func(cfg *Config) {
		cfg.MaxInputSize = size
	}
}

// WithCheck runs check under name in addition to the selected drivers.
func WithCheck(name string, check fuzzing.Check) Option {
	return func(cfg *Config) {
		if cfg.checks == nil {
			cfg.checks = make(map[string]fuzzing.Check)
		}
		if _, ok := cfg.checks[name]; !ok {
			cfg.extra = append(cfg.extra, name)
		}
		cfg.checks[name] = check
	}
}

func newConfig(opts ...Option) Config {
	cfg := Config{
		Workers:      runtime.GOMAXPROCS(0),
		Features:     imapfuzz.FeaturesFromEnv(),
		Drivers:      fuzzing.DriverNames(),
		MaxInputSize: DefaultMaxInputSize,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	// checks run after the selected drivers whatever the option order
	for _, name := range cfg.extra {
		if !slices.Contains(cfg.Drivers, name) {
			cfg.Drivers = append(cfg.Drivers, name)
		}
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return cfg
}
