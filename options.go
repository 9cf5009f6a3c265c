package worldmatch

import "go.uber.org/zap"

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver   string // "file", "valkey" or "redis"
	addrs    []string
	password string

	recordsPath string
	recordsKey  string

	coordinatesPath string
	coordinates     map[string]Point

	logger *zap.Logger
}

// WithRecordsFile stores records in a local tabular text file.
// This is the default backend.
func WithRecordsFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverFile
		c.recordsPath = path
	})
}

// WithValkey stores records under one key of a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverValkey
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis stores records under one key of a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverRedis
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRecordsKey sets the key used by the Valkey/Redis backends.
// Defaults to "worldmatch:people".
func WithRecordsKey(key string) Option {
	return optionFunc(func(c *clientConfig) {
		c.recordsKey = key
	})
}

// WithCoordinatesFile loads the country coordinate table from a file.
func WithCoordinatesFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.coordinatesPath = path
	})
}

// WithCoordinates supplies the country coordinate table directly.
func WithCoordinates(table map[string]Point) Option {
	return optionFunc(func(c *clientConfig) {
		c.coordinates = table
	})
}

// WithLogger sets the logger. Defaults to zap.NewNop().
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}
