package worldmatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/worldmatch/internal/db"
	dbRedis "github.com/kailas-cloud/worldmatch/internal/db/redis"
	"github.com/kailas-cloud/worldmatch/internal/domain"
	"github.com/kailas-cloud/worldmatch/internal/domain/geo"
	"github.com/kailas-cloud/worldmatch/internal/repository/blob"
	coordinatesrepo "github.com/kailas-cloud/worldmatch/internal/repository/coordinates"
	personrepo "github.com/kailas-cloud/worldmatch/internal/repository/person"
	directoryuc "github.com/kailas-cloud/worldmatch/internal/usecase/directory"
)

const (
	driverFile   = "file"
	driverValkey = "valkey"
	driverRedis  = "redis"

	defaultRecordsPath      = "people.csv"
	defaultRecordsKey       = "worldmatch:people"
	defaultReadinessTimeout = 10 * time.Second
)

// Client is the embedded directory. It is safe for concurrent use.
type Client struct {
	store db.Store // nil for the file backend
	dir   *directoryuc.Service
}

// Open wires the backend, loads the coordinate table and the dataset.
// A missing record store is not an error: reads return ErrNotLoaded until the
// first Add creates it.
func Open(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{driver: driverFile}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	table, err := loadCoordinates(ctx, cfg)
	if err != nil {
		return nil, err
	}

	c := &Client{}
	var records blob.ReadWriter
	switch cfg.driver {
	case driverFile:
		path := cfg.recordsPath
		if path == "" {
			path = defaultRecordsPath
		}
		records = blob.NewFile(path)
	case driverValkey, driverRedis:
		store, err := createStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		c.store = store
		key := cfg.recordsKey
		if key == "" {
			key = defaultRecordsKey
		}
		records = blob.NewKV(store, key)
	default:
		return nil, fmt.Errorf("worldmatch: unknown driver %q", cfg.driver)
	}

	c.dir = directoryuc.New(personrepo.New(records), table, cfg.logger)
	if err := c.dir.Load(ctx); err != nil && !errors.Is(err, domain.ErrNotFound) {
		c.Close()
		return nil, fmt.Errorf("worldmatch: %w", err)
	}
	return c, nil
}

func loadCoordinates(ctx context.Context, cfg *clientConfig) (geo.Table, error) {
	if cfg.coordinatesPath == "" {
		return geo.NewTable(cfg.coordinates), nil
	}
	table, err := coordinatesrepo.New(blob.NewFile(cfg.coordinatesPath)).Load(ctx)
	if err != nil {
		return geo.Table{}, fmt.Errorf("worldmatch: %w", err)
	}
	return table, nil
}

func createStore(ctx context.Context, cfg *clientConfig) (db.Store, error) {
	if len(cfg.addrs) == 0 {
		return nil, errors.New("worldmatch: database address required (use WithValkey or WithRedis)")
	}
	s, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("worldmatch: create %s store: %w", cfg.driver, err)
	}
	if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		s.Close()
		return nil, fmt.Errorf("worldmatch: database not ready: %w", err)
	}
	return s, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Reload re-reads the record store, picking up changes made by other writers.
func (c *Client) Reload(ctx context.Context) error {
	if err := c.dir.Load(ctx); err != nil {
		return fmt.Errorf("worldmatch: %w", err)
	}
	return nil
}

// Facets returns the values present in the loaded dataset.
func (c *Client) Facets(ctx context.Context) (Facets, error) {
	f, err := c.dir.Facts(ctx)
	if err != nil {
		return Facets{}, fmt.Errorf("worldmatch: %w", err)
	}
	return fromInternalFacts(f), nil
}

// Add validates and appends a person, persisting the whole store.
// Returns the stored person and the new dataset size.
func (c *Client) Add(ctx context.Context, p NewPerson) (Person, int, error) {
	stored, total, err := c.dir.Append(ctx, p.toInput())
	if err != nil {
		return Person{}, 0, fmt.Errorf("worldmatch: %w", err)
	}
	return fromInternalPerson(stored), total, nil
}

// Find starts a filter over the dataset. With no constraints it matches everyone.
func (c *Client) Find() *FindBuilder {
	return &FindBuilder{dir: c.dir}
}
