// Package directory is the session-level Record Store: it owns the loaded
// dataset, runs the filter engine over it and appends new records.
package directory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/worldmatch/internal/domain"
	"github.com/kailas-cloud/worldmatch/internal/domain/batch"
	"github.com/kailas-cloud/worldmatch/internal/domain/filter"
	"github.com/kailas-cloud/worldmatch/internal/domain/geo"
	"github.com/kailas-cloud/worldmatch/internal/domain/person"
	"github.com/kailas-cloud/worldmatch/internal/metrics"
)

// MaxBatchSize is the default maximum number of items per batch append.
const MaxBatchSize = 100

// View names used for filter metrics.
const (
	ViewList   = "list"
	ViewMap    = "map"
	ViewExport = "export"
)

// Result is the outcome of a filter evaluation.
type Result struct {
	Matches []person.Person
	Total   int // records in the dataset the filter ran over
}

// NoMatches reports the explicit empty state, distinct from "no data loaded".
func (r Result) NoMatches() bool { return len(r.Matches) == 0 }

// MapResult holds the matches that can be placed on a map.
type MapResult struct {
	Points   []person.Person
	Matched  int
	Excluded int // matched but without coordinates
}

// snapshot is immutable once published; appends replace it.
type snapshot struct {
	people []person.Person
	facts  filter.Facts
}

// Service owns the in-memory dataset for one process.
type Service struct {
	records      RecordRepository
	table        geo.Table
	logger       *zap.Logger
	maxBatchSize int

	mu      sync.RWMutex
	snap    *snapshot
	loadErr error
}

// New creates a directory service. Call Load before serving reads.
func New(records RecordRepository, table geo.Table, logger *zap.Logger) *Service {
	return &Service{
		records:      records,
		table:        table,
		logger:       logger,
		maxBatchSize: MaxBatchSize,
		loadErr:      domain.ErrNotLoaded,
	}
}

// WithMaxBatchSize configures the maximum number of items per AppendBatch.
func (s *Service) WithMaxBatchSize(size int) *Service {
	if size > 0 {
		s.maxBatchSize = size
	}
	return s
}

// Load (re)reads the dataset and joins coordinates. On failure the session is
// halted: reads return ErrNotLoaded until a later Load or Append succeeds.
func (s *Service) Load(ctx context.Context) error {
	people, err := s.records.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snap = nil
		s.loadErr = err
		metrics.RecordsLoaded.Set(0)
		if errors.Is(err, domain.ErrNotFound) {
			metrics.DatasetLoadsTotal.WithLabelValues("not_found").Inc()
		} else {
			metrics.DatasetLoadsTotal.WithLabelValues("error").Inc()
		}
		return fmt.Errorf("load dataset: %w", err)
	}

	s.publish(person.JoinCoordinates(people, s.table))
	metrics.DatasetLoadsTotal.WithLabelValues("ok").Inc()

	located, excluded := person.Located(s.snap.people)
	s.logger.Info("Dataset loaded",
		zap.String("source", s.records.Location()),
		zap.Int("records", len(people)),
		zap.Int("located", len(located)),
		zap.Int("without_coordinates", excluded),
	)
	return nil
}

// Loaded reports whether a dataset is available for reads.
func (s *Service) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap != nil
}

// LoadError returns the reason the session is halted, or nil.
func (s *Service) LoadError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap != nil {
		return nil
	}
	return s.loadErr
}

// Facts returns the derived facts used to populate filter controls.
func (s *Service) Facts(_ context.Context) (filter.Facts, error) {
	snap, err := s.current()
	if err != nil {
		return filter.Facts{}, err
	}
	return snap.facts, nil
}

// Search applies the query to the dataset and returns matches in dataset order.
func (s *Service) Search(_ context.Context, q Query) (Result, error) {
	return s.search(q, ViewList)
}

// Export is Search labelled for bulk export.
func (s *Service) Export(_ context.Context, q Query) (Result, error) {
	return s.search(q, ViewExport)
}

// MapPoints applies the query and drops matches without coordinates.
func (s *Service) MapPoints(_ context.Context, q Query) (MapResult, error) {
	res, err := s.search(q, ViewMap)
	if err != nil {
		return MapResult{}, err
	}
	located, excluded := person.Located(res.Matches)
	metrics.MapExcludedTotal.Add(float64(excluded))
	return MapResult{Points: located, Matched: len(res.Matches), Excluded: excluded}, nil
}

func (s *Service) search(q Query, view string) (Result, error) {
	snap, err := s.current()
	if err != nil {
		return Result{}, err
	}
	spec, err := q.spec(snap.facts)
	if err != nil {
		return Result{}, err
	}

	matches := filter.Apply(snap.people, spec)

	outcome := "matches"
	if len(matches) == 0 {
		outcome = "empty"
	}
	metrics.FilterEvaluationsTotal.WithLabelValues(view, outcome).Inc()
	metrics.FilterResultSize.WithLabelValues(view).Observe(float64(len(matches)))

	return Result{Matches: matches, Total: len(snap.people)}, nil
}

// Append validates a new record, appends it and persists the full set.
// A rejected or failed append leaves both the store and the session unchanged.
// Returns the stored record and the new dataset size.
func (s *Service) Append(ctx context.Context, in person.Input) (person.Person, int, error) {
	p, err := person.New(in)
	if err != nil {
		metrics.AppendsTotal.WithLabelValues("invalid").Inc()
		s.logger.Info("Record rejected", zap.Error(err))
		return person.Person{}, 0, fmt.Errorf("validate record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, total, err := s.commit(ctx, []person.Person{p})
	if err != nil {
		metrics.AppendsTotal.WithLabelValues("error").Inc()
		return person.Person{}, 0, err
	}

	metrics.AppendsTotal.WithLabelValues("ok").Inc()
	s.logger.Info("Record appended",
		zap.String("name", p.Name()),
		zap.String("country", p.Country()),
		zap.Int("records", total),
	)
	return stored[0], total, nil
}

// AppendBatch validates every item and appends the valid ones with a single
// write. Invalid items are reported and skipped; if the write fails every valid
// item is reported as failed. Returns per-item results in request order and the
// dataset size afterwards.
func (s *Service) AppendBatch(ctx context.Context, items []person.Input) ([]batch.Result, int) {
	results := make([]batch.Result, len(items))

	if len(items) > s.maxBatchSize {
		err := domain.NewValidationError("items", fmt.Sprintf("batch size exceeds %d", s.maxBatchSize))
		for i, in := range items {
			results[i] = batch.NewError(i, in.Name, err)
		}
		metrics.AppendsTotal.WithLabelValues("invalid").Add(float64(len(items)))
		return results, s.size()
	}

	valid := make([]person.Person, 0, len(items))
	validIdx := make([]int, 0, len(items))
	for i, in := range items {
		p, err := person.New(in)
		if err != nil {
			results[i] = batch.NewError(i, in.Name, fmt.Errorf("validate record: %w", err))
			metrics.AppendsTotal.WithLabelValues("invalid").Inc()
			continue
		}
		valid = append(valid, p)
		validIdx = append(validIdx, i)
	}

	if len(valid) == 0 {
		return results, s.size()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, total, err := s.commit(ctx, valid)
	if err != nil {
		for _, i := range validIdx {
			results[i] = batch.NewError(i, items[i].Name, err)
		}
		metrics.AppendsTotal.WithLabelValues("error").Add(float64(len(valid)))
		return results, s.sizeLocked()
	}

	for j, i := range validIdx {
		results[i] = batch.NewOK(i, valid[j].Name())
	}
	metrics.AppendsTotal.WithLabelValues("ok").Add(float64(len(validIdx)))
	s.logger.Info("Records appended",
		zap.Int("appended", len(validIdx)),
		zap.Int("rejected", len(items)-len(validIdx)),
		zap.Int("records", total),
	)
	return results, total
}

// commit appends people to the current set, persists it and publishes the
// new snapshot. Must be called with mu held for writing.
func (s *Service) commit(ctx context.Context, people []person.Person) ([]person.Person, int, error) {
	var base []person.Person
	switch {
	case s.snap != nil:
		base = s.snap.people
	case errors.Is(s.loadErr, domain.ErrNotFound):
		// First run: the record file is created by this append.
		s.logger.Info("Creating record store", zap.String("source", s.records.Location()))
	default:
		return nil, 0, fmt.Errorf("append to unreadable store: %w: %w", domain.ErrNotLoaded, s.loadErr)
	}

	added := person.JoinCoordinates(people, s.table)

	next := make([]person.Person, len(base), len(base)+len(added))
	copy(next, base)
	next = append(next, added...)

	if err := s.records.Save(ctx, next); err != nil {
		return nil, 0, fmt.Errorf("persist records: %w", err)
	}

	s.publish(next)
	return added, len(next), nil
}

func (s *Service) size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sizeLocked()
}

func (s *Service) sizeLocked() int {
	if s.snap == nil {
		return 0
	}
	return len(s.snap.people)
}

// publish must be called with mu held for writing.
func (s *Service) publish(people []person.Person) {
	s.snap = &snapshot{people: people, facts: filter.ComputeFacts(people)}
	s.loadErr = nil
	metrics.RecordsLoaded.Set(float64(len(people)))
}

func (s *Service) current() (*snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		if s.loadErr != nil && !errors.Is(s.loadErr, domain.ErrNotLoaded) {
			return nil, fmt.Errorf("%w: %w", domain.ErrNotLoaded, s.loadErr)
		}
		return nil, domain.ErrNotLoaded
	}
	return s.snap, nil
}
