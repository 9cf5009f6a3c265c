package chi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	chirouter "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/worldmatch/internal/domain"
	"github.com/kailas-cloud/worldmatch/internal/domain/batch"
	"github.com/kailas-cloud/worldmatch/internal/domain/filter"
	"github.com/kailas-cloud/worldmatch/internal/domain/person"
	"github.com/kailas-cloud/worldmatch/internal/export"
	logpkg "github.com/kailas-cloud/worldmatch/internal/logger"
	directoryuc "github.com/kailas-cloud/worldmatch/internal/usecase/directory"
	healthuc "github.com/kailas-cloud/worldmatch/internal/usecase/health"
	"github.com/kailas-cloud/worldmatch/internal/version"
)

// Query parameter names.
const (
	paramCountry      = "country"
	paramLanguage     = "language"
	paramInterest     = "interest"
	paramAgeMin       = "age_min"
	paramAgeMax       = "age_max"
	paramAvailability = "availability"
)

// Response headers on the map endpoint.
const (
	HeaderMatchedCount  = "X-Matched-Count"
	HeaderExcludedCount = "X-Excluded-Count"
)

// NoMatchesMessage accompanies an empty filter result.
const NoMatchesMessage = "No matches found. Try adjusting the filters."

const (
	maxBodyBytes      = 64 << 10
	maxBatchBodyBytes = 1 << 20
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the directory over HTTP.
type Server struct {
	directory     *directoryuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	allLabel      string
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. allLabel is the country choice that
// disables the country constraint; empty means filter.AllCountries.
func NewServer(
	directory *directoryuc.Service,
	health *healthuc.Service,
	allLabel string,
	logger *zap.Logger,
) *Server {
	if allLabel == "" {
		allLabel = filter.AllCountries
	}
	s := &Server{
		directory: directory,
		health:    health,
		logger:    logger,
		allLabel:  allLabel,
	}
	s.errorHandlers = []errorHandler{
		validationHandler,
		sentinelHandler(domain.ErrNotLoaded, http.StatusServiceUnavailable, ErrorCodeNotLoaded),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeNotFound),
		sentinelHandler(domain.ErrInvalidRecord, http.StatusInternalServerError, ErrorCodeInvalidRecord),
	}
	return s
}

// Register mounts all routes on r.
func (s *Server) Register(r chirouter.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api/v1", func(r chirouter.Router) {
		r.Get("/facets", s.GetFacets)
		r.Post("/dataset/reload", s.ReloadDataset)

		r.Get("/people", s.ListPeople)
		r.Post("/people", s.CreatePerson)
		r.Post("/people/batch", s.BatchCreatePeople)
		r.Get("/people/map", s.MapPeople)
		r.Get("/people/export.parquet", s.ExportPeople)
	})
}

// ListPeople handles GET /api/v1/people.
func (s *Server) ListPeople(w http.ResponseWriter, r *http.Request) {
	q, err := s.parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}

	res, err := s.directory.Search(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	resp := PeopleListResponse{
		Items:     peopleToResponse(res.Matches),
		Total:     res.Total,
		Matched:   len(res.Matches),
		NoMatches: res.NoMatches(),
	}
	if resp.NoMatches {
		resp.Message = NoMatchesMessage
	}
	writeJSON(w, http.StatusOK, resp)
}

// MapPeople handles GET /api/v1/people/map.
func (s *Server) MapPeople(w http.ResponseWriter, r *http.Request) {
	q, err := s.parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}

	res, err := s.directory.MapPoints(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.Header().Set(HeaderMatchedCount, strconv.Itoa(res.Matched))
	w.Header().Set(HeaderExcludedCount, strconv.Itoa(res.Excluded))

	data, err := json.Marshal(export.FeatureCollection(res.Points))
	if err != nil {
		s.handleDomainError(w, r, fmt.Errorf("encode geojson: %w", err))
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// ExportPeople handles GET /api/v1/people/export.parquet.
func (s *Server) ExportPeople(w http.ResponseWriter, r *http.Request) {
	q, err := s.parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}

	res, err := s.directory.Export(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteParquet(&buf, res.Matches); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.apache.parquet")
	w.Header().Set("Content-Disposition", `attachment; filename="people.parquet"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// GetFacets handles GET /api/v1/facets.
func (s *Server) GetFacets(w http.ResponseWriter, r *http.Request) {
	facts, err := s.directory.Facts(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, facetsToResponse(facts, s.allLabel))
}

// CreatePerson handles POST /api/v1/people.
func (s *Server) CreatePerson(w http.ResponseWriter, r *http.Request) {
	var req CreatePersonRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	p, total, err := s.directory.Append(r.Context(), req.input())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, CreatePersonResponse{
		Person:  personToResponse(p),
		Total:   total,
		Message: fmt.Sprintf("New user '%s' has been successfully added to the database!", p.Name()),
	})
}

// BatchCreatePeople handles POST /api/v1/people/batch.
func (s *Server) BatchCreatePeople(w http.ResponseWriter, r *http.Request) {
	var req BatchCreateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBatchBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.People) == 0 {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "people must not be empty")
		return
	}

	inputs := make([]person.Input, len(req.People))
	for i, p := range req.People {
		inputs[i] = p.input()
	}

	results, total := s.directory.AppendBatch(r.Context(), inputs)
	succeeded, failed := batch.Count(results)

	items := make([]BatchResultItem, len(results))
	for i, res := range results {
		items[i] = batchResultToResponse(res)
	}

	writeJSON(w, http.StatusOK, BatchCreateResponse{
		Items:     items,
		Succeeded: succeeded,
		Failed:    failed,
		Total:     total,
	})
}

// ReloadDataset handles POST /api/v1/dataset/reload.
func (s *Server) ReloadDataset(w http.ResponseWriter, r *http.Request) {
	if err := s.directory.Load(r.Context()); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	facts, err := s.directory.Facts(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ReloadResponse{Total: facts.Total()})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:  string(report.Status),
		Version: version.Version,
		Checks:  checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// parseQuery reads filter parameters. Absent parameters leave the
// corresponding constraint at its default.
func (s *Server) parseQuery(r *http.Request) (directoryuc.Query, error) {
	values := r.URL.Query()
	q := directoryuc.Query{
		Country:   values.Get(paramCountry),
		Languages: values[paramLanguage],
		Interest:  values.Get(paramInterest),
	}
	if q.Country == s.allLabel {
		q.Country = filter.AllCountries
	}

	var err error
	if q.AgeMin, err = optionalInt(values.Get(paramAgeMin)); err != nil {
		return directoryuc.Query{}, fmt.Errorf("%s: %w", paramAgeMin, err)
	}
	if q.AgeMax, err = optionalInt(values.Get(paramAgeMax)); err != nil {
		return directoryuc.Query{}, fmt.Errorf("%s: %w", paramAgeMax, err)
	}

	for _, raw := range values[paramAvailability] {
		a, err := person.ParseAvailability(raw)
		if err != nil {
			return directoryuc.Query{}, fmt.Errorf("%s: %w", paramAvailability, err)
		}
		q.Availability = append(q.Availability, a)
	}
	return q, nil
}

func optionalInt(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("not an integer: %q", raw)
	}
	return &v, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	var re *domain.RecordError
	if errors.As(err, &re) {
		return re.Error()
	}
	sentinels := []error{
		domain.ErrNotLoaded,
		domain.ErrNotFound,
		domain.ErrValidation,
		domain.ErrInvalidRecord,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// validationHandler handles ErrValidation, naming the failed field.
func validationHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrValidation) {
		return false
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Code:    ErrorCodeValidationFailed,
			Message: ve.Error(),
			Field:   ve.Field,
		})
		return true
	}
	writeError(w, http.StatusUnprocessableEntity, ErrorCodeValidationFailed, msg)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContextOr(r.Context(), s.logger)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
