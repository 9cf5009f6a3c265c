package chi

import (
	"errors"

	"github.com/kailas-cloud/worldmatch/internal/domain"
	"github.com/kailas-cloud/worldmatch/internal/domain/batch"
	"github.com/kailas-cloud/worldmatch/internal/domain/filter"
	"github.com/kailas-cloud/worldmatch/internal/domain/person"
)

// ErrorCode is a stable machine-readable error identifier.
type ErrorCode string

// Error codes returned in ErrorResponse.Code.
const (
	ErrorCodeBadRequest       ErrorCode = "bad_request"
	ErrorCodeValidationFailed ErrorCode = "validation_failed"
	ErrorCodeNotFound         ErrorCode = "not_found"
	ErrorCodeNotLoaded        ErrorCode = "dataset_not_loaded"
	ErrorCodeInvalidRecord    ErrorCode = "invalid_record"
	ErrorCodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

// PersonResponse is one directory card.
type PersonResponse struct {
	Name         string   `json:"name"`
	Country      string   `json:"country"`
	Interests    string   `json:"interests"`
	Languages    string   `json:"languages"`
	Age          int      `json:"age"`
	Availability string   `json:"availability"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
}

// PeopleListResponse is the body of GET /api/v1/people.
type PeopleListResponse struct {
	Items     []PersonResponse `json:"items"`
	Total     int              `json:"total"`
	Matched   int              `json:"matched"`
	NoMatches bool             `json:"no_matches"`
	Message   string           `json:"message,omitempty"`
}

// AgeRangeResponse is an inclusive age span.
type AgeRangeResponse struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// FacetsResponse populates the filter controls.
type FacetsResponse struct {
	Total        int              `json:"total"`
	Countries    []string         `json:"countries"`
	Languages    []string         `json:"languages"`
	Availability []string         `json:"availability"`
	Ages         AgeRangeResponse `json:"ages"`
	AgeDomain    AgeRangeResponse `json:"age_domain"`
	Options      []string         `json:"availability_options"`
}

// CreatePersonRequest is the data-entry form payload.
type CreatePersonRequest struct {
	Name         string `json:"name"`
	Country      string `json:"country"`
	Interests    string `json:"interests"`
	Languages    string `json:"languages"`
	Age          *int   `json:"age"`
	Availability string `json:"availability"`
}

// CreatePersonResponse confirms an append.
type CreatePersonResponse struct {
	Person  PersonResponse `json:"person"`
	Total   int            `json:"total"`
	Message string         `json:"message"`
}

// ReloadResponse reports the dataset size after a reload.
type ReloadResponse struct {
	Total int `json:"total"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks"`
}

func personToResponse(p person.Person) PersonResponse {
	resp := PersonResponse{
		Name:         p.Name(),
		Country:      p.Country(),
		Interests:    p.Interests(),
		Languages:    p.Languages(),
		Age:          p.Age(),
		Availability: p.Availability().String(),
	}
	if loc, ok := p.Location(); ok {
		lat, lon := loc.Lat, loc.Lon
		resp.Latitude, resp.Longitude = &lat, &lon
	}
	return resp
}

func peopleToResponse(people []person.Person) []PersonResponse {
	items := make([]PersonResponse, len(people))
	for i, p := range people {
		items[i] = personToResponse(p)
	}
	return items
}

func facetsToResponse(f filter.Facts, allLabel string) FacetsResponse {
	return FacetsResponse{
		Total:        f.Total(),
		Countries:    f.CountryChoices(allLabel),
		Languages:    nonNil(f.Languages()),
		Availability: availabilityStrings(f.Availability()),
		Ages:         AgeRangeResponse{Min: f.Ages().Min, Max: f.Ages().Max},
		AgeDomain:    AgeRangeResponse{Min: person.MinAge, Max: person.MaxAge},
		Options:      availabilityStrings(person.Availabilities()),
	}
}

func availabilityStrings(values []person.Availability) []string {
	out := make([]string, len(values))
	for i, a := range values {
		out[i] = a.String()
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (req CreatePersonRequest) input() person.Input {
	return person.Input{
		Name:         req.Name,
		Country:      req.Country,
		Interests:    req.Interests,
		Languages:    req.Languages,
		Age:          req.Age,
		Availability: req.Availability,
	}
}

// BatchCreateRequest appends several people at once.
type BatchCreateRequest struct {
	People []CreatePersonRequest `json:"people"`
}

// BatchResultItem is the outcome of one item of a batch append.
type BatchResultItem struct {
	Index  int            `json:"index"`
	Name   string         `json:"name,omitempty"`
	Status string         `json:"status"`
	Error  *ErrorResponse `json:"error,omitempty"`
}

// BatchCreateResponse reports per-item outcomes in request order.
type BatchCreateResponse struct {
	Items     []BatchResultItem `json:"items"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Total     int               `json:"total"`
}

func batchResultToResponse(r batch.Result) BatchResultItem {
	item := BatchResultItem{
		Index:  r.Index(),
		Name:   r.Name(),
		Status: string(r.Status()),
	}
	if r.Err() != nil {
		item.Error = batchError(r.Err())
	}
	return item
}

func batchError(err error) *ErrorResponse {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return &ErrorResponse{Code: ErrorCodeValidationFailed, Message: ve.Error(), Field: ve.Field}
	case errors.Is(err, domain.ErrNotLoaded):
		return &ErrorResponse{Code: ErrorCodeNotLoaded, Message: domain.ErrNotLoaded.Error()}
	default:
		return &ErrorResponse{Code: ErrorCodeInternalError, Message: "internal error"}
	}
}
