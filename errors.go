package worldmatch

import "github.com/kailas-cloud/worldmatch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound      = domain.ErrNotFound
	ErrValidation    = domain.ErrValidation
	ErrInvalidRecord = domain.ErrInvalidRecord
	ErrNotLoaded     = domain.ErrNotLoaded
)

// ValidationError names the field a new record failed on.
type ValidationError = domain.ValidationError
