package directory

import (
	"context"

	"github.com/kailas-cloud/worldmatch/internal/domain/person"
)

// RecordRepository persists the full record set.
type RecordRepository interface {
	Load(ctx context.Context) ([]person.Person, error)
	Save(ctx context.Context, people []person.Person) error
	Location() string
}
