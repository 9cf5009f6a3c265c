// Package person persists the directory's record file.
package person

import (
	"context"
	"fmt"

	domperson "github.com/kailas-cloud/worldmatch/internal/domain/person"
	"github.com/kailas-cloud/worldmatch/internal/repository/blob"
)

// Repo implements usecase/directory.RecordRepository on top of a blob.
type Repo struct {
	blob blob.ReadWriter
}

// New creates a record repository.
func New(b blob.ReadWriter) *Repo {
	return &Repo{blob: b}
}

// Location describes the backing store.
func (r *Repo) Location() string { return r.blob.Location() }

// Load reads and validates every record. Returns domain.ErrNotFound if the blob is absent.
func (r *Repo) Load(ctx context.Context) ([]domperson.Person, error) {
	data, err := r.blob.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	people, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.blob.Location(), err)
	}
	return people, nil
}

// Save rewrites the full record set.
func (r *Repo) Save(ctx context.Context, people []domperson.Person) error {
	data, err := Encode(people)
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	if err := r.blob.Write(ctx, data); err != nil {
		return fmt.Errorf("save records: %w", err)
	}
	return nil
}
