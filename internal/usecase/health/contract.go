package health

import "context"

// StoragePinger checks availability of a remote record store.
type StoragePinger interface {
	Ping(ctx context.Context) error
}

// DatasetChecker reports whether the in-memory dataset is usable.
type DatasetChecker interface {
	LoadError() error
}
