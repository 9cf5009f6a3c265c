package batch

// ItemStatus is the processing outcome of a single batch item.
type ItemStatus string

// Batch item status values.
const (
	StatusOK    ItemStatus = "ok"
	StatusError ItemStatus = "error"
)

// Result is the outcome of processing one item in a batch append.
// Index is the item's position in the request.
type Result struct {
	index  int
	name   string
	status ItemStatus
	err    error
}

// NewOK creates a successful batch result.
func NewOK(index int, name string) Result {
	return Result{index: index, name: name, status: StatusOK}
}

// NewError creates a failed batch result.
func NewError(index int, name string, err error) Result {
	return Result{index: index, name: name, status: StatusError, err: err}
}

// Index returns the item's position in the request.
func (r Result) Index() int { return r.index }

// Name returns the submitted name, possibly empty.
func (r Result) Name() string { return r.name }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }

// Count tallies successes and failures.
func Count(results []Result) (succeeded, failed int) {
	for _, r := range results {
		if r.status == StatusOK {
			succeeded++
		} else {
			failed++
		}
	}
	return succeeded, failed
}
