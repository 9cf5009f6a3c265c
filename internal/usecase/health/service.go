package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates the dataset cannot be served.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names reported in Report.Checks.
const (
	ComponentDataset = "dataset"
	ComponentStorage = "storage"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	dataset DatasetChecker
	storage StoragePinger
}

// New creates a Service. storage is nil for the file backend.
func New(dataset DatasetChecker, storage StoragePinger) *Service {
	return &Service{dataset: dataset, storage: storage}
}

// Check runs health checks against all components.
// A dataset failure makes the service unhealthy; a storage failure only degrades it.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	status := Healthy

	if s.storage != nil {
		if err := s.storage.Ping(ctx); err != nil {
			checks[ComponentStorage] = CheckError
			status = Degraded
		} else {
			checks[ComponentStorage] = CheckOK
		}
	}

	if err := s.dataset.LoadError(); err != nil {
		checks[ComponentDataset] = CheckError
		status = Unhealthy
	} else {
		checks[ComponentDataset] = CheckOK
	}

	return Report{Status: status, Checks: checks}
}
