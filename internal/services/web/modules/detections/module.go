package detections

import (
	"context"
	"net/http"

	"github.com/fawdetect/fawdetect/internal/services/web/detection"
	module "github.com/fawdetect/fawdetect/internal/services/web/module"
	"github.com/fawdetect/fawdetect/internal/services/web/routepath"
	webstorage "github.com/fawdetect/fawdetect/internal/services/web/storage"
)

// CounterService is the detection behavior the HTTP API exposes.
type CounterService interface {
	RecordFrame(ctx context.Context, frame []detection.Detection) (detection.Counts, error)
	Counts(ctx context.Context) detection.Counts
	Percentages(ctx context.Context) detection.Percentages
	Reset(ctx context.Context) (detection.ResetResult, error)
	Summaries(ctx context.Context) ([]webstorage.SessionSummary, error)
	DeleteSummary(ctx context.Context, id int64) error
	RecentDetections(ctx context.Context, limit int) ([]webstorage.DetectionRecord, error)
}

// Module provides the detection counter JSON API.
type Module struct {
	counter CounterService
}

// New returns a detections module backed by counter.
func New(counter CounterService) Module {
	return Module{counter: counter}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "detections" }

// Healthy reports whether the module has a usable counter service.
func (m Module) Healthy() bool {
	if m.counter == nil {
		return false
	}
	if reporter, ok := m.counter.(module.HealthReporter); ok {
		return reporter.Healthy()
	}
	return true
}

// Mount wires detection API route handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(newService(m.counter)))
	return module.Mount{Prefix: routepath.DetectionsPrefix, Handler: mux}, nil
}
