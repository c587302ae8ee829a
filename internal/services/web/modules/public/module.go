package public

import (
	"net/http"

	module "github.com/fawdetect/fawdetect/internal/services/web/module"
	"github.com/fawdetect/fawdetect/internal/services/web/routepath"
)

// Module provides the root redirect, health check and fallback 404 page.
type Module struct {
	reporters []module.HealthReporter
}

// New returns a public module. Health turns unavailable when any reporter
// is unhealthy.
func New(reporters ...module.HealthReporter) Module {
	return Module{reporters: reporters}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "public" }

// Mount wires public routes under the root prefix.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(newService(m.reporters)))
	return module.Mount{Prefix: routepath.Root, Handler: mux}, nil
}
