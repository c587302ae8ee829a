package modules

import (
	module "github.com/fawdetect/fawdetect/internal/services/web/module"
	"github.com/fawdetect/fawdetect/internal/services/web/modules/assets"
	"github.com/fawdetect/fawdetect/internal/services/web/modules/detections"
	"github.com/fawdetect/fawdetect/internal/services/web/modules/public"
	"github.com/fawdetect/fawdetect/internal/services/web/modules/team"
)

// DefaultModules returns the web modules in mount order.
func DefaultModules(deps Dependencies) []Module {
	detectionAPI := detections.New(deps.Counter)
	return []Module{
		public.New(healthReporters(detectionAPI)...),
		team.New(),
		assets.New(deps.ImagesDir),
		detectionAPI,
	}
}

func healthReporters(candidates ...Module) []module.HealthReporter {
	var reporters []module.HealthReporter
	for _, candidate := range candidates {
		if reporter, ok := candidate.(module.HealthReporter); ok {
			reporters = append(reporters, reporter)
		}
	}
	return reporters
}
