package public

import module "github.com/fawdetect/fawdetect/internal/services/web/module"

type service struct {
	reporters []module.HealthReporter
}

func newService(reporters []module.HealthReporter) service {
	return service{reporters: reporters}
}

func (s service) healthy() bool {
	for _, reporter := range s.reporters {
		if reporter != nil && !reporter.Healthy() {
			return false
		}
	}
	return true
}
