// Package modules defines web module registry helpers.
package modules

import (
	module "github.com/fawdetect/fawdetect/internal/services/web/module"
	"github.com/fawdetect/fawdetect/internal/services/web/modules/detections"
)

// Mount aliases the module mount contract.
type Mount = module.Mount

// Module aliases the module interface contract.
type Module = module.Module

// Dependencies carries what the registry needs to build its modules.
type Dependencies struct {
	// ImagesDir is the directory member images are served from.
	ImagesDir string
	// Counter backs the detection API. A nil counter mounts the API in an
	// unavailable state and fails the health check.
	Counter detections.CounterService
}
