package team

import (
	"net/http"

	module "github.com/fawdetect/fawdetect/internal/services/web/module"
	"github.com/fawdetect/fawdetect/internal/services/web/routepath"
	teamroster "github.com/fawdetect/fawdetect/internal/team"
)

// RosterSource returns the members to display, in display order.
type RosterSource func() []teamroster.TeamMember

// Module provides the Team page and its JSON roster.
type Module struct {
	roster RosterSource
}

// New returns a team module backed by the fixed roster.
func New() Module {
	return NewWithRoster(teamroster.Roster)
}

// NewWithRoster returns a team module with an explicit roster source.
func NewWithRoster(roster RosterSource) Module {
	return Module{roster: roster}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "team" }

// Mount wires team route handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(newService(m.roster)))
	return module.Mount{Prefix: routepath.TeamPrefix, Handler: mux}, nil
}
