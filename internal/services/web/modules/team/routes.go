package team

import (
	"net/http"

	"github.com/fawdetect/fawdetect/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Team, h.handleTeam)
	mux.HandleFunc(http.MethodGet+" "+routepath.TeamPrefix+"{$}", h.handleTrailingSlash)
	mux.HandleFunc(http.MethodGet+" "+routepath.TeamMembers, h.handleMembers)
	mux.HandleFunc(http.MethodGet+" "+routepath.TeamPrefix+"{rest...}", h.handleNotFound)
}
