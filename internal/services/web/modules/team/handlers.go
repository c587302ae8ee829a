package team

import (
	"log"
	"net/http"

	"github.com/fawdetect/fawdetect/internal/services/web/platform/httpx"
	"github.com/fawdetect/fawdetect/internal/services/web/platform/pagerender"
	"github.com/fawdetect/fawdetect/internal/services/web/platform/weberror"
	"github.com/fawdetect/fawdetect/internal/services/web/routepath"
	webtemplates "github.com/fawdetect/fawdetect/internal/services/web/templates"
)

const pageTitle = "Team"

type handlers struct {
	service service
}

func newHandlers(s service) handlers {
	return handlers{service: s}
}

func (h handlers) handleTeam(w http.ResponseWriter, r *http.Request) {
	err := pagerender.WritePage(w, r, pagerender.Page{
		Title:    pageTitle,
		Fragment: webtemplates.TeamPage(h.service.members()),
	})
	if err != nil {
		log.Printf("render team page request_id=%s err=%v", httpx.RequestIDFrom(r), err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h handlers) handleMembers(w http.ResponseWriter, r *http.Request) {
	if err := httpx.WriteJSON(w, http.StatusOK, h.service.rosterView()); err != nil {
		log.Printf("write team members request_id=%s err=%v", httpx.RequestIDFrom(r), err)
	}
}

func (h handlers) handleTrailingSlash(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, routepath.Team, http.StatusMovedPermanently)
}

func (h handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	weberror.NotFound(w, r)
}
