package assets

import (
	"net/http"

	"github.com/fawdetect/fawdetect/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.ImageFilePattern, h.handleImage)
}
