package assets

import "net/http"

const cacheControl = "public, max-age=3600"

type handlers struct {
	service service
}

func newHandlers(s service) handlers {
	return handlers{service: s}
}

func (h handlers) handleImage(w http.ResponseWriter, r *http.Request) {
	name, err := h.service.resolve(r.PathValue("file"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", cacheControl)
	http.ServeFileFS(w, r, h.service.images, name)
}
