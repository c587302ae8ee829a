// Package httpmux wires the top-level route groups of the web server.
package httpmux

import (
	"io/fs"
	"net/http"

	routepath "github.com/fawdetect/fawdetect/internal/services/web/routepath"
)

// MountStatic wires the shared static route into the root mux.
func MountStatic(rootMux *http.ServeMux, staticFS fs.FS, withStaticMime func(http.Handler) http.Handler) {
	if rootMux == nil || staticFS == nil {
		return
	}
	staticHandler := http.StripPrefix(routepath.StaticPrefix, http.FileServer(http.FS(staticFS)))
	if withStaticMime != nil {
		staticHandler = withStaticMime(staticHandler)
	}
	rootMux.Handle(routepath.StaticPrefix, staticHandler)
}

// MountModules routes everything outside the static prefix to the composed
// module handler.
func MountModules(rootMux *http.ServeMux, modules http.Handler) {
	if rootMux == nil || modules == nil {
		return
	}
	rootMux.Handle(routepath.Root, modules)
}
