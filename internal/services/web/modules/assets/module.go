package assets

import (
	"io/fs"
	"net/http"
	"os"
	"strings"

	module "github.com/fawdetect/fawdetect/internal/services/web/module"
	"github.com/fawdetect/fawdetect/internal/services/web/routepath"
)

// Module serves member images from a directory.
type Module struct {
	images fs.FS
}

// New returns an assets module serving files under dir. An empty dir
// mounts a module that answers 404 for every image.
func New(dir string) Module {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return NewWithFS(nil)
	}
	return NewWithFS(os.DirFS(dir))
}

// NewWithFS returns an assets module serving files from images.
func NewWithFS(images fs.FS) Module {
	return Module{images: images}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "assets" }

// Mount wires image route handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(newService(m.images)))
	return module.Mount{Prefix: routepath.ImagesPrefix, Handler: mux}, nil
}
