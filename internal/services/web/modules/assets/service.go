package assets

import (
	"errors"
	"io/fs"
	"path"
	"strings"
)

var errImageNotFound = errors.New("image not found")

type service struct {
	images fs.FS
}

func newService(images fs.FS) service {
	return service{images: images}
}

// resolve returns the clean name of a regular file under the images root.
func (s service) resolve(name string) (string, error) {
	if s.images == nil {
		return "", errImageNotFound
	}
	name = strings.TrimPrefix(name, "/")
	if name == "" || !fs.ValidPath(name) || path.Clean(name) != name {
		return "", errImageNotFound
	}
	info, err := fs.Stat(s.images, name)
	if err != nil || !info.Mode().IsRegular() {
		return "", errImageNotFound
	}
	return name, nil
}
