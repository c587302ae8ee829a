// Package web owns the browser-facing service: the Team page, the member
// image and stylesheet collaborators it references, and the detection
// counter API.
//
// Features are mounted as modules (see the modules package); this package
// composes them, adds the shared middleware and manages the HTTP lifecycle.
package web
