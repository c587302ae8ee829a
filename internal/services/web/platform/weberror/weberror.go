// Package weberror renders shared error responses for web modules.
package weberror

import (
	"log"
	"net/http"

	apperrors "github.com/fawdetect/fawdetect/internal/services/web/platform/errors"
	"github.com/fawdetect/fawdetect/internal/services/web/platform/httpx"
	"github.com/fawdetect/fawdetect/internal/services/web/platform/pagerender"
	webtemplates "github.com/fawdetect/fawdetect/internal/services/web/templates"
)

// ShouldRenderErrorPage reports whether status should use the HTML error page.
func ShouldRenderErrorPage(statusCode int) bool {
	return statusCode == http.StatusNotFound || statusCode >= http.StatusInternalServerError
}

// WriteErrorPage writes an HTML error page for statusCode.
func WriteErrorPage(w http.ResponseWriter, r *http.Request, statusCode int) {
	if w == nil {
		return
	}
	if !ShouldRenderErrorPage(statusCode) {
		statusCode = http.StatusInternalServerError
	}
	err := pagerender.WritePage(w, r, pagerender.Page{
		Title:      webtemplates.ErrorPageTitle(statusCode),
		StatusCode: statusCode,
		Fragment:   webtemplates.ErrorState(statusCode),
	})
	if err != nil {
		http.Error(w, http.StatusText(statusCode), statusCode)
	}
}

// WriteModuleError writes err as an HTML error page or plain text,
// depending on its mapped status. Server-side failures are logged.
func WriteModuleError(w http.ResponseWriter, r *http.Request, err error) {
	if w == nil {
		return
	}
	statusCode := apperrors.HTTPStatus(err)
	if statusCode >= http.StatusInternalServerError {
		log.Printf("web error status=%d request_id=%s err=%v", statusCode, httpx.RequestIDFrom(r), err)
	}
	if ShouldRenderErrorPage(statusCode) {
		WriteErrorPage(w, r, statusCode)
		return
	}
	httpx.WriteError(w, err)
}

// NotFound renders the HTML 404 page.
func NotFound(w http.ResponseWriter, r *http.Request) {
	WriteErrorPage(w, r, http.StatusNotFound)
}
