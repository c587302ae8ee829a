package templates

import (
	"net/http"
	"strconv"
)

// ErrorPageTitle returns the document title for an error status.
func ErrorPageTitle(statusCode int) string {
	return strconv.Itoa(statusCode) + " " + statusText(statusCode)
}

func statusText(statusCode int) string {
	if text := http.StatusText(statusCode); text != "" {
		return text
	}
	return http.StatusText(http.StatusInternalServerError)
}
