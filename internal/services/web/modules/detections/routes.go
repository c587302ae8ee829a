package detections

import (
	"net/http"

	"github.com/fawdetect/fawdetect/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodPost+" "+routepath.Detections, h.handleRecord)
	mux.HandleFunc(http.MethodPost+" "+routepath.DetectionFrames, h.handleRecordFrame)
	mux.HandleFunc(http.MethodGet+" "+routepath.DetectionCounts, h.handleCounts)
	mux.HandleFunc(http.MethodGet+" "+routepath.DetectionPercentages, h.handlePercentages)
	mux.HandleFunc(http.MethodPost+" "+routepath.DetectionReset, h.handleReset)
	mux.HandleFunc(http.MethodGet+" "+routepath.DetectionSummaries, h.handleSummaries)
	mux.HandleFunc(http.MethodDelete+" "+routepath.DetectionSummaryPattern, h.handleDeleteSummary)
	mux.HandleFunc(http.MethodGet+" "+routepath.DetectionLog, h.handleLog)
}
