package detections

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/fawdetect/fawdetect/internal/services/web/detection"
	apperrors "github.com/fawdetect/fawdetect/internal/services/web/platform/errors"
	"github.com/fawdetect/fawdetect/internal/services/web/platform/httpx"
)

type handlers struct {
	service service
}

func newHandlers(s service) handlers {
	return handlers{service: s}
}

func (h handlers) handleRecord(w http.ResponseWriter, r *http.Request) {
	var payload detection.Detection
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		h.writeError(w, r, err)
		return
	}
	counts, err := h.service.record(r.Context(), []detection.Detection{payload})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, counts)
}

func (h handlers) handleRecordFrame(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Detections []detection.Detection `json:"detections"`
	}
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		h.writeError(w, r, err)
		return
	}
	counts, err := h.service.record(r.Context(), payload.Detections)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, counts)
}

func (h handlers) handleCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.service.counts(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, counts)
}

func (h handlers) handlePercentages(w http.ResponseWriter, r *http.Request) {
	percentages, err := h.service.percentages(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, percentages)
}

func (h handlers) handleReset(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.reset(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, view)
}

func (h handlers) handleSummaries(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.summaries(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, view)
}

func (h handlers) handleDeleteSummary(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(strings.TrimSpace(r.PathValue("summaryID")), 10, 64)
	if err != nil {
		h.writeError(w, r, apperrors.E(apperrors.KindInvalidInput, "summary id must be an integer"))
		return
	}
	view, err := h.service.deleteSummary(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, view)
}

func (h handlers) handleLog(w http.ResponseWriter, r *http.Request) {
	limit := defaultLogLimit
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.writeError(w, r, apperrors.E(apperrors.KindInvalidInput, "limit must be an integer"))
			return
		}
		limit = parsed
	}
	view, err := h.service.detectionLog(r.Context(), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, view)
}

func (handlers) writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	if err := httpx.WriteJSON(w, status, payload); err != nil {
		log.Printf("write detections response request_id=%s err=%v", httpx.RequestIDFrom(r), err)
	}
}

func (handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if apperrors.HTTPStatus(err) >= http.StatusInternalServerError {
		log.Printf("detections request failed path=%s request_id=%s err=%v", r.URL.Path, httpx.RequestIDFrom(r), err)
	}
	if writeErr := httpx.WriteJSONError(w, err); writeErr != nil {
		log.Printf("write detections error request_id=%s err=%v", httpx.RequestIDFrom(r), writeErr)
	}
}
