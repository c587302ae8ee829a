package detections

import (
	"context"
	"fmt"
	"time"

	"github.com/fawdetect/fawdetect/internal/services/web/detection"
	apperrors "github.com/fawdetect/fawdetect/internal/services/web/platform/errors"
	webstorage "github.com/fawdetect/fawdetect/internal/services/web/storage"
)

const defaultLogLimit = 50

type service struct {
	counter CounterService
}

func newService(counter CounterService) service {
	return service{counter: counter}
}

type summaryView struct {
	ID               int64  `json:"id"`
	RecordedAt       string `json:"recorded_at"`
	InfestedCount    int    `json:"infested_count"`
	NotInfestedCount int    `json:"not_infested_count"`
}

type summariesView struct {
	Summaries []summaryView `json:"summaries"`
}

type resetView struct {
	Message string `json:"message"`
	detection.Percentages
	Summary summaryView `json:"summary"`
}

type detectionView struct {
	ID         int64   `json:"id"`
	RecordedAt string  `json:"recorded_at"`
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
	ObjectID   string  `json:"object_id"`
}

type detectionLogView struct {
	Detections []detectionView `json:"detections"`
}

type messageView struct {
	Message string `json:"message"`
}

func (s service) available() error {
	if s.counter == nil {
		return apperrors.E(apperrors.KindUnavailable, "detection service is not configured")
	}
	return nil
}

func (s service) record(ctx context.Context, frame []detection.Detection) (detection.Counts, error) {
	if err := s.available(); err != nil {
		return detection.Counts{}, err
	}
	return s.counter.RecordFrame(ctx, frame)
}

func (s service) counts(ctx context.Context) (detection.Counts, error) {
	if err := s.available(); err != nil {
		return detection.Counts{}, err
	}
	return s.counter.Counts(ctx), nil
}

func (s service) percentages(ctx context.Context) (detection.Percentages, error) {
	if err := s.available(); err != nil {
		return detection.Percentages{}, err
	}
	return s.counter.Percentages(ctx), nil
}

func (s service) reset(ctx context.Context) (resetView, error) {
	if err := s.available(); err != nil {
		return resetView{}, err
	}
	result, err := s.counter.Reset(ctx)
	if err != nil {
		return resetView{}, err
	}
	return resetView{
		Message:     "Counts reset successfully",
		Percentages: result.Percentages,
		Summary:     toSummaryView(result.Summary),
	}, nil
}

func (s service) summaries(ctx context.Context) (summariesView, error) {
	if err := s.available(); err != nil {
		return summariesView{}, err
	}
	summaries, err := s.counter.Summaries(ctx)
	if err != nil {
		return summariesView{}, err
	}
	view := summariesView{Summaries: make([]summaryView, 0, len(summaries))}
	for _, summary := range summaries {
		view.Summaries = append(view.Summaries, toSummaryView(summary))
	}
	return view, nil
}

func (s service) deleteSummary(ctx context.Context, id int64) (messageView, error) {
	if err := s.available(); err != nil {
		return messageView{}, err
	}
	if err := s.counter.DeleteSummary(ctx, id); err != nil {
		return messageView{}, err
	}
	return messageView{Message: fmt.Sprintf("Summary with id %d deleted successfully", id)}, nil
}

func (s service) detectionLog(ctx context.Context, limit int) (detectionLogView, error) {
	if err := s.available(); err != nil {
		return detectionLogView{}, err
	}
	records, err := s.counter.RecentDetections(ctx, limit)
	if err != nil {
		return detectionLogView{}, err
	}
	view := detectionLogView{Detections: make([]detectionView, 0, len(records))}
	for _, record := range records {
		view.Detections = append(view.Detections, detectionView{
			ID:         record.ID,
			RecordedAt: formatTime(record.RecordedAt),
			Class:      record.Class,
			Confidence: record.Confidence,
			ObjectID:   record.ObjectID,
		})
	}
	return view, nil
}

func toSummaryView(summary webstorage.SessionSummary) summaryView {
	return summaryView{
		ID:               summary.ID,
		RecordedAt:       formatTime(summary.RecordedAt),
		InfestedCount:    summary.InfestedCount,
		NotInfestedCount: summary.NotInfestedCount,
	}
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format(time.RFC3339Nano)
}
