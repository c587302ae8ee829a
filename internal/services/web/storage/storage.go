package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound reports that a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// DetectionRecord is one logged detection.
type DetectionRecord struct {
	ID         int64
	RecordedAt time.Time
	Class      string
	Confidence float64
	ObjectID   string
}

// SessionSummary is a persisted snapshot of detection counts taken at reset.
type SessionSummary struct {
	ID               int64
	RecordedAt       time.Time
	InfestedCount    int
	NotInfestedCount int
}

// DetectionLog appends detections for later analysis.
type DetectionLog interface {
	AppendDetections(ctx context.Context, records []DetectionRecord) error
	ListDetections(ctx context.Context, limit int) ([]DetectionRecord, error)
}

// SummaryStore persists session summaries.
type SummaryStore interface {
	PutSessionSummary(ctx context.Context, summary SessionSummary) (SessionSummary, error)
	ListSessionSummaries(ctx context.Context) ([]SessionSummary, error)
	DeleteSessionSummary(ctx context.Context, id int64) error
}

// Store is the full persistence contract for detection data.
type Store interface {
	DetectionLog
	SummaryStore
	Close() error
}
