package detection

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	apperrors "github.com/fawdetect/fawdetect/internal/services/web/platform/errors"
	webstorage "github.com/fawdetect/fawdetect/internal/services/web/storage"
)

// DefaultIdleReset is how long the counters survive without a counted detection.
const DefaultIdleReset = 60 * time.Second

// Store is the persistence the service needs.
type Store interface {
	webstorage.DetectionLog
	webstorage.SummaryStore
}

// MaxRecentDetections caps RecentDetections.
const MaxRecentDetections = 500

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIdleReset overrides DefaultIdleReset. Non-positive values are ignored.
func WithIdleReset(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.idleReset = d
		}
	}
}

// Service tracks the live session counters. It is safe for concurrent use.
type Service struct {
	store     Store
	now       func() time.Time
	idleReset time.Duration

	mu            sync.Mutex
	counts        Counts
	tracked       map[string]struct{}
	lastDetection time.Time
}

// ResetResult is returned when a session is closed.
type ResetResult struct {
	Percentages Percentages
	Summary     webstorage.SessionSummary
}

// NewService returns a service persisting to store.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:     store,
		now:       time.Now,
		idleReset: DefaultIdleReset,
		tracked:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.lastDetection = s.now()
	return s
}

// Healthy reports whether the service has a backing store.
func (s *Service) Healthy() bool {
	return s != nil && s.store != nil
}

// Record counts one detection. See RecordFrame.
func (s *Service) Record(ctx context.Context, d Detection) (Counts, error) {
	return s.RecordFrame(ctx, []Detection{d})
}

// RecordFrame counts the detections of one frame. The frame is rejected
// whole when any detection is invalid. Counters are cleared first when no
// counted detection arrived within the idle window; the window starts when
// the service is created. Objects already seen
// this session are skipped; new objects are logged to storage and, for the
// counted classes, increment their counter.
func (s *Service) RecordFrame(ctx context.Context, frame []Detection) (Counts, error) {
	if err := s.ready(); err != nil {
		return Counts{}, err
	}
	for idx, d := range frame {
		if msg := d.validate(); msg != "" {
			return Counts{}, apperrors.E(apperrors.KindInvalidInput, fmt.Sprintf("detection %d: %s", idx, msg))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastDetection) > s.idleReset {
		if s.counts.Total() > 0 || len(s.tracked) > 0 {
			log.Printf("detection counts reset after idle idle=%s infested=%d not_infested=%d", now.Sub(s.lastDetection).Round(time.Second), s.counts.Infested, s.counts.NotInfested)
		}
		s.clearLocked()
	}

	next := s.counts
	seen := make(map[string]struct{}, len(frame))
	records := make([]webstorage.DetectionRecord, 0, len(frame))
	detected := false
	for _, d := range frame {
		id := d.ObjectID()
		if _, ok := s.tracked[id]; ok {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		class := strings.TrimSpace(d.Class)
		switch class {
		case ClassInfested:
			next.Infested++
			detected = true
		case ClassNotInfested:
			next.NotInfested++
			detected = true
		}
		records = append(records, webstorage.DetectionRecord{
			RecordedAt: now,
			Class:      class,
			Confidence: d.Confidence,
			ObjectID:   id,
		})
	}

	if err := s.store.AppendDetections(ctx, records); err != nil {
		return Counts{}, fmt.Errorf("log detections: %w", err)
	}
	for id := range seen {
		s.tracked[id] = struct{}{}
	}
	s.counts = next
	if detected {
		s.lastDetection = now
	}
	return s.counts, nil
}

// Counts returns the live counters.
func (s *Service) Counts(context.Context) Counts {
	if s == nil {
		return Counts{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts
}

// Percentages returns the class split of the live counters.
func (s *Service) Percentages(ctx context.Context) Percentages {
	return s.Counts(ctx).Percentages()
}

// Reset persists a summary of the live counters and starts a new session.
// Counters are kept when the summary cannot be saved.
func (s *Service) Reset(ctx context.Context) (ResetResult, error) {
	if err := s.ready(); err != nil {
		return ResetResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	summary, err := s.store.PutSessionSummary(ctx, webstorage.SessionSummary{
		RecordedAt:       s.now().UTC(),
		InfestedCount:    s.counts.Infested,
		NotInfestedCount: s.counts.NotInfested,
	})
	if err != nil {
		return ResetResult{}, fmt.Errorf("save session summary: %w", err)
	}
	result := ResetResult{Percentages: s.counts.Percentages(), Summary: summary}
	log.Printf("session summary saved id=%d infested=%d not_infested=%d", summary.ID, summary.InfestedCount, summary.NotInfestedCount)
	s.clearLocked()
	return result, nil
}

// Summaries returns every persisted session summary ordered by id.
func (s *Service) Summaries(ctx context.Context) ([]webstorage.SessionSummary, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	summaries, err := s.store.ListSessionSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list session summaries: %w", err)
	}
	return summaries, nil
}

// RecentDetections returns up to limit logged detections, newest first.
func (s *Service) RecentDetections(ctx context.Context, limit int) ([]webstorage.DetectionRecord, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > MaxRecentDetections {
		return nil, apperrors.E(apperrors.KindInvalidInput, fmt.Sprintf("limit must be between 1 and %d", MaxRecentDetections))
	}
	records, err := s.store.ListDetections(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list detections: %w", err)
	}
	return records, nil
}

// DeleteSummary removes one persisted summary.
func (s *Service) DeleteSummary(ctx context.Context, id int64) error {
	if err := s.ready(); err != nil {
		return err
	}
	if id <= 0 {
		return apperrors.E(apperrors.KindInvalidInput, "summary id must be positive")
	}
	if err := s.store.DeleteSessionSummary(ctx, id); err != nil {
		if errors.Is(err, webstorage.ErrNotFound) {
			return apperrors.Wrap(apperrors.KindNotFound, fmt.Sprintf("summary %d not found", id), err)
		}
		return fmt.Errorf("delete session summary: %w", err)
	}
	return nil
}

func (s *Service) ready() error {
	if !s.Healthy() {
		return apperrors.E(apperrors.KindUnavailable, "detection storage is not configured")
	}
	return nil
}

func (s *Service) clearLocked() {
	s.counts = Counts{}
	clear(s.tracked)
}
