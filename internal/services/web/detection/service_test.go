package detection

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	apperrors "github.com/fawdetect/fawdetect/internal/services/web/platform/errors"
	webstorage "github.com/fawdetect/fawdetect/internal/services/web/storage"
)

type memoryStore struct {
	mu         sync.Mutex
	detections []webstorage.DetectionRecord
	summaries  []webstorage.SessionSummary
	nextID     int64
	appendErr  error
	putErr     error
}

func (m *memoryStore) AppendDetections(_ context.Context, records []webstorage.DetectionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	m.detections = append(m.detections, records...)
	return nil
}

func (m *memoryStore) ListDetections(_ context.Context, limit int) ([]webstorage.DetectionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]webstorage.DetectionRecord, 0, limit)
	for idx := len(m.detections) - 1; idx >= 0 && len(out) < limit; idx-- {
		out = append(out, m.detections[idx])
	}
	return out, nil
}

func (m *memoryStore) PutSessionSummary(_ context.Context, summary webstorage.SessionSummary) (webstorage.SessionSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return webstorage.SessionSummary{}, m.putErr
	}
	m.nextID++
	summary.ID = m.nextID
	m.summaries = append(m.summaries, summary)
	return summary, nil
}

func (m *memoryStore) ListSessionSummaries(context.Context) ([]webstorage.SessionSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]webstorage.SessionSummary, len(m.summaries))
	copy(out, m.summaries)
	return out, nil
}

func (m *memoryStore) DeleteSessionSummary(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for idx, summary := range m.summaries {
		if summary.ID == id {
			m.summaries = append(m.summaries[:idx], m.summaries[idx+1:]...)
			return nil
		}
	}
	return webstorage.ErrNotFound
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestService(t *testing.T) (*Service, *memoryStore, *fakeClock) {
	t.Helper()

	store := &memoryStore{}
	clock := &fakeClock{now: time.Date(2025, 4, 14, 9, 0, 0, 0, time.UTC)}
	return NewService(store, WithClock(clock.Now)), store, clock
}

func infested(x float64) Detection {
	return Detection{Class: ClassInfested, Confidence: 0.9, Box: []float64{x, 10, 20, 30}}
}

func healthy(x float64) Detection {
	return Detection{Class: ClassNotInfested, Confidence: 0.8, Box: []float64{x, 10, 20, 30}}
}

func other(class string, x float64) Detection {
	return Detection{Class: class, Confidence: 0.6, Box: []float64{x, 10, 20, 30}}
}

func TestRecordCountsEachClass(t *testing.T) {
	t.Parallel()

	svc, store, _ := newTestService(t)
	ctx := context.Background()

	counts, err := svc.RecordFrame(ctx, []Detection{infested(1), infested(2), healthy(3)})
	if err != nil {
		t.Fatalf("RecordFrame() error = %v", err)
	}
	if counts != (Counts{Infested: 2, NotInfested: 1}) {
		t.Fatalf("counts = %+v, want 2/1", counts)
	}
	if len(store.detections) != 3 {
		t.Fatalf("logged detections = %d, want %d", len(store.detections), 3)
	}
}

func TestRecordSkipsRepeatedObjects(t *testing.T) {
	t.Parallel()

	svc, store, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Record(ctx, infested(1)); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	counts, err := svc.RecordFrame(ctx, []Detection{infested(1), infested(1), healthy(1)})
	if err != nil {
		t.Fatalf("RecordFrame() error = %v", err)
	}
	if counts != (Counts{Infested: 1, NotInfested: 1}) {
		t.Fatalf("counts = %+v, want 1/1", counts)
	}
	if len(store.detections) != 2 {
		t.Fatalf("logged detections = %d, want %d", len(store.detections), 2)
	}
}

func TestRecordLogsButDoesNotCountOtherClasses(t *testing.T) {
	t.Parallel()

	svc, store, _ := newTestService(t)
	counts, err := svc.Record(context.Background(), other("armyworm larva", 1))
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if counts.Total() != 0 {
		t.Fatalf("counts = %+v, want zero", counts)
	}
	if len(store.detections) != 1 || store.detections[0].Class != "armyworm larva" {
		t.Fatalf("logged detections = %+v", store.detections)
	}
}

func TestRecordClearsCountsAfterIdleWindow(t *testing.T) {
	t.Parallel()

	svc, _, clock := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Record(ctx, infested(1)); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	clock.Advance(DefaultIdleReset)
	counts, err := svc.Record(ctx, infested(2))
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if counts.Infested != 2 {
		t.Fatalf("counts within window = %+v, want 2 infested", counts)
	}

	clock.Advance(DefaultIdleReset + time.Second)
	counts, err = svc.Record(ctx, infested(1))
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if counts != (Counts{Infested: 1}) {
		t.Fatalf("counts after idle = %+v, want only the new detection", counts)
	}
}

func TestUncountedClassesDoNotExtendIdleWindow(t *testing.T) {
	t.Parallel()

	svc, _, clock := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Record(ctx, infested(1)); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	clock.Advance(40 * time.Second)
	if _, err := svc.Record(ctx, other("leaf", 1)); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	clock.Advance(40 * time.Second)
	counts, err := svc.Record(ctx, healthy(5))
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if counts != (Counts{NotInfested: 1}) {
		t.Fatalf("counts = %+v, want reset before the new detection", counts)
	}
}

func TestWithIdleResetOverridesWindow(t *testing.T) {
	t.Parallel()

	store := &memoryStore{}
	clock := &fakeClock{now: time.Unix(0, 0)}
	svc := NewService(store, WithClock(clock.Now), WithIdleReset(5*time.Second))
	ctx := context.Background()

	if _, err := svc.Record(ctx, infested(1)); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	clock.Advance(6 * time.Second)
	counts, err := svc.Record(ctx, infested(2))
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if counts.Infested != 1 {
		t.Fatalf("counts = %+v, want 1 infested", counts)
	}
}

func TestRecordRejectsInvalidFrameWhole(t *testing.T) {
	t.Parallel()

	svc, store, _ := newTestService(t)
	ctx := context.Background()

	for _, bad := range []Detection{
		{Class: " ", Confidence: 0.5, Box: []float64{1, 2, 3, 4}},
		{Class: ClassInfested, Confidence: 0.5},
		{Class: ClassInfested, Confidence: 0.5, Box: []float64{1, 2}},
		{Class: ClassInfested, Confidence: 0.5, Box: []float64{1, 2, 3, 4, 5, 6}},
		{Class: ClassInfested, Confidence: 1.5},
		{Class: ClassInfested, Confidence: -0.1},
		{Class: ClassInfested, Confidence: math.NaN()},
		{Class: ClassInfested, Confidence: 0.5, Box: []float64{math.Inf(1), 0, 0, 0}},
	} {
		_, err := svc.RecordFrame(ctx, []Detection{infested(1), bad})
		if apperrors.KindOf(err) != apperrors.KindInvalidInput {
			t.Fatalf("RecordFrame(%+v) kind = %v, want invalid input", bad, apperrors.KindOf(err))
		}
	}
	if got := svc.Counts(ctx); got.Total() != 0 {
		t.Fatalf("counts = %+v, want zero", got)
	}
	if len(store.detections) != 0 {
		t.Fatalf("logged detections = %d, want none", len(store.detections))
	}
}

func TestRecordIgnoresClassPaddingWhenDeduplicating(t *testing.T) {
	t.Parallel()

	svc, store, _ := newTestService(t)
	padded := infested(1)
	padded.Class = "  " + ClassInfested + " "

	counts, err := svc.RecordFrame(context.Background(), []Detection{infested(1), padded})
	if err != nil {
		t.Fatalf("RecordFrame() error = %v", err)
	}
	if counts != (Counts{Infested: 1}) {
		t.Fatalf("counts = %+v, want the padded repeat skipped", counts)
	}
	if padded.ObjectID() != infested(1).ObjectID() {
		t.Fatal("object id depends on class padding")
	}
	if len(store.detections) != 1 {
		t.Fatalf("logged detections = %d, want %d", len(store.detections), 1)
	}
}

func TestIdleWindowStartsWithService(t *testing.T) {
	t.Parallel()

	svc, store, clock := newTestService(t)
	ctx := context.Background()

	clock.Advance(time.Second)
	if _, err := svc.Record(ctx, other("leaf", 1)); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	clock.Advance(DefaultIdleReset)
	if _, err := svc.Record(ctx, other("leaf", 1)); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if len(store.detections) != 2 {
		t.Fatalf("logged detections = %d, want the object tracked again after idle", len(store.detections))
	}
}

func TestRecordKeepsCountsWhenLogFails(t *testing.T) {
	t.Parallel()

	svc, store, _ := newTestService(t)
	store.appendErr = errors.New("disk full")

	if _, err := svc.Record(context.Background(), infested(1)); err == nil {
		t.Fatal("expected error")
	}
	store.appendErr = nil
	counts, err := svc.Record(context.Background(), infested(1))
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if counts.Infested != 1 {
		t.Fatalf("counts = %+v, want object counted on retry", counts)
	}
}

func TestPercentages(t *testing.T) {
	t.Parallel()

	if got := (Counts{}).Percentages(); got != (Percentages{}) {
		t.Fatalf("empty percentages = %+v, want zeros", got)
	}
	got := Counts{Infested: 3, NotInfested: 1}.Percentages()
	if got.Infested != 75 || got.NotInfested != 25 {
		t.Fatalf("percentages = %+v, want 75/25", got)
	}
}

func TestResetPersistsSummaryAndClearsCounts(t *testing.T) {
	t.Parallel()

	svc, store, clock := newTestService(t)
	ctx := context.Background()
	if _, err := svc.RecordFrame(ctx, []Detection{infested(1), healthy(2), healthy(3), healthy(4)}); err != nil {
		t.Fatalf("RecordFrame() error = %v", err)
	}

	result, err := svc.Reset(ctx)
	if err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if result.Percentages != (Percentages{Infested: 25, NotInfested: 75}) {
		t.Fatalf("percentages = %+v, want 25/75", result.Percentages)
	}
	if result.Summary.ID != 1 || result.Summary.InfestedCount != 1 || result.Summary.NotInfestedCount != 3 {
		t.Fatalf("summary = %+v", result.Summary)
	}
	if !result.Summary.RecordedAt.Equal(clock.now) {
		t.Fatalf("recorded_at = %v, want %v", result.Summary.RecordedAt, clock.now)
	}
	if len(store.summaries) != 1 {
		t.Fatalf("stored summaries = %d, want %d", len(store.summaries), 1)
	}
	if got := svc.Counts(ctx); got.Total() != 0 {
		t.Fatalf("counts after reset = %+v, want zero", got)
	}

	counts, err := svc.Record(ctx, infested(1))
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if counts.Infested != 1 {
		t.Fatalf("tracked objects not cleared by reset: %+v", counts)
	}
}

func TestResetKeepsCountsWhenSummaryFails(t *testing.T) {
	t.Parallel()

	svc, store, _ := newTestService(t)
	ctx := context.Background()
	if _, err := svc.Record(ctx, infested(1)); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	store.putErr = errors.New("locked")
	if _, err := svc.Reset(ctx); err == nil {
		t.Fatal("expected error")
	}
	if got := svc.Counts(ctx); got.Infested != 1 {
		t.Fatalf("counts = %+v, want preserved", got)
	}
}

func TestDeleteSummary(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()
	result, err := svc.Reset(ctx)
	if err != nil {
		t.Fatalf("Reset() error = %v", err)
	}

	if err := svc.DeleteSummary(ctx, 0); apperrors.KindOf(err) != apperrors.KindInvalidInput {
		t.Fatalf("DeleteSummary(0) kind = %v, want invalid input", apperrors.KindOf(err))
	}
	if err := svc.DeleteSummary(ctx, result.Summary.ID); err != nil {
		t.Fatalf("DeleteSummary() error = %v", err)
	}
	err = svc.DeleteSummary(ctx, result.Summary.ID)
	if apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Fatalf("second DeleteSummary() kind = %v, want not found", apperrors.KindOf(err))
	}
	summaries, err := svc.Summaries(ctx)
	if err != nil {
		t.Fatalf("Summaries() error = %v", err)
	}
	if len(summaries) != 0 {
		t.Fatalf("summaries = %+v, want none", summaries)
	}
}

func TestServiceWithoutStoreIsUnavailable(t *testing.T) {
	t.Parallel()

	svc := NewService(nil)
	if svc.Healthy() {
		t.Fatal("expected unhealthy service")
	}
	if _, err := svc.Record(context.Background(), infested(1)); apperrors.KindOf(err) != apperrors.KindUnavailable {
		t.Fatalf("Record() kind = %v, want unavailable", apperrors.KindOf(err))
	}
	if _, err := svc.Summaries(context.Background()); apperrors.KindOf(err) != apperrors.KindUnavailable {
		t.Fatalf("Summaries() kind = %v, want unavailable", apperrors.KindOf(err))
	}
}

func TestConcurrentRecordsAreAllCounted(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Record(ctx, infested(float64(i))); err != nil {
				t.Errorf("Record() error = %v", err)
			}
		}()
	}
	wg.Wait()
	if got := svc.Counts(ctx); got.Infested != 50 {
		t.Fatalf("counts = %+v, want 50 infested", got)
	}
}

func TestObjectIDIsStableAndClassSensitive(t *testing.T) {
	t.Parallel()

	a := infested(1)
	if a.ObjectID() != infested(1).ObjectID() {
		t.Fatal("object id not stable")
	}
	if a.ObjectID() == healthy(1).ObjectID() {
		t.Fatal("object id ignores class")
	}
	if len(a.ObjectID()) != 32 {
		t.Fatalf("object id = %q, want md5 hex", a.ObjectID())
	}
}

func TestRecentDetections(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()
	if _, err := svc.RecordFrame(ctx, []Detection{infested(1), healthy(2), infested(3)}); err != nil {
		t.Fatalf("RecordFrame() error = %v", err)
	}

	records, err := svc.RecentDetections(ctx, 2)
	if err != nil {
		t.Fatalf("RecentDetections() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want %d", len(records), 2)
	}
	if records[0].ObjectID != infested(3).ObjectID() {
		t.Fatalf("records[0] = %+v, want newest first", records[0])
	}
	for _, limit := range []int{0, MaxRecentDetections + 1} {
		if _, err := svc.RecentDetections(ctx, limit); apperrors.KindOf(err) != apperrors.KindInvalidInput {
			t.Fatalf("RecentDetections(%d) kind = %v, want invalid input", limit, apperrors.KindOf(err))
		}
	}
}
