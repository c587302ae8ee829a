package web

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fawdetect/fawdetect/internal/services/web/routepath"
	"github.com/fawdetect/fawdetect/internal/services/web/webtest"
	"github.com/fawdetect/fawdetect/internal/team"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()

	dir := t.TempDir()
	imagesDir := filepath.Join(dir, "images")
	if err := os.MkdirAll(imagesDir, 0o755); err != nil {
		t.Fatalf("mkdir images: %v", err)
	}
	if err := os.WriteFile(filepath.Join(imagesDir, "profile.jpg"), []byte("jpeg"), 0o644); err != nil {
		t.Fatalf("write image: %v", err)
	}
	server, err := NewServer(Config{
		HTTPAddr:  "127.0.0.1:0",
		ImagesDir: imagesDir,
		DBPath:    filepath.Join(dir, "data", "detections.db"),
	})
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	t.Cleanup(server.Close)
	return server, imagesDir
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestNewServerRequiresAddress(t *testing.T) {
	t.Parallel()

	if _, err := NewServer(Config{DBPath: filepath.Join(t.TempDir(), "d.db")}); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewServerRequiresDBPath(t *testing.T) {
	t.Parallel()

	if _, err := NewServer(Config{HTTPAddr: "127.0.0.1:0"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestTeamPageServedThroughFullStack(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	rr := get(t, server.Handler(), routepath.Team)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatal("missing request id header")
	}

	dom, err := webtest.ParseTeamPage(rr.Body)
	if err != nil {
		t.Fatalf("parse page: %v", err)
	}
	if len(dom.Headings) != 1 || dom.Headings[0] != "MEET THE TEAM" {
		t.Fatalf("headings = %v", dom.Headings)
	}
	want := []string{"Jansen Relator", "Claire Belle Candia", "Anthony Nemenzo", "Joren Varquez"}
	if len(dom.Cards) != len(want) {
		t.Fatalf("cards = %d, want %d", len(dom.Cards), len(want))
	}
	for idx, name := range want {
		card := dom.Cards[idx]
		if card.Name != name || card.ImageAlt != name {
			t.Fatalf("card[%d] = %+v, want name %q", idx, card, name)
		}
	}
	if dom.Cards[0].ImageSrc != "images/jansen.png" {
		t.Fatalf("card[0] image = %q", dom.Cards[0].ImageSrc)
	}
	if dom.Cards[1].Role != "Frontend Developer" || dom.Cards[1].Description != "Focuses on creating user-friendly interfaces and experiences." {
		t.Fatalf("card[1] = %+v", dom.Cards[1])
	}
}

func TestRosterMutationDoesNotLeakIntoPage(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	members := team.Roster()
	members[0].Name = "Someone Else"

	dom, err := webtest.ParseTeamPage(get(t, server.Handler(), routepath.Team).Body)
	if err != nil {
		t.Fatalf("parse page: %v", err)
	}
	if dom.Cards[0].Name != "Jansen Relator" {
		t.Fatalf("card[0] name = %q, want roster unchanged", dom.Cards[0].Name)
	}
}

func TestRootAndSlashlessRoutes(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	h := server.Handler()

	rr := get(t, h, routepath.Root)
	if rr.Code != http.StatusFound || rr.Header().Get("Location") != routepath.Team {
		t.Fatalf("root = %d %q, want redirect to %s", rr.Code, rr.Header().Get("Location"), routepath.Team)
	}

	rr = get(t, h, routepath.Health)
	if rr.Code != http.StatusOK || rr.Body.String() != "ok" {
		t.Fatalf("health = %d %q", rr.Code, rr.Body.String())
	}

	rr = get(t, h, "/does-not-exist")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("unknown path status = %d, want %d", rr.Code, http.StatusNotFound)
	}
	if !strings.Contains(rr.Body.String(), "404 Not Found") {
		t.Fatalf("unknown path body = %q", rr.Body.String())
	}
}

func TestStaticAndImageCollaborators(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	h := server.Handler()

	rr := get(t, h, routepath.TeamStylesheet)
	if rr.Code != http.StatusOK {
		t.Fatalf("stylesheet status = %d, want %d", rr.Code, http.StatusOK)
	}
	if got := rr.Header().Get("Content-Type"); got != "text/css; charset=utf-8" {
		t.Fatalf("stylesheet content-type = %q", got)
	}
	if !strings.Contains(rr.Body.String(), ".team-member-image") {
		t.Fatal("stylesheet missing card image rule")
	}

	rr = get(t, h, "/images/profile.jpg")
	if rr.Code != http.StatusOK || rr.Body.String() != "jpeg" {
		t.Fatalf("image = %d %q", rr.Code, rr.Body.String())
	}
	if rr := get(t, h, "/images/jansen.png"); rr.Code != http.StatusNotFound {
		t.Fatalf("missing image status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestDetectionAPIThroughFullStack(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	h := server.Handler()

	body := `{"class":"infested corn plant","confidence":0.88,"box":[10,20,30,40]}`
	req := httptest.NewRequest(http.MethodPost, routepath.Detections, strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("record status = %d, body = %s", rr.Code, rr.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, routepath.DetectionReset, nil)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("reset status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var reset map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&reset); err != nil {
		t.Fatalf("decode reset: %v", err)
	}
	if reset["infested_percentage"] != float64(100) {
		t.Fatalf("reset = %v", reset)
	}

	rr = get(t, h, routepath.DetectionSummaries)
	var summaries struct {
		Summaries []struct {
			ID            int64 `json:"id"`
			InfestedCount int   `json:"infested_count"`
		} `json:"summaries"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&summaries); err != nil {
		t.Fatalf("decode summaries: %v", err)
	}
	if len(summaries.Summaries) != 1 || summaries.Summaries[0].InfestedCount != 1 {
		t.Fatalf("summaries = %+v", summaries)
	}
}

func TestNewHandlerLogsAndTracesRequests(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	h, err := NewHandler(HandlerDependencies{
		TracerProvider: provider,
		Logger:         log.New(&logs, "", 0),
	})
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}

	rr := get(t, h, routepath.Team)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if !strings.Contains(logs.String(), "path=/team status=200") {
		t.Fatalf("log = %q", logs.String())
	}
	spans := recorder.Ended()
	if len(spans) != 1 || spans[0].Name() != "GET /team" {
		t.Fatalf("spans = %d, want one GET /team span", len(spans))
	}

	rr = get(t, h, routepath.DetectionCounts)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("counts without counter status = %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
	if rr := get(t, h, routepath.Health); rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("health without counter status = %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- server.ListenAndServe(ctx)
	}()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("ListenAndServe() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("ListenAndServe did not return after cancel")
	}
}

func TestNilServerIsSafe(t *testing.T) {
	t.Parallel()

	var server *Server
	server.Close()
	if err := server.ListenAndServe(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
