package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/fawdetect/fawdetect/internal/platform/timeouts"
	"github.com/fawdetect/fawdetect/internal/services/web/app"
	"github.com/fawdetect/fawdetect/internal/services/web/detection"
	"github.com/fawdetect/fawdetect/internal/services/web/modules"
	"github.com/fawdetect/fawdetect/internal/services/web/modules/detections"
	"github.com/fawdetect/fawdetect/internal/services/web/platform/httpx"
	"github.com/fawdetect/fawdetect/internal/services/web/platform/observability"
	"github.com/fawdetect/fawdetect/internal/services/web/static"
	"github.com/fawdetect/fawdetect/internal/services/web/storage/sqlite"
	transporthttp "github.com/fawdetect/fawdetect/internal/services/web/transport/http"
	"github.com/fawdetect/fawdetect/internal/services/web/transport/httpmux"
	"go.opentelemetry.io/otel/trace"
)

// Config defines the inputs for the web server.
type Config struct {
	HTTPAddr string
	// ImagesDir is the directory member images are served from.
	ImagesDir string
	// DBPath locates the SQLite detection store.
	DBPath string
	// DetectionIdleReset clears live counters after this long without a
	// counted detection. Zero uses detection.DefaultIdleReset.
	DetectionIdleReset time.Duration
}

// HandlerDependencies carries what NewHandler wires into the modules.
type HandlerDependencies struct {
	ImagesDir string
	Counter   detections.CounterService
	// TracerProvider defaults to the global provider when nil.
	TracerProvider trace.TracerProvider
	// Logger defaults to log.Default when nil.
	Logger *log.Logger
}

// Server hosts the web HTTP server.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	store      *sqlite.Store
}

// NewHandler builds the root handler: static assets, composed modules and
// the shared middleware chain.
func NewHandler(deps HandlerDependencies) (http.Handler, error) {
	composed, err := app.Compose(app.ComposeInput{
		Modules: modules.DefaultModules(modules.Dependencies{
			ImagesDir: deps.ImagesDir,
			Counter:   deps.Counter,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("compose modules: %w", err)
	}

	root := http.NewServeMux()
	httpmux.MountStatic(root, static.FS, transporthttp.WithStaticMime)
	httpmux.MountModules(root, composed)

	return httpx.Chain(
		root,
		httpx.RequestID(),
		observability.RequestLogger(deps.Logger),
		observability.Tracing(deps.TracerProvider),
		httpx.RecoverPanic(),
	), nil
}

// NewServer opens the detection store and builds a configured web server.
func NewServer(config Config) (*Server, error) {
	httpAddr := strings.TrimSpace(config.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}

	store, err := sqlite.Open(config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open detection store: %w", err)
	}
	counter := detection.NewService(store, detection.WithIdleReset(config.DetectionIdleReset))

	handler, err := NewHandler(HandlerDependencies{
		ImagesDir: config.ImagesDir,
		Counter:   counter,
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("build handler: %w", err)
	}

	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		store: store,
	}, nil
}

// ListenAndServe runs the HTTP server until the context ends.
//
// On cancellation, it performs a bounded shutdown so in-flight requests
// are drained before hard close.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil || s.httpServer == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	log.Printf("web listening on %s", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close releases the detection store.
func (s *Server) Close() {
	if s == nil || s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		log.Printf("close detection store: %v", err)
	}
}

// Handler exposes the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	if s == nil || s.httpServer == nil {
		return http.NotFoundHandler()
	}
	return s.httpServer.Handler
}
