// Package web parses web command flags and launches the web service.
package web

import (
	"context"
	"flag"
	"fmt"
	"time"

	entrypoint "github.com/fawdetect/fawdetect/internal/platform/cmd"
	"github.com/fawdetect/fawdetect/internal/services/web"
)

// Config holds the web command configuration.
type Config struct {
	HTTPAddr           string        `env:"FAWDETECT_WEB_HTTP_ADDR" envDefault:"localhost:8080"`
	ImagesDir          string        `env:"FAWDETECT_WEB_IMAGES_DIR" envDefault:"public/images"`
	DBPath             string        `env:"FAWDETECT_WEB_DB_PATH" envDefault:"data/detections.db"`
	DetectionIdleReset time.Duration `env:"FAWDETECT_WEB_DETECTION_IDLE_RESET" envDefault:"60s"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.ImagesDir, "images-dir", cfg.ImagesDir, "Directory member images are served from")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite detection store path")
	fs.DurationVar(&cfg.DetectionIdleReset, "detection-idle-reset", cfg.DetectionIdleReset, "Clear live detection counts after this long without a detection")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if cfg.DetectionIdleReset <= 0 {
		return Config{}, fmt.Errorf("detection idle reset must be positive, got %s", cfg.DetectionIdleReset)
	}
	return cfg, nil
}

// Run starts the web server.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceWeb, func(ctx context.Context) error {
		server, err := web.NewServer(web.Config{
			HTTPAddr:           cfg.HTTPAddr,
			ImagesDir:          cfg.ImagesDir,
			DBPath:             cfg.DBPath,
			DetectionIdleReset: cfg.DetectionIdleReset,
		})
		if err != nil {
			return fmt.Errorf("init web server: %w", err)
		}
		defer server.Close()

		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve web: %w", err)
		}
		return nil
	})
}
