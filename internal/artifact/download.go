package artifact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"

	"repocast/internal/logging"
)

// Result reports a completed download.
type Result struct {
	Path      string
	SizeBytes int64
}

// Downloader fetches artifact audio over HTTP.
type Downloader struct {
	client       *http.Client
	logger       *slog.Logger
	showProgress bool
}

// Option configures a Downloader.
type Option func(*Downloader)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(d *Downloader) {
		if client != nil {
			d.client = client
		}
	}
}

// WithProgress enables a terminal progress bar during downloads.
func WithProgress(enabled bool) Option {
	return func(d *Downloader) {
		d.showProgress = enabled
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Downloader) {
		d.logger = logger
	}
}

// NewDownloader constructs a Downloader. Downloads have no overall timeout;
// cancellation comes from the context.
func NewDownloader(opts ...Option) *Downloader {
	d := &Downloader{
		client: &http.Client{},
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = logging.WithComponent(d.logger, "artifact")
	return d
}

// Download fetches artifactURL into dir using a sanitized stem for the
// filename. The file lands atomically: data streams to a temp file that is
// renamed into place only when complete.
func (d *Downloader) Download(ctx context.Context, artifactURL, dir, stem string) (Result, error) {
	if strings.TrimSpace(artifactURL) == "" {
		return Result{}, errors.New("artifact url required")
	}
	if strings.TrimSpace(dir) == "" {
		return Result{}, errors.New("target directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create target directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, artifactURL, nil)
	if err != nil {
		return Result{}, fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := d.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("fetch artifact: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{}, fmt.Errorf("artifact fetch returned %d", resp.StatusCode)
	}

	targetPath := filepath.Join(dir, SanitizeStem(stem)+artifactExtension(artifactURL))

	tmp, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return Result{}, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	var dst io.Writer = tmp
	if d.showProgress {
		bar := progressbar.DefaultBytes(resp.ContentLength, "downloading")
		dst = io.MultiWriter(tmp, bar)
	}

	written, err := io.Copy(dst, resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("download artifact: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return Result{}, fmt.Errorf("sync download: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return Result{}, fmt.Errorf("close download: %w", err)
	}
	if err := os.Rename(tmpPath, targetPath); err != nil {
		return Result{}, fmt.Errorf("move download into place: %w", err)
	}

	d.logger.Info("artifact downloaded",
		logging.String("path", targetPath),
		logging.String("size", humanize.Bytes(uint64(written))),
		logging.Duration("elapsed", time.Since(requestStart)),
	)
	return Result{Path: targetPath, SizeBytes: written}, nil
}

// artifactExtension picks the filename extension from the artifact URL path,
// defaulting to .mp3.
func artifactExtension(artifactURL string) string {
	parsed, err := url.Parse(artifactURL)
	if err != nil {
		return ".mp3"
	}
	ext := filepath.Ext(parsed.Path)
	if ext == "" || len(ext) > 8 {
		return ".mp3"
	}
	return ext
}
