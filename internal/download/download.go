// Package download saves clips to disk with yt-dlp.
package download

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/Dagingo/clip-finder/internal/metrics"
	"github.com/Dagingo/clip-finder/internal/workerpool"
)

// OutputTemplate names downloaded files after the clip title.
const OutputTemplate = "%(title)s.%(ext)s"

// ErrEmptyURL is returned for a blank clip URL.
var ErrEmptyURL = errors.New("empty clip url")

// Runner downloads one URL into dir.
type Runner interface {
	Run(ctx context.Context, dir, url string) error
}

// YTDLP runs the yt-dlp executable.
type YTDLP struct {
	Binary string
}

// Run invokes yt-dlp -o <dir>/<template> <url>.
func (y YTDLP) Run(ctx context.Context, dir, url string) error {
	binary := y.Binary
	if binary == "" {
		binary = "yt-dlp"
	}
	cmd := exec.CommandContext(ctx, binary, "--no-progress", "-o", filepath.Join(dir, OutputTemplate), url)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", binary, err, lastLine(msg))
		}
		return fmt.Errorf("%s: %w", binary, err)
	}
	return nil
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// Outcome is the result of downloading one URL.
type Outcome struct {
	URL string
	Err error
}

// Downloader fetches batches of clips under a pool.
type Downloader struct {
	runner Runner
	pool   *workerpool.Pool
	logger *slog.Logger
}

// NewDownloader creates a Downloader. A nil pool gets the default download size.
func NewDownloader(runner Runner, pool *workerpool.Pool, logger *slog.Logger) *Downloader {
	if runner == nil {
		runner = YTDLP{}
	}
	if pool == nil {
		pool = workerpool.New(workerpool.DefaultDownloadSize)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Downloader{runner: runner, pool: pool, logger: logger}
}

// DownloadAll downloads every URL into dir, creating it if needed. It returns one
// Outcome per URL in input order; a failed download does not stop the others.
func (d *Downloader) DownloadAll(ctx context.Context, dir string, urls []string) ([]Outcome, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create download directory: %w", err)
	}

	results := workerpool.Map(ctx, d.pool, urls, func(ctx context.Context, url string) (struct{}, error) {
		if strings.TrimSpace(url) == "" {
			return struct{}{}, ErrEmptyURL
		}
		return struct{}{}, d.runner.Run(ctx, dir, url)
	})

	outcomes := make([]Outcome, len(urls))
	for i, r := range results {
		outcomes[i] = Outcome{URL: urls[i], Err: r.Err}
		if r.Err != nil {
			metrics.DownloadsTotal.WithLabelValues("error").Inc()
			d.logger.Warn("download failed", slog.String("url", urls[i]), slog.String("error", r.Err.Error()))
			continue
		}
		metrics.DownloadsTotal.WithLabelValues("ok").Inc()
		d.logger.Info("downloaded", slog.String("url", urls[i]), slog.String("dir", dir))
	}
	return outcomes, nil
}

// Failed counts the failed outcomes.
func Failed(outcomes []Outcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Err != nil {
			n++
		}
	}
	return n
}
