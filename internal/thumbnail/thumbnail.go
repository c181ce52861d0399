// Package thumbnail loads small preview images for clips.
//
// Preview URLs reported by the platform point at a size-suffixed image
// ("...-preview-480x272.jpg"); the full still is fetched instead and scaled
// down to Width x Height. A clip whose image cannot be loaded simply has no
// thumbnail; enrichment never fails as a whole.
package thumbnail

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/Dagingo/clip-finder/internal/clip"
	"github.com/Dagingo/clip-finder/internal/metrics"
	"github.com/Dagingo/clip-finder/internal/workerpool"
)

// Thumbnail size in pixels.
const (
	Width  = 120
	Height = 68
)

const (
	previewMarker  = "-preview-"
	defaultTimeout = 10 * time.Second
	maxImageBytes  = 8 << 20
)

// StillURL derives the full-size still image URL from a preview URL.
// URLs without the preview marker are returned unchanged.
func StillURL(previewURL string) string {
	head, _, found := strings.Cut(previewURL, previewMarker)
	if !found {
		return previewURL
	}
	return head + ".jpg"
}

// HTTPClient interface for making HTTP requests (allows injection for testing).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Thumbnails maps clip ids to their scaled image. Clips without an entry have none.
type Thumbnails struct {
	images map[string]image.Image
}

// Get returns the thumbnail for a clip id.
func (t Thumbnails) Get(id string) (image.Image, bool) {
	img, ok := t.images[id]
	return img, ok && img != nil
}

// Loaded returns how many thumbnails were loaded.
func (t Thumbnails) Loaded() int {
	return len(t.images)
}

// Option configures the Enricher.
type Option func(*Enricher)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient HTTPClient) Option {
	return func(e *Enricher) {
		e.httpClient = httpClient
	}
}

// WithTimeout overrides the per-image timeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Enricher) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Enricher) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Enricher fetches thumbnails concurrently under a shared pool.
type Enricher struct {
	httpClient HTTPClient
	pool       *workerpool.Pool
	timeout    time.Duration
	logger     *slog.Logger
}

// NewEnricher creates an Enricher. A nil pool gets the default search size.
func NewEnricher(pool *workerpool.Pool, opts ...Option) *Enricher {
	if pool == nil {
		pool = workerpool.New(workerpool.DefaultSearchSize)
	}
	e := &Enricher{
		httpClient: &http.Client{},
		pool:       pool,
		timeout:    defaultTimeout,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enrich loads one thumbnail per record. Failed loads are logged and left out.
func (e *Enricher) Enrich(ctx context.Context, records []clip.Record) Thumbnails {
	out := Thumbnails{images: make(map[string]image.Image, len(records))}
	if len(records) == 0 {
		return out
	}

	results := workerpool.Map(ctx, e.pool, records, func(ctx context.Context, r clip.Record) (image.Image, error) {
		if r.ThumbnailTemplateURL == "" {
			return nil, fmt.Errorf("clip %s has no thumbnail url", r.ID)
		}
		return e.fetch(ctx, StillURL(r.ThumbnailTemplateURL))
	})

	for i, res := range results {
		if res.Err != nil {
			metrics.ThumbnailsTotal.WithLabelValues("error").Inc()
			e.logger.Debug("thumbnail not loaded",
				slog.String("clip", records[i].ID),
				slog.String("error", res.Err.Error()),
			)
			continue
		}
		metrics.ThumbnailsTotal.WithLabelValues("ok").Inc()
		out.images[records[i].ID] = res.Value
	}
	return out
}

func (e *Enricher) fetch(ctx context.Context, rawURL string) (image.Image, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("thumbnail request failed (status %d)", resp.StatusCode)
	}

	src, _, err := image.Decode(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to decode thumbnail: %w", err)
	}
	return Scale(src, Width, Height), nil
}

// Scale resizes src to exactly w x h.
func Scale(src image.Image, w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
