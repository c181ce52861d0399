package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dagingo/clip-finder/internal/clip"
	"github.com/Dagingo/clip-finder/internal/display"
	"github.com/Dagingo/clip-finder/internal/download"
	"github.com/Dagingo/clip-finder/internal/idcache"
	"github.com/Dagingo/clip-finder/internal/preset"
	"github.com/Dagingo/clip-finder/internal/search"
	"github.com/Dagingo/clip-finder/internal/telemetry"
	"github.com/Dagingo/clip-finder/internal/thumbnail"
	"github.com/Dagingo/clip-finder/internal/twitch"
	"github.com/Dagingo/clip-finder/internal/workerpool"
)

// criteriaFlags are the search criteria accepted by search and preset save.
type criteriaFlags struct {
	days       int
	max        int
	categories []string
	channels   []string
	languages  []string
	folder     string
}

func (c *criteriaFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&c.days, "days", "d", preset.DefaultTimeRangeDays, "Search clips created in the last N days")
	cmd.Flags().IntVarP(&c.max, "max", "m", preset.DefaultMaxClips, "Maximum number of clips to show")
	cmd.Flags().StringSliceVarP(&c.categories, "category", "c", nil, "Category (game) name, repeatable or comma separated")
	cmd.Flags().StringSliceVar(&c.channels, "channel", nil, "Channel login name, repeatable or comma separated")
	cmd.Flags().StringSliceVarP(&c.languages, "language", "l", nil, "Clip language code (e.g. en, de), repeatable")
	cmd.Flags().StringVar(&c.folder, "folder", preset.DefaultDownloadFolder, "Download folder, relative to the config directory")
}

// apply overrides p with every flag set on the command line.
func (c *criteriaFlags) apply(cmd *cobra.Command, p preset.Preset) preset.Preset {
	if cmd.Flags().Changed("days") {
		p.TimeRangeDays = c.days
	}
	if cmd.Flags().Changed("max") {
		p.MaxClips = c.max
	}
	if cmd.Flags().Changed("category") {
		p.Categories = c.categories
	}
	if cmd.Flags().Changed("channel") {
		p.Channels = c.channels
	}
	if cmd.Flags().Changed("language") {
		p.Languages = c.languages
	}
	if cmd.Flags().Changed("folder") {
		p.DownloadFolder = c.folder
	}
	return p
}

// platform joins the cached name resolver with the clip source.
type platform struct {
	search.Resolver
	search.ClipSource
}

// newSearchCmd creates the search subcommand.
func newSearchCmd(flags *globalFlags) *cobra.Command {
	var criteria criteriaFlags
	var presetName string
	var asJSON bool
	var thumbnailsDir string
	var metricsFile string
	var downloadResults bool
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search the most viewed clips",
		Long: "Search Twitch clips in a time window, optionally limited to categories, channels and languages.\n" +
			"Without categories and channels the current top categories are searched.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, flags)
			if err != nil {
				return err
			}

			p := preset.Default()
			if presetName != "" {
				if p, err = e.presets.Get(presetName); err != nil {
					return err
				}
			}
			p = criteria.apply(cmd, p)
			filter, err := p.Filter()
			if err != nil {
				return err
			}

			if e.cfg.ClientID == "" {
				return fmt.Errorf("missing credentials: set the TWITCH_CLIENT_ID environment variable")
			}

			ctx := cmd.Context()
			defer e.startTracing(ctx)()
			reg := newRegistry()
			defer e.writeMetrics(metricsFile, reg)

			httpClient := telemetry.HTTPClient()
			credential := e.tokens.Credential(tokenProvider)
			client := twitch.NewClient(e.cfg.ClientID, credential,
				twitch.WithBaseURL(e.cfg.APIURL),
				twitch.WithHTTPClient(httpClient),
				twitch.WithTimeout(e.cfg.RequestTimeout),
				twitch.WithRateLimit(e.cfg.RateLimitRPS, e.cfg.SearchConcurrency),
			)
			store, closeStore := openIDCache(ctx, e)
			defer closeStore()
			resolver := idcache.NewCachedResolver(client, store, idcache.DefaultTTL, e.logger)

			svc := search.NewService(platform{Resolver: resolver, ClipSource: client}, credential,
				search.WithPool(workerpool.New(e.cfg.SearchConcurrency)),
				search.WithLogger(e.logger),
			)
			// Only the search is bounded by --timeout; thumbnails and downloads run on the command context.
			searchCtx, cancel := context.WithTimeout(ctx, timeout)
			report, err := svc.Search(searchCtx, filter)
			cancel()
			if err != nil {
				if errors.Is(err, search.ErrUnauthorized) {
					return fmt.Errorf("not authenticated (run 'clipfinder auth'): %w", err)
				}
				return err
			}

			out := cmd.OutOrStdout()
			formatter := display.NewTerminalFormatter()

			var thumbs thumbnail.Thumbnails
			if thumbnailsDir != "" {
				thumbs = loadThumbnails(ctx, e, httpClient, report.Clips, thumbnailsDir)
			}

			if asJSON {
				if err := display.WriteJSON(out, report.Clips); err != nil {
					return err
				}
				out = cmd.ErrOrStderr()
			} else {
				fmt.Fprint(out, formatter.FormatResults(report.Clips, func(id string) bool {
					_, ok := thumbs.Get(id)
					return ok
				}))
				fmt.Fprintln(out)
			}

			fmt.Fprint(out, formatter.FormatSearchSummary(report.WithData, report.Queries, report.Failed))
			if len(report.Unresolved) > 0 {
				fmt.Fprintf(out, "Not found: %v\n", report.Unresolved)
			}
			if thumbnailsDir != "" {
				fmt.Fprint(out, formatter.FormatThumbnailSummary(thumbs.Loaded(), len(report.Clips)))
			}

			if downloadResults && len(report.Clips) > 0 {
				urls := make([]string, 0, len(report.Clips))
				for _, r := range report.Clips {
					urls = append(urls, r.URL)
				}
				return runDownloads(ctx, cmd, e, p.DownloadDir(e.cfg.ConfigDir), urls)
			}
			return nil
		},
	}

	criteria.register(cmd)
	cmd.Flags().StringVarP(&presetName, "preset", "p", "", "Start from a saved preset; flags override its values")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print results as JSON")
	cmd.Flags().StringVar(&thumbnailsDir, "thumbnails", "", "Save result thumbnails as JPEG files into this directory")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics of this run to a file")
	cmd.Flags().BoolVar(&downloadResults, "download", false, "Download every result into the preset's download folder")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "Time limit for the search; thumbnails and downloads are not bounded by it")

	return cmd
}

// openIDCache returns the Redis cache when configured and reachable, memory otherwise.
// The returned func releases the store.
func openIDCache(ctx context.Context, e *env) (idcache.Store, func()) {
	if e.cfg.RedisURL == "" {
		return idcache.NewMemory(), func() {}
	}
	store, err := idcache.OpenRedis(ctx, e.cfg.RedisURL)
	if err != nil {
		e.logger.Warn("redis not reachable, using in-memory id cache", slog.String("error", err.Error()))
		return idcache.NewMemory(), func() {}
	}
	return store, releaser(store, e.logger)
}

// releaser returns a func closing store when it holds a connection.
func releaser(store idcache.Store, logger *slog.Logger) func() {
	closer, ok := store.(io.Closer)
	if !ok {
		return func() {}
	}
	return func() {
		if err := closer.Close(); err != nil {
			logger.Debug("id cache close", slog.String("error", err.Error()))
		}
	}
}

func loadThumbnails(ctx context.Context, e *env, httpClient *http.Client, records []clip.Record, dir string) thumbnail.Thumbnails {
	enricher := thumbnail.NewEnricher(workerpool.New(e.cfg.ThumbnailConcurrency),
		thumbnail.WithHTTPClient(httpClient),
		thumbnail.WithTimeout(e.cfg.RequestTimeout),
		thumbnail.WithLogger(e.logger),
	)
	thumbs := enricher.Enrich(ctx, records)
	if _, err := thumbnail.Save(dir, thumbs); err != nil {
		e.logger.Warn("failed to save thumbnails", slog.String("dir", dir), slog.String("error", err.Error()))
	}
	return thumbs
}

func runDownloads(ctx context.Context, cmd *cobra.Command, e *env, dir string, urls []string) error {
	downloader := download.NewDownloader(
		download.YTDLP{Binary: e.cfg.YTDLPBinary},
		workerpool.New(e.cfg.DownloadConcurrency),
		e.logger,
	)
	outcomes, err := downloader.DownloadAll(ctx, dir, urls)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, o := range outcomes {
		if o.Err != nil {
			fmt.Fprintf(out, "failed: %s (%v)\n", o.URL, o.Err)
		}
	}
	failed := download.Failed(outcomes)
	fmt.Fprintf(out, "%d of %d clips downloaded to %s\n", len(outcomes)-failed, len(outcomes), dir)
	if failed > 0 {
		return fmt.Errorf("%d downloads failed", failed)
	}
	return nil
}
