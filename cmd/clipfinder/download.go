package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Dagingo/clip-finder/internal/preset"
	"github.com/Dagingo/clip-finder/pkg/browser"
)

// newDownloadCmd creates the download subcommand.
func newDownloadCmd(flags *globalFlags) *cobra.Command {
	var dir string
	var presetName string
	var metricsFile string

	cmd := &cobra.Command{
		Use:   "download <clip-url>...",
		Short: "Download clips with yt-dlp",
		Long: "Download clips into a folder using yt-dlp. Without --dir the download folder of the\n" +
			"given preset (or the default folder) inside the config directory is used.",
		Args: cobra.MinimumNArgs(1),
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
			if dir != "" {
				p.DownloadFolder = dir
			}

			reg := newRegistry()
			defer e.writeMetrics(metricsFile, reg)

			return runDownloads(cmd.Context(), cmd, e, p.DownloadDir(e.cfg.ConfigDir), args)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Target folder; relative folders live in the config directory")
	cmd.Flags().StringVarP(&presetName, "preset", "p", "", "Use the download folder of this preset")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics of this run to a file")

	return cmd
}

// newOpenCmd creates the open subcommand.
func newOpenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open <clip-url>",
		Short: "Open a clip in the browser",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := browser.NewOpener().OpenClip(args[0]); err != nil {
				return fmt.Errorf("could not open clip: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Opened %s\n", args[0])
			return nil
		},
	}
}
