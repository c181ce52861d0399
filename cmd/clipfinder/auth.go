package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dagingo/clip-finder/internal/telemetry"
	"github.com/Dagingo/clip-finder/pkg/oauth"
)

// newAuthCmd creates the auth subcommand.
func newAuthCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Get a Twitch app access token",
		Long: "Request an app access token with the client credentials of your Twitch application\n" +
			"(TWITCH_CLIENT_ID and TWITCH_CLIENT_SECRET) and store it in the config directory.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, flags)
			if err != nil {
				return err
			}

			if e.cfg.ClientID == "" || e.cfg.ClientSecret == "" {
				return fmt.Errorf("missing credentials: set TWITCH_CLIENT_ID and TWITCH_CLIENT_SECRET environment variables")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), e.cfg.RequestTimeout)
			defer cancel()

			fmt.Fprintf(cmd.OutOrStdout(), "Requesting app access token...\n")
			flow := oauth.NewFlow(
				oauth.TwitchConfig(e.cfg.ClientID, e.cfg.ClientSecret, e.cfg.TokenURL),
				oauth.WithHTTPClient(telemetry.HTTPClient()),
			)
			token, err := flow.ClientCredentials(ctx)
			if err != nil {
				return fmt.Errorf("authentication failed: %w", err)
			}

			if err := e.tokens.Save(tokenProvider, token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Successfully authenticated with Twitch!\n")
			fmt.Fprintf(cmd.OutOrStdout(), "Token saved to: %s\n", e.tokens.Path(tokenProvider))
			if !token.Expiry.IsZero() {
				fmt.Fprintf(cmd.OutOrStdout(), "Token expires: %s\n", token.Expiry.Local().Format(time.RFC1123))
			}
			return nil
		},
	}

	return cmd
}
