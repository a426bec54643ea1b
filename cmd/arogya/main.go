package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arogyavritti/backend/internal/infrastructure/clients/postgres"
	"github.com/arogyavritti/backend/internal/infrastructure/observability"
	"github.com/arogyavritti/backend/pkg/client"
	"github.com/arogyavritti/backend/pkg/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "arogya",
		Short: "Arogya Vritti emergency hospital lookup",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			observability.InitLogger("arogya-cli", "development")
			level := zerolog.WarnLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			zerolog.SetGlobalLevel(level)
		},
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringSlice("backend", nil, "Backend base URLs to probe in order (default from BACKEND_URLS)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(nearbyCmd())
	cmd.AddCommand(locationsCmd())
	cmd.AddCommand(migrateCmd())
	return cmd
}

// newBackendClient builds an initialized client from flags and configuration.
func newBackendClient(cmd *cobra.Command) (*client.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	urls, _ := cmd.Flags().GetStringSlice("backend")
	if len(urls) == 0 {
		urls = cfg.Client.BackendURLs
	}

	c, err := client.New(client.Config{BackendURLs: urls, Timeout: cfg.Client.Timeout})
	if err != nil {
		return nil, err
	}
	base := c.Init(cmd.Context())
	log.Debug().Str("backend", base).Msg("Using backend")
	return c, nil
}

func locationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "locations",
		Short: "List the preset search locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newBackendClient(cmd)
			if err != nil {
				return err
			}

			locations, err := c.Locations(cmd.Context())
			if err != nil {
				return fmt.Errorf("%s", client.UserMessage(err))
			}

			out := cmd.OutOrStdout()
			for _, loc := range locations {
				fmt.Fprintf(out, "%-20s %s\n", loc.Name, loc.Coordinate)
			}
			return nil
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			pgClient, err := postgres.NewClient(cmd.Context(), &cfg.Database)
			if err != nil {
				return err
			}
			defer pgClient.Close()

			count, err := postgres.NewMigrator(pgClient, dir).Up(cmd.Context())
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	return cmd
}
