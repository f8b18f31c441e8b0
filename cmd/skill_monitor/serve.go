package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/skill-monitor/internal/server"
)

var (
	servePort     int
	serveSnapshot string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes the market snapshot, user profiles, gap reports and
recommendations. Mutating user routes require a bearer token when jwt_secret is configured.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on; defaults to the configured port")
	serveCmd.Flags().StringVarP(&serveSnapshot, "snapshot", "s", "", "Path to market_snapshot.json; defaults to the one in output_dir")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	set, err := loadDictionary()
	if err != nil {
		return err
	}
	b, err := openBackends(ctx)
	if err != nil {
		return err
	}

	recommender, err := newRecommender(b, set, cfg.Catalog)
	if err != nil {
		b.Close()
		return err
	}

	serverCfg := server.Config{Port: cfg.Port}
	if servePort != 0 {
		serverCfg.Port = servePort
	}
	if cfg.JWTSecret != "" {
		jwtCfg, err := cfg.JWT()
		if err != nil {
			b.Close()
			return fmt.Errorf("invalid jwt configuration: %w", err)
		}
		serverCfg.JWT = jwtCfg
	}

	deps := server.Deps{
		Snapshots:   b.snapshots(snapshotPath(serveSnapshot)),
		Profiles:    recommender.Profiles,
		Recommender: recommender,
		Canon:       recommender.Canon,
		Metrics:     b.metrics,
		Logger:      logger,
		Close:       b.Close,
	}
	if b.db != nil {
		deps.Ping = b.db.Ping
	}

	srv, err := server.New(serverCfg, deps)
	if err != nil {
		b.Close()
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start(ctx)
}
