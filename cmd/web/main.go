package main

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"os/user"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sell-tools/margin-atlas/pkg/gateway"
	"github.com/sell-tools/margin-atlas/pkg/server"
	"github.com/sell-tools/margin-atlas/pkg/services/config"
	"github.com/sell-tools/margin-atlas/pkg/services/report"
	"github.com/sell-tools/margin-atlas/pkg/store/costs"
)

var (
	profilePath string
	configPath  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Margin Atlas",
		RunE:  runServer,
	}

	usr, _ := user.Current()
	defaultPath := fmt.Sprintf("%s/.marginatlas", usr.HomeDir)

	rootCmd.Flags().StringVarP(&profilePath, "profiles", "p", defaultPath,
		"Path to the account profiles file (default is $HOME/.marginatlas)")
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "margin-atlas.yaml",
		"Path to the service config file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	cfg, err := report.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load service config: %w", err)
	}

	registry, err := config.NewRegistry(profilePath)
	if err != nil {
		return fmt.Errorf("failed to create config registry: %w", err)
	}

	logger.Info().Msgf("Configuration found at `%s` successfully loaded.", profilePath)
	accounts, _ := registry.GetAccounts(ctx)
	for _, acc := range accounts {
		logger.Info().Msgf("Account: `%s`, ads: %t", acc.Name, acc.HasAds())
	}

	db, err := costs.Open(os.Getenv("COSTS_DSN"))
	if err != nil {
		return err
	}
	defer db.Close()

	costStore, err := costs.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create cost store: %w", err)
	}

	gw := gateway.New(http.DefaultClient, cfg.GatewayConfig())
	defer gw.Close()

	reports := report.NewService(registry, costStore, gw, cfg.Endpoints(), cfg.PageLimit)

	host := os.Getenv("SERVER_HOST")
	port := os.Getenv("SERVER_PORT")

	if host == "" || port == "" {
		logger.Error().Msgf("Missing server configuration from .env file")
		os.Exit(1)
	}

	api := server.NewWebAPI(logger, server.Config{
		Addr:            net.JoinHostPort(host, port),
		ShutdownTimeout: 10 * time.Second,
		Dependencies: server.Dependencies{
			Reports:  reports,
			Registry: registry,
		},
	})

	return api.Start()
}
