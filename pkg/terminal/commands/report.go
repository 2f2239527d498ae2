package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sell-tools/margin-atlas/pkg/gateway"
	"github.com/sell-tools/margin-atlas/pkg/runtime/terminal"
	"github.com/sell-tools/margin-atlas/pkg/services/config"
	"github.com/sell-tools/margin-atlas/pkg/services/report"
	"github.com/sell-tools/margin-atlas/pkg/store/costs"
)

type ReportCmd struct {
	profilePath string
	configPath  string
	dsn         string
	account     string
	days        int
}

// NewReportCmd builds the `report` command: generate a per-SKU profit report
// for one account and print it to stdout.
func NewReportCmd() *cobra.Command {
	rc := &ReportCmd{}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a per-SKU profit report",
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.profilePath, "profiles", defaultProfilePath(), "Path to the account profiles file")
	cmd.Flags().StringVar(&rc.configPath, "config", "margin-atlas.yaml", "Path to the service config file")
	cmd.Flags().StringVar(&rc.dsn, "dsn", os.Getenv("COSTS_DSN"), "Cost database DSN")
	cmd.Flags().StringVar(&rc.account, "account", "", "Account profile name")
	cmd.Flags().IntVar(&rc.days, "days", 7, "Report period in days")

	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func (rc *ReportCmd) run(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	ctx = logger.WithContext(ctx)

	cfg, err := report.LoadConfig(rc.configPath)
	if err != nil {
		return fmt.Errorf("failed to load service config: %w", err)
	}

	registry, err := config.NewRegistry(rc.profilePath)
	if err != nil {
		return fmt.Errorf("failed to load account profiles: %w", err)
	}

	db, err := costs.Open(rc.dsn)
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

	service := report.NewService(registry, costStore, gw, cfg.Endpoints(), cfg.PageLimit)

	result, err := service.BuildReport(ctx, rc.account, rc.days)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}

	return terminal.NewReporter(os.Stdout).Handle(result)
}

func defaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".marginatlas"
	}
	return home + "/.marginatlas"
}
