package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sell-tools/margin-atlas/pkg/services/config"
)

type AccountsCmd struct {
	profilePath string
}

// NewAccountsCmd builds the `accounts` command: list the configured account
// profiles.
func NewAccountsCmd() *cobra.Command {
	ac := &AccountsCmd{}
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "List configured account profiles",
		RunE:  ac.run,
	}

	cmd.Flags().StringVar(&ac.profilePath, "profiles", defaultProfilePath(), "Path to the account profiles file")

	return cmd
}

func (ac *AccountsCmd) run(cmd *cobra.Command, _ []string) error {
	registry, err := config.NewRegistry(ac.profilePath)
	if err != nil {
		return fmt.Errorf("failed to load account profiles: %w", err)
	}

	accounts, err := registry.GetAccounts(cmd.Context())
	if err != nil {
		return err
	}

	for _, acc := range accounts {
		ads := ""
		if acc.HasAds() {
			ads = " (ads)"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", acc.Name, ads)
	}

	return nil
}
