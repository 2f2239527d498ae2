package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sell-tools/margin-atlas/pkg/terminal/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "margin-atlas",
		Short: "Per-SKU profit reporting for marketplace sellers",
	}

	rootCmd.AddCommand(commands.NewReportCmd())
	rootCmd.AddCommand(commands.NewAccountsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
