// Command roofleads-admin provisions dashboard accounts, syncs CompanyCam projects and manages prospects.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var Version = "dev"

var verbose bool

func main() {
	rootCmd := &cobra.Command{
		Use:           "roofleads-admin",
		Short:         "RoofLeads operator tooling",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")

	rootCmd.AddCommand(createUserCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(addProspectCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(tagsCmd)
	rootCmd.AddCommand(tenantsCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
