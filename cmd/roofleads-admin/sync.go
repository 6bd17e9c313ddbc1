package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roofleads/backend/internal/usecase"
)

var (
	syncTenant   string
	syncAll      bool
	syncMaxPages int
)

var syncCmd = &cobra.Command{
	Use:   "sync-projects",
	Short: "Copy CompanyCam projects and labels into the dashboard store",
	Long: `Page through a tenant's CompanyCam projects and upsert each one with its labels.

Examples:
  roofleads-admin sync-projects --tenant budroofing
  roofleads-admin sync-projects --all --max-pages 5`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVarP(&syncTenant, "tenant", "t", "", "tenant to sync")
	syncCmd.Flags().BoolVar(&syncAll, "all", false, "sync every tenant")
	syncCmd.Flags().IntVar(&syncMaxPages, "max-pages", 0, "stop after this many pages (0 = no limit)")
	syncCmd.MarkFlagsMutuallyExclusive("tenant", "all")
}

func runSync(cmd *cobra.Command, args []string) error {
	if syncTenant == "" && !syncAll {
		return errors.New("either --tenant or --all is required")
	}

	e, err := loadEnv()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, closeStore, err := e.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	client := e.companyCam()
	svc := usecase.NewSyncService(client, client, store, e.tenants, e.cfg.CompanyCam.PageSize, e.logger)

	targets := []string{syncTenant}
	if syncAll {
		targets = e.tenants.Names()
	}

	out := cmd.OutOrStdout()
	var failed []string
	for _, key := range targets {
		report, err := svc.SyncTenant(ctx, key, syncMaxPages)
		if report != nil {
			fmt.Fprintf(out, "%-20s pages=%d synced=%d failed=%d took=%s\n",
				report.Tenant, report.Pages, report.Synced, report.Failed, report.Took)
		}
		if err != nil {
			fmt.Fprintf(out, "%-20s error: %v\n", key, err)
			failed = append(failed, key)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("sync failed for %d tenant(s): %v", len(failed), failed)
	}
	return nil
}
