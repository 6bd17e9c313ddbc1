package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roofleads/backend/internal/domain"
	"github.com/roofleads/backend/internal/usecase"
)

var prospectReq domain.ProspectRequest

var addProspectCmd = &cobra.Command{
	Use:   "add-prospect",
	Short: "Record a property contact against a synced project",
	Long: `Add a prospect (homeowner or resident) to a synced project. New prospects have no call status.

Examples:
  roofleads-admin add-prospect --tenant budroofing --project 123456 \
    --name "Jane Doe" --phone 555-0100 --homeowner`,
	RunE: runAddProspect,
}

func init() {
	f := addProspectCmd.Flags()
	f.StringVarP(&prospectReq.Tenant, "tenant", "t", "", "tenant the project belongs to")
	f.StringVar(&prospectReq.ProjectID, "project", "", "CompanyCam project id")
	f.StringVar(&prospectReq.Name, "name", "", "contact name")
	f.StringVar(&prospectReq.CompanyName, "company", "", "company name, for business owners")
	f.StringVar(&prospectReq.Phone, "phone", "", "phone number")
	f.StringVar(&prospectReq.Email, "email", "", "email address")
	f.BoolVar(&prospectReq.IsHomeowner, "homeowner", false, "contact owns the property")
}

func runAddProspect(cmd *cobra.Command, args []string) error {
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

	p, err := usecase.NewProspectService(store, e.logger).AddProspect(ctx, &prospectReq)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Added prospect %s to project %s\n", p.ID, p.ProjectID)
	return nil
}
