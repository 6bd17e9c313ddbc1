package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roofleads/backend/internal/domain"
	"github.com/roofleads/backend/internal/infrastructure/auth"
	"github.com/roofleads/backend/internal/usecase"
)

var (
	userName     string
	userEmail    string
	userPhone    string
	userCompany  string
	userSlug     string
	userPassword string
)

var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Create or replace an approved dashboard account",
	Long: `Create an approved business user who can sign in to the dashboard.

If an account with the same email exists it is approved and its password replaced.
The password may be passed with --password or the ROOFLEADS_ADMIN_PASSWORD variable.

Examples:
  roofleads-admin create-user --name "Bud" --email bud@budroofing.com \
    --company "Bud Roofing" --slug budroofing --password 's3cret-pass'`,
	RunE: runCreateUser,
}

func init() {
	createUserCmd.Flags().StringVar(&userName, "name", "", "contact name")
	createUserCmd.Flags().StringVar(&userEmail, "email", "", "login email")
	createUserCmd.Flags().StringVar(&userPhone, "phone", "", "contact phone")
	createUserCmd.Flags().StringVar(&userCompany, "company", "", "company name")
	createUserCmd.Flags().StringVar(&userSlug, "slug", "", "tenant the account belongs to")
	createUserCmd.Flags().StringVar(&userPassword, "password", "", "login password")
	_ = createUserCmd.MarkFlagRequired("email")
	_ = createUserCmd.MarkFlagRequired("slug")
}

func runCreateUser(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	if _, err := e.tenants.Lookup(userSlug); err != nil {
		return fmt.Errorf("%w (known: %v)", err, e.tenants.Names())
	}

	password := userPassword
	if password == "" {
		password = os.Getenv("ROOFLEADS_ADMIN_PASSWORD")
	}

	ctx := cmd.Context()
	store, closeStore, err := e.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	// Provisioning never issues tokens
	svc := usecase.NewAuthService(store, auth.Passwords{}, nil, e.logger)
	user, err := svc.ProvisionUser(ctx, &domain.BusinessUserRequest{
		Name:        userName,
		Email:       userEmail,
		Phone:       userPhone,
		CompanyName: userCompany,
		Slug:        userSlug,
	}, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s) for tenant %s\n", user.Email, user.ID, user.Slug)
	return nil
}
