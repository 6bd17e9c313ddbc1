package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roofleads/backend/internal/domain"
)

var tagsTenant string

var tenantsCmd = &cobra.Command{
	Use:   "tenants",
	Short: "List configured tenants and whether their CompanyCam token is set",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SLUG\tNAME\tDOMAIN\tTOKEN")
		for _, key := range e.tenants.Names() {
			t, _ := e.tenants.Lookup(key)
			token := "set"
			if _, err := e.tenants.Credential(t); err != nil {
				token = "missing (" + t.TokenEnv + ")"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.Slug, t.Name, t.Domain, token)
		}
		return w.Flush()
	},
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List the tags defined on a tenant's CompanyCam account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if tagsTenant == "" {
			return errors.New("--tenant is required")
		}

		e, err := loadEnv()
		if err != nil {
			return err
		}

		t, err := e.tenants.Lookup(tagsTenant)
		if err != nil {
			return err
		}
		token, err := e.tenants.Credential(t)
		if err != nil {
			if errors.Is(err, domain.ErrMissingCredential) {
				return fmt.Errorf("%w: export %s first", err, t.TokenEnv)
			}
			return err
		}

		tags, err := e.companyCam().ListCompanyTags(cmd.Context(), token)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTAG")
		for _, tag := range tags {
			fmt.Fprintf(w, "%s\t%s\n", tag.ID, tag.DisplayValue)
		}
		return w.Flush()
	},
}

func init() {
	tagsCmd.Flags().StringVarP(&tagsTenant, "tenant", "t", "", "tenant whose account to query")
}
