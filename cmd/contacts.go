package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var contactsCmd = &cobra.Command{
	Use:   "contacts",
	Short: "Manage the downstream contact store",
}

var contactsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the contact store schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("contacts"); err != nil {
			return err
		}

		st, err := openContacts(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		fmt.Fprintf(cmd.OutOrStdout(), "contacts store migrated (%s)\n", cfg.Contacts.Driver)
		return nil
	},
}

var enrichPhonesUserID string

var contactsEnrichPhonesCmd = &cobra.Command{
	Use:   "enrich-phones <contact-id>...",
	Short: "Enrich stored contacts that have no phone number",
	Long: "Marks each contact fetching, enriches it through Apollo and writes back the phone, " +
		"LinkedIn URL, title, company and Apollo person id. Phones Apollo reveals later by " +
		"webhook are applied by the serve process; the person id tag lets it find the contact.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("enrich"); err != nil {
			return err
		}
		if err := cfg.Validate("contacts"); err != nil {
			return err
		}
		if enrichPhonesUserID == "" {
			return eris.New("contacts: --user-id is required")
		}

		st, err := openContacts(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		sum := newEngine(cfg).Orchestrator.EnrichContactPhones(cmd.Context(), st, enrichPhonesUserID, args)
		return printJSON(cmd.OutOrStdout(), sum)
	},
}

func init() {
	contactsEnrichPhonesCmd.Flags().StringVar(&enrichPhonesUserID, "user-id", "", "owner of the contacts")
	contactsCmd.AddCommand(contactsEnrichPhonesCmd)
	contactsCmd.AddCommand(contactsMigrateCmd)
	rootCmd.AddCommand(contactsCmd)
}
