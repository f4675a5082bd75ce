package main

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/enrich"
)

var (
	enrichFirstName string
	enrichLastName  string
	enrichOrg       string
	enrichDomain    string
	enrichEmail     string
	enrichUserID    string
	enrichContactID string
	enrichWait      bool
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Enrich a single person through Apollo",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("enrich"); err != nil {
			return err
		}

		params := paramsFromFlags(enrichFirstName, enrichLastName, enrichOrg, enrichDomain, enrichEmail)
		if !params.HasPersonData() && !params.HasCompanyData() {
			return eris.New("enrich: provide a name, email, organization or domain")
		}

		eng := newEngine(cfg)
		res := eng.Orchestrator.EnrichPerson(cmd.Context(), params, enrich.Options{
			UserID:         enrichUserID,
			ContactID:      enrichContactID,
			WaitForWebhook: enrichWait,
		})
		return printJSON(cmd.OutOrStdout(), res)
	},
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(v), "encode output")
}

func init() {
	f := enrichCmd.Flags()
	f.StringVar(&enrichFirstName, "first-name", "", "first name")
	f.StringVar(&enrichLastName, "last-name", "", "last name")
	f.StringVar(&enrichOrg, "org", "", "organization name")
	f.StringVar(&enrichDomain, "domain", "", "organization domain")
	f.StringVar(&enrichEmail, "email", "", "known email address")
	f.StringVar(&enrichUserID, "user-id", "", "user to track the request for")
	f.StringVar(&enrichContactID, "contact-id", "", "contact to update when phones arrive")
	f.BoolVar(&enrichWait, "wait", false, "briefly wait for webhook phone numbers")
	rootCmd.AddCommand(enrichCmd)
}
