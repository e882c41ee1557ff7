package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tOgg1/riskdesk/internal/companies"
	"github.com/tOgg1/riskdesk/internal/models"
)

func (a *app) newCompaniesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "companies",
		Aliases: []string{"company"},
		Short:   "List companies and record selections",
	}
	cmd.AddCommand(a.newCompaniesListCmd(), a.newCompaniesSelectCmd())
	return cmd
}

func (a *app) newCompaniesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List companies",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := a.session.client.ListCompanies(cmd.Context())
			if err != nil {
				return err
			}
			if done, err := writeStructured(cmd.OutOrStdout(), a.format(), list); done {
				return err
			}
			return writeCompanyTable(cmd, list)
		},
	}
}

func (a *app) newCompaniesSelectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select ID...",
		Short: "Toggle companies into a working set and record each selection",
		Long: "Toggle companies into a working set the way the topic editor does.\n" +
			"Giving an id twice removes it again. Each toggle records a selection\n" +
			"on the server, best effort.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tracker := companies.NewTracker(a.session.client, a.session.notifier)
			for _, id := range args {
				if id = strings.TrimSpace(id); id != "" {
					tracker.Click(cmd.Context(), id)
				}
			}
			selected := tracker.Selected()
			if done, err := writeStructured(cmd.OutOrStdout(), a.format(), selected); done {
				return err
			}
			if len(selected) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "No companies selected")
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Selected: %s\n", strings.Join(selected, ", "))
			return err
		},
	}
}

func writeCompanyTable(cmd *cobra.Command, list []models.Company) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "No companies found")
		return err
	}
	t := newTable("ID", "NAME", "URLS", "DOCUMENTS", "SELECTED")
	for _, c := range list {
		t.add(c.ID, c.Name, fmt.Sprintf("%d", len(c.URLs)), fmt.Sprintf("%d", len(c.Documents)), formatCount(c.SelectedCount))
	}
	return t.write(cmd.OutOrStdout())
}
