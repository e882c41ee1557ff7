package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tOgg1/riskdesk/internal/api"
	"github.com/tOgg1/riskdesk/internal/models"
	"github.com/tOgg1/riskdesk/internal/selection"
)

func (a *app) newProfilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "profiles",
		Aliases: []string{"profile"},
		Short:   "List, create, and select profiles",
	}
	cmd.AddCommand(a.newProfilesListCmd(), a.newProfilesCreateCmd(), a.newProfilesUseCmd())
	return cmd
}

func (a *app) newProfilesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List profiles",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles, err := a.session.client.ListProfiles(cmd.Context())
			if err != nil {
				return err
			}
			return a.writeProfiles(cmd, profiles)
		},
	}
}

func (a *app) newProfilesCreateCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := a.session.client.CreateProfile(cmd.Context(), api.CreateProfileInput{
				Name:     args[0],
				Password: password,
			})
			if err != nil {
				return err
			}
			a.session.log.Info().Str("profile_id", profile.ID).Msg("profile created")
			if err := a.writeProfiles(cmd, []models.Profile{profile}); err != nil {
				return err
			}
			a.printNextSteps(cmd, hintContext{Action: actionProfileCreate, ProfileID: profile.ID, ProfileName: profile.Name})
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "optional profile password")
	return cmd
}

// profileSelection is what `profiles use` reports.
type profileSelection struct {
	Profile models.Profile `json:"profile" yaml:"profile"`
	Topics  []models.Topic `json:"topics" yaml:"topics"`
}

func (a *app) newProfilesUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use ID|NAME",
		Short: "Select a profile and list its topics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s := a.session

			profiles, err := s.client.ListProfiles(ctx)
			if err != nil {
				return err
			}
			profile, err := findProfile(profiles, args[0])
			if err != nil {
				return err
			}

			s.store.SetSelectedProfile(profile.ID)
			client := s.client
			s.notifier.Fire(ctx, "record profile selection", func(ctx context.Context) error {
				return client.RecordProfileSelection(ctx, profile.ID)
			})

			topics, err := s.client.ListProfileTopics(ctx, profile.ID)
			if err != nil {
				return err
			}
			s.store.SetTopics(topics)

			result := profileSelection{Profile: profile, Topics: s.store.Snapshot().Topics}
			if done, err := writeStructured(cmd.OutOrStdout(), a.format(), result); done {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Profile: %s (%s)\n\n", profile.Name, profile.ID)
			if err := writeTopicTable(out, result.Topics); err != nil {
				return err
			}
			a.printNextSteps(cmd, hintContext{Action: actionProfileUse, ProfileID: profile.ID, ProfileName: profile.Name})
			return nil
		},
	}
}

// findProfile matches an id or an exact name, and names the closest
// profiles when nothing matches.
func findProfile(profiles []models.Profile, idOrName string) (models.Profile, error) {
	if strings.TrimSpace(idOrName) == "" {
		return models.Profile{}, fmt.Errorf("profile name or ID required")
	}
	if p, ok := models.FindProfile(profiles, idOrName); ok {
		return p, nil
	}
	if len(profiles) == 0 {
		return models.Profile{}, fmt.Errorf("profile '%s' not found (no profiles yet)", idOrName)
	}
	if suggestions := selection.SuggestProfiles(profiles, idOrName); len(suggestions) > 0 {
		return models.Profile{}, fmt.Errorf("profile '%s' not found; did you mean: %s", idOrName, strings.Join(suggestions, ", "))
	}
	return models.Profile{}, fmt.Errorf("profile '%s' not found", idOrName)
}

func (a *app) writeProfiles(cmd *cobra.Command, profiles []models.Profile) error {
	if done, err := writeStructured(cmd.OutOrStdout(), a.format(), profiles); done {
		return err
	}
	if len(profiles) == 0 {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "No profiles found")
		return err
	}
	t := newTable("ID", "NAME", "PERSISTENT", "SELECTED", "CREATED")
	for _, p := range profiles {
		t.add(p.ID, p.Name, formatYesNo(p.Persistent), formatCount(p.SelectedCount), formatTime(p.CreatedAt))
	}
	return t.write(cmd.OutOrStdout())
}

func (a *app) format() string {
	format, _ := parseFormat(a.opts.output)
	return format
}
