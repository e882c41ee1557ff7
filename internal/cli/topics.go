package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tOgg1/riskdesk/internal/companies"
	"github.com/tOgg1/riskdesk/internal/models"
	"github.com/tOgg1/riskdesk/internal/selection"
	"github.com/tOgg1/riskdesk/internal/topics"
)

func (a *app) newTopicsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "topics",
		Aliases: []string{"topic"},
		Short:   "Browse and create topics",
		Long: "Browse and create topics. Topics are scoped to the profile given by\n" +
			"--profile-id, --profile, or a --nav bundle; without one every topic is listed.",
	}
	cmd.AddCommand(a.newTopicsListCmd(), a.newTopicsCreateCmd(), a.newTopicsShowCmd())
	return cmd
}

// browser builds a topic browser over the session and loads the topic list.
func (a *app) browser(cmd *cobra.Command) (*topics.Browser, error) {
	s := a.session
	b := topics.NewBrowser(topics.BrowserConfig{
		Store:    s.store,
		Client:   s.client,
		Notifier: s.notifier,
		TopN:     s.cfg.API.TopN,
		Hints:    s.hints,
	})
	if s.hints.ProfileName != "" && s.hints.ProfileID == "" {
		profiles, err := s.client.ListProfiles(cmd.Context())
		if err != nil {
			return nil, err
		}
		b.SetProfiles(profiles)
		if res := b.Profile(); res.Source != selection.SourceNavigationName {
			msg := fmt.Sprintf("Warning: no profile named %q", s.hints.ProfileName)
			if len(res.Suggestions) > 0 {
				msg += "; did you mean: " + strings.Join(res.Suggestions, ", ")
			}
			fmt.Fprintln(cmd.ErrOrStderr(), msg)
		}
	}
	b.Load(cmd.Context())
	return b, nil
}

func (a *app) newTopicsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List topics for the effective profile",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.browser(cmd)
			if err != nil {
				return err
			}
			displayed := b.Displayed()
			if done, err := writeStructured(cmd.OutOrStdout(), a.format(), displayed); done {
				return err
			}
			return writeTopicTable(cmd.OutOrStdout(), displayed)
		},
	}
}

func (a *app) newTopicsCreateCmd() *cobra.Command {
	var companyIDs []string
	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a topic under the effective profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s := a.session

			b, err := a.browser(cmd)
			if err != nil {
				return err
			}
			profile := b.Profile()
			if !profile.Resolved() {
				return errors.New("no profile selected (use --profile-id, --profile, or --nav)")
			}

			tracker := companies.NewTracker(s.client, s.notifier)
			for _, id := range companyIDs {
				if id = strings.TrimSpace(id); id != "" && !tracker.Contains(id) {
					tracker.Click(ctx, id)
				}
			}

			workflow := topics.NewWorkflow(s.store, s.client)
			topic, err := workflow.Submit(ctx, topics.CreateRequest{
				Name:       args[0],
				ProfileID:  profile.ID,
				CompanyIDs: tracker.Selected(),
			})
			if err != nil {
				return err
			}
			s.log.Info().Str("topic_id", topic.ID).Str("profile_id", topic.ProfileID).Int("companies", tracker.Len()).Msg("topic created")

			if done, err := writeStructured(cmd.OutOrStdout(), a.format(), topic); done {
				return err
			}
			if err := writeTopicTable(cmd.OutOrStdout(), []models.Topic{topic}); err != nil {
				return err
			}
			a.printNextSteps(cmd, hintContext{Action: actionTopicCreate, ProfileID: topic.ProfileID, TopicID: topic.ID})
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&companyIDs, "company", "c", nil, "company id to track (repeatable)")
	return cmd
}

// topicView is what `topics show` reports.
type topicView struct {
	Topic     models.Topic `json:"topic" yaml:"topic"`
	ProfileID string       `json:"profile_id" yaml:"profile_id"`
	State     string       `json:"state" yaml:"state"`
	Companies []string     `json:"companies" yaml:"companies"`
}

func (a *app) newTopicsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [ID]",
		Short: "Select a topic and show its companies",
		Long: "Select a topic and show up to six of its company names. Without an ID\n" +
			"the topic comes from --topic-id or the --nav bundle, and the profile\n" +
			"is aligned with the topic's owner.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			b, err := a.browser(cmd)
			if err != nil {
				return err
			}

			var display topics.Display
			if len(args) == 1 {
				display = b.Select(ctx, strings.TrimSpace(args[0]))
			} else {
				var ok bool
				if display, ok = b.Sync(ctx); !ok {
					return errors.New("topic id required (pass an ID, --topic-id, or --nav)")
				}
			}

			st := a.session.store.Snapshot()
			topic, ok := st.Topic(display.TopicID)
			if !ok {
				// Outside the loaded list, e.g. past the top-N cap.
				if topic, err = a.session.client.GetTopic(ctx, display.TopicID); err != nil {
					return err
				}
			}
			view := topicView{
				Topic:     topic,
				ProfileID: st.CurrentProfileID,
				State:     display.State.String(),
				Companies: b.Slots(),
			}
			if done, err := writeStructured(cmd.OutOrStdout(), a.format(), view); done {
				return err
			}
			return writeTopicView(cmd.OutOrStdout(), view)
		},
	}
}

func writeTopicTable(out io.Writer, list []models.Topic) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(out, "No topics found")
		return err
	}
	t := newTable("ID", "NAME", "PROFILE", "SELECTED", "CREATED")
	for _, topic := range list {
		owner := topic.ProfileID
		if topic.ProfileName != "" {
			owner = topic.ProfileName
		}
		t.add(topic.ID, topic.Name, orDash(owner), formatCount(topic.SelectedCount), formatTime(topic.CreatedAt))
	}
	return t.write(out)
}

func writeTopicView(out io.Writer, view topicView) error {
	fmt.Fprintf(out, "Topic:   %s (%s)\n", view.Topic.Name, view.Topic.ID)
	fmt.Fprintf(out, "Profile: %s\n\n", orDash(view.ProfileID))
	switch {
	case view.State == topics.NamesEmpty.String():
		fmt.Fprintln(out, "Company names unavailable")
	case !hasNames(view.Companies):
		fmt.Fprintln(out, "No companies tracked yet")
	}
	t := newTable("#", "COMPANY")
	for i, name := range view.Companies {
		t.add(fmt.Sprintf("%d", i+1), orDash(name))
	}
	return t.write(out)
}

func hasNames(names []string) bool {
	for _, name := range names {
		if name != "" {
			return true
		}
	}
	return false
}
