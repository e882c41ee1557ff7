package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	actionProfileCreate = "profile_create"
	actionProfileUse    = "profile_use"
	actionTopicCreate   = "topic_create"
)

// hintContext provides context for generating relevant next steps.
type hintContext struct {
	// Action is the command that was executed.
	Action string

	ProfileID   string
	ProfileName string
	TopicID     string
}

// printNextSteps prints contextual next steps after a successful command.
// Does nothing for structured output.
func (a *app) printNextSteps(cmd *cobra.Command, ctx hintContext) {
	if a.format() != formatTable {
		return
	}
	hints := generateHints(ctx)
	if len(hints) == 0 {
		return
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Next steps:")
	for _, hint := range hints {
		fmt.Fprintf(out, "  %s\n", hint)
	}
}

func generateHints(ctx hintContext) []string {
	switch ctx.Action {
	case actionProfileCreate:
		return hintsForProfileCreate(ctx)
	case actionProfileUse:
		return hintsForProfileUse(ctx)
	case actionTopicCreate:
		return hintsForTopicCreate(ctx)
	default:
		return nil
	}
}

func hintsForProfileCreate(ctx hintContext) []string {
	if ctx.ProfileID == "" {
		return nil
	}
	return []string{
		fmt.Sprintf("riskdesk profiles use %s                      # Select it", ctx.ProfileID),
		fmt.Sprintf("riskdesk topics create NAME --profile-id %s   # Add a topic", ctx.ProfileID),
	}
}

func hintsForProfileUse(ctx hintContext) []string {
	if ctx.ProfileID == "" {
		return nil
	}
	return []string{
		fmt.Sprintf("riskdesk topics create NAME --profile-id %s   # Add a topic", ctx.ProfileID),
		"riskdesk topics show ID                           # Show a topic's companies",
	}
}

func hintsForTopicCreate(ctx hintContext) []string {
	hints := make([]string, 0, 2)
	if ctx.TopicID != "" {
		hints = append(hints, fmt.Sprintf("riskdesk topics show %s                       # Show its companies", ctx.TopicID))
	}
	if ctx.ProfileID != "" {
		hints = append(hints, fmt.Sprintf("riskdesk topics list --profile-id %s          # List the profile's topics", ctx.ProfileID))
	}
	return hints
}
