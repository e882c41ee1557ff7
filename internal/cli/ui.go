package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tOgg1/riskdesk/internal/tui"
)

func (a *app) newUICmd() *cobra.Command {
	return &cobra.Command{
		Use:         "ui",
		Short:       "Launch the riskdesk TUI",
		Long:        "Launch the riskdesk terminal user interface. Logs go to logging.file.",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{tuiAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.isTTY() {
				return errors.New("TUI requires an interactive terminal; use the profiles, topics, or companies commands instead")
			}
			return a.runTUI(a.session)
		},
	}
}

func runTUI(s *session) error {
	return tui.Run(tui.Config{
		Backend:  s.client,
		Store:    s.store,
		Notifier: s.notifier,
		Theme:    s.cfg.TUI.Theme,
		TopN:     s.cfg.API.TopN,
		Hints:    s.hints,
	})
}

func hasTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
