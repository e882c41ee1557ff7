package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/tOgg1/riskdesk/internal/logging"
	"github.com/tOgg1/riskdesk/internal/models"
	"github.com/tOgg1/riskdesk/internal/notify"
	"github.com/tOgg1/riskdesk/internal/selection"
	"github.com/tOgg1/riskdesk/internal/tui/styles"
)

type profilesLoadedMsg struct {
	profiles []models.Profile
	err      error
}

func loadProfilesCmd(ctx context.Context, backend Backend) tea.Cmd {
	return func() tea.Msg {
		profiles, err := backend.ListProfiles(ctx)
		return profilesLoadedMsg{profiles: profiles, err: err}
	}
}

type profilesView struct {
	ctx      context.Context
	backend  Backend
	store    *selection.Store
	notifier *notify.Notifier
	log      zerolog.Logger

	profiles []models.Profile
	cursor   int
	loading  bool
	lastErr  error
}

func newProfilesView(ctx context.Context, backend Backend, store *selection.Store, notifier *notify.Notifier) *profilesView {
	return &profilesView{
		ctx:      ctx,
		backend:  backend,
		store:    store,
		notifier: notifier,
		log:      logging.Component("tui.profiles"),
	}
}

func (v *profilesView) Init() tea.Cmd {
	v.loading = true
	return loadProfilesCmd(v.ctx, v.backend)
}

func (v *profilesView) Update(msg tea.Msg) tea.Cmd {
	switch typed := msg.(type) {
	case profilesLoadedMsg:
		v.loading = false
		v.lastErr = typed.err
		if typed.err != nil {
			v.log.Warn().Err(typed.err).Msg("failed to load profiles")
			v.profiles = nil
			return nil
		}
		v.profiles = typed.profiles
		v.cursor = v.indexOf(v.store.Snapshot().CurrentProfileID)
		return nil
	case tea.KeyMsg:
		return v.handleKey(typed)
	}
	return nil
}

func (v *profilesView) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Up):
		v.cursor = clampCursor(v.cursor-1, len(v.profiles))
	case key.Matches(msg, keys.Down):
		v.cursor = clampCursor(v.cursor+1, len(v.profiles))
	case key.Matches(msg, keys.Reload):
		return v.Init()
	case key.Matches(msg, keys.Enter):
		return v.choose()
	}
	return nil
}

func (v *profilesView) choose() tea.Cmd {
	if len(v.profiles) == 0 {
		return nil
	}
	profile := v.profiles[clampCursor(v.cursor, len(v.profiles))]
	v.store.SetSelectedProfile(profile.ID)
	backend := v.backend
	v.notifier.Fire(v.ctx, "record profile selection", func(ctx context.Context) error {
		return backend.RecordProfileSelection(ctx, profile.ID)
	})
	return pushViewCmd(ViewTopics, selection.Hints{ProfileName: profile.Name, ProfileID: profile.ID})
}

func (v *profilesView) indexOf(id string) int {
	for i, p := range v.profiles {
		if p.ID == id {
			return i
		}
	}
	return 0
}

func (v *profilesView) View(width, height int, theme styles.Theme) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	panel := styles.PanelStyle(theme, true)
	innerW := styles.InnerWidth(width)
	innerH := styles.InnerHeight(height)

	lines := []string{
		theme.Title().Render("Profiles") + theme.Muted().Render(fmt.Sprintf("  (%d)", len(v.profiles))),
		theme.Muted().Render(truncateVis(helpLine(keys.Up, keys.Down, keys.Enter, keys.Reload), innerW)),
		"",
	}

	switch {
	case v.loading:
		lines = append(lines, theme.Muted().Render("loading profiles…"))
	case v.lastErr != nil:
		lines = append(lines, theme.Error().Render(truncateVis("could not load profiles: "+errorText(v.lastErr), innerW)))
	case len(v.profiles) == 0:
		lines = append(lines, theme.Muted().Render("no profiles yet"))
	default:
		current := v.store.Snapshot().CurrentProfileID
		rows := innerH - len(lines)
		start, end := scrollWindow(len(v.profiles), v.cursor, rows)
		for i := start; i < end; i++ {
			p := v.profiles[i]
			marker := "  "
			if p.ID == current {
				marker = "● "
			}
			row := truncateVis(marker+p.Name+"  "+p.ID, innerW)
			if i == v.cursor {
				row = theme.Selected().Render(row)
			}
			lines = append(lines, row)
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left, padLines(lines, innerH)...)
	return panel.Width(width - 2).Height(innerH).Render(content)
}
