package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tOgg1/riskdesk/internal/models"
	"github.com/tOgg1/riskdesk/internal/notify"
	"github.com/tOgg1/riskdesk/internal/selection"
	"github.com/tOgg1/riskdesk/internal/topics"
	"github.com/tOgg1/riskdesk/internal/tui/styles"
)

type topicsLoadedMsg struct {
	topics []models.Topic
}

type namesLoadedMsg struct {
	result topics.NamesResult
}

type topicCreatedMsg struct {
	topic models.Topic
}

type topicsView struct {
	ctx     context.Context
	backend Backend
	store   *selection.Store
	browser *topics.Browser

	hints    selection.Hints
	profiles []models.Profile
	synced   bool
	loading  bool
	cursor   int
}

func newTopicsView(ctx context.Context, backend Backend, store *selection.Store, notifier *notify.Notifier, topN int) *topicsView {
	return &topicsView{
		ctx:     ctx,
		backend: backend,
		store:   store,
		browser: topics.NewBrowser(topics.BrowserConfig{
			Store:    store,
			Client:   backend,
			Notifier: notifier,
			TopN:     topN,
		}),
	}
}

func (v *topicsView) SetHints(hints selection.Hints) {
	v.hints = hints.Normalize()
	v.browser.SetHints(v.hints)
	v.synced = false
}

// Init loads the topic list. The first Init after SetHints also selects the
// navigation topic and fetches its company names by id without waiting for
// the list.
func (v *topicsView) Init() tea.Cmd {
	v.loading = true
	cmds := []tea.Cmd{v.loadTopicsCmd(), loadProfilesCmd(v.ctx, v.backend)}
	if !v.synced {
		v.synced = true
		if ticket, ok := v.browser.SyncTicket(v.ctx); ok {
			cmds = append(cmds, v.fetchNamesCmd(ticket))
		}
	}
	return tea.Batch(cmds...)
}

func (v *topicsView) loadTopicsCmd() tea.Cmd {
	ctx, browser := v.ctx, v.browser
	return func() tea.Msg {
		return topicsLoadedMsg{topics: browser.FetchTopics(ctx)}
	}
}

func (v *topicsView) fetchNamesCmd(ticket topics.Ticket) tea.Cmd {
	ctx, browser := v.ctx, v.browser
	return func() tea.Msg {
		return namesLoadedMsg{result: browser.FetchNames(ctx, ticket)}
	}
}

func (v *topicsView) Update(msg tea.Msg) tea.Cmd {
	switch typed := msg.(type) {
	case topicsLoadedMsg:
		v.loading = false
		v.browser.ApplyTopics(typed.topics)
		current := v.store.Snapshot().CurrentTopicID
		if current != "" && current == v.hints.TopicID {
			v.browser.Reconcile()
		}
		if current != "" {
			v.cursor = v.indexOf(current)
		}
		v.cursor = clampCursor(v.cursor, len(v.browser.Displayed()))
		return nil
	case profilesLoadedMsg:
		if typed.err == nil {
			v.profiles = typed.profiles
			v.browser.SetProfiles(typed.profiles)
		}
		return nil
	case namesLoadedMsg:
		v.browser.ApplyNames(typed.result)
		return nil
	case topicCreatedMsg:
		ticket, ok := v.browser.CreatedTicket(v.ctx, typed.topic)
		if !ok {
			return nil
		}
		v.cursor = v.indexOf(ticket.TopicID)
		return v.fetchNamesCmd(ticket)
	case tea.KeyMsg:
		return v.handleKey(typed)
	}
	return nil
}

func (v *topicsView) handleKey(msg tea.KeyMsg) tea.Cmd {
	displayed := v.browser.Displayed()
	switch {
	case key.Matches(msg, keys.Up):
		v.cursor = clampCursor(v.cursor-1, len(displayed))
	case key.Matches(msg, keys.Down):
		v.cursor = clampCursor(v.cursor+1, len(displayed))
	case key.Matches(msg, keys.Enter):
		if len(displayed) == 0 {
			return nil
		}
		topic := displayed[clampCursor(v.cursor, len(displayed))]
		return v.fetchNamesCmd(v.browser.Begin(v.ctx, topic.ID))
	case key.Matches(msg, keys.New):
		profile := v.browser.Profile()
		return pushViewCmd(ViewEditor, selection.Hints{
			ProfileID:   profile.ID,
			ProfileName: v.profileName(profile.ID),
		})
	case key.Matches(msg, keys.Reload):
		v.loading = true
		return v.loadTopicsCmd()
	case key.Matches(msg, keys.ToggleProfiles):
		v.store.ToggleProfilesPanel()
	case key.Matches(msg, keys.ToggleCompany):
		v.store.ToggleCompaniesPanel()
	case key.Matches(msg, keys.Back):
		return popViewCmd()
	}
	return nil
}

func (v *topicsView) indexOf(topicID string) int {
	for i, t := range v.browser.Displayed() {
		if t.ID == topicID {
			return i
		}
	}
	return v.cursor
}

func (v *topicsView) profileName(id string) string {
	if id == "" {
		return ""
	}
	if p, ok := models.FindProfile(v.profiles, id); ok && p.ID == id {
		return p.Name
	}
	if id == v.hints.ProfileID {
		return v.hints.ProfileName
	}
	return ""
}

func (v *topicsView) View(width, height int, theme styles.Theme) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	panels := v.store.Snapshot().Panels
	widths := styles.ComputeColumnWidths(width, panels.ProfilesOpen, panels.CompaniesOpen)

	columns := make([]string, 0, 3)
	if widths.Profile > 0 {
		columns = append(columns, v.renderProfilePanel(widths.Profile, height, theme))
	}
	columns = append(columns, v.renderTopicsPanel(widths.Topics, height, theme))
	if widths.Companies > 0 {
		columns = append(columns, v.renderCompaniesPanel(widths.Companies, height, theme))
	}

	gap := strings.Repeat(" ", styles.LayoutGap)
	joined := make([]string, 0, len(columns)*2)
	for i, col := range columns {
		if i > 0 {
			joined = append(joined, gap)
		}
		joined = append(joined, col)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, joined...)
}

func (v *topicsView) renderProfilePanel(width, height int, theme styles.Theme) string {
	innerW := styles.InnerWidth(width)
	innerH := styles.InnerHeight(height)
	profile := v.browser.Profile()

	lines := []string{theme.Title().Render("Current profile"), ""}
	if !profile.Resolved() {
		lines = append(lines, theme.Muted().Render("all profiles"))
	} else {
		if name := v.profileName(profile.ID); name != "" {
			lines = append(lines, theme.Accent().Render(truncateVis(name, innerW)))
		}
		lines = append(lines, theme.Muted().Render(truncateVis("id "+profile.ID, innerW)))
		lines = append(lines, theme.Muted().Render(truncateVis("from "+string(profile.Source), innerW)))
	}
	if len(profile.Suggestions) > 0 {
		lines = append(lines, "",
			theme.Warning().Render(truncateVis(fmt.Sprintf("no profile %q", v.hints.ProfileName), innerW)),
			theme.Muted().Render(truncateVis("did you mean: "+strings.Join(profile.Suggestions, ", "), innerW)),
		)
	}

	content := lipgloss.JoinVertical(lipgloss.Left, padLines(lines, innerH)...)
	return styles.PanelStyle(theme, false).Width(width - 2).Height(innerH).Render(content)
}

func (v *topicsView) renderTopicsPanel(width, height int, theme styles.Theme) string {
	innerW := styles.InnerWidth(width)
	innerH := styles.InnerHeight(height)
	displayed := v.browser.Displayed()
	current := v.store.Snapshot().CurrentTopicID

	lines := []string{
		theme.Title().Render("Topics") + theme.Muted().Render(fmt.Sprintf("  (%d)", len(displayed))),
		theme.Muted().Render(truncateVis(helpLine(keys.Enter, keys.New, keys.Reload, keys.ToggleProfiles, keys.ToggleCompany), innerW)),
		"",
	}

	switch {
	case v.loading && len(displayed) == 0:
		lines = append(lines, theme.Muted().Render("loading topics…"))
	case len(displayed) == 0:
		lines = append(lines, theme.Muted().Render("no topics for this profile"))
	default:
		rows := innerH - len(lines)
		start, end := scrollWindow(len(displayed), v.cursor, rows)
		for i := start; i < end; i++ {
			t := displayed[i]
			marker := "  "
			if t.ID == current {
				marker = "● "
			}
			row := truncateVis(marker+t.Name, innerW)
			if i == v.cursor {
				row = theme.Selected().Render(row)
			}
			lines = append(lines, row)
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left, padLines(lines, innerH)...)
	return styles.PanelStyle(theme, true).Width(width - 2).Height(innerH).Render(content)
}

func (v *topicsView) renderCompaniesPanel(width, height int, theme styles.Theme) string {
	innerW := styles.InnerWidth(width)
	innerH := styles.InnerHeight(height)
	display := v.browser.Display()

	title := "Companies"
	if topic, ok := v.store.Snapshot().Topic(display.TopicID); ok {
		title += " · " + topic.Name
	}
	lines := []string{theme.Title().Render(truncateVis(title, innerW)), ""}

	switch display.State {
	case topics.NamesUnselected:
		lines = append(lines, theme.Muted().Render("select a topic"))
	case topics.NamesLoading:
		lines = append(lines, theme.Muted().Render("loading companies…"))
	default:
		for i, name := range v.browser.Slots() {
			if name == "" {
				lines = append(lines, theme.Muted().Render(fmt.Sprintf("%d. —", i+1)))
				continue
			}
			lines = append(lines, truncateVis(fmt.Sprintf("%d. %s", i+1, name), innerW))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left, padLines(lines, innerH)...)
	return styles.PanelStyle(theme, false).Width(width - 2).Height(innerH).Render(content)
}
