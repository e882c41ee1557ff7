package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/tOgg1/riskdesk/internal/companies"
	"github.com/tOgg1/riskdesk/internal/logging"
	"github.com/tOgg1/riskdesk/internal/models"
	"github.com/tOgg1/riskdesk/internal/notify"
	"github.com/tOgg1/riskdesk/internal/selection"
	"github.com/tOgg1/riskdesk/internal/topics"
	"github.com/tOgg1/riskdesk/internal/tui/styles"
)

type editorFocus int

const (
	focusName editorFocus = iota
	focusProfile
	focusCompanies
	focusCount
)

type companiesLoadedMsg struct {
	companies []models.Company
	err       error
}

type topicSubmittedMsg struct {
	topic models.Topic
	err   error
}

type editorView struct {
	ctx      context.Context
	backend  Backend
	store    *selection.Store
	resolver *selection.Resolver
	workflow *topics.Workflow
	tracker  *companies.Tracker
	log      zerolog.Logger

	hints     selection.Hints
	profiles  []models.Profile
	profileID string
	companies []models.Company

	name       textinput.Model
	focus      editorFocus
	cursor     int
	submitting bool
	err        error
}

func newEditorView(ctx context.Context, backend Backend, store *selection.Store, notifier *notify.Notifier) *editorView {
	return &editorView{
		ctx:      ctx,
		backend:  backend,
		store:    store,
		resolver: selection.NewResolver(store),
		workflow: topics.NewWorkflow(store, backend),
		tracker:  companies.NewTracker(backend, notifier),
		log:      logging.Component("tui.editor"),
		name:     newNameInput(),
	}
}

func newNameInput() textinput.Model {
	input := textinput.New()
	input.Placeholder = "Topic name"
	input.Prompt = "› "
	input.CharLimit = 120
	input.Focus()
	return input
}

func (v *editorView) SetHints(hints selection.Hints) {
	v.hints = hints.Normalize()
}

// CapturesKeys keeps global shortcuts away from the name field.
func (v *editorView) CapturesKeys() bool {
	return v.focus == focusName
}

func (v *editorView) Init() tea.Cmd {
	v.name = newNameInput()
	v.focus = focusName
	v.cursor = 0
	v.submitting = false
	v.err = nil
	v.tracker.Reset()
	v.profileID = v.resolver.Profile(v.hints, v.profiles).ID

	ctx, backend := v.ctx, v.backend
	loadCompanies := func() tea.Msg {
		list, err := backend.ListCompanies(ctx)
		return companiesLoadedMsg{companies: list, err: err}
	}
	return tea.Batch(textinput.Blink, loadCompanies, loadProfilesCmd(ctx, backend))
}

func (v *editorView) Update(msg tea.Msg) tea.Cmd {
	switch typed := msg.(type) {
	case companiesLoadedMsg:
		if typed.err != nil {
			v.log.Warn().Err(typed.err).Msg("failed to load companies")
			v.companies = nil
			return nil
		}
		v.companies = typed.companies
		v.cursor = clampCursor(v.cursor, len(v.companies))
		return nil
	case profilesLoadedMsg:
		if typed.err == nil {
			v.profiles = typed.profiles
			if v.profileID == "" {
				v.profileID = v.resolver.Profile(v.hints, v.profiles).ID
			}
		}
		return nil
	case topicSubmittedMsg:
		v.submitting = false
		if typed.err != nil {
			v.err = typed.err
			return nil
		}
		v.workflow.Merge(typed.topic)
		created := typed.topic
		return tea.Sequence(popViewCmd(), func() tea.Msg { return topicCreatedMsg{topic: created} })
	case tea.KeyMsg:
		return v.handleKey(typed)
	}

	if v.focus == focusName {
		var cmd tea.Cmd
		v.name, cmd = v.name.Update(msg)
		return cmd
	}
	return nil
}

func (v *editorView) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case msg.String() == "esc" && v.err != nil:
		v.err = nil
		return nil
	case msg.String() == "esc":
		return popViewCmd()
	case key.Matches(msg, keys.Submit):
		return v.submit()
	case key.Matches(msg, keys.NextField):
		step := 1
		if msg.String() == "shift+tab" {
			step = int(focusCount) - 1
		}
		v.setFocus((v.focus + editorFocus(step)) % focusCount)
		return nil
	}

	switch v.focus {
	case focusName:
		if key.Matches(msg, keys.Enter) {
			return v.submit()
		}
		var cmd tea.Cmd
		v.name, cmd = v.name.Update(msg)
		return cmd
	case focusProfile:
		switch {
		case key.Matches(msg, keys.PrevProfile):
			v.cycleProfile(-1)
		case key.Matches(msg, keys.NextProfile):
			v.cycleProfile(1)
		case key.Matches(msg, keys.Enter):
			return v.submit()
		}
	case focusCompanies:
		switch {
		case key.Matches(msg, keys.Up):
			v.cursor = clampCursor(v.cursor-1, len(v.companies))
		case key.Matches(msg, keys.Down):
			v.cursor = clampCursor(v.cursor+1, len(v.companies))
		case key.Matches(msg, keys.Toggle), key.Matches(msg, keys.Enter):
			if len(v.companies) > 0 {
				v.tracker.Click(v.ctx, v.companies[clampCursor(v.cursor, len(v.companies))].ID)
			}
		}
	}
	return nil
}

func (v *editorView) setFocus(focus editorFocus) {
	v.focus = focus
	if focus == focusName {
		v.name.Focus()
		return
	}
	v.name.Blur()
}

func (v *editorView) cycleProfile(delta int) {
	if len(v.profiles) == 0 {
		return
	}
	idx := -1
	for i, p := range v.profiles {
		if p.ID == v.profileID {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(v.profiles)) % len(v.profiles)
	v.profileID = v.profiles[idx].ID
}

func (v *editorView) submit() tea.Cmd {
	if v.submitting {
		return nil
	}
	req := topics.CreateRequest{
		Name:       v.name.Value(),
		ProfileID:  v.profileID,
		CompanyIDs: v.tracker.Selected(),
	}
	if err := v.workflow.Validate(req); err != nil {
		v.err = err
		return nil
	}
	v.err = nil
	v.submitting = true

	ctx, workflow := v.ctx, v.workflow
	return func() tea.Msg {
		topic, err := workflow.Create(ctx, req)
		return topicSubmittedMsg{topic: topic, err: err}
	}
}

func (v *editorView) profileLabel() string {
	if v.profileID == "" {
		return "none selected"
	}
	for _, p := range v.profiles {
		if p.ID == v.profileID {
			return p.Name
		}
	}
	if v.profileID == v.hints.ProfileID && v.hints.ProfileName != "" {
		return v.hints.ProfileName
	}
	return v.profileID
}

func (v *editorView) View(width, height int, theme styles.Theme) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	innerW := styles.InnerWidth(width)
	innerH := styles.InnerHeight(height)

	label := func(text string, focus editorFocus) string {
		if v.focus == focus {
			return theme.Selected().Render(text)
		}
		return theme.Title().Render(text)
	}

	lines := []string{
		label("Name your topic", focusName),
		v.name.View(),
		"",
		label("Profile", focusProfile) + theme.Muted().Render("  "+truncateVis(v.profileLabel(), maxInt(0, innerW-9))),
		"",
	}

	if v.err != nil {
		lines = append(lines,
			theme.Error().Render(truncateVis("✕ "+errorText(v.err), innerW)),
			theme.Muted().Render("esc dismiss"),
			"",
		)
	}
	if v.submitting {
		lines = append(lines, theme.Muted().Render("creating topic…"), "")
	}

	lines = append(lines,
		label(fmt.Sprintf("Companies  (%d selected)", v.tracker.Len()), focusCompanies),
		theme.Muted().Render(truncateVis(helpLine(keys.NextField, keys.Toggle, keys.Submit), innerW)),
	)
	if len(v.companies) == 0 {
		lines = append(lines, theme.Muted().Render("no companies"))
	} else {
		rows := innerH - len(lines)
		start, end := scrollWindow(len(v.companies), v.cursor, rows)
		for i := start; i < end; i++ {
			c := v.companies[i]
			box := "[ ] "
			if v.tracker.Contains(c.ID) {
				box = "[x] "
			}
			row := truncateVis(box+c.Name, innerW)
			switch {
			case i == v.cursor && v.focus == focusCompanies:
				row = theme.Selected().Render(row)
			case v.tracker.Contains(c.ID):
				row = theme.Checked().Render(row)
			}
			lines = append(lines, row)
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left, padLines(lines, innerH)...)
	return styles.PanelStyle(theme, true).Width(width - 2).Height(innerH).Render(strings.TrimRight(content, "\n"))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
