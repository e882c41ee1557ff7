// Package tui is the riskdesk terminal UI.
package tui

import (
	"context"
	"errors"
	"fmt"

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

type ViewID string

const (
	ViewProfiles ViewID = "profiles"
	ViewTopics   ViewID = "topics"
	ViewEditor   ViewID = "editor"
)

// Backend is the slice of the API the TUI uses.
type Backend interface {
	ListProfiles(ctx context.Context) ([]models.Profile, error)
	RecordProfileSelection(ctx context.Context, profileID string) error
	ListCompanies(ctx context.Context) ([]models.Company, error)
	topics.Fetcher
	topics.Creator
	companies.Recorder
}

// Config wires the TUI to its session.
type Config struct {
	Backend  Backend
	Store    *selection.Store
	Notifier *notify.Notifier
	Theme    string
	TopN     int

	// Hints open the TUI on the topics view when set.
	Hints selection.Hints
}

func (c Config) validate() error {
	if c.Backend == nil {
		return errors.New("tui backend required")
	}
	if c.Store == nil {
		return errors.New("tui selection store required")
	}
	if _, ok := styles.Themes[c.Theme]; c.Theme != "" && !ok {
		return fmt.Errorf("invalid theme %q", c.Theme)
	}
	return nil
}

type Model struct {
	ctx    context.Context
	cancel context.CancelFunc
	store  *selection.Store
	theme  styles.Theme
	log    zerolog.Logger

	width  int
	height int

	// state is the latest selection delivered by the store subscription.
	state selection.State

	viewStack []ViewID
	views     map[ViewID]viewModel
}

type viewModel interface {
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View(width, height int, theme styles.Theme) string
}

// hintsReceiver is implemented by views that take navigation hints on push.
type hintsReceiver interface {
	SetHints(selection.Hints)
}

// keyCapturer is implemented by views that are editing text and must see
// every key.
type keyCapturer interface {
	CapturesKeys() bool
}

type pushViewMsg struct {
	id    ViewID
	hints selection.Hints
}

type popViewMsg struct{}

func pushViewCmd(id ViewID, hints selection.Hints) tea.Cmd {
	return func() tea.Msg {
		return pushViewMsg{id: id, hints: hints}
	}
}

func popViewCmd() tea.Cmd {
	return func() tea.Msg {
		return popViewMsg{}
	}
}

func NewModel(cfg Config) (*Model, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &Model{
		ctx:    ctx,
		cancel: cancel,
		store:  cfg.Store,
		theme:  styles.Lookup(cfg.Theme),
		log:    logging.Component("tui"),
		views:  make(map[ViewID]viewModel),
	}

	m.views[ViewProfiles] = newProfilesView(ctx, cfg.Backend, cfg.Store, cfg.Notifier)
	m.views[ViewTopics] = newTopicsView(ctx, cfg.Backend, cfg.Store, cfg.Notifier, cfg.TopN)
	m.views[ViewEditor] = newEditorView(ctx, cfg.Backend, cfg.Store, cfg.Notifier)

	m.viewStack = []ViewID{ViewProfiles}
	if !cfg.Hints.Empty() {
		m.viewStack = append(m.viewStack, ViewTopics)
		m.views[ViewTopics].(hintsReceiver).SetHints(cfg.Hints)
	}

	m.state = cfg.Store.Snapshot()
	if err := cfg.Store.Subscribe("tui", func(st selection.State) {
		m.state = st
		m.log.Debug().
			Str("profile_id", st.CurrentProfileID).
			Str("topic_id", st.CurrentTopicID).
			Int("topics", len(st.Topics)).
			Msg("selection changed")
	}); err != nil {
		cancel()
		return nil, fmt.Errorf("subscribe to selection: %w", err)
	}
	return m, nil
}

// Run starts the TUI and blocks until it exits.
func Run(cfg Config) error {
	model, err := NewModel(cfg)
	if err != nil {
		return err
	}
	defer model.Close()

	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

// Close cancels in-flight requests and detaches from the store.
func (m *Model) Close() {
	if m == nil {
		return
	}
	m.cancel()
	_ = m.store.Unsubscribe("tui")
}

func (m *Model) Init() tea.Cmd {
	if view := m.activeView(); view != nil {
		return view.Init()
	}
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.height = typed.Height
		return m, nil
	case pushViewMsg:
		if !m.pushView(typed.id) {
			return m, nil
		}
		view := m.activeView()
		if receiver, ok := view.(hintsReceiver); ok {
			receiver.SetHints(typed.hints)
		}
		return m, view.Init()
	case popViewMsg:
		m.popView()
		if view := m.activeView(); view != nil {
			return m, view.Init()
		}
		return m, nil
	case tea.KeyMsg:
		if cmd, handled := m.handleGlobalKey(typed); handled {
			return m, cmd
		}
	}

	if active := m.activeView(); active != nil {
		return m, active.Update(msg)
	}
	return m, nil
}

func (m *Model) View() string {
	active := m.activeView()
	if active == nil {
		return "no active view"
	}
	header := m.renderHeader()
	footer := m.theme.Footer().Render(truncateVis("q quit  esc back  ctrl+c exit", m.width))
	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}
	body := active.View(m.width, contentHeight, m.theme)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m *Model) renderHeader() string {
	title := "riskdesk"
	switch m.activeViewID() {
	case ViewTopics:
		title += " / topics"
	case ViewEditor:
		title += " / topics / new"
	default:
		title += " / profiles"
	}
	if id := m.state.CurrentProfileID; id != "" {
		title += "  profile " + id
	}
	if id := m.state.CurrentTopicID; id != "" {
		title += "  topic " + id
	}
	return m.theme.Header().Render(truncateVis(title, m.width))
}

func (m *Model) handleGlobalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		return tea.Quit, true
	}
	if capturer, ok := m.activeView().(keyCapturer); ok && capturer.CapturesKeys() {
		return nil, false
	}
	if msg.String() == "q" {
		return tea.Quit, true
	}
	return nil, false
}

func (m *Model) activeView() viewModel {
	return m.views[m.activeViewID()]
}

func (m *Model) activeViewID() ViewID {
	if len(m.viewStack) == 0 {
		return ViewProfiles
	}
	return m.viewStack[len(m.viewStack)-1]
}

func (m *Model) pushView(id ViewID) bool {
	if _, ok := m.views[id]; !ok {
		return false
	}
	if m.activeViewID() == id {
		return true
	}
	m.viewStack = append(m.viewStack, id)
	return true
}

func (m *Model) popView() {
	if len(m.viewStack) <= 1 {
		return
	}
	m.viewStack = m.viewStack[:len(m.viewStack)-1]
}
