package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/tOgg1/riskdesk/internal/api"
	"github.com/tOgg1/riskdesk/internal/api/apitest"
	"github.com/tOgg1/riskdesk/internal/models"
	"github.com/tOgg1/riskdesk/internal/notify"
	"github.com/tOgg1/riskdesk/internal/selection"
	"github.com/tOgg1/riskdesk/internal/topics"
)

// runAsync fans cmd's batch out into goroutines and delivers each message on
// the returned channel.
func runAsync(cmd tea.Cmd) <-chan tea.Msg {
	out := make(chan tea.Msg, 8)
	var run func(tea.Cmd)
	run = func(c tea.Cmd) {
		if c == nil {
			return
		}
		go func() {
			msg := c()
			if batch, ok := msg.(tea.BatchMsg); ok {
				for _, sub := range batch {
					run(sub)
				}
				return
			}
			out <- msg
		}()
	}
	run(cmd)
	return out
}

func waitFor[T tea.Msg](t *testing.T, msgs <-chan tea.Msg) T {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case msg := <-msgs:
			if typed, ok := msg.(T); ok {
				return typed
			}
		case <-timeout:
			var zero T
			t.Fatalf("timed out waiting for %T", zero)
			return zero
		}
	}
}

func TestTopicsViewFetchesNavigationTopicWhileListLoads(t *testing.T) {
	env := newTestEnv(t)
	release := env.srv.Hold("GET /teams")
	defer release()

	model := env.newModel(t, selection.Hints{TopicID: "t2"})
	view := model.views[ViewTopics].(*topicsView)

	msgs := runAsync(model.Init())
	display := view.browser.Display()
	require.Equal(t, "t2", display.TopicID)
	require.Equal(t, topics.NamesLoading, display.State)
	require.Equal(t, "t2", env.store.Snapshot().CurrentTopicID)

	names := waitFor[namesLoadedMsg](t, msgs)
	model, _ = applyUpdate(t, model, names)
	require.True(t, view.loading)
	display = view.browser.Display()
	require.Equal(t, topics.NamesLoaded, display.State)
	require.Equal(t, []string{"Globex Inc"}, display.Names)
	require.Equal(t, 1, env.srv.CountRequests("GET /teams/t2/pokemon-names"))
	require.Empty(t, env.store.Snapshot().CurrentProfileID)

	release()
	loaded := waitFor[topicsLoadedMsg](t, msgs)
	_, _ = applyUpdate(t, model, loaded)
	require.False(t, view.loading)
	require.Equal(t, "p2", env.store.Snapshot().CurrentProfileID)
	require.Equal(t, 1, env.srv.CountRequests("GET /teams/t2/pokemon-names"))
}

func TestTopicsViewReconcilesWhenReloadFindsNavigationTopic(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.SetCompanyNames("t2", "Globex Inc")
	client, err := api.NewClient(api.Config{BaseURL: srv.BaseURL()})
	require.NoError(t, err)
	n := notify.New(notify.WithLogger(zerolog.Nop()))
	t.Cleanup(n.Close)
	env := &testEnv{srv: srv, client: client, store: selection.NewStore(), notifier: n}

	model := env.newModel(t, selection.Hints{TopicID: "t2"})
	update := func(msg tea.Msg) tea.Cmd {
		var cmd tea.Cmd
		model, cmd = applyUpdate(t, model, msg)
		return cmd
	}
	drain(t, update, model.Init())

	view := model.views[ViewTopics].(*topicsView)
	require.Empty(t, view.browser.Displayed())
	require.Empty(t, env.store.Snapshot().CurrentProfileID)

	srv.AddTopics(
		models.Topic{ID: "t2", Name: "Supply", ProfileID: "p2"},
		models.Topic{ID: "t1", Name: "Q1 Risk", ProfileID: "p1"},
	)
	drain(t, update, update(runeKey('r')))

	require.Equal(t, "p2", env.store.Snapshot().CurrentProfileID)
	displayed := view.browser.Displayed()
	require.Len(t, displayed, 1)
	require.Equal(t, "t2", displayed[0].ID)
	require.Equal(t, 0, view.cursor)
}
