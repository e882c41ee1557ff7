package topics

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/tOgg1/riskdesk/internal/api/apitest"
	"github.com/tOgg1/riskdesk/internal/models"
	"github.com/tOgg1/riskdesk/internal/notify"
	"github.com/tOgg1/riskdesk/internal/selection"
)

type fakeFetcher struct {
	mu       sync.Mutex
	topics   []models.Topic
	listErr  error
	names    map[string][]string
	namesErr error
	selected []string
}

func (f *fakeFetcher) ListTopics(context.Context, int) ([]models.Topic, error) {
	return f.topics, f.listErr
}

func (f *fakeFetcher) TopicCompanyNames(_ context.Context, id string) ([]string, error) {
	if f.namesErr != nil {
		return nil, f.namesErr
	}
	return f.names[id], nil
}

func (f *fakeFetcher) RecordTopicSelection(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selected = append(f.selected, id)
	return errors.New("selection endpoint down")
}

func newBrowser(store *selection.Store, client Fetcher, hints selection.Hints) (*Browser, *notify.Notifier) {
	n := notify.New(notify.WithLogger(zerolog.Nop()))
	return NewBrowser(BrowserConfig{Store: store, Client: client, Notifier: n, Hints: hints}), n
}

func names(topics []models.Topic) []string {
	out := make([]string, 0, len(topics))
	for _, t := range topics {
		out = append(out, t.Name)
	}
	return out
}

func TestLoadSortsByteWise(t *testing.T) {
	store := selection.NewStore()
	client := &fakeFetcher{topics: []models.Topic{
		{ID: "1", Name: "beta", ProfileID: "p1"},
		{ID: "2", Name: "Alpha", ProfileID: "p1"},
		{ID: "3", Name: "alpha", ProfileID: "p1"},
		{ID: "4", Name: "Alpha", ProfileID: "p2"},
	}}
	browser, n := newBrowser(store, client, selection.Hints{})
	defer n.Close()

	browser.Load(context.Background())
	st := store.Snapshot()
	require.Equal(t, []string{"Alpha", "Alpha", "alpha", "beta"}, names(st.Topics))
	require.Equal(t, "2", st.Topics[0].ID, "equal names keep server order")
}

func TestLoadFailureYieldsEmptyList(t *testing.T) {
	store := selection.NewStore()
	store.SetTopics([]models.Topic{{ID: "old", Name: "Old", ProfileID: "p1"}})
	browser, n := newBrowser(store, &fakeFetcher{listErr: errors.New("down")}, selection.Hints{})
	defer n.Close()

	browser.Load(context.Background())
	require.Empty(t, store.Snapshot().Topics)
}

func TestDisplayedFiltersByEffectiveProfile(t *testing.T) {
	store := selection.NewStore()
	store.SetTopics([]models.Topic{
		{ID: "t1", Name: "A", ProfileID: "p1"},
		{ID: "t2", Name: "B", ProfileID: "p2"},
	})
	browser, n := newBrowser(store, &fakeFetcher{}, selection.Hints{})
	defer n.Close()

	require.Len(t, browser.Displayed(), 2)

	store.SetSelectedProfile("p2")
	require.Equal(t, []string{"B"}, names(browser.Displayed()))

	browser.SetHints(selection.Hints{ProfileID: "p1"})
	require.Equal(t, []string{"A"}, names(browser.Displayed()))

	browser.SetHints(selection.Hints{ProfileName: "Acme"})
	browser.SetProfiles([]models.Profile{{ID: "p1", Name: "Acme"}})
	require.Equal(t, []string{"A"}, names(browser.Displayed()))
}

func TestSlotsTruncateAndPad(t *testing.T) {
	store := selection.NewStore()
	client := &fakeFetcher{names: map[string][]string{
		"big":   {"a", "b", "c", "d", "e", "f", "g", "h"},
		"small": {"x", "y", "z"},
	}}
	browser, n := newBrowser(store, client, selection.Hints{})
	defer n.Close()

	display := browser.Select(context.Background(), "big")
	require.Equal(t, NamesLoaded, display.State)
	require.Equal(t, []string{"a", "b", "c", "d", "e", "f"}, browser.Slots())

	browser.Select(context.Background(), "small")
	slots := browser.Slots()
	require.Len(t, slots, SlotCount)
	require.Equal(t, []string{"x", "y", "z", "", "", ""}, slots)

	display = browser.Select(context.Background(), "none")
	require.Equal(t, NamesLoaded, display.State)
	require.Equal(t, []string{"", "", "", "", "", ""}, browser.Slots())
	require.Equal(t, "none", store.Snapshot().CurrentTopicID)
}

func TestEmptyNameFetchIsLoaded(t *testing.T) {
	store := selection.NewStore()
	client := &fakeFetcher{names: map[string][]string{"t1": {}}}
	browser, n := newBrowser(store, client, selection.Hints{})
	defer n.Close()

	display := browser.Select(context.Background(), "t1")
	require.Equal(t, NamesLoaded, display.State)
	require.Equal(t, "loaded", display.State.String())
	require.Empty(t, display.Names)
}

func TestReconcileFollowsLaterLoads(t *testing.T) {
	store := selection.NewStore()
	client := &fakeFetcher{}
	browser, n := newBrowser(store, client, selection.Hints{TopicID: "t2"})
	defer n.Close()
	ctx := context.Background()

	browser.Load(ctx)
	require.False(t, browser.Reconcile())
	require.Empty(t, store.Snapshot().CurrentProfileID)

	client.topics = []models.Topic{{ID: "t2", Name: "Supply", ProfileID: "p2"}}
	browser.Load(ctx)
	require.True(t, browser.Reconcile())
	require.Equal(t, "p2", store.Snapshot().CurrentProfileID)
	require.False(t, browser.Reconcile())
}

func TestNameFetchFailureIsNotSurfaced(t *testing.T) {
	store := selection.NewStore()
	browser, n := newBrowser(store, &fakeFetcher{namesErr: errors.New("boom")}, selection.Hints{})

	display := browser.Select(context.Background(), "t1")
	require.Equal(t, NamesEmpty, display.State)
	require.Empty(t, display.Names)

	n.Close()
	require.Equal(t, "t1", store.Snapshot().CurrentTopicID)
}

func TestStaleNamesAreDiscarded(t *testing.T) {
	store := selection.NewStore()
	client := &fakeFetcher{names: map[string][]string{
		"t1": {"First"},
		"t2": {"Second"},
	}}
	browser, n := newBrowser(store, client, selection.Hints{})
	defer n.Close()
	ctx := context.Background()

	first := browser.Begin(ctx, "t1")
	require.Equal(t, NamesLoading, browser.Display().State)
	second := browser.Begin(ctx, "t2")

	require.True(t, browser.ApplyNames(browser.FetchNames(ctx, second)))
	require.False(t, browser.ApplyNames(browser.FetchNames(ctx, first)))

	display := browser.Display()
	require.Equal(t, "t2", display.TopicID)
	require.Equal(t, []string{"Second"}, display.Names)
	require.Equal(t, "t2", store.Snapshot().CurrentTopicID)
}

func TestSelectRecordsSelectionBestEffort(t *testing.T) {
	store := selection.NewStore()
	client := &fakeFetcher{names: map[string][]string{"t1": {"A"}}}
	browser, n := newBrowser(store, client, selection.Hints{})

	display := browser.Select(context.Background(), "t1")
	n.Close()

	require.Equal(t, NamesLoaded, display.State)
	client.mu.Lock()
	defer client.mu.Unlock()
	require.Equal(t, []string{"t1"}, client.selected)
}

func TestSyncPendingThenReconcile(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.SetCompanyNames("t2", "Globex Corp")
	client := newAPIClient(t, srv)

	store := selection.NewStore()
	store.SetSelectedProfile("p1")
	n := notify.New(notify.WithLogger(zerolog.Nop()))
	defer n.Close()
	browser := NewBrowser(BrowserConfig{Store: store, Client: client, Notifier: n, Hints: selection.Hints{TopicID: "t2"}})
	ctx := context.Background()

	display, ok := browser.Sync(ctx)
	require.True(t, ok)
	require.Equal(t, []string{"Globex Corp"}, display.Names)
	require.Equal(t, "p1", store.Snapshot().CurrentProfileID, "topic is still pending")

	srv.AddTopics(models.Topic{ID: "t2", Name: "Supply", ProfileID: "p2"})
	browser.Load(ctx)
	_, ok = browser.Sync(ctx)
	require.True(t, ok)
	require.Equal(t, "p2", store.Snapshot().CurrentProfileID)
	require.Equal(t, "t2", store.Snapshot().CurrentTopicID)

	_, ok = NewBrowser(BrowserConfig{Store: store, Client: client}).Sync(ctx)
	require.False(t, ok)
}

func TestCreateAndBrowseAcrossProfiles(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.AddProfiles(models.Profile{ID: "p1", Name: "Acme"}, models.Profile{ID: "p2", Name: "Globex"})
	srv.AddTopics(models.Topic{ID: "t1", Name: "Q1 Risk", ProfileID: "p1"})
	client := newAPIClient(t, srv)
	ctx := context.Background()

	store := selection.NewStore()
	n := notify.New(notify.WithLogger(zerolog.Nop()))
	defer n.Close()
	browser := NewBrowser(BrowserConfig{Store: store, Client: client, Notifier: n})
	workflow := NewWorkflow(store, client)

	browser.Load(ctx)
	store.SetSelectedProfile("p1")

	_, err := workflow.Submit(ctx, CreateRequest{Name: " q1 risk ", ProfileID: "p1"})
	require.ErrorIs(t, err, models.ErrDuplicateName)
	require.Equal(t, 0, srv.CountRequests("POST /teams"))

	created, err := workflow.Submit(ctx, CreateRequest{Name: "Q1 Risk", ProfileID: "p2"})
	require.NoError(t, err)
	require.Equal(t, "p2", store.Snapshot().CurrentProfileID)

	displayed := browser.Displayed()
	require.Len(t, displayed, 1)
	require.Equal(t, created.ID, displayed[0].ID)

	store.SetSelectedProfile("p1")
	displayed = browser.Displayed()
	require.Len(t, displayed, 1)
	require.Equal(t, "t1", displayed[0].ID)

	store.SetSelectedProfile("p2")
	ticket, ok := browser.CreatedTicket(ctx, created)
	require.True(t, ok)
	require.Equal(t, created.ID, ticket.TopicID)
}
