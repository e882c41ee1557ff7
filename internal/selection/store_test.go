package selection

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tOgg1/riskdesk/internal/models"
)

func topic(id, name, profileID string) models.Topic {
	return models.Topic{ID: id, Name: name, ProfileID: profileID}
}

func topicIDs(topics []models.Topic) []string {
	ids := make([]string, 0, len(topics))
	for _, t := range topics {
		ids = append(ids, t.ID)
	}
	return ids
}

func TestNewStoreDefaults(t *testing.T) {
	st := NewStore().Snapshot()
	require.Empty(t, st.CurrentProfileID)
	require.Empty(t, st.CurrentTopicID)
	require.NotNil(t, st.Topics)
	require.Empty(t, st.Topics)
	require.True(t, st.Panels.ProfilesOpen)
	require.True(t, st.Panels.CompaniesOpen)
}

func TestSetTopicsDedupesKeepingFirst(t *testing.T) {
	store := NewStore()
	store.SetTopics([]models.Topic{
		topic("t1", "Alpha", "p1"),
		topic("t2", "Beta", "p1"),
		topic("t1", "Alpha again", "p2"),
	})

	st := store.Snapshot()
	require.Equal(t, []string{"t1", "t2"}, topicIDs(st.Topics))
	require.Equal(t, "Alpha", st.Topics[0].Name)
}

func TestAddTopicIsIdempotent(t *testing.T) {
	store := NewStore()
	store.SetTopics([]models.Topic{topic("t1", "Alpha", "p1"), topic("t2", "Beta", "p1")})

	store.AddTopic(topic("t3", "Gamma", "p1"))
	require.Equal(t, []string{"t3", "t1", "t2"}, topicIDs(store.Snapshot().Topics))

	store.AddTopic(topic("t2", "Beta renamed", "p9"))
	st := store.Snapshot()
	require.Equal(t, []string{"t3", "t1", "t2"}, topicIDs(st.Topics))
	require.Equal(t, "Beta", st.Topics[2].Name)
}

func TestSnapshotIsACopy(t *testing.T) {
	store := NewStore()
	store.SetTopics([]models.Topic{topic("t1", "Alpha", "p1")})

	st := store.Snapshot()
	st.Topics[0].Name = "mutated"
	require.Equal(t, "Alpha", store.Snapshot().Topics[0].Name)
}

func TestSelectionSettersAndPanels(t *testing.T) {
	store := NewStore()
	store.SetSelectedProfile("p1")
	store.SetSelectedTopic("t1")
	store.ToggleProfilesPanel()

	st := store.Snapshot()
	require.Equal(t, "p1", st.CurrentProfileID)
	require.Equal(t, "t1", st.CurrentTopicID)
	require.False(t, st.Panels.ProfilesOpen)
	require.True(t, st.Panels.CompaniesOpen)

	store.SetSelectedTopic("")
	store.ToggleProfilesPanel()
	store.ToggleCompaniesPanel()
	st = store.Snapshot()
	require.Empty(t, st.CurrentTopicID)
	require.True(t, st.Panels.ProfilesOpen)
	require.False(t, st.Panels.CompaniesOpen)
}

func TestSubscribeNotifiesOnlyOnChange(t *testing.T) {
	store := NewStore()
	var order []string
	var last State
	require.NoError(t, store.Subscribe("first", func(st State) {
		order = append(order, "first")
		last = st
	}))
	require.NoError(t, store.Subscribe("second", func(State) {
		order = append(order, "second")
	}))

	store.SetSelectedProfile("p1")
	require.Equal(t, []string{"first", "second"}, order)
	require.Equal(t, "p1", last.CurrentProfileID)

	store.SetSelectedProfile("p1")
	store.SetTopics(nil)
	require.Len(t, order, 2)

	store.AddTopic(topic("t1", "Alpha", "p1"))
	require.Len(t, order, 4)
	store.AddTopic(topic("t1", "Alpha", "p1"))
	require.Len(t, order, 4)

	require.NoError(t, store.Unsubscribe("first"))
	store.SetSelectedTopic("t1")
	require.Equal(t, "second", order[len(order)-1])
	require.Len(t, order, 5)
}

func TestHandlerMayReadStore(t *testing.T) {
	store := NewStore()
	var seen string
	require.NoError(t, store.Subscribe("reader", func(State) {
		seen = store.Snapshot().CurrentProfileID
	}))
	store.SetSelectedProfile("p7")
	require.Equal(t, "p7", seen)
}

func TestSubscribeErrors(t *testing.T) {
	store := NewStore()
	require.ErrorIs(t, store.Subscribe("", func(State) {}), ErrInvalidSubscriptionID)
	require.ErrorIs(t, store.Subscribe("x", nil), ErrNilHandler)
	require.NoError(t, store.Subscribe("x", func(State) {}))
	require.ErrorIs(t, store.Subscribe("x", func(State) {}), ErrSubscriptionExists)
	require.ErrorIs(t, store.Unsubscribe("missing"), ErrSubscriptionNotFound)
	require.Equal(t, 1, store.SubscriberCount())
}
