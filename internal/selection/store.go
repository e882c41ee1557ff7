// Package selection holds the in-session selection state shared by every
// view and command, and resolves the effective profile and topic from it.
package selection

import (
	"errors"
	"sync"

	"github.com/tOgg1/riskdesk/internal/models"
)

// Panels are UI panel visibility flags.
type Panels struct {
	ProfilesOpen  bool `json:"profiles_open" yaml:"profiles_open"`
	CompaniesOpen bool `json:"companies_open" yaml:"companies_open"`
}

// State is an immutable view of the store.
type State struct {
	CurrentProfileID string         `json:"current_profile_id" yaml:"current_profile_id"`
	CurrentTopicID   string         `json:"current_topic_id" yaml:"current_topic_id"`
	Topics           []models.Topic `json:"topics" yaml:"topics"`
	Panels           Panels         `json:"panels" yaml:"panels"`
}

// Topic returns the loaded topic with the given id.
func (s State) Topic(id string) (models.Topic, bool) {
	return models.FindTopic(s.Topics, id)
}

// Handler observes store changes.
type Handler func(State)

// Errors returned by Subscribe and Unsubscribe.
var (
	ErrInvalidSubscriptionID = errors.New("subscription ID is required")
	ErrNilHandler            = errors.New("handler cannot be nil")
	ErrSubscriptionExists    = errors.New("subscription with this ID already exists")
	ErrSubscriptionNotFound  = errors.New("subscription not found")
)

type subscription struct {
	id      string
	handler Handler
}

// Store is the session's shared selection state. Create one per session and
// pass it by reference. It never touches the network and never validates.
type Store struct {
	mu    sync.Mutex
	state State
	subs  []subscription
}

// NewStore returns an empty store with both panels open.
func NewStore() *Store {
	return &Store{
		state: State{
			Topics: []models.Topic{},
			Panels: Panels{ProfilesOpen: true, CompaniesOpen: true},
		},
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneState(s.state)
}

// SetTopics replaces the loaded topic list. Duplicate ids keep their first
// occurrence.
func (s *Store) SetTopics(topics []models.Topic) {
	deduped := make([]models.Topic, 0, len(topics))
	seen := make(map[string]struct{}, len(topics))
	for _, t := range topics {
		if _, ok := seen[t.ID]; ok {
			continue
		}
		seen[t.ID] = struct{}{}
		deduped = append(deduped, t)
	}

	s.mutate(func(st *State) bool {
		if topicsEqual(st.Topics, deduped) {
			return false
		}
		st.Topics = deduped
		return true
	})
}

// AddTopic inserts topic at the front unless its id is already loaded.
func (s *Store) AddTopic(topic models.Topic) {
	s.mutate(func(st *State) bool {
		if _, ok := models.FindTopic(st.Topics, topic.ID); ok {
			return false
		}
		topics := make([]models.Topic, 0, len(st.Topics)+1)
		topics = append(topics, topic)
		st.Topics = append(topics, st.Topics...)
		return true
	})
}

// SetSelectedProfile sets the current profile id. Empty clears it.
func (s *Store) SetSelectedProfile(id string) {
	s.mutate(func(st *State) bool {
		if st.CurrentProfileID == id {
			return false
		}
		st.CurrentProfileID = id
		return true
	})
}

// SetSelectedTopic sets the current topic id. Empty clears it.
func (s *Store) SetSelectedTopic(id string) {
	s.mutate(func(st *State) bool {
		if st.CurrentTopicID == id {
			return false
		}
		st.CurrentTopicID = id
		return true
	})
}

func (s *Store) ToggleProfilesPanel() {
	s.mutate(func(st *State) bool {
		st.Panels.ProfilesOpen = !st.Panels.ProfilesOpen
		return true
	})
}

func (s *Store) ToggleCompaniesPanel() {
	s.mutate(func(st *State) bool {
		st.Panels.CompaniesOpen = !st.Panels.CompaniesOpen
		return true
	})
}

// Subscribe registers handler to receive a snapshot after every change.
// Handlers run in registration order, outside the store lock.
func (s *Store) Subscribe(id string, handler Handler) error {
	if id == "" {
		return ErrInvalidSubscriptionID
	}
	if handler == nil {
		return ErrNilHandler
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subs {
		if sub.id == id {
			return ErrSubscriptionExists
		}
	}
	s.subs = append(s.subs, subscription{id: id, handler: handler})
	return nil
}

// Unsubscribe removes a subscription by ID.
func (s *Store) Unsubscribe(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
			return nil
		}
	}
	return ErrSubscriptionNotFound
}

// SubscriberCount returns the number of active subscribers.
func (s *Store) SubscriberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

func (s *Store) mutate(fn func(*State) bool) {
	s.mu.Lock()
	if !fn(&s.state) {
		s.mu.Unlock()
		return
	}
	snapshot := cloneState(s.state)
	handlers := make([]Handler, 0, len(s.subs))
	for _, sub := range s.subs {
		handlers = append(handlers, sub.handler)
	}
	s.mu.Unlock()

	for _, handler := range handlers {
		handler(snapshot)
	}
}

func cloneState(st State) State {
	out := st
	out.Topics = models.CloneTopics(st.Topics)
	if out.Topics == nil {
		out.Topics = []models.Topic{}
	}
	return out
}

func topicsEqual(a, b []models.Topic) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
