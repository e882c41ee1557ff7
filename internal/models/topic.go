package models

import (
	"strings"
	"time"
)

// Topic is a named grouping of companies under a profile.
type Topic struct {
	// ID is the unique identifier for the topic.
	ID string `json:"id" yaml:"id"`

	// Name is the display name. Unique per profile, trimmed and case-insensitive.
	Name string `json:"name" yaml:"name"`

	// ProfileID is the owning profile.
	ProfileID string `json:"profile_id" yaml:"profile_id"`

	// ProfileName is set when the server embedded the owner record.
	ProfileName string `json:"profile_name,omitempty" yaml:"profile_name,omitempty"`

	// SelectedCount is how often visitors selected this topic.
	SelectedCount int `json:"selected_count" yaml:"selected_count"`

	// CreatedAt is when the topic was created.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Validate checks the fields every consumer relies on.
func (t *Topic) Validate() error {
	validation := &ValidationErrors{}
	if strings.TrimSpace(t.ID) == "" {
		validation.Add("id", ErrIDRequired)
	}
	if strings.TrimSpace(t.ProfileID) == "" {
		validation.Add("profile_id", ErrProfileRequired)
	}
	return validation.Err()
}

// NormalizeTopicName returns the comparison key used by the uniqueness rule.
func NormalizeTopicName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// FindTopic returns the topic with the given id.
func FindTopic(topics []Topic, id string) (Topic, bool) {
	if id == "" {
		return Topic{}, false
	}
	for _, t := range topics {
		if t.ID == id {
			return t, true
		}
	}
	return Topic{}, false
}

// TopicsForProfile filters topics by owner. An empty profileID returns all
// topics.
func TopicsForProfile(topics []Topic, profileID string) []Topic {
	if profileID == "" {
		return CloneTopics(topics)
	}
	out := make([]Topic, 0, len(topics))
	for _, t := range topics {
		if t.ProfileID == profileID {
			out = append(out, t)
		}
	}
	return out
}

// CloneTopics returns a copy of topics safe to hand to another owner.
func CloneTopics(topics []Topic) []Topic {
	if topics == nil {
		return nil
	}
	out := make([]Topic, len(topics))
	copy(out, topics)
	return out
}
