package models

import (
	"strings"
	"time"
)

// Profile is the top-level scope that owns topics.
type Profile struct {
	// ID is the unique identifier for the profile.
	ID string `json:"id" yaml:"id"`

	// Name is the human-friendly profile name.
	Name string `json:"name" yaml:"name"`

	// Persistent marks profiles that survive server-side cleanup.
	Persistent bool `json:"persistent" yaml:"persistent"`

	// SelectedCount is how often visitors selected this profile.
	SelectedCount int `json:"selected_count" yaml:"selected_count"`

	// CreatedAt is when the profile was created.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Validate checks that the profile is usable as a selection scope.
func (p *Profile) Validate() error {
	validation := &ValidationErrors{}
	if strings.TrimSpace(p.ID) == "" {
		validation.Add("id", ErrIDRequired)
	}
	return validation.Err()
}

// FindProfile returns the profile matching idOrName, preferring an id match.
func FindProfile(profiles []Profile, idOrName string) (Profile, bool) {
	if idOrName == "" {
		return Profile{}, false
	}
	for _, p := range profiles {
		if p.ID == idOrName {
			return p, true
		}
	}
	for _, p := range profiles {
		if p.Name == idOrName {
			return p, true
		}
	}
	return Profile{}, false
}
