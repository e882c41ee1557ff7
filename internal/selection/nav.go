package selection

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Hints are navigation-supplied selection hints, carried from one view to
// the next or given on the command line.
type Hints struct {
	ProfileName string `json:"selectedProfileName,omitempty" yaml:"selectedProfileName,omitempty"`
	ProfileID   string `json:"selectedProfileId,omitempty" yaml:"selectedProfileId,omitempty"`
	TopicID     string `json:"selectedTopicId,omitempty" yaml:"selectedTopicId,omitempty"`
}

// Normalize trims whitespace from every field.
func (h Hints) Normalize() Hints {
	return Hints{
		ProfileName: strings.TrimSpace(h.ProfileName),
		ProfileID:   strings.TrimSpace(h.ProfileID),
		TopicID:     strings.TrimSpace(h.TopicID),
	}
}

// Empty reports whether no hint is set.
func (h Hints) Empty() bool {
	return h.Normalize() == Hints{}
}

// Merge returns h with blank fields filled from fallback.
func (h Hints) Merge(fallback Hints) Hints {
	if strings.TrimSpace(h.ProfileName) == "" {
		h.ProfileName = fallback.ProfileName
	}
	if strings.TrimSpace(h.ProfileID) == "" {
		h.ProfileID = fallback.ProfileID
	}
	if strings.TrimSpace(h.TopicID) == "" {
		h.TopicID = fallback.TopicID
	}
	return h.Normalize()
}

// LoadHints reads a navigation bundle. YAML is a superset of JSON, so both
// formats are accepted.
func LoadHints(path string) (Hints, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Hints{}, fmt.Errorf("read navigation bundle: %w", err)
	}
	var hints Hints
	if err := yaml.Unmarshal(data, &hints); err != nil {
		return Hints{}, fmt.Errorf("parse navigation bundle %s: %w", path, err)
	}
	return hints.Normalize(), nil
}
