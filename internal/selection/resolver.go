package selection

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/tOgg1/riskdesk/internal/models"
)

const maxSuggestions = 3

// Source records which input decided a resolved profile.
type Source string

const (
	SourceNone           Source = ""
	SourceNavigation     Source = "navigation"
	SourceNavigationName Source = "navigation-name"
	SourceStore          Source = "store"
)

// ProfileResolution is the effective profile for a view or command.
type ProfileResolution struct {
	ID     string
	Source Source

	// Suggestions are the closest profile names when a navigation name
	// matched nothing.
	Suggestions []string
}

// Resolved reports whether any input produced a profile id.
func (r ProfileResolution) Resolved() bool {
	return r.ID != ""
}

// TopicResolution is the effective topic.
type TopicResolution struct {
	ID             string
	FromNavigation bool

	// Topic is set when ID refers to a loaded topic.
	Topic models.Topic

	// Pending is true when ID is known but its topic is not in the loaded
	// list yet. Display data is then fetched by bare id.
	Pending bool
}

// Resolved reports whether a topic id is known.
func (r TopicResolution) Resolved() bool {
	return r.ID != ""
}

// Resolver derives the effective profile and topic from navigation hints, the
// store, and fetched lists. It has no state of its own.
type Resolver struct {
	store *Store
}

// NewResolver returns a Resolver reading from store.
func NewResolver(store *Store) *Resolver {
	return &Resolver{store: store}
}

// Profile resolves the effective profile id. Precedence: navigation id,
// navigation name matched against profiles, the store, unresolved.
func (r *Resolver) Profile(hints Hints, profiles []models.Profile) ProfileResolution {
	hints = hints.Normalize()
	if hints.ProfileID != "" {
		return ProfileResolution{ID: hints.ProfileID, Source: SourceNavigation}
	}

	var suggestions []string
	if hints.ProfileName != "" {
		if p, ok := models.FindProfile(profiles, hints.ProfileName); ok {
			return ProfileResolution{ID: p.ID, Source: SourceNavigationName}
		}
		suggestions = SuggestProfiles(profiles, hints.ProfileName)
	}

	if id := r.store.Snapshot().CurrentProfileID; id != "" {
		return ProfileResolution{ID: id, Source: SourceStore, Suggestions: suggestions}
	}
	return ProfileResolution{Source: SourceNone, Suggestions: suggestions}
}

// Topic resolves the effective topic id: the navigation topic id, else the
// store's selected topic.
func (r *Resolver) Topic(hints Hints) TopicResolution {
	hints = hints.Normalize()
	st := r.store.Snapshot()

	res := TopicResolution{ID: st.CurrentTopicID}
	if hints.TopicID != "" {
		res = TopicResolution{ID: hints.TopicID, FromNavigation: true}
	}
	if res.ID == "" {
		return res
	}
	if topic, ok := st.Topic(res.ID); ok {
		res.Topic = topic
		return res
	}
	res.Pending = true
	return res
}

// Reconcile aligns the store's profile with the owner of the navigation
// topic once that topic is loaded. Returns true when the store changed.
func (r *Resolver) Reconcile(hints Hints) bool {
	topic := r.Topic(hints)
	if !topic.FromNavigation || topic.Pending {
		return false
	}
	owner := topic.Topic.ProfileID
	if owner == "" || owner == r.store.Snapshot().CurrentProfileID {
		return false
	}
	r.store.SetSelectedProfile(owner)
	return true
}

// SuggestProfiles returns up to three profile names closest to query.
func SuggestProfiles(profiles []models.Profile, query string) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || len(profiles) == 0 {
		return nil
	}

	type candidate struct {
		name     string
		distance int
	}
	candidates := make([]candidate, 0, len(profiles))
	seen := make(map[string]struct{}, len(profiles))
	for _, p := range profiles {
		if p.Name == "" {
			continue
		}
		if _, ok := seen[p.Name]; ok {
			continue
		}
		seen[p.Name] = struct{}{}
		candidates = append(candidates, candidate{
			name:     p.Name,
			distance: levenshtein.ComputeDistance(query, strings.ToLower(p.Name)),
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	limit := maxSuggestions
	if len(candidates) < limit {
		limit = len(candidates)
	}
	out := make([]string, 0, limit)
	for _, c := range candidates[:limit] {
		out = append(out, c.name)
	}
	return out
}
