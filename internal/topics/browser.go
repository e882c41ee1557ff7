package topics

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tOgg1/riskdesk/internal/logging"
	"github.com/tOgg1/riskdesk/internal/models"
	"github.com/tOgg1/riskdesk/internal/notify"
	"github.com/tOgg1/riskdesk/internal/selection"
)

// SlotCount is the number of company name slots shown for a topic.
const SlotCount = 6

// Fetcher is the slice of the API the browser needs.
type Fetcher interface {
	ListTopics(ctx context.Context, topN int) ([]models.Topic, error)
	TopicCompanyNames(ctx context.Context, topicID string) ([]string, error)
	RecordTopicSelection(ctx context.Context, topicID string) error
}

// NamesState is the display state of the selected topic's company names.
type NamesState int

const (
	NamesUnselected NamesState = iota
	NamesLoading
	// NamesLoaded follows a successful fetch, even one with no names.
	NamesLoaded
	// NamesEmpty follows a failed fetch.
	NamesEmpty
)

func (s NamesState) String() string {
	switch s {
	case NamesLoading:
		return "loading"
	case NamesLoaded:
		return "loaded"
	case NamesEmpty:
		return "empty"
	default:
		return "unselected"
	}
}

// Display is what the browser shows for the selected topic.
type Display struct {
	TopicID string
	State   NamesState
	Names   []string
}

// Ticket identifies one selection. Responses carrying a superseded ticket are
// discarded.
type Ticket struct {
	TopicID string
	Seq     uint64
}

// NamesResult is the outcome of a company name fetch.
type NamesResult struct {
	Ticket Ticket
	Names  []string
	Err    error
}

// BrowserConfig configures a Browser.
type BrowserConfig struct {
	Store    *selection.Store
	Client   Fetcher
	Notifier *notify.Notifier

	// TopN caps the topic list server-side. Zero means no cap.
	TopN int

	// Hints are the navigation hints the browser was opened with.
	Hints selection.Hints

	// Profiles resolve a navigation profile name.
	Profiles []models.Profile
}

// Browser loads topics, filters them by the effective profile, and tracks the
// selected topic's company names.
type Browser struct {
	store    *selection.Store
	resolver *selection.Resolver
	client   Fetcher
	notifier *notify.Notifier
	topN     int
	log      zerolog.Logger

	mu       sync.Mutex
	hints    selection.Hints
	profiles []models.Profile
	seq      uint64
	display  Display
}

// NewBrowser creates a Browser.
func NewBrowser(cfg BrowserConfig) *Browser {
	return &Browser{
		store:    cfg.Store,
		resolver: selection.NewResolver(cfg.Store),
		client:   cfg.Client,
		notifier: cfg.Notifier,
		topN:     cfg.TopN,
		log:      logging.Component("topics.browser"),
		hints:    cfg.Hints.Normalize(),
		profiles: append([]models.Profile(nil), cfg.Profiles...),
	}
}

// SetHints replaces the navigation hints.
func (b *Browser) SetHints(hints selection.Hints) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hints = hints.Normalize()
}

// Hints returns the navigation hints.
func (b *Browser) Hints() selection.Hints {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hints
}

// SetProfiles replaces the profiles used to resolve a navigation name.
func (b *Browser) SetProfiles(profiles []models.Profile) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.profiles = append([]models.Profile(nil), profiles...)
}

// Profile resolves the effective profile.
func (b *Browser) Profile() selection.ProfileResolution {
	b.mu.Lock()
	hints, profiles := b.hints, b.profiles
	b.mu.Unlock()
	return b.resolver.Profile(hints, profiles)
}

// FetchTopics fetches the full topic list. A failure is logged and yields an
// empty list.
func (b *Browser) FetchTopics(ctx context.Context) []models.Topic {
	topics, err := b.client.ListTopics(ctx, b.topN)
	if err != nil {
		b.log.Warn().Err(err).Msg("failed to load topics")
		return []models.Topic{}
	}
	return topics
}

// ApplyTopics sorts topics by name and replaces the store's list.
func (b *Browser) ApplyTopics(topics []models.Topic) {
	sorted := models.CloneTopics(topics)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})
	b.store.SetTopics(sorted)
}

// Load fetches and stores the topic list.
func (b *Browser) Load(ctx context.Context) {
	b.ApplyTopics(b.FetchTopics(ctx))
}

// Displayed returns the loaded topics owned by the effective profile, or all
// of them when no profile is resolved.
func (b *Browser) Displayed() []models.Topic {
	profile := b.Profile()
	return models.TopicsForProfile(b.store.Snapshot().Topics, profile.ID)
}

// Begin selects topicID and returns the ticket its name fetch must carry.
// It also records the selection on the server, best effort.
func (b *Browser) Begin(ctx context.Context, topicID string) Ticket {
	b.mu.Lock()
	b.seq++
	ticket := Ticket{TopicID: topicID, Seq: b.seq}
	b.display = Display{TopicID: topicID, State: NamesLoading}
	b.mu.Unlock()

	b.store.SetSelectedTopic(topicID)
	b.notifier.Fire(ctx, "record topic selection", func(ctx context.Context) error {
		return b.client.RecordTopicSelection(ctx, topicID)
	})
	return ticket
}

// FetchNames fetches the company names for ticket's topic.
func (b *Browser) FetchNames(ctx context.Context, ticket Ticket) NamesResult {
	names, err := b.client.TopicCompanyNames(ctx, ticket.TopicID)
	return NamesResult{Ticket: ticket, Names: names, Err: err}
}

// ApplyNames records a fetch result. Results for a superseded selection are
// dropped and false is returned.
func (b *Browser) ApplyNames(result NamesResult) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if result.Ticket.Seq != b.seq {
		b.log.Debug().
			Str("topic_id", result.Ticket.TopicID).
			Uint64("seq", result.Ticket.Seq).
			Uint64("current_seq", b.seq).
			Msg("discarding stale company names")
		return false
	}

	if result.Err != nil {
		log := logging.WithTopic(b.log, result.Ticket.TopicID)
		log.Warn().Err(result.Err).Msg("could not fetch company names")
		b.display = Display{TopicID: result.Ticket.TopicID, State: NamesEmpty, Names: []string{}}
		return true
	}

	names := result.Names
	if len(names) > SlotCount {
		names = names[:SlotCount]
	}
	b.display = Display{
		TopicID: result.Ticket.TopicID,
		State:   NamesLoaded,
		Names:   append([]string{}, names...),
	}
	return true
}

// Select selects topicID and waits for its company names.
func (b *Browser) Select(ctx context.Context, topicID string) Display {
	ticket := b.Begin(ctx, topicID)
	b.ApplyNames(b.FetchNames(ctx, ticket))
	return b.Display()
}

// Display returns the current display state.
func (b *Browser) Display() Display {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.display
	out.Names = append([]string(nil), b.display.Names...)
	return out
}

// Slots returns exactly SlotCount names; missing ones are empty strings.
func (b *Browser) Slots() []string {
	display := b.Display()
	slots := make([]string, SlotCount)
	copy(slots, display.Names)
	return slots
}

// SyncTicket applies the navigation topic hint: it aligns the store's profile
// with the topic's owner when the topic is loaded, then selects it. Returns
// false when there is no navigation topic.
func (b *Browser) SyncTicket(ctx context.Context) (Ticket, bool) {
	hints := b.Hints()
	if hints.TopicID == "" {
		return Ticket{}, false
	}
	b.resolver.Reconcile(hints)
	return b.Begin(ctx, hints.TopicID), true
}

// Reconcile aligns the store's profile with the owner of the navigation
// topic once that topic is in the loaded list. Returns true when the store
// changed.
func (b *Browser) Reconcile() bool {
	return b.resolver.Reconcile(b.Hints())
}

// Sync applies the navigation topic hint and waits for its names.
func (b *Browser) Sync(ctx context.Context) (Display, bool) {
	ticket, ok := b.SyncTicket(ctx)
	if !ok {
		return b.Display(), false
	}
	b.ApplyNames(b.FetchNames(ctx, ticket))
	return b.Display(), true
}

// CreatedTicket reacts to a newly created topic: it is selected when it
// belongs to the effective profile.
func (b *Browser) CreatedTicket(ctx context.Context, topic models.Topic) (Ticket, bool) {
	if topic.ID == "" || topic.ProfileID != b.Profile().ID {
		return Ticket{}, false
	}
	return b.Begin(ctx, topic.ID), true
}
