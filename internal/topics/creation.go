// Package topics implements topic browsing and creation on top of the shared
// selection store.
package topics

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tOgg1/riskdesk/internal/api"
	"github.com/tOgg1/riskdesk/internal/logging"
	"github.com/tOgg1/riskdesk/internal/models"
	"github.com/tOgg1/riskdesk/internal/selection"
)

// Creator creates topics on the server.
type Creator interface {
	CreateTopic(ctx context.Context, input api.CreateTopicInput) (models.Topic, error)
}

// CreateRequest is a user's request to create a topic.
type CreateRequest struct {
	Name       string
	ProfileID  string
	CompanyIDs []string
}

// Validate checks a creation request against existing topics. Names compare
// trimmed and case-insensitively, and only within the same profile.
func Validate(name, profileID string, existing []models.Topic) error {
	if strings.TrimSpace(name) == "" {
		return &models.ValidationError{Field: "name", Message: models.ErrNameRequired.Error(), Cause: models.ErrNameRequired}
	}
	if strings.TrimSpace(profileID) == "" {
		return &models.ValidationError{Field: "profile_id", Message: models.ErrProfileRequired.Error(), Cause: models.ErrProfileRequired}
	}

	key := models.NormalizeTopicName(name)
	for _, t := range existing {
		if t.ProfileID != profileID {
			continue
		}
		if models.NormalizeTopicName(t.Name) == key {
			return &models.DuplicateNameError{Name: name, ProfileID: profileID, ExistingID: t.ID}
		}
	}
	return nil
}

// Workflow validates, submits, and merges new topics.
type Workflow struct {
	store   *selection.Store
	creator Creator
	log     zerolog.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewWorkflow returns a Workflow writing into store.
func NewWorkflow(store *selection.Store, creator Creator) *Workflow {
	return &Workflow{
		store:    store,
		creator:  creator,
		log:      logging.Component("topics.create"),
		inFlight: make(map[string]struct{}),
	}
}

// Validate checks req against the store's loaded topics.
func (w *Workflow) Validate(req CreateRequest) error {
	return Validate(req.Name, req.ProfileID, w.store.Snapshot().Topics)
}

// Submit validates req, creates the topic, merges it into the store, and
// selects its profile. Nothing is applied before the server confirms, so a
// failure leaves the store untouched.
func (w *Workflow) Submit(ctx context.Context, req CreateRequest) (models.Topic, error) {
	created, err := w.Create(ctx, req)
	if err != nil {
		return models.Topic{}, err
	}
	w.Merge(created)
	return created, nil
}

// Create validates req and sends it to the server without touching the
// store. Callers that apply results on another goroutine pair it with Merge.
func (w *Workflow) Create(ctx context.Context, req CreateRequest) (models.Topic, error) {
	if err := w.Validate(req); err != nil {
		return models.Topic{}, err
	}

	key := req.ProfileID + "\x00" + models.NormalizeTopicName(req.Name)
	w.mu.Lock()
	if _, busy := w.inFlight[key]; busy {
		w.mu.Unlock()
		return models.Topic{}, &models.DuplicateNameError{Name: req.Name, ProfileID: req.ProfileID, Pending: true}
	}
	w.inFlight[key] = struct{}{}
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		delete(w.inFlight, key)
		w.mu.Unlock()
	}()

	log := logging.WithProfile(w.log, req.ProfileID)
	created, err := w.creator.CreateTopic(ctx, api.CreateTopicInput{
		Name:       req.Name,
		ProfileID:  req.ProfileID,
		CompanyIDs: req.CompanyIDs,
	})
	if err != nil {
		log.Warn().Err(err).Str("name", req.Name).Msg("topic creation failed")
		var remote *models.RemoteRequestError
		if errors.As(err, &remote) {
			return models.Topic{}, err
		}
		return models.Topic{}, &models.RemoteRequestError{Op: "create topic", Message: err.Error(), Cause: err}
	}

	log = logging.WithTopic(log, created.ID)
	log.Info().Str("name", created.Name).Int("companies", len(req.CompanyIDs)).Msg("topic created")
	return created, nil
}

// Merge adds a created topic to the store and selects its profile.
func (w *Workflow) Merge(created models.Topic) {
	w.store.AddTopic(created)
	w.store.SetSelectedProfile(created.ProfileID)
}
