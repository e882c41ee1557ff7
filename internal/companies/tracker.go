// Package companies tracks which companies an in-progress topic includes.
package companies

import (
	"context"
	"sync"

	"github.com/tOgg1/riskdesk/internal/notify"
)

// Recorder records a visitor's company pick on the server.
type Recorder interface {
	RecordCompanySelection(ctx context.Context, companyID string) error
}

// Tracker is the ordered working set of company ids for one topic editor.
// Toggles are synchronous and never wait on the network.
type Tracker struct {
	recorder Recorder
	notifier *notify.Notifier

	mu  sync.Mutex
	ids []string
}

// NewTracker returns an empty Tracker.
func NewTracker(recorder Recorder, notifier *notify.Notifier) *Tracker {
	return &Tracker{recorder: recorder, notifier: notifier, ids: []string{}}
}

// Toggle adds id at the end when absent, otherwise removes it. Reports
// whether id is selected afterwards.
func (t *Tracker) Toggle(id string) bool {
	if id == "" {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, existing := range t.ids {
		if existing == id {
			next := make([]string, 0, len(t.ids)-1)
			next = append(next, t.ids[:i]...)
			t.ids = append(next, t.ids[i+1:]...)
			return false
		}
	}
	t.ids = append(t.ids, id)
	return true
}

// Selected returns a copy of the selected ids in selection order.
func (t *Tracker) Selected() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string{}, t.ids...)
}

// Contains reports whether id is selected.
func (t *Tracker) Contains(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, existing := range t.ids {
		if existing == id {
			return true
		}
	}
	return false
}

// Len returns the number of selected ids.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.ids)
}

// Reset clears the selection.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ids = []string{}
}

// RecordSelection tells the server id was picked, best effort. The result
// never affects the working set.
func (t *Tracker) RecordSelection(ctx context.Context, id string) {
	if id == "" || t.recorder == nil {
		return
	}
	t.notifier.Fire(ctx, "record company selection", func(ctx context.Context) error {
		return t.recorder.RecordCompanySelection(ctx, id)
	})
}

// Click is the user action: toggle, then record the pick.
func (t *Tracker) Click(ctx context.Context, id string) bool {
	selected := t.Toggle(id)
	t.RecordSelection(ctx, id)
	return selected
}
