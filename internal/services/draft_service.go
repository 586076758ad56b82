package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"busline/internal/booking"
	"busline/internal/domain"
	"busline/internal/domain/models"
	"busline/internal/utils"

	"github.com/google/uuid"
)

const (
	DefaultDraftIdleTTL     = 30 * time.Minute
	DefaultMaxDraftsPerUser = 3
)

type draftEntry struct {
	owner   string
	wizard  *booking.Wizard
	touched time.Time
	seq     uint64
}

// DraftRegistry holds every in-progress draft keyed by draft ID. It is shared
// by all request goroutines; each draft still has exactly one owner.
// Drafts idle longer than IdleTTL are dropped, and a user opening more than
// MaxPerUser drafts loses the least recently used one.
type DraftRegistry struct {
	IdleTTL    time.Duration
	MaxPerUser int

	mu      sync.Mutex
	entries map[string]*draftEntry
	seq     uint64
	now     func() time.Time
}

func NewDraftRegistry() *DraftRegistry {
	return &DraftRegistry{
		IdleTTL:    DefaultDraftIdleTTL,
		MaxPerUser: DefaultMaxDraftsPerUser,
		entries:    map[string]*draftEntry{},
		now:        time.Now,
	}
}

// touchLocked marks e as just used.
func (r *DraftRegistry) touchLocked(e *draftEntry) {
	r.seq++
	e.seq = r.seq
	e.touched = r.now()
}

// sweepLocked drops idle drafts. A draft with a payment in flight is kept.
func (r *DraftRegistry) sweepLocked() int {
	if r.IdleTTL <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.IdleTTL)
	n := 0
	for id, e := range r.entries {
		if e.touched.Before(cutoff) && !e.wizard.Confirming() {
			e.wizard.Reset()
			delete(r.entries, id)
			n++
		}
	}
	return n
}

// Sweep drops drafts idle past IdleTTL and reports how many went.
func (r *DraftRegistry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sweepLocked()
}

// RunSweeper calls Sweep every interval until ctx is done.
func (r *DraftRegistry) RunSweeper(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := r.Sweep(); n > 0 {
				utils.LogEvent("", "draft", "sweep", fmt.Sprintf("dropped=%d", n))
			}
		}
	}
}

// evictOldestLocked makes room for one more draft of owner.
func (r *DraftRegistry) evictOldestLocked(owner string) string {
	if r.MaxPerUser <= 0 {
		return ""
	}
	var (
		count    int
		oldestID string
		oldest   *draftEntry
	)
	for id, e := range r.entries {
		if e.owner != owner {
			continue
		}
		count++
		if e.wizard.Confirming() {
			continue
		}
		if oldest == nil || e.seq < oldest.seq {
			oldestID, oldest = id, e
		}
	}
	if count < r.MaxPerUser || oldest == nil {
		return ""
	}
	oldest.wizard.Reset()
	delete(r.entries, oldestID)
	return oldestID
}

// DraftService is the per-request view over the registry.
type DraftService struct {
	Registry  *DraftRegistry
	RequestID string
}

// Create opens an empty draft for userID. profile pre-fills the first passenger.
func (s DraftService) Create(userID string, profile *models.Profile) (string, *booking.Wizard) {
	r := s.Registry
	id := uuid.NewString()
	w := booking.NewWizard(booking.NewStore(), booking.WithProfile(profile), booking.WithClock(r.now))

	r.mu.Lock()
	swept := r.sweepLocked()
	evicted := r.evictOldestLocked(userID)
	e := &draftEntry{owner: userID, wizard: w}
	r.touchLocked(e)
	r.entries[id] = e
	r.mu.Unlock()

	msg := "draft_id=" + id + " user_id=" + userID
	if evicted != "" {
		msg += " evicted=" + evicted
	}
	if swept > 0 {
		msg += fmt.Sprintf(" swept=%d", swept)
	}
	utils.LogEvent(s.RequestID, "draft", "create", msg)
	return id, w
}

// Get returns the wizard of a draft owned by userID.
func (s DraftService) Get(userID, draftID string) (*booking.Wizard, error) {
	r := s.Registry
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[draftID]
	if ok && r.IdleTTL > 0 && r.now().Sub(e.touched) > r.IdleTTL && !e.wizard.Confirming() {
		e.wizard.Reset()
		delete(r.entries, draftID)
		ok = false
	}
	if !ok {
		return nil, domain.NotFoundError{Resource: "draft"}
	}
	if e.owner != userID {
		return nil, domain.ForbiddenError{Msg: "draft milik pengguna lain"}
	}
	r.touchLocked(e)
	return e.wizard, nil
}

// Cancel resets the draft and forgets it. A draft with a payment in flight
// cannot be cancelled.
func (s DraftService) Cancel(userID, draftID string) error {
	w, err := s.Get(userID, draftID)
	if err != nil {
		return err
	}
	if err := w.Discard(); err != nil {
		return err
	}
	s.forget(draftID, w)
	utils.LogEvent(s.RequestID, "draft", "cancel", "draft_id="+draftID)
	return nil
}

// Complete forgets a draft whose booking has been paid for.
func (s DraftService) Complete(userID, draftID string) {
	w, err := s.Get(userID, draftID)
	if err != nil {
		return
	}
	s.forget(draftID, w)
	utils.LogEvent(s.RequestID, "draft", "complete", "draft_id="+draftID)
}

// forget removes draftID only if it still maps to w.
func (s DraftService) forget(draftID string, w *booking.Wizard) {
	r := s.Registry
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[draftID]; ok && e.wizard == w {
		delete(r.entries, draftID)
	}
}

// ResetForUser clears and drops every draft owned by userID. Used on sign-out.
func (s DraftService) ResetForUser(userID string) int {
	r := s.Registry
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, e := range r.entries {
		if e.owner != userID {
			continue
		}
		e.wizard.Reset()
		delete(r.entries, id)
		n++
	}
	if n > 0 {
		utils.LogEvent(s.RequestID, "draft", "reset_user", "user_id="+userID)
	}
	return n
}

// ListIDs returns the draft IDs owned by userID.
func (s DraftService) ListIDs(userID string) []string {
	r := s.Registry
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked()
	out := []string{}
	for id, e := range r.entries {
		if e.owner == userID {
			out = append(out, id)
		}
	}
	return out
}

// Count reports how many drafts are open across all users.
func (r *DraftRegistry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
