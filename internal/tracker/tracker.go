package tracker

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/inphroneofficial/Inphrone-Application-sub005/internal/models"
)

// Durations outside this open interval are discarded rather than persisted,
// which rejects clock skew and suspend/resume anomalies.
const maxDurationSeconds = 86400

// ErrTrackingUnavailable means the session row could not be created. The
// visit simply goes unmeasured; callers log it and move on.
var ErrTrackingUnavailable = errors.New("session tracking unavailable for this visit")

// SessionStore is the persistence surface the tracker needs.
type SessionStore interface {
	Insert(ctx context.Context, s *models.ActivitySession) error
	Touch(ctx context.Context, sessionID uuid.UUID) error
	Close(ctx context.Context, sessionID uuid.UUID, end time.Time, durationSeconds int) error
}

// sessionState is the per-visit accumulator. Only foreground time counts:
// accumulated holds the closed foreground intervals measured so far, and
// lastActiveAt marks the start of the currently open one (when not hidden).
type sessionState struct {
	lastActiveAt time.Time
	accumulated  time.Duration
	hidden       bool
}

// Tracker accounts foreground time for open activity sessions. Every
// persistence call it makes is best-effort: nothing is retried and no failure
// is ever surfaced to the end user, because the output is analytics, not
// transactional state.
type Tracker struct {
	store SessionStore
	now   func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*sessionState
}

func New(store SessionStore) *Tracker {
	return &Tracker{
		store:    store,
		now:      time.Now,
		sessions: make(map[uuid.UUID]*sessionState),
	}
}

// NewWithClock is used by tests that need deterministic time.
func NewWithClock(store SessionStore, now func() time.Time) *Tracker {
	t := New(store)
	t.now = now
	return t
}

// Open creates the session row and starts the foreground clock. A nil user
// means identity has not resolved yet; tracking is deferred, not retried.
func (t *Tracker) Open(ctx context.Context, userID uuid.UUID, pageName string) (uuid.UUID, error) {
	if userID == uuid.Nil {
		return uuid.Nil, ErrTrackingUnavailable
	}

	session := &models.ActivitySession{
		UserID:   userID,
		PageName: pageName,
	}
	if err := t.store.Insert(ctx, session); err != nil {
		log.Printf("activity session open failed (visit goes unmeasured): %v", err)
		return uuid.Nil, ErrTrackingUnavailable
	}

	t.mu.Lock()
	t.sessions[session.ID] = &sessionState{lastActiveAt: t.now()}
	t.mu.Unlock()

	return session.ID, nil
}

// Background checkpoints the open foreground interval when the page is
// hidden. It never closes the session; the user may come back.
func (t *Tracker) Background(ctx context.Context, sessionID uuid.UUID) {
	t.mu.Lock()
	state, ok := t.sessions[sessionID]
	if ok && !state.hidden {
		state.accumulated += t.now().Sub(state.lastActiveAt)
		state.hidden = true
	}
	t.mu.Unlock()
	if !ok {
		return
	}

	if err := t.store.Touch(ctx, sessionID); err != nil {
		log.Printf("activity session %s touch failed: %v", sessionID, err)
	}
}

// Foreground restarts the foreground clock. The hidden interval itself is
// never counted.
func (t *Tracker) Foreground(ctx context.Context, sessionID uuid.UUID) {
	t.mu.Lock()
	state, ok := t.sessions[sessionID]
	if ok && state.hidden {
		state.lastActiveAt = t.now()
		state.hidden = false
	}
	t.mu.Unlock()
	if !ok {
		return
	}

	if err := t.store.Touch(ctx, sessionID); err != nil {
		log.Printf("activity session %s touch failed: %v", sessionID, err)
	}
}

// Close finalises the session with the accumulated foreground duration. A
// close for a session the tracker never opened (or already closed) is a
// no-op: there is nothing to close. Out-of-range durations are dropped
// without a persistence write.
func (t *Tracker) Close(ctx context.Context, sessionID uuid.UUID, reason string) {
	now := t.now()

	t.mu.Lock()
	state, ok := t.sessions[sessionID]
	if ok {
		delete(t.sessions, sessionID)
	}
	t.mu.Unlock()
	if !ok {
		return
	}

	total := state.accumulated
	if !state.hidden {
		total += now.Sub(state.lastActiveAt)
	}

	seconds := int(total.Seconds())
	if seconds <= 0 || seconds >= maxDurationSeconds {
		log.Printf("activity session %s dropped on %s: duration %ds out of range", sessionID, reason, seconds)
		return
	}

	if err := t.store.Close(ctx, sessionID, now, seconds); err != nil {
		log.Printf("activity session %s close failed on %s: %v", sessionID, reason, err)
	}
}

// OpenCount reports how many sessions currently hold in-memory accumulators.
func (t *Tracker) OpenCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.sessions)
}
