package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

type sweepRecord struct {
	userID                uuid.UUID
	restoredAt            *time.Time
	permanentDeletionDate time.Time
}

// fakeSweepStore mirrors the store's eligibility rule: a record is purged
// only when it has not been restored and its grace window has closed.
type fakeSweepStore struct {
	mu        sync.Mutex
	records   []sweepRecord
	calls     int
	gotCutoff time.Time
	gotTables []string
	swept     chan struct{}
}

func newFakeSweepStore(records []sweepRecord) *fakeSweepStore {
	return &fakeSweepStore{records: records, swept: make(chan struct{}, 16)}
}

func (f *fakeSweepStore) SweepExpired(ctx context.Context, now time.Time, ownedTables []string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	f.gotCutoff = now
	f.gotTables = ownedTables

	kept := f.records[:0]
	purged := 0
	for _, rec := range f.records {
		if rec.restoredAt == nil && !rec.permanentDeletionDate.After(now) {
			purged++
			continue
		}
		kept = append(kept, rec)
	}
	f.records = kept

	select {
	case f.swept <- struct{}{}:
	default:
	}
	return purged, nil
}

func (f *fakeSweepStore) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestDeletionSweeper_PurgesOnlyExpiredUnrestored(t *testing.T) {
	now := time.Now().UTC()
	restoredAt := now.Add(-time.Hour)
	// One expired record, one still inside its grace window, one restored.
	store := newFakeSweepStore([]sweepRecord{
		{userID: uuid.New(), permanentDeletionDate: now.Add(-time.Hour)},
		{userID: uuid.New(), permanentDeletionDate: now.Add(24 * time.Hour)},
		{userID: uuid.New(), restoredAt: &restoredAt, permanentDeletionDate: now.Add(-time.Hour)},
	})

	sweeper := NewDeletionSweeper(store, []string{"opinions", "activity_sessions"}, time.Hour)
	sweeper.runOnce()

	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.records) != 2 {
		t.Errorf("Expected 2 surviving records, got %d", len(store.records))
	}
	for _, rec := range store.records {
		if rec.restoredAt == nil && !rec.permanentDeletionDate.After(now) {
			t.Errorf("Expected expired unrestored record to be purged, found user %s", rec.userID)
		}
	}
}

func TestDeletionSweeper_PassesCutoffAndTables(t *testing.T) {
	store := newFakeSweepStore(nil)
	tables := []string{"opinions", "referrals"}

	before := time.Now().UTC()
	sweeper := NewDeletionSweeper(store, tables, time.Hour)
	sweeper.runOnce()
	after := time.Now().UTC()

	store.mu.Lock()
	defer store.mu.Unlock()
	if store.gotCutoff.Before(before) || store.gotCutoff.After(after) {
		t.Errorf("Expected cutoff between %s and %s, got %s", before, after, store.gotCutoff)
	}
	if store.gotCutoff.Location() != time.UTC {
		t.Errorf("Expected UTC cutoff, got location %s", store.gotCutoff.Location())
	}
	if len(store.gotTables) != 2 || store.gotTables[0] != "opinions" || store.gotTables[1] != "referrals" {
		t.Errorf("Expected owned tables %v, got %v", tables, store.gotTables)
	}
}

func TestDeletionSweeper_StopEndsLoop(t *testing.T) {
	store := newFakeSweepStore(nil)
	sweeper := NewDeletionSweeper(store, nil, 10*time.Millisecond)

	sweeper.Start()
	select {
	case <-store.swept:
	case <-time.After(time.Second):
		t.Fatal("Expected at least one sweep after Start")
	}

	sweeper.Stop()
	time.Sleep(30 * time.Millisecond) // let the loop observe the stop
	callsAfterStop := store.callCount()
	time.Sleep(50 * time.Millisecond)
	if got := store.callCount(); got != callsAfterStop {
		t.Errorf("Expected no sweeps after Stop, got %d more", got-callsAfterStop)
	}

	// Stop is idempotent.
	sweeper.Stop()
}

func TestDeletionSweeper_StartWithoutRepoIsNoop(t *testing.T) {
	sweeper := NewDeletionSweeper(nil, nil, time.Hour)
	sweeper.Start()
	sweeper.Stop()
}
