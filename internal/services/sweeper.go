package services

import (
	"context"
	"log"
	"time"
)

// ExpiredSweeper is the repository surface the sweep loop needs.
type ExpiredSweeper interface {
	SweepExpired(ctx context.Context, now time.Time, ownedTables []string) (int, error)
}

// DeletionSweeper periodically purges accounts whose grace window has closed.
// The eligibility check lives in a single conditional query in the store, so
// a concurrent restore either wins before the sweep sees the row or loses
// cleanly.
type DeletionSweeper struct {
	repo        ExpiredSweeper
	ownedTables []string
	interval    time.Duration
	stopChan    chan struct{}
}

func NewDeletionSweeper(repo ExpiredSweeper, ownedTables []string, interval time.Duration) *DeletionSweeper {
	return &DeletionSweeper{
		repo:        repo,
		ownedTables: ownedTables,
		interval:    interval,
		stopChan:    make(chan struct{}),
	}
}

func (s *DeletionSweeper) Start() {
	if s.repo == nil {
		return
	}

	go s.loop()
	log.Printf("Deletion sweeper started (interval %s)", s.interval)
}

func (s *DeletionSweeper) Stop() {
	select {
	case <-s.stopChan:
		return
	default:
		close(s.stopChan)
	}
}

func (s *DeletionSweeper) loop() {
	// Run on startup as well as by interval.
	s.runOnce()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runOnce()
		case <-s.stopChan:
			return
		}
	}
}

func (s *DeletionSweeper) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	purged, err := s.repo.SweepExpired(ctx, time.Now().UTC(), s.ownedTables)
	if err != nil {
		log.Printf("deletion sweep failed: %v", err)
		return
	}
	if purged > 0 {
		log.Printf("deletion sweep purged %d expired account(s)", purged)
	}
}

// SweepOwnedTables filters the configured purge list down to per-user tables;
// the identity and deletion-record tables are handled explicitly by the sweep.
func SweepOwnedTables(purgeTables []string) []string {
	owned := make([]string, 0, len(purgeTables))
	for _, t := range purgeTables {
		if t == "pending_deletions" || t == "users" {
			continue
		}
		owned = append(owned, t)
	}
	return owned
}
