package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/inphroneofficial/Inphrone-Application-sub005/internal/models"
)

// AdminRole is the explicit grant required for the privileged purge
// operations.
const AdminRole = "admin"

// ProfileStore is the slice of the user repository the lifecycle controller
// needs.
type ProfileStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	HasRole(ctx context.Context, userID uuid.UUID, role string) (bool, error)
	DeleteAllExcept(ctx context.Context, keep uuid.UUID) (deleted int64, total int64, err error)
}

// DeletionStore persists pending-deletion records. Restore must be a single
// atomic conditional update; returning nil means there was nothing to restore
// or the window has expired.
type DeletionStore interface {
	GetActiveByUser(ctx context.Context, userID uuid.UUID) (*models.PendingDeletion, error)
	Insert(ctx context.Context, d *models.PendingDeletion) error
	Restore(ctx context.Context, userID uuid.UUID, now time.Time) (*models.PendingDeletion, error)
}

// TablePurger deletes every row of one table.
type TablePurger interface {
	DeleteAll(ctx context.Context, table string) (int64, error)
}

// SessionTerminator revokes a user's authenticated sessions server-side.
type SessionTerminator interface {
	TerminateSessions(ctx context.Context, userID uuid.UUID) error
}

// LifecycleService moves accounts through the deletion state machine:
// active → pending_deletion → restored, or pending_deletion → purged once the
// grace window closes.
type LifecycleService struct {
	users     ProfileStore
	deletions DeletionStore
	purger    TablePurger
	sessions  SessionTerminator

	purgeTables []string
	gracePeriod time.Duration
	now         func() time.Time
}

func NewLifecycleService(
	users ProfileStore,
	deletions DeletionStore,
	purger TablePurger,
	sessions SessionTerminator,
	purgeTables []string,
	graceDays int,
) *LifecycleService {
	return &LifecycleService{
		users:       users,
		deletions:   deletions,
		purger:      purger,
		sessions:    sessions,
		purgeTables: purgeTables,
		gracePeriod: time.Duration(graceDays) * 24 * time.Hour,
		now:         time.Now,
	}
}

// RequestSoftDelete snapshots the caller's profile into a pending-deletion
// record with a grace window. A second request while one is already pending
// returns the existing record unchanged. On a fresh request the caller's
// authenticated sessions are terminated server-side.
func (s *LifecycleService) RequestSoftDelete(ctx context.Context, userID uuid.UUID) (*models.PendingDeletion, error) {
	if userID == uuid.Nil {
		return nil, &UnauthorizedError{Message: "Authentication required"}
	}

	existing, err := s.deletions.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	record := &models.PendingDeletion{
		UserID:                user.ID,
		Email:                 user.Email,
		FullName:              user.FullName,
		UserType:              user.UserType,
		PermanentDeletionDate: s.now().Add(s.gracePeriod),
	}
	if err := s.deletions.Insert(ctx, record); err != nil {
		return nil, err
	}

	// The record is already committed; a failed session sweep should not
	// undo the deletion request.
	if err := s.sessions.TerminateSessions(ctx, userID); err != nil {
		log.Printf("failed to terminate sessions for %s after soft delete: %v", userID, err)
	}

	return record, nil
}

// RestoreAccount reopens the account if a pending deletion exists and its
// grace window is still open. The check and the mutation are one atomic
// update in the store, so a restore cannot race the purge sweep into an
// inconsistent state.
func (s *LifecycleService) RestoreAccount(ctx context.Context, userID uuid.UUID) (*models.PendingDeletion, error) {
	if userID == uuid.Nil {
		return nil, &UnauthorizedError{Message: "Authentication required"}
	}

	restored, err := s.deletions.Restore(ctx, userID, s.now())
	if err != nil {
		return nil, err
	}
	if restored == nil {
		return nil, &NotFoundError{Message: "Nothing to restore, or the restoration window has expired"}
	}
	return restored, nil
}

// AdminBulkPurge wipes every configured user-owned table, dependents first.
// Per-table failures are logged and skipped so one broken table cannot block
// cleanup of the rest; they surface only as a lower deleted-row count.
func (s *LifecycleService) AdminBulkPurge(ctx context.Context, adminID uuid.UUID) (*models.PurgeResult, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	var total int64
	for _, table := range s.purgeTables {
		deleted, err := s.purger.DeleteAll(ctx, table)
		if err != nil {
			log.Printf("bulk purge: table %s failed, continuing: %v", table, err)
			continue
		}
		log.Printf("bulk purge: deleted %d rows from %s", deleted, table)
		total += deleted
	}

	log.Printf("bulk purge completed by %s: %d rows deleted", adminID, total)
	return &models.PurgeResult{TotalDeleted: total, DeletedBy: adminID}, nil
}

// AdminDeleteAllIdentities removes every identity except the calling admin's
// own, which is skipped to avoid self-lockout.
func (s *LifecycleService) AdminDeleteAllIdentities(ctx context.Context, adminID uuid.UUID) (*models.IdentityPurgeResult, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	deleted, total, err := s.users.DeleteAllExcept(ctx, adminID)
	if err != nil {
		return nil, err
	}

	result := &models.IdentityPurgeResult{
		Deleted:   deleted,
		Skipped:   total - deleted,
		Total:     total,
		DeletedBy: adminID,
	}
	log.Printf("identity purge completed by %s: deleted=%d skipped=%d", adminID, result.Deleted, result.Skipped)
	return result, nil
}

func (s *LifecycleService) requireAdmin(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return &UnauthorizedError{Message: "Authentication required"}
	}
	isAdmin, err := s.users.HasRole(ctx, userID, AdminRole)
	if err != nil {
		return err
	}
	if !isAdmin {
		return &ForbiddenError{Message: "Admin role required"}
	}
	return nil
}
