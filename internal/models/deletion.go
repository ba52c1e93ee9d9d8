package models

import (
	"time"

	"github.com/google/uuid"
)

// PendingDeletion marks an account as soft-deleted with a restorable grace
// period. The email/full_name/user_type columns snapshot the profile at
// request time so the record stays meaningful even if the profile row later
// changes. At most one row per user may have a nil RestoredAt; once RestoredAt
// is set the row is terminal and a later deletion request creates a new row.
type PendingDeletion struct {
	ID                    uuid.UUID  `json:"id"`
	UserID                uuid.UUID  `json:"user_id"`
	Email                 string     `json:"email"`
	FullName              string     `json:"full_name"`
	UserType              string     `json:"user_type"`
	RequestedAt           time.Time  `json:"requested_at"`
	PermanentDeletionDate time.Time  `json:"permanent_deletion_date"`
	RestoredAt            *time.Time `json:"restored_at,omitempty"`
}

// PurgeResult is the audit summary returned by the admin bulk purge.
type PurgeResult struct {
	TotalDeleted int64     `json:"total_deleted"`
	DeletedBy    uuid.UUID `json:"deleted_by"`
}

// IdentityPurgeResult summarises an admin identity wipe. Skipped counts the
// calling admin's own identity, which is never removed.
type IdentityPurgeResult struct {
	Deleted   int64     `json:"deleted"`
	Skipped   int64     `json:"skipped"`
	Total     int64     `json:"total"`
	DeletedBy uuid.UUID `json:"deleted_by"`
}
