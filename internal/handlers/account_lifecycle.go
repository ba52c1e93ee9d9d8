package handlers

import (
	"net/http"
	"time"

	"github.com/inphroneofficial/Inphrone-Application-sub005/internal/middleware"
	"github.com/inphroneofficial/Inphrone-Application-sub005/internal/services"
)

type AccountLifecycleHandler struct {
	lifecycle *services.LifecycleService
}

func NewAccountLifecycleHandler(lifecycle *services.LifecycleService) *AccountLifecycleHandler {
	return &AccountLifecycleHandler{lifecycle: lifecycle}
}

// SoftDelete marks the caller's account for deletion after the grace window.
// Safe to retry: a repeat request returns the existing record.
func (h *AccountLifecycleHandler) SoftDelete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	record, err := h.lifecycle.RequestSoftDelete(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":                 "Account scheduled for deletion. You can restore it until the date below.",
		"permanent_deletion_date": record.PermanentDeletionDate.Format(time.RFC3339),
	})
}

func (h *AccountLifecycleHandler) Restore(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	record, err := h.lifecycle.RestoreAccount(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":                 true,
		"permanent_deletion_date": record.PermanentDeletionDate.Format(time.RFC3339),
	})
}

func (h *AccountLifecycleHandler) AdminPurge(w http.ResponseWriter, r *http.Request) {
	adminID := middleware.GetUserID(r.Context())

	result, err := h.lifecycle.AdminBulkPurge(r.Context(), adminID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *AccountLifecycleHandler) AdminPurgeIdentities(w http.ResponseWriter, r *http.Request) {
	adminID := middleware.GetUserID(r.Context())

	result, err := h.lifecycle.AdminDeleteAllIdentities(r.Context(), adminID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
