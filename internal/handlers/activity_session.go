package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/inphroneofficial/Inphrone-Application-sub005/internal/middleware"
	"github.com/inphroneofficial/Inphrone-Application-sub005/internal/models"
	"github.com/inphroneofficial/Inphrone-Application-sub005/internal/tracker"
)

// ActivitySessionHandler exposes the page-visit duration tracking endpoints.
// Everything past Start is fire-and-forget from the tab's point of view:
// visibility and close events return 200 even when the event was dropped,
// because analytics must never degrade the user's actual task.
type ActivitySessionHandler struct {
	tracker *tracker.Tracker
}

func NewActivitySessionHandler(t *tracker.Tracker) *ActivitySessionHandler {
	return &ActivitySessionHandler{tracker: t}
}

func (h *ActivitySessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req struct {
		PageName string `json:"page_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if req.PageName == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "page_name is required", r))
		return
	}

	sessionID, err := h.tracker.Open(r.Context(), userID, req.PageName)
	if err != nil {
		// Accepted data loss: the visit goes unmeasured, the page keeps
		// working. The tab is told tracking is off so it stops emitting
		// events.
		writeJSON(w, http.StatusOK, map[string]interface{}{"tracking": false})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"tracking":   true,
		"session_id": sessionID,
	})
}

func (h *ActivitySessionHandler) Background(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid session ID", r))
		return
	}

	h.tracker.Background(r.Context(), sessionID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Recorded"})
}

func (h *ActivitySessionHandler) Foreground(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid session ID", r))
		return
	}

	h.tracker.Foreground(r.Context(), sessionID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Recorded"})
}

// Close finalises a session. The unload path arrives via sendBeacon, which
// may post text/plain and cannot wait for the response, so the body is
// decoded leniently and an unknown reason falls back to unload.
func (h *ActivitySessionHandler) Close(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid session ID", r))
		return
	}

	reason := models.CloseReasonUnload
	var req struct {
		Reason string `json:"reason"`
	}
	if decodeErr := json.NewDecoder(r.Body).Decode(&req); decodeErr == nil {
		if req.Reason == models.CloseReasonUnmount || req.Reason == models.CloseReasonUnload {
			reason = req.Reason
		}
	}

	h.tracker.Close(r.Context(), sessionID, reason)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Session closed"})
}
