package server

import (
	"encoding/json"
	"net/http"

	"github.com/daniel/jobtrackr/internal/db"
)

// ---------------------------------------------------------------------
// Reminder handlers (/v1/reminders, /v1/interviews/{id}/reminders)
// ---------------------------------------------------------------------

func (s *Server) handleReminderStatus(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, s.reminders.Status())
}

type testReminderBody struct {
	Kind string `json:"kind"`
}

// handleTestReminder sends one notification immediately without touching the
// schedule or the sent flags.
func (s *Server) handleTestReminder(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	var body testReminderBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !db.IsValidReminderKind(body.Kind) {
		s.errorResponse(w, http.StatusBadRequest, "Unknown reminder kind: "+body.Kind)
		return
	}

	if _, err := s.getOwnedInterview(r, id, userID); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	if err := s.reminders.SendTest(r.Context(), id, body.Kind); err != nil {
		s.errorResponse(w, http.StatusBadGateway, "Failed to send: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Reminder sent", "kind": body.Kind})
}
