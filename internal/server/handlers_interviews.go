package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/daniel/jobtrackr/internal/db"
	"github.com/daniel/jobtrackr/internal/types"
)

// ---------------------------------------------------------------------
// Interview handlers (/v1/interviews)
// ---------------------------------------------------------------------

// getOwnedInterview loads an interview and checks it belongs to the user.
func (s *Server) getOwnedInterview(r *http.Request, id, userID uuid.UUID) (*db.Interview, error) {
	iv, err := s.db.GetInterview(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if iv == nil {
		return nil, &ErrNotFound{Resource: "interview", ID: id}
	}
	if iv.UserID != userID {
		return nil, &ErrForbidden{}
	}
	return iv, nil
}

func (s *Server) handleCreateInterview(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req types.CreateInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	if _, err := s.getOwnedApplication(r, req.ApplicationID, userID); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	id, err := s.db.CreateInterview(r.Context(), db.CreateInterviewParams{
		ApplicationID:   req.ApplicationID,
		UserID:          userID,
		Kind:            req.Kind,
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: req.DurationMinutes,
		Location:        req.Location,
		MeetingLink:     req.MeetingLink,
		Interviewer:     req.Interviewer,
		Notes:           req.Notes,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	iv, err := s.db.GetInterview(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.reminders.Schedule(iv)
	s.jsonResponse(w, http.StatusCreated, iv)
}

func (s *Server) handleListInterviews(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	interviews, err := s.db.ListInterviewsByUser(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if interviews == nil {
		interviews = []db.Interview{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"interviews": interviews})
}

func (s *Server) handleListApplicationInterviews(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	if _, err := s.getOwnedApplication(r, id, userID); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	interviews, err := s.db.ListInterviewsByApplication(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if interviews == nil {
		interviews = []db.Interview{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"interviews": interviews})
}

func (s *Server) handleGetInterview(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	iv, err := s.getOwnedInterview(r, id, userID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, iv)
}

func (s *Server) handleUpdateInterview(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	var req types.UpdateInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	before, err := s.getOwnedInterview(r, id, userID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	err = s.db.UpdateInterview(r.Context(), id, db.UpdateInterviewParams{
		Kind:            req.Kind,
		Status:          req.Status,
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: req.DurationMinutes,
		Location:        req.Location,
		MeetingLink:     req.MeetingLink,
		Interviewer:     req.Interviewer,
		Outcome:         req.Outcome,
		Notes:           req.Notes,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	after, err := s.db.GetInterview(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.syncReminders(r, before, after)
	s.jsonResponse(w, http.StatusOK, after)
}

// syncReminders reconciles the reminder registry with an interview update.
// A moved time triggers a reschedule notice; an interview leaving an active
// status loses its jobs; one entering an active status gains them.
func (s *Server) syncReminders(r *http.Request, before, after *db.Interview) {
	wasActive := db.IsActiveInterviewStatus(before.Status)
	isActive := db.IsActiveInterviewStatus(after.Status)

	switch {
	case !isActive:
		if wasActive {
			s.reminders.Cancel(after.ID)
		}
	case !wasActive:
		s.reminders.Schedule(after)
	case !after.ScheduledAt.Equal(before.ScheduledAt):
		s.reminders.Reschedule(r.Context(), after)
	}
}

func (s *Server) handleDeleteInterview(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	if _, err := s.getOwnedInterview(r, id, userID); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	if err := s.db.DeleteInterview(r.Context(), id); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	s.reminders.Cancel(id)

	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Interview deleted"})
}
