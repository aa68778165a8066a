package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/daniel/jobtrackr/internal/db"
	"github.com/daniel/jobtrackr/internal/types"
)

// ---------------------------------------------------------------------
// Application handlers (/v1/applications)
// ---------------------------------------------------------------------

// getOwnedApplication loads an application and checks it belongs to the user.
func (s *Server) getOwnedApplication(r *http.Request, id, userID uuid.UUID) (*db.Application, error) {
	app, err := s.db.GetApplication(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, &ErrNotFound{Resource: "application", ID: id}
	}
	if app.UserID != userID {
		return nil, &ErrForbidden{}
	}
	return app, nil
}

func (s *Server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req types.CreateApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	id, err := s.db.CreateApplication(r.Context(), db.CreateApplicationParams{
		UserID:    userID,
		Company:   req.Company,
		RoleTitle: req.RoleTitle,
		Status:    req.Status,
		JobURL:    req.JobURL,
		Location:  req.Location,
		SalaryMin: req.SalaryMin,
		SalaryMax: req.SalaryMax,
		Notes:     req.Notes,
		AppliedAt: req.AppliedAt,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	app, err := s.db.GetApplication(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusCreated, app)
}

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	opts := db.ListApplicationsOptions{
		Status:  r.URL.Query().Get("status"),
		Company: r.URL.Query().Get("company"),
	}
	if opts.Status != "" && !db.IsValidApplicationStatus(opts.Status) {
		s.errorResponse(w, http.StatusBadRequest, "Unknown status: "+opts.Status)
		return
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 200 {
			opts.Limit = v
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			opts.Offset = v
		}
	}

	apps, total, err := s.db.ListApplications(r.Context(), userID, opts)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if apps == nil {
		apps = []db.Application{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"applications": apps,
		"total":        total,
	})
}

func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	app, err := s.getOwnedApplication(r, id, userID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, app)
}

func (s *Server) handleUpdateApplication(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	var req types.UpdateApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	if _, err := s.getOwnedApplication(r, id, userID); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	err := s.db.UpdateApplication(r.Context(), id, db.UpdateApplicationParams{
		Company:   req.Company,
		RoleTitle: req.RoleTitle,
		Status:    req.Status,
		JobURL:    req.JobURL,
		Location:  req.Location,
		SalaryMin: req.SalaryMin,
		SalaryMax: req.SalaryMax,
		Notes:     req.Notes,
		AppliedAt: req.AppliedAt,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	app, err := s.db.GetApplication(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, app)
}

func (s *Server) handleUpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	var req types.UpdateApplicationStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	if _, err := s.getOwnedApplication(r, id, userID); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	if err := s.db.UpdateApplicationStatus(r.Context(), id, req.Status); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"id": id.String(), "status": req.Status})
}

func (s *Server) handleDeleteApplication(w http.ResponseWriter, r *http.Request) {
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

	// Interviews cascade with the application; their reminder jobs must go too.
	interviews, err := s.db.ListInterviewsByApplication(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	if err := s.db.DeleteApplication(r.Context(), id); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	for i := range interviews {
		s.reminders.Cancel(interviews[i].ID)
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Application deleted"})
}
