package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniel/jobtrackr/internal/db"
	"github.com/daniel/jobtrackr/internal/server/middleware"
	"github.com/daniel/jobtrackr/internal/types"
)

// authedRequest builds a request with the user ID already in context, the way
// the auth middleware would leave it.
func authedRequest(method, path string, userID uuid.UUID, body any) *http.Request {
	var req *http.Request
	if body != nil {
		payload, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	return middleware.WithUserID(req, userID)
}

func TestHandleCreateApplication(t *testing.T) {
	s := newTestServer()
	userID := s.addUser(t, "Dana", "dana@example.com")

	req := authedRequest(http.MethodPost, "/v1/applications", userID, types.CreateApplicationRequest{
		Company:   "Acme Corp",
		RoleTitle: "Backend Engineer",
		Status:    "applied",
	})
	rec := httptest.NewRecorder()
	s.handleCreateApplication(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var app db.Application
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &app))
	assert.Equal(t, "Acme Corp", app.Company)
	assert.Equal(t, "applied", app.Status)
	assert.Equal(t, userID, app.UserID)
}

func TestHandleCreateApplication_InvalidStatus(t *testing.T) {
	s := newTestServer()
	userID := s.addUser(t, "Dana", "dana@example.com")

	req := authedRequest(http.MethodPost, "/v1/applications", userID, types.CreateApplicationRequest{
		Company:   "Acme Corp",
		RoleTitle: "Backend Engineer",
		Status:    "daydreaming",
	})
	rec := httptest.NewRecorder()
	s.handleCreateApplication(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, s.mock.applications)
}

func TestHandleListApplications(t *testing.T) {
	s := newTestServer()
	userID := s.addUser(t, "Dana", "dana@example.com")
	otherID := s.addUser(t, "Riley", "riley@example.com")

	for _, status := range []string{"applied", "applied", "rejected"} {
		_, err := s.mock.CreateApplication(t.Context(), db.CreateApplicationParams{
			UserID: userID, Company: "Acme", RoleTitle: "Engineer", Status: status,
		})
		require.NoError(t, err)
	}
	_, err := s.mock.CreateApplication(t.Context(), db.CreateApplicationParams{
		UserID: otherID, Company: "Other", RoleTitle: "Engineer", Status: "applied",
	})
	require.NoError(t, err)

	t.Run("all records for the user", func(t *testing.T) {
		req := authedRequest(http.MethodGet, "/v1/applications", userID, nil)
		rec := httptest.NewRecorder()
		s.handleListApplications(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Applications []db.Application `json:"applications"`
			Total        int              `json:"total"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 3, resp.Total)
		assert.Len(t, resp.Applications, 3)
	})

	t.Run("status filter", func(t *testing.T) {
		req := authedRequest(http.MethodGet, "/v1/applications?status=rejected", userID, nil)
		rec := httptest.NewRecorder()
		s.handleListApplications(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Applications []db.Application `json:"applications"`
			Total        int              `json:"total"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Total)
	})

	t.Run("unknown status filter", func(t *testing.T) {
		req := authedRequest(http.MethodGet, "/v1/applications?status=bogus", userID, nil)
		rec := httptest.NewRecorder()
		s.handleListApplications(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleGetApplication_Ownership(t *testing.T) {
	s := newTestServer()
	userID := s.addUser(t, "Dana", "dana@example.com")
	otherID := s.addUser(t, "Riley", "riley@example.com")

	appID, err := s.mock.CreateApplication(t.Context(), db.CreateApplicationParams{
		UserID: userID, Company: "Acme", RoleTitle: "Engineer",
	})
	require.NoError(t, err)

	t.Run("owner can read", func(t *testing.T) {
		req := authedRequest(http.MethodGet, "/v1/applications/"+appID.String(), userID, nil)
		req.SetPathValue("id", appID.String())
		rec := httptest.NewRecorder()
		s.handleGetApplication(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("other user is forbidden", func(t *testing.T) {
		req := authedRequest(http.MethodGet, "/v1/applications/"+appID.String(), otherID, nil)
		req.SetPathValue("id", appID.String())
		rec := httptest.NewRecorder()
		s.handleGetApplication(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("missing record is 404", func(t *testing.T) {
		missing := uuid.New()
		req := authedRequest(http.MethodGet, "/v1/applications/"+missing.String(), userID, nil)
		req.SetPathValue("id", missing.String())
		rec := httptest.NewRecorder()
		s.handleGetApplication(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id is 400", func(t *testing.T) {
		req := authedRequest(http.MethodGet, "/v1/applications/not-a-uuid", userID, nil)
		req.SetPathValue("id", "not-a-uuid")
		rec := httptest.NewRecorder()
		s.handleGetApplication(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleUpdateApplicationStatus(t *testing.T) {
	s := newTestServer()
	userID := s.addUser(t, "Dana", "dana@example.com")

	appID, err := s.mock.CreateApplication(t.Context(), db.CreateApplicationParams{
		UserID: userID, Company: "Acme", RoleTitle: "Engineer", Status: "applied",
	})
	require.NoError(t, err)

	req := authedRequest(http.MethodPatch, "/v1/applications/"+appID.String()+"/status", userID,
		types.UpdateApplicationStatusRequest{Status: "interviewing"})
	req.SetPathValue("id", appID.String())
	rec := httptest.NewRecorder()
	s.handleUpdateApplicationStatus(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "interviewing", s.mock.applications[appID].Status)
}

func TestHandleDeleteApplication_CancelsReminders(t *testing.T) {
	s := newTestServer()
	userID := s.addUser(t, "Dana", "dana@example.com")

	appID, err := s.mock.CreateApplication(t.Context(), db.CreateApplicationParams{
		UserID: userID, Company: "Acme", RoleTitle: "Engineer", Status: "interviewing",
	})
	require.NoError(t, err)

	ivID, err := s.mock.CreateInterview(t.Context(), db.CreateInterviewParams{
		ApplicationID: appID, UserID: userID, Kind: "technical",
		ScheduledAt: time.Now().Add(48 * time.Hour),
	})
	require.NoError(t, err)

	iv, err := s.mock.GetInterview(t.Context(), ivID)
	require.NoError(t, err)
	require.Greater(t, s.reminders.Schedule(iv), 0)

	req := authedRequest(http.MethodDelete, "/v1/applications/"+appID.String(), userID, nil)
	req.SetPathValue("id", appID.String())
	rec := httptest.NewRecorder()
	s.handleDeleteApplication(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, s.mock.applications)
	assert.Empty(t, s.mock.interviews)
	assert.Equal(t, 0, s.reminders.Status().Total, "deleting an application clears its reminder jobs")
}
