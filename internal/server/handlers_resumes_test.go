package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniel/jobtrackr/internal/db"
	"github.com/daniel/jobtrackr/internal/llm"
	"github.com/daniel/jobtrackr/internal/types"
)

// stubLLMClient returns canned output for enhancement tests.
type stubLLMClient struct {
	output string
	err    error
}

func (c *stubLLMClient) GenerateJSON(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	return c.output, c.err
}

func (c *stubLLMClient) GetModel(_ llm.ModelTier) string { return "stub-model" }
func (c *stubLLMClient) Close() error                    { return nil }

func TestHandleCreateResume(t *testing.T) {
	s := newTestServer()
	userID := s.addUser(t, "Dana", "dana@example.com")

	req := authedRequest(http.MethodPost, "/v1/resumes", userID, types.CreateResumeRequest{
		Title:   "Backend 2026",
		Content: map[string]any{"summary": "Engineer with 6 years in Go services."},
	})
	rec := httptest.NewRecorder()
	s.handleCreateResume(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resume db.Resume
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resume))
	assert.Equal(t, "Backend 2026", resume.Title)
	assert.False(t, resume.Enhanced)
}

func TestHandleCreateResume_EmptyContent(t *testing.T) {
	s := newTestServer()
	userID := s.addUser(t, "Dana", "dana@example.com")

	req := authedRequest(http.MethodPost, "/v1/resumes", userID, types.CreateResumeRequest{
		Title:   "Backend 2026",
		Content: map[string]any{},
	})
	rec := httptest.NewRecorder()
	s.handleCreateResume(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleEnhanceResume_NotConfigured(t *testing.T) {
	s := newTestServer()
	userID := s.addUser(t, "Dana", "dana@example.com")

	resumeID, err := s.mock.CreateResume(context.Background(), userID, "Backend 2026", nil,
		map[string]any{"summary": "Engineer."})
	require.NoError(t, err)

	req := authedRequest(http.MethodPost, "/v1/resumes/"+resumeID.String()+"/enhance", userID, nil)
	req.SetPathValue("id", resumeID.String())
	rec := httptest.NewRecorder()
	s.handleEnhanceResume(rec, req)

	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestHandleEnhanceResume(t *testing.T) {
	s := newTestServer()
	userID := s.addUser(t, "Dana", "dana@example.com")

	client := &stubLLMClient{output: `{
		"sections": {"summary": "Seasoned backend engineer shipping Go services at scale."},
		"keywords": ["go", "postgres"],
		"summary": "Tightened the summary section."
	}`}
	enhancer, err := llm.NewEnhancer(client)
	require.NoError(t, err)
	s.llmClient = client
	s.enhancer = enhancer

	resumeID, err := s.mock.CreateResume(context.Background(), userID, "Backend 2026", nil,
		map[string]any{"summary": "Engineer."})
	require.NoError(t, err)

	req := authedRequest(http.MethodPost, "/v1/resumes/"+resumeID.String()+"/enhance", userID, nil)
	req.SetPathValue("id", resumeID.String())
	rec := httptest.NewRecorder()
	s.handleEnhanceResume(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Resume   db.Resume `json:"resume"`
		Keywords []string  `json:"keywords"`
		Summary  string    `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Resume.Enhanced)
	require.NotNil(t, resp.Resume.EnhancedModel)
	assert.Equal(t, "stub-model", *resp.Resume.EnhancedModel)
	assert.Equal(t, []string{"go", "postgres"}, resp.Keywords)
	assert.Contains(t, resp.Resume.Content["summary"], "Seasoned backend engineer")
}

func TestHandleEnhanceResume_ProviderFailure(t *testing.T) {
	s := newTestServer()
	userID := s.addUser(t, "Dana", "dana@example.com")

	client := &stubLLMClient{output: "this is not json at all"}
	enhancer, err := llm.NewEnhancer(client)
	require.NoError(t, err)
	s.llmClient = client
	s.enhancer = enhancer

	resumeID, err := s.mock.CreateResume(context.Background(), userID, "Backend 2026", nil,
		map[string]any{"summary": "Engineer."})
	require.NoError(t, err)

	req := authedRequest(http.MethodPost, "/v1/resumes/"+resumeID.String()+"/enhance", userID, nil)
	req.SetPathValue("id", resumeID.String())
	rec := httptest.NewRecorder()
	s.handleEnhanceResume(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)

	resume, err := s.mock.GetResume(context.Background(), resumeID)
	require.NoError(t, err)
	assert.False(t, resume.Enhanced, "a failed enhancement leaves the resume untouched")
}
