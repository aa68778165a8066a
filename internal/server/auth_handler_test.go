package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/daniel/jobtrackr/internal/config"
	"github.com/daniel/jobtrackr/internal/types"
)

func testAuthHandler() (*AuthHandler, *fakeUserStore) {
	store := newFakeUserStore()
	pwCfg := &config.PasswordConfig{BcryptCost: bcrypt.MinCost}
	userService := NewUserService(store, pwCfg)
	jwtService := setupTestJWTService(nil, 24)
	return NewAuthHandler(userService, jwtService), store
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestAuthHandler_Register(t *testing.T) {
	handler, _ := testAuthHandler()

	rec := postJSON(t, handler.Register, "/v1/auth/register", types.CreateUserRequest{
		Name:     "Dana Smith",
		Email:    "dana@example.com",
		Password: "secret-password",
	})

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp types.LoginResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.User)
	assert.Equal(t, "dana@example.com", resp.User.Email)
	assert.NotEmpty(t, resp.Token)

	// The issued token must round-trip through validation.
	handlerSvc := handler.jwtService
	claims, err := handlerSvc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	handler, store := testAuthHandler()

	tests := []struct {
		name string
		req  types.CreateUserRequest
	}{
		{
			name: "missing email",
			req:  types.CreateUserRequest{Name: "Dana", Password: "secret-password"},
		},
		{
			name: "invalid email",
			req:  types.CreateUserRequest{Name: "Dana", Email: "not-an-email", Password: "secret-password"},
		},
		{
			name: "short password",
			req:  types.CreateUserRequest{Name: "Dana", Email: "dana@example.com", Password: "short"},
		},
		{
			name: "missing name",
			req:  types.CreateUserRequest{Email: "dana@example.com", Password: "secret-password"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, handler.Register, "/v1/auth/register", tt.req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "validation error")
		})
	}
	assert.Empty(t, store.users, "no user should be created from invalid requests")
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	handler, _ := testAuthHandler()

	req := types.CreateUserRequest{Name: "Dana", Email: "dana@example.com", Password: "secret-password"}
	rec := postJSON(t, handler.Register, "/v1/auth/register", req)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, handler.Register, "/v1/auth/register", req)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAuthHandler_Register_MalformedBody(t *testing.T) {
	handler, _ := testAuthHandler()

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/register", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	handler.Register(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	handler, _ := testAuthHandler()

	rec := postJSON(t, handler.Register, "/v1/auth/register", types.CreateUserRequest{
		Name:     "Dana",
		Email:    "dana@example.com",
		Password: "secret-password",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("valid credentials", func(t *testing.T) {
		rec := postJSON(t, handler.Login, "/v1/auth/login", types.LoginRequest{
			Email:    "dana@example.com",
			Password: "secret-password",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp types.LoginResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "dana@example.com", resp.User.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := postJSON(t, handler.Login, "/v1/auth/login", types.LoginRequest{
			Email:    "dana@example.com",
			Password: "wrong-password",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown email", func(t *testing.T) {
		rec := postJSON(t, handler.Login, "/v1/auth/login", types.LoginRequest{
			Email:    "nobody@example.com",
			Password: "secret-password",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAuthHandler_UpdatePassword(t *testing.T) {
	handler, _ := testAuthHandler()

	rec := postJSON(t, handler.Register, "/v1/auth/register", types.CreateUserRequest{
		Name:     "Dana",
		Email:    "dana@example.com",
		Password: "old-password",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created types.LoginResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))

	payload, err := json.Marshal(types.UpdatePasswordRequest{
		CurrentPassword: "old-password",
		NewPassword:     "brand-new-password",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/v1/auth/password", bytes.NewReader(payload))
	rec2 := httptest.NewRecorder()
	handler.UpdatePassword(rec2, req, created.User.ID)
	require.Equal(t, http.StatusOK, rec2.Code)

	rec3 := postJSON(t, handler.Login, "/v1/auth/login", types.LoginRequest{
		Email:    "dana@example.com",
		Password: "brand-new-password",
	})
	assert.Equal(t, http.StatusOK, rec3.Code)
}
