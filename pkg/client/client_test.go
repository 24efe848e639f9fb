package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sams-api/internal/dto"
	"github.com/noah-isme/sams-api/internal/models"
	"github.com/noah-isme/sams-api/pkg/storage"
)

func writeEnvelope(w http.ResponseWriter, status int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req dto.LoginRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "secret" {
			writeEnvelope(w, http.StatusUnauthorized, map[string]interface{}{"success": false, "message": "invalid credentials", "code": "INVALID_CREDENTIALS"})
			return
		}
		writeEnvelope(w, http.StatusOK, map[string]interface{}{"success": true, "data": map[string]interface{}{
			"token": "token-1",
			"user":  map[string]interface{}{"id": "u1", "email": req.Email, "role": "FACULTY", "profile": map[string]interface{}{"department": "CSE"}},
		}})
	})
	mux.HandleFunc("/api/v1/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/api/v1/attendance/sync", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token-1" {
			writeEnvelope(w, http.StatusForbidden, map[string]interface{}{"success": false, "message": "not authorized, token invalid"})
			return
		}
		var req dto.SyncAttendanceRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set(DefaultRenewHeader, "token-2")
		writeEnvelope(w, http.StatusOK, map[string]interface{}{"success": true, "data": map[string]interface{}{"synced": len(req.Records)}})
	})
	mux.HandleFunc("/api/v1/attendance/mark", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusInternalServerError, map[string]interface{}{"success": false, "message": "internal server error"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientLoginPopulatesSession(t *testing.T) {
	srv := newServer(t)
	c := New(srv.URL+"/api/v1/", nil, 0)

	_, err := c.Login(context.Background(), "f@college.edu", "wrong")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "INVALID_CREDENTIALS", apiErr.Code)
	assert.Empty(t, c.Session.Token())

	res, err := c.Login(context.Background(), "f@college.edu", "secret")
	require.NoError(t, err)
	assert.Equal(t, "token-1", res.Token)
	assert.Equal(t, "token-1", c.Session.Token())
	require.NotNil(t, c.Session.User())
	assert.Equal(t, models.FacultyProfile{Department: "CSE"}, c.Session.User().Profile)

	require.NoError(t, c.Logout(context.Background()))
	assert.Empty(t, c.Session.Token())
	assert.Nil(t, c.Session.User())
}

func TestClientSyncRenewsToken(t *testing.T) {
	srv := newServer(t)
	c := New(srv.URL+"/api/v1", nil, 0)

	_, err := c.Sync(context.Background(), dto.SyncAttendanceRequest{})
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	c.Session.Set("token-1", nil)
	res, err := c.Sync(context.Background(), dto.SyncAttendanceRequest{Records: []dto.MarkAttendanceRequest{{}, {}}})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Synced)
	assert.Equal(t, "token-2", c.Session.Token())
}

func TestRetryable(t *testing.T) {
	srv := newServer(t)
	c := New(srv.URL+"/api/v1", nil, 0)
	c.Session.Set("token-1", nil)

	_, err := c.Mark(context.Background(), dto.MarkAttendanceRequest{})
	require.Error(t, err)
	assert.True(t, Retryable(err))

	assert.False(t, Retryable(&APIError{Status: http.StatusBadRequest}))
	assert.False(t, Retryable(ErrNotLoggedIn))
	assert.True(t, Retryable(errors.New("dial tcp: connection refused")))
	assert.False(t, Retryable(nil))
}

func TestSessionPersistence(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	empty, err := LoadSession(store)
	require.NoError(t, err)
	assert.Empty(t, empty.Token())

	s := &Session{}
	s.Set("token-1", &models.User{ID: "u1", Role: models.RoleHOD, Profile: models.HODProfile{Department: "CSE"}})
	require.NoError(t, s.Persist(store))

	loaded, err := LoadSession(store)
	require.NoError(t, err)
	assert.Equal(t, "token-1", loaded.Token())
	assert.Equal(t, models.HODProfile{Department: "CSE"}, loaded.User().Profile)

	loaded.Clear()
	require.NoError(t, loaded.Persist(store))
	again, err := LoadSession(store)
	require.NoError(t, err)
	assert.Empty(t, again.Token())
}
