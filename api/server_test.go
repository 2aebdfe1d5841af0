package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/studioaurea/atelier-backend/database"
	"github.com/studioaurea/atelier-backend/models"
)

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()
	return newRouter(database.NewInMemory(),
		withConfig(map[string]string{"JWT_SECRET": "test-secret"}),
		withStartupTime(time.Now()),
	)
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}

	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func loginAsAdmin(t *testing.T, router http.Handler) string {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "admin@atelier.local",
		"password": "atelier-admin",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	require.Equal(t, models.RoleAdmin, resp.User.Role)
	return resp.Token
}

func TestHealthEndpoint(t *testing.T) {
	rec := doJSON(t, newTestRouter(t), http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestAuthenticationRequired(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/projects", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/projects", "not-a-token", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "admin@atelier.local",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "nobody@atelier.local",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProjectLifecycleOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	token := loginAsAdmin(t, router)

	rec := doJSON(t, router, http.MethodPost, "/project", token, map[string]any{
		"name":   "Riverside Loft",
		"budget": 85000,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var project models.Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &project))
	require.NotZero(t, project.ID)
	require.Equal(t, models.ProjectPlanning, project.Status)

	rec = doJSON(t, router, http.MethodPost, "/project/1/rooms", token, map[string]string{
		"name": "Kitchen",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodPost, "/project/1/tasks", token, map[string]any{
		"name":   "Tile floor",
		"roomId": 1,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = doJSON(t, router, http.MethodPost, "/project/1/tasks", token, map[string]any{
		"name":   "Order lights",
		"status": "done",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &project))
	require.Equal(t, 50, project.Progress)

	// A log with a photo URL derives a photo record and carries the author
	rec = doJSON(t, router, http.MethodPost, "/project/1/logs", token, map[string]any{
		"text":     "demo day",
		"roomId":   1,
		"photoUrl": "https://cdn.example.com/demo.jpg",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &project))
	require.Len(t, project.Photos, 1)
	require.Equal(t, project.Logs[0].ID, project.Photos[0].LogID)
	require.NotZero(t, project.Logs[0].CreatedBy)

	rec = doJSON(t, router, http.MethodGet, "/projects", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var collection ProjectCollection
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &collection))
	require.Len(t, collection.Projects, 1)
	require.Equal(t, 1, collection.Total)

	rec = doJSON(t, router, http.MethodDelete, "/project/1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, router, http.MethodGet, "/project/1", token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserRoutesRequireAdmin(t *testing.T) {
	router := newTestRouter(t)
	adminToken := loginAsAdmin(t, router)

	rec := doJSON(t, router, http.MethodPost, "/user", adminToken, map[string]string{
		"name":     "Dana",
		"email":    "dana@atelier.local",
		"password": "dana-password",
		"role":     "designer",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "dana@atelier.local",
		"password": "dana-password",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	// Designers can reach regular routes but not user management
	rec = doJSON(t, router, http.MethodGet, "/projects", resp.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, router, http.MethodGet, "/users", resp.Token, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestEstimateDraftUnavailableWithoutProvider(t *testing.T) {
	router := newTestRouter(t)
	token := loginAsAdmin(t, router)

	rec := doJSON(t, router, http.MethodPost, "/estimates/draft", token, map[string]string{
		"brief": "two-bedroom refresh",
	})
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestWhatsAppWebhookUnavailableWithoutTwilio(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/whatsapp", bytes.NewBufferString("From=whatsapp%3A%2B14155550100&Body=hi"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
