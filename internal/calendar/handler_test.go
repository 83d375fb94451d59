package calendar

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkhayef/fellowship/internal/access"
	"github.com/fkhayef/fellowship/pkg/middleware"
	"github.com/fkhayef/fellowship/pkg/response"
)

func serve(t *testing.T, svc *Service, viewer access.Viewer, method, path string, body any) (*httptest.ResponseRecorder, response.APIResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req = req.WithContext(middleware.WithViewer(req.Context(), viewer))
	rec := httptest.NewRecorder()

	r := chi.NewRouter()
	r.Mount("/events", NewHandler(svc).Routes())
	r.ServeHTTP(rec, req)

	var resp response.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestHandler_CreateAndMonth(t *testing.T) {
	fx := newFixture()

	rec, resp := serve(t, fx.svc, fx.leader, http.MethodPost, "/events", CreateEventRequest{
		Title: "Leaders meeting", StartDate: "2026-03-12T19:00:00Z", EndDate: "2026-03-12T21:00:00Z", Visibility: "leaders",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "2026-03-12T21:00:00Z", resp.Data.(map[string]any)["end_date"])

	rec, resp = serve(t, fx.svc, fx.leader, http.MethodGet, "/events?year=2026&month=3", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, resp.Data.(map[string]any)["events"], 1)

	rec, resp = serve(t, fx.svc, fx.member, http.MethodGet, "/events", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, resp.Data.(map[string]any)["events"])
}

func TestHandler_BadInput(t *testing.T) {
	fx := newFixture()

	rec, _ := serve(t, fx.svc, fx.member, http.MethodGet, "/events?month=march", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = serve(t, fx.svc, fx.member, http.MethodGet, "/events?month=0&year=2026", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = serve(t, fx.svc, fx.member, http.MethodPost, "/events", CreateEventRequest{
		Title: "Retreat", StartDate: "2026-03-12T19:00:00Z", EndDate: "2026-03-11T19:00:00Z", Visibility: "public",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, resp := serve(t, fx.svc, fx.member, http.MethodPost, "/events", CreateEventRequest{
		Title: "Retreat", StartDate: "2026-03-12T19:00:00Z", Visibility: "admin",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", resp.Error.Code)
}
