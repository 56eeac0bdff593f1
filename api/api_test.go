package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutusiji/lantu-next/models"
	"github.com/tutusiji/lantu-next/services"
	"github.com/tutusiji/lantu-next/testutil"
)

const testOrigin = "http://localhost:5173"

type testServer struct {
	handler http.Handler
	seed    testutil.Catalogue
	token   string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := testutil.NewTestDatabase(t)
	seed := testutil.SeedCatalogue(t, db)
	require.NoError(t, db.UserRepo().Add(context.Background(), &models.User{Username: "admin", Password: "admin@999"}))

	cfg := map[string]string{
		"ADMIN_TOKEN_SECRET":    "test-secret",
		"ACCEPTED_ORIGINS":      testOrigin,
		"STORE_TIMEOUT_SECONDS": "2",
	}
	return &testServer{handler: newRouter(db, withConfig(cfg)), seed: seed}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(t *testing.T) {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/login", services.LoginRequest{Username: "admin", Password: "admin@999"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result services.LoginResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.True(t, result.Success)
	s.token = result.Token
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func itemNames(items []models.TechItem) []string {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	return names
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[HealthResponse](t, rec).Status)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
}

func TestPublicReads(t *testing.T) {
	s := newTestServer(t)

	layers := decode[[]models.Layer](t, s.do(t, http.MethodGet, "/layers", nil))
	require.Len(t, layers, 2)
	assert.Equal(t, "Frontend", layers[0].Name)

	items := decode[[]models.TechItem](t, s.do(t, http.MethodGet, "/tech-items?filter=missing", nil))
	assert.Equal(t, []string{"Svelte"}, itemNames(items))

	items = decode[[]models.TechItem](t, s.do(t, http.MethodGet, "/tech-items?filter=spa", nil))
	assert.Equal(t, []string{"React"}, itemNames(items))

	stats := decode[models.Stats](t, s.do(t, http.MethodGet, "/stats", nil))
	assert.Equal(t, models.Stats{Active: 2, Missing: 1, Total: 3, Coverage: "66.7"}, stats)

	dash := decode[models.Dashboard](t, s.do(t, http.MethodGet, "/dashboard", nil))
	assert.Len(t, dash.Layers, 2)
	assert.Len(t, dash.Categories, 3)
	assert.Len(t, dash.TechItems, 3)
	assert.Equal(t, "66.7", dash.Stats.Coverage)

	tags := decode[[]models.TagCount](t, s.do(t, http.MethodGet, "/tags", nil))
	require.NotEmpty(t, tags)
	assert.Equal(t, models.TagCount{Tag: "frontend", Count: 2}, tags[0])
}

func TestMutationsRequireToken(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic YWRtaW46YWRtaW5AOTk5"},
		{"garbage token", "Bearer not-a-jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/layer", bytes.NewReader([]byte(`{"name":"Data"}`)))
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			s.handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "error", decode[ErrorResponse](t, rec).Status)
		})
	}

	layers := decode[[]models.Layer](t, s.do(t, http.MethodGet, "/layers", nil))
	assert.Len(t, layers, 2)
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)

	wrong := s.do(t, http.MethodPost, "/login", services.LoginRequest{Username: "admin", Password: "admin"})
	unknown := s.do(t, http.MethodPost, "/login", services.LoginRequest{Username: "nobody", Password: "admin@999"})
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.JSONEq(t, wrong.Body.String(), unknown.Body.String())

	malformed := s.do(t, http.MethodPost, "/login", "{")
	assert.Equal(t, http.StatusBadRequest, malformed.Code)

	s.login(t)
	assert.NotEmpty(t, s.token)
}

func TestLayerLifecycle(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	rec := s.do(t, http.MethodPost, "/layer", services.CreateLayerRequest{Name: "  Data  ", Icon: "🗄️"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	layer := decode[models.Layer](t, rec)
	assert.Equal(t, "Data", layer.Name)
	assert.Equal(t, 3, layer.DisplayOrder)

	rec = s.do(t, http.MethodPost, "/layer", services.CreateLayerRequest{Name: "   "})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "name", decode[ErrorResponse](t, rec).Field)

	rename := "Storage"
	rec = s.do(t, http.MethodPut, fmt.Sprintf("/layer/%d", layer.ID), services.UpdateLayerRequest{Name: &rename})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Storage", decode[models.Layer](t, rec).Name)

	rec = s.do(t, http.MethodPut, "/layer/9999", services.UpdateLayerRequest{Name: &rename})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPut, "/layer/abc", services.UpdateLayerRequest{Name: &rename})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "layerID", decode[ErrorResponse](t, rec).Field)

	rec = s.do(t, http.MethodDelete, fmt.Sprintf("/layer/%d", s.seed.Layers[0].ID), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	report := decode[DeleteResponse](t, rec)
	assert.Equal(t, int64(1), report.Layers)
	assert.Equal(t, int64(3), report.Categories)
	assert.Equal(t, int64(3), report.TechItems)

	layers := decode[[]models.Layer](t, s.do(t, http.MethodGet, "/layers", nil))
	require.Len(t, layers, 2)
	assert.Equal(t, "Backend", layers[0].Name)
	assert.Equal(t, 1, layers[0].DisplayOrder)
	assert.Equal(t, 2, layers[1].DisplayOrder)
}

func TestCategoryAndSolution(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	body := `{"name":"Reference stack","layer_id":%d,"icon":{"kind":"layout","description":"Typical web app","columns":[{"id":"frontend","name":"Frontend","icon":"Layout"},{"id":"backend","name":"Backend","icon":"Server"}]}}`
	rec := s.do(t, http.MethodPost, "/category", fmt.Sprintf(body, s.seed.Layers[1].ID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	category := decode[models.Category](t, rec)
	assert.True(t, category.IsSolution())
	assert.Equal(t, 1, category.DisplayOrder)

	for _, item := range []services.CreateTechItemRequest{
		{Name: "Next.js", CategoryID: category.ID, Status: "active", Tags: "frontend"},
		{Name: "Go", CategoryID: category.ID, Status: "active", Tags: "backend, frontend"},
		{Name: "Terraform", CategoryID: category.ID, Status: "missing", Priority: "low"},
	} {
		rec := s.do(t, http.MethodPost, "/tech-item", item)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/category/%d/solution", category.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	view := decode[models.SolutionView](t, rec)
	require.Len(t, view.Columns, 2)
	assert.Equal(t, []string{"Next.js", "Go"}, itemNames(view.Columns[0].Items))
	assert.Equal(t, []string{"Go"}, itemNames(view.Columns[1].Items))
	assert.Equal(t, []string{"Terraform"}, itemNames(view.Unassigned))

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/category/%d/solution", s.seed.Categories[0].ID), nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "icon", decode[ErrorResponse](t, rec).Field)

	rec = s.do(t, http.MethodPost, "/category", `{"name":"Orphans","layer_id":9999,"icon":"Box"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodDelete, fmt.Sprintf("/category/%d", s.seed.Categories[0].ID), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, int64(3), decode[DeleteResponse](t, rec).TechItems)

	categories := decode[[]models.Category](t, s.do(t, http.MethodGet, "/categories", nil))
	var orders []int
	for _, c := range categories {
		if c.LayerID == s.seed.Layers[0].ID {
			orders = append(orders, c.DisplayOrder)
		}
	}
	assert.Equal(t, []int{1, 2}, orders)
}

func TestTechItemValidation(t *testing.T) {
	s := newTestServer(t)
	s.login(t)
	categoryID := s.seed.Categories[0].ID

	tests := []struct {
		name  string
		req   services.CreateTechItemRequest
		field string
	}{
		{"missing name", services.CreateTechItemRequest{CategoryID: categoryID, Status: "active"}, "name"},
		{"missing status", services.CreateTechItemRequest{Name: "Qwik", CategoryID: categoryID}, "status"},
		{"bad status", services.CreateTechItemRequest{Name: "Qwik", CategoryID: categoryID, Status: "retired"}, "status"},
		{"bad priority", services.CreateTechItemRequest{Name: "Qwik", CategoryID: categoryID, Status: "active", Priority: "urgent"}, "priority"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/tech-item", tt.req)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Equal(t, tt.field, decode[ErrorResponse](t, rec).Field)
		})
	}

	status := "missing"
	rec := s.do(t, http.MethodPut, fmt.Sprintf("/tech-item/%d", s.seed.TechItems[0].ID), services.UpdateTechItemRequest{Status: &status})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[models.TechItem](t, rec)
	assert.Equal(t, models.StatusMissing, updated.Status)
	assert.Equal(t, "React", updated.Name)

	rec = s.do(t, http.MethodDelete, fmt.Sprintf("/tech-item/%d", s.seed.TechItems[0].ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	items := decode[[]models.TechItem](t, s.do(t, http.MethodGet, "/tech-items", nil))
	assert.Equal(t, []string{"Vue", "Svelte"}, itemNames(items))
	assert.Equal(t, 1, items[0].DisplayOrder)
}

func TestReorder(t *testing.T) {
	s := newTestServer(t)
	s.login(t)
	react, vue, svelte := s.seed.TechItems[0], s.seed.TechItems[1], s.seed.TechItems[2]

	rec := s.do(t, http.MethodPost, "/reorder", services.ReorderRequest{
		Type: "tech-item",
		Updates: []models.OrderUpdate{
			{ID: svelte.ID, DisplayOrder: 1},
			{ID: react.ID, DisplayOrder: 2},
			{ID: vue.ID, DisplayOrder: 3},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	items := decode[[]models.TechItem](t, s.do(t, http.MethodGet, "/tech-items", nil))
	assert.Equal(t, []string{"Svelte", "React", "Vue"}, itemNames(items))

	rec = s.do(t, http.MethodPost, "/reorder", services.ReorderRequest{
		Type:    "tech-item",
		Updates: []models.OrderUpdate{{ID: vue.ID, DisplayOrder: 1}},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "updates", decode[ErrorResponse](t, rec).Field)

	rec = s.do(t, http.MethodPost, "/reorder", services.ReorderRequest{Type: "widget", Updates: []models.OrderUpdate{{ID: 1, DisplayOrder: 1}}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "type", decode[ErrorResponse](t, rec).Field)

	items = decode[[]models.TechItem](t, s.do(t, http.MethodGet, "/tech-items", nil))
	assert.Equal(t, []string{"Svelte", "React", "Vue"}, itemNames(items))
}

func TestMove(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	rec := s.do(t, http.MethodPost, "/reorder/move", services.MoveRequest{Type: "layer", From: 1, To: 0})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	moved := decode[MoveResponse](t, rec)
	assert.Equal(t, []models.OrderUpdate{
		{ID: s.seed.Layers[1].ID, DisplayOrder: 1},
		{ID: s.seed.Layers[0].ID, DisplayOrder: 2},
	}, moved.Updates)

	rec = s.do(t, http.MethodPost, "/reorder/move", services.MoveRequest{Type: "layer", From: 0, To: 0})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[MoveResponse](t, rec).Updates)

	rec = s.do(t, http.MethodPost, "/reorder/move", services.MoveRequest{Type: "category", ParentID: s.seed.Layers[0].ID, From: 5, To: 0})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "from", decode[ErrorResponse](t, rec).Field)
}

func TestDeleteTag(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	rec := s.do(t, http.MethodDelete, "/tag/frontend", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 2, decode[TagDeleteResponse](t, rec).Items)

	tags := decode[[]models.TagCount](t, s.do(t, http.MethodGet, "/tags", nil))
	assert.Equal(t, []models.TagCount{{Tag: "spa", Count: 1}}, tags)
}

func TestCORS(t *testing.T) {
	s := newTestServer(t)

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/layer", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "Authorization")
		rec := httptest.NewRecorder()
		s.handler.ServeHTTP(rec, req)
		return rec
	}

	allowed := preflight(testOrigin)
	assert.Equal(t, http.StatusOK, allowed.Code)
	assert.Equal(t, testOrigin, allowed.Header().Get("Access-Control-Allow-Origin"))

	blocked := preflight("https://evil.example")
	assert.Equal(t, http.StatusForbidden, blocked.Code)
	assert.Empty(t, blocked.Header().Get("Access-Control-Allow-Origin"))
}

func TestResponderWriteError(t *testing.T) {
	responder := NewResponder(testLogger(), "")

	rec := httptest.NewRecorder()
	responder.WriteError(rec, fmt.Errorf("boom"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal Server Error", decode[map[string]any](t, rec)["error"])
}

func TestSendErrorNotification(t *testing.T) {
	received := make(chan string, 1)
	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		received <- body["errorMessage"]
	}))
	defer webhook.Close()

	NewResponder(testLogger(), webhook.URL).SendErrorNotification("database down")
	assert.Equal(t, "database down", <-received)
}
