package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inmomap/server/internal/appraise"
	"inmomap/server/internal/catalog"
	"inmomap/server/internal/geocoding"
	"inmomap/server/internal/handoff"
	"inmomap/server/internal/history"
	"inmomap/server/internal/maps"
	"inmomap/server/internal/models"
	"inmomap/server/internal/notify"
	"inmomap/server/internal/search"
)

type stubSource []*models.Property

func (s stubSource) Fetch() ([]*models.Property, error) {
	return s, nil
}

type fakeGeocoder struct {
	calls   int
	results []geocoding.Result
}

func (f *fakeGeocoder) Search(query string) ([]geocoding.Result, error) {
	f.calls++
	return f.results, nil
}

type testEnv struct {
	router   *gin.Engine
	history  *history.Store
	geocoder *fakeGeocoder
	state    *maps.MapState
}

func sampleProperties() []*models.Property {
	return []*models.Property{
		{ID: "1", Title: "Casa Linda", Price: "S/ 2,500", Location: "Miraflores", Type: "casa", Contract: "alquiler", Coords: models.Coordinate{-12.1, -77.02}},
		{ID: "2", Title: "Departamento Moderno", Price: "S/ 450,000", Location: "San Isidro", Type: "departamento", Contract: "venta", Coords: models.Coordinate{-12.09, -77.03}},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := logrus.New()

	cat := catalog.New(logger)
	require.NoError(t, cat.Load(stubSource(sampleProperties())))

	state := maps.NewMapState(orb.Point{-77.0428, -12.0464}, 13)
	mapSync := maps.NewMapSync(state, time.Minute, logger)
	t.Cleanup(mapSync.Close)

	historyStore := history.NewStore(logger)
	mapSync.OnSelect(historyStore.Visit)
	mapSync.InitOverlays(maps.BuildOverlays(cat.All()))
	mapSync.Render(cat.All())

	geocoder := &fakeGeocoder{}
	resolver := search.NewResolver(cat, geocoder, logger)

	notifications := notify.NewStore(cat.FindByID, logger)

	handoffStore, err := handoff.Open(filepath.Join(t.TempDir(), "handoff.db"), logger)
	require.NoError(t, err)
	appraisal := appraise.NewService(cat, handoffStore, logger)

	handler := NewHandler(Stores{
		Catalog:       cat,
		MapSync:       mapSync,
		MapState:      state,
		History:       historyStore,
		Notifications: notifications,
		Resolver:      resolver,
		Appraisal:     appraisal,
		SearchZoom:    15,
	}, logger)

	router := gin.New()
	SetupRoutes(router, handler)

	return &testEnv{
		router:   router,
		history:  historyStore,
		geocoder: geocoder,
		state:    state,
	}
}

func (e *testEnv) request(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestGetProperties(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodGet, "/api/properties", "")
	require.Equal(t, http.StatusOK, w.Code)

	var properties []models.Property
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &properties))
	assert.Len(t, properties, 2)

	w = env.request(t, http.MethodGet, "/api/properties?tipo=casa&contrato=alquiler", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &properties))
	require.Len(t, properties, 1)
	assert.Equal(t, "Casa Linda", properties[0].Title)
}

func TestGetProperty(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodGet, "/api/properties/1", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, http.MethodGet, "/api/properties/999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFilterMapRerenders(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/map/filter", `{"tipo":"casa"}`)
	require.Equal(t, http.StatusOK, w.Code)

	snap := env.state.Snapshot()
	require.Len(t, snap.Markers, 1)
	assert.Equal(t, "1", snap.Markers[0].ID)

	// Clearing the filter restores every marker
	w = env.request(t, http.MethodPost, "/api/map/filter", `{}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, env.state.Snapshot().Markers, 2)
}

func TestSelectMarkerRecordsHistory(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/map/select/1", "")
	require.Equal(t, http.StatusOK, w.Code)

	entries := env.history.List()
	require.Len(t, entries, 1)
	assert.Equal(t, "1", entries[0].ID)

	w = env.request(t, http.MethodPost, "/api/map/select/999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestToggleOverlay(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/map/overlays/traffic", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, env.state.Snapshot().Overlays, 1)

	w = env.request(t, http.MethodPost, "/api/map/overlays/traffic", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, env.state.Snapshot().Overlays)

	w = env.request(t, http.MethodPost, "/api/map/overlays/parks", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearchLocalMatchFocusesMap(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/search", `{"query":"san isidro"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "local", response["kind"])

	snap := env.state.Snapshot()
	assert.Equal(t, 15, snap.Zoom)
	assert.Equal(t, orb.Point{-77.03, -12.09}, snap.Center)
	assert.Equal(t, 0, env.geocoder.calls)
}

func TestSearchNoMatch(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/search", `{"query":"  \t "}`)
	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "none", response["kind"])
	assert.Equal(t, 0, env.geocoder.calls)
}

func TestHistoryEndpoints(t *testing.T) {
	env := newTestEnv(t)

	env.request(t, http.MethodPost, "/api/map/select/1", "")
	env.request(t, http.MethodPost, "/api/map/select/2", "")
	env.request(t, http.MethodPost, "/api/map/select/1", "")

	w := env.request(t, http.MethodGet, "/api/history", "")
	require.Equal(t, http.StatusOK, w.Code)

	var entries []models.Property
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "2", entries[0].ID)
	assert.Equal(t, "1", entries[1].ID)

	w = env.request(t, http.MethodDelete, "/api/history/2", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, env.history.Len())
}

func TestNotificationEndpoints(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/notifications", `{"propertyId":"1","name":"Price drop","frequency":"daily"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Notification
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Casa Linda", created.PropertyName)

	// Presence checks on the request body
	w = env.request(t, http.MethodPost, "/api/notifications", `{"propertyId":"1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.request(t, http.MethodPut, "/api/notifications/"+created.ID, `{"frequency":"weekly"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, http.MethodPut, "/api/notifications/missing", `{"frequency":"weekly"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.request(t, http.MethodDelete, "/api/notifications/"+created.ID, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, http.MethodGet, "/api/notifications", "")
	var list []models.Notification
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Empty(t, list)
}

func TestAppraisalEndpoints(t *testing.T) {
	env := newTestEnv(t)

	// Without a handoff the first catalog property is shown
	w := env.request(t, http.MethodGet, "/api/appraisal", "")
	require.Equal(t, http.StatusOK, w.Code)

	var shown models.Property
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &shown))
	assert.Equal(t, "1", shown.ID)

	w = env.request(t, http.MethodPost, "/api/appraisal/select/2", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, http.MethodGet, "/api/appraisal", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &shown))
	assert.Equal(t, "2", shown.ID)

	w = env.request(t, http.MethodPost, "/api/appraisal/select/999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
