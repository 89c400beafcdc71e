// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/cropguard/internal/devserver"
	"github.com/MKhiriev/cropguard/models"
)

type record = map[string]any

func create(t *testing.T, router *chi.Mux, token, resource string, body record) record {
	t.Helper()
	rr := do(t, router, http.MethodPost, "/api/"+resource+"/", body, token)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[record](t, rr)
}

// ---- CRUD ----

func TestResources_CRUD(t *testing.T) {
	router, h := newTestRouter(t)
	token := loginTestUser(t, h).Access

	farm := create(t, router, token, devserver.ResourceFarms, record{"name": "North plot", "region": "Nakuru"})
	assert.EqualValues(t, 1, farm["id"])
	assert.Equal(t, "North plot", farm["name"])

	rr := do(t, router, http.MethodGet, "/api/farms/1/", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Nakuru", decode[record](t, rr)["region"])

	rr = do(t, router, http.MethodPatch, "/api/farms/1/", record{"name": "South plot"}, token)
	require.Equal(t, http.StatusOK, rr.Code)
	updated := decode[record](t, rr)
	assert.Equal(t, "South plot", updated["name"])
	assert.Equal(t, "Nakuru", updated["region"])

	rr = do(t, router, http.MethodPut, "/api/farms/1/", record{"crop_type": "maize"}, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "maize", decode[record](t, rr)["crop_type"])

	rr = do(t, router, http.MethodDelete, "/api/farms/1/", nil, token)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.Bytes())

	rr = do(t, router, http.MethodGet, "/api/farms/1/", nil, token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestResources_BadRequests(t *testing.T) {
	router, h := newTestRouter(t)
	token := loginTestUser(t, h).Access

	tests := []struct {
		name     string
		method   string
		target   string
		body     any
		wantCode int
	}{
		{name: "non-numeric id", method: http.MethodGet, target: "/api/farms/abc/", wantCode: http.StatusBadRequest},
		{name: "zero id", method: http.MethodDelete, target: "/api/alerts/0/", wantCode: http.StatusBadRequest},
		{name: "broken body", method: http.MethodPost, target: "/api/weather/", body: `[1,2`, wantCode: http.StatusBadRequest},
		{name: "missing record", method: http.MethodPatch, target: "/api/detections/42/", body: record{"notes": "x"}, wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, router, tt.method, tt.target, tt.body, token)
			assert.Equal(t, tt.wantCode, rr.Code, rr.Body.String())
		})
	}
}

// ---- list ----

func TestResources_ListPagingAndFilters(t *testing.T) {
	router, h := newTestRouter(t)
	token := loginTestUser(t, h).Access

	for i := range 5 {
		region := "Nakuru"
		if i%2 == 1 {
			region = "Kisumu"
		}
		create(t, router, token, devserver.ResourceFarms, record{"name": fmt.Sprintf("Plot %d", i+1), "region": region})
	}

	rr := do(t, router, http.MethodGet, "/api/farms/?page=2&page_size=2", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	page := decode[models.Page[record]](t, rr)
	assert.Equal(t, 5, page.Count)
	require.Len(t, page.Results, 2)
	assert.Equal(t, "Plot 3", page.Results[0]["name"])
	require.NotNil(t, page.Next)
	assert.Equal(t, testPublicURL+"/api/farms/?page=3&page_size=2", *page.Next)
	require.NotNil(t, page.Previous)
	assert.Equal(t, testPublicURL+"/api/farms/?page=1&page_size=2", *page.Previous)

	rr = do(t, router, http.MethodGet, "/api/farms/?region=Kisumu", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	page = decode[models.Page[record]](t, rr)
	assert.Equal(t, 2, page.Count)
	assert.Nil(t, page.Next)
	assert.Nil(t, page.Previous)

	rr = do(t, router, http.MethodGet, "/api/farms/?search=plot+4", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	page = decode[models.Page[record]](t, rr)
	require.Equal(t, 1, page.Count)
	assert.Equal(t, "Plot 4", page.Results[0]["name"])

	// страница за пределами выборки
	rr = do(t, router, http.MethodGet, "/api/farms/?page=9", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	page = decode[models.Page[record]](t, rr)
	assert.NotNil(t, page.Results)
	assert.Empty(t, page.Results)
}

// ---- farm extras ----

func TestFarmWeatherAndRecentDetections(t *testing.T) {
	router, h := newTestRouter(t)
	token := loginTestUser(t, h).Access

	create(t, router, token, devserver.ResourceFarms, record{"name": "North plot"})
	create(t, router, token, devserver.ResourceFarms, record{"name": "South plot"})

	create(t, router, token, devserver.ResourceWeather, record{"farm": 1, "condition": "rain"})
	create(t, router, token, devserver.ResourceWeather, record{"farm": 2, "condition": "sun"})
	create(t, router, token, devserver.ResourceWeather, record{"farm": 1, "condition": "fog"})
	for i := range 7 {
		create(t, router, token, devserver.ResourceDetections, record{"farm": 1, "detected_disease": fmt.Sprintf("d%d", i+1)})
	}

	rr := do(t, router, http.MethodGet, "/api/farms/1/weather/", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	weather := decode[[]record](t, rr)
	require.Len(t, weather, 2)
	assert.Equal(t, "fog", weather[0]["condition"])

	rr = do(t, router, http.MethodGet, "/api/farms/1/recent_detections/", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	recent := decode[[]record](t, rr)
	require.Len(t, recent, topN)
	assert.Equal(t, "d7", recent[0]["detected_disease"])

	rr = do(t, router, http.MethodGet, "/api/farms/2/recent_detections/", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode[[]record](t, rr))

	rr = do(t, router, http.MethodGet, "/api/farms/9/weather/", nil, token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// ---- detections ----

func TestConfirmAndFeedbackDetection(t *testing.T) {
	router, h := newTestRouter(t)
	token := loginTestUser(t, h).Access
	create(t, router, token, devserver.ResourceDetections, record{"detected_disease": "leaf rust"})

	rr := do(t, router, http.MethodPost, "/api/detections/1/confirm/", models.DetectionConfirmation{IsCorrect: true}, token)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, router, http.MethodPost, "/api/detections/1/feedback/", models.DetectionFeedback{Rating: 4, Comment: "spot on"}, token)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, router, http.MethodGet, "/api/detections/1/", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	got := decode[record](t, rr)
	assert.Equal(t, true, got["is_confirmed"])
	assert.Equal(t, record{"rating": float64(4), "comment": "spot on"}, got["feedback"])

	rr = do(t, router, http.MethodPost, "/api/detections/1/feedback/", models.DetectionFeedback{Rating: 6}, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, router, http.MethodPost, "/api/detections/5/confirm/", models.DetectionConfirmation{}, token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// ---- alerts ----

func TestAlerts_UnreadAndMarkRead(t *testing.T) {
	router, h := newTestRouter(t)
	token := loginTestUser(t, h).Access

	create(t, router, token, devserver.ResourceAlerts, record{"title": "Frost"})
	create(t, router, token, devserver.ResourceAlerts, record{"title": "Rust", "is_read": false})
	create(t, router, token, devserver.ResourceAlerts, record{"title": "Old", "is_read": true})
	create(t, router, token, devserver.ResourceAlerts, record{"title": "Hail"})

	rr := do(t, router, http.MethodGet, "/api/alerts/unread/", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]record](t, rr), 3)

	rr = do(t, router, http.MethodPost, "/api/alerts/1/mark_read/", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, router, http.MethodPost, "/api/alerts/mark_all_read/", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, map[string]int{"updated": 2}, decode[map[string]int](t, rr))

	rr = do(t, router, http.MethodGet, "/api/alerts/unread/", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode[[]record](t, rr))

	rr = do(t, router, http.MethodPost, "/api/alerts/99/mark_read/", nil, token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// ---- market prices / recommendations ----

func TestTrendingPrices(t *testing.T) {
	router, h := newTestRouter(t)
	token := loginTestUser(t, h).Access

	for i, change := range []float64{1.5, -12, 3, 0, 8.25, -4, 20} {
		create(t, router, token, devserver.ResourceMarketPrices, record{"crop": fmt.Sprintf("c%d", i), "change_percentage": change})
	}

	rr := do(t, router, http.MethodGet, "/api/market-prices/trending/", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	trending := decode[[]record](t, rr)
	require.Len(t, trending, topN)

	var changes []float64
	for _, rec := range trending {
		changes = append(changes, rec["change_percentage"].(float64))
	}
	assert.Equal(t, []float64{20, -12, 8.25, -4, 3}, changes)
}

func TestApplyRecommendation(t *testing.T) {
	router, h := newTestRouter(t)
	token := loginTestUser(t, h).Access
	create(t, router, token, devserver.ResourceRecommendations, record{"title": "Spray fungicide"})

	rr := do(t, router, http.MethodPost, "/api/recommendations/1/apply/", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, map[string]string{"status": "applied"}, decode[map[string]string](t, rr))

	rr = do(t, router, http.MethodGet, "/api/recommendations/1/", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, true, decode[record](t, rr)["is_applied"])

	rr = do(t, router, http.MethodPost, "/api/recommendations/2/apply/", nil, token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
