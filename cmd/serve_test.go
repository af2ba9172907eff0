package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/colcmp/internal/report"
)

func TestRouterHealth(t *testing.T) {
	router := newRouter(testEnv(t))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestRouterLocations(t *testing.T) {
	router := newRouter(testEnv(t))

	req := httptest.NewRequest(http.MethodGet, "/api/locations", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var body []locationJSON
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body, 4)
	assert.Equal(t, "metro", body[0].Kind)
	assert.Equal(t, "12060", body[0].Code)
}

func TestRouterSearch(t *testing.T) {
	router := newRouter(testEnv(t))

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=new+york", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var body []locationJSON
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Len(t, body, 2)
}

func TestRouterSearchMissingQuery(t *testing.T) {
	router := newRouter(testEnv(t))

	req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "q parameter is required")
}

func TestRouterSearchNoMatch(t *testing.T) {
	router := newRouter(testEnv(t))

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=gotham", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRouterCompare(t *testing.T) {
	router := newRouter(testEnv(t))

	payload, err := json.Marshal(compareRequest{
		Metros:  []string{"12060", "35620"},
		Income:  80000,
		Methods: []string{"linear"},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/compare", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var rep report.Report
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rep))
	require.Len(t, rep.Locations, 2)
	require.Len(t, rep.Equivalences, 1)
	assert.InDelta(t, 120000, rep.Equivalences[0].Result, 1e-6)
}

func TestRouterCompareInvalidBody(t *testing.T) {
	router := newRouter(testEnv(t))

	req := httptest.NewRequest(http.MethodPost, "/api/compare", bytes.NewReader([]byte("{")))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid request body")
}

func TestRouterCompareUnknownLocation(t *testing.T) {
	router := newRouter(testEnv(t))

	payload, err := json.Marshal(compareRequest{Metros: []string{"00000"}})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/compare", bytes.NewReader(payload))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
