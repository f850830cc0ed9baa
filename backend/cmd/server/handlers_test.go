package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ewenmichel/wdiw/backend/internal/agent"
	apperrors "github.com/ewenmichel/wdiw/backend/pkg/errors"
)

func TestHealthEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := newRouter(nil, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "ok", response["status"])
}

func TestCreateCompany_MalformedJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := newRouter(nil, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/companies", bytes.NewBufferString(`{not json`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateTag_MalformedJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := newRouter(nil, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/tags", bytes.NewBufferString(`[]`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetCompany_InvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := newRouter(nil, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/companies/abc", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "Invalid company id", response["error"])
}

func TestUpdateCompany_InvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := newRouter(nil, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/api/companies/not-a-number", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResearch_NotConfigured(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := newRouter(nil, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/agent/research", bytes.NewBufferString(`{"company":"Acme"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestResearch_MissingCompany(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := newRouter(nil, &agent.Researcher{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/agent/research", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := newRouter(nil, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("OPTIONS", "/api/companies", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apperrors.NewValidation("name", "must not be empty"), http.StatusBadRequest},
		{"not found", apperrors.NewNotFound("company", 42), http.StatusNotFound},
		{"constraint", apperrors.NewConstraint("Company", "name", errors.New("already exists")), http.StatusConflict},
		{"agent stage", apperrors.NewAgentFailed("search", errors.New("no results")), http.StatusBadGateway},
		{"llm", apperrors.NewLLMFailed("gpt-4o-mini", 3, errors.New("timeout")), http.StatusBadGateway},
		{"database", apperrors.NewDatabase("create company", errors.New("boom")), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorStatus(tt.err))
		})
	}
}
