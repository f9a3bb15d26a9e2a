package devproxy

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/4oBuko/spy-cat-console/internal/agencytest"
	"github.com/4oBuko/spy-cat-console/internal/models"
	"github.com/4oBuko/spy-cat-console/internal/slogx"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProxy(t *testing.T, target string, rateLimit float64) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	server, err := NewServer(Config{Addr: ":0", Target: target, RateLimit: rateLimit}, slogx.Discard())
	require.NoError(t, err)
	return server
}

func TestForwardsAPIRequests(t *testing.T) {
	agency, upstream := agencytest.Start("Tabby")
	defer upstream.Close()
	agency.Seed(models.CatCreate{Name: "Silky", Breed: "Tabby", YearsOfExperience: 2, Salary: 500})
	proxy := newProxy(t, upstream.URL, 0)

	t.Run("list passes through", func(t *testing.T) {
		response := httptest.NewRecorder()
		proxy.Handler().ServeHTTP(response, httptest.NewRequest(http.MethodGet, "/api/cats/", nil))
		require.Equal(t, http.StatusOK, response.Code)

		var cats []models.Cat
		require.NoError(t, json.Unmarshal(response.Body.Bytes(), &cats))
		require.Len(t, cats, 1)
		assert.Equal(t, "Silky", cats[0].Name)
		assert.NotEmpty(t, response.Header().Get(slogx.RequestIDHeader))
	})

	t.Run("bodies and methods are preserved", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodPut, "/api/cats/1", strings.NewReader(`{"salary":700}`))
		request.Header.Set("Content-Type", "application/json")
		response := httptest.NewRecorder()
		proxy.Handler().ServeHTTP(response, request)
		require.Equal(t, http.StatusOK, response.Code)

		sent := agency.RequestsTo(http.MethodPut, "/api/cats/1")
		require.Len(t, sent, 1)
		assert.JSONEq(t, `{"salary":700}`, string(sent[0].Body))
	})

	t.Run("paths outside api are not forwarded", func(t *testing.T) {
		before := len(agency.Requests())
		response := httptest.NewRecorder()
		proxy.Handler().ServeHTTP(response, httptest.NewRequest(http.MethodGet, "/cats", nil))
		assert.Equal(t, http.StatusNotFound, response.Code)
		assert.Len(t, agency.Requests(), before)
	})
}

func TestHealth(t *testing.T) {
	proxy := newProxy(t, "http://127.0.0.1:8000", 0)
	response := httptest.NewRecorder()
	proxy.Handler().ServeHTTP(response, httptest.NewRequest(http.MethodGet, Endpoints.Health, nil))
	assert.Equal(t, http.StatusOK, response.Code)
	assert.JSONEq(t, `{"status":"ok","target":"http://127.0.0.1:8000"}`, response.Body.String())
}

func TestUnreachableAgency(t *testing.T) {
	proxy := newProxy(t, "http://127.0.0.1:1", 0)
	response := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/api/cats/", nil)
	request.Header.Set(slogx.RequestIDHeader, "01TRACE")
	proxy.Handler().ServeHTTP(response, request)
	assert.Equal(t, http.StatusBadGateway, response.Code)
	assert.JSONEq(t, `{"detail":"agency unreachable","request_id":"01TRACE"}`, response.Body.String())
}

func TestRateLimit(t *testing.T) {
	_, upstream := agencytest.Start()
	defer upstream.Close()
	proxy := newProxy(t, upstream.URL, 1)

	first := httptest.NewRecorder()
	proxy.Handler().ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/cats/", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	proxy.Handler().ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/cats/", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))

	health := httptest.NewRecorder()
	proxy.Handler().ServeHTTP(health, httptest.NewRequest(http.MethodGet, Endpoints.Health, nil))
	assert.Equal(t, http.StatusOK, health.Code, "health is not limited")
}

func TestInvalidTarget(t *testing.T) {
	_, err := NewServer(Config{Target: "127.0.0.1:8000"}, slogx.Discard())
	assert.Error(t, err)
}
