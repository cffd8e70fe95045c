package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deppfellow/go-parameters/internal/config"
	"github.com/deppfellow/go-parameters/internal/errs"
	"github.com/deppfellow/go-parameters/internal/handler"
	"github.com/deppfellow/go-parameters/internal/middleware"
	"github.com/deppfellow/go-parameters/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, declared map[string]string) (*server.Server, *echo.Echo) {
	t.Helper()

	logger := zerolog.Nop()
	s, err := server.New(&config.Config{
		Primary: config.Primary{Env: "test"},
		Server: config.ServerConfig{
			Port:         "0",
			ReadTimeout:  1,
			WriteTimeout: 1,
			IdleTimeout:  1,
		},
		Params:        declared,
		Observability: config.DefaultObservabilityConfig(),
	}, &logger, nil)
	require.NoError(t, err)

	return s, NewRouter(s, handler.NewHandlers(s))
}

func get(e *echo.Echo, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestPage(t *testing.T) {
	_, e := newTestRouter(t, config.DefaultParams)

	tests := []struct {
		target string
		body   string
	}{
		{target: "/?id=42", body: "id as an u_int16_t: 42\n"},
		{target: "/?id=0", body: "id as an u_int16_t: 0\n"},
		{target: "/?id=65535", body: "id as an u_int16_t: 65535\n"},
		{target: "/?id=65536", body: ""},
		{target: "/?id=abc", body: ""},
		{target: "/?id=-1", body: ""},
		{target: "/?id=", body: ""},
		{target: "/", body: ""},
		{target: "/?other=1", body: ""},
		{target: "/?id=7&id=9", body: "id as an u_int16_t: 7\n"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(e, tt.target)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.body, rec.Body.String())
		})
	}
}

func TestPage_StringID(t *testing.T) {
	_, e := newTestRouter(t, map[string]string{"id": "string"})

	rec := get(e, "/?id=42")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "id as a string: '42'\n", rec.Body.String())
}

func TestListParams(t *testing.T) {
	_, e := newTestRouter(t, map[string]string{
		"id":   "uint16",
		"name": "string:alphanum",
	})

	t.Run("unknown dropped", func(t *testing.T) {
		rec := get(e, "/v1/params?id=42&extra=x")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"params":{"id":42},"rejected":[]}`, rec.Body.String())
	})

	t.Run("rejections reported", func(t *testing.T) {
		rec := get(e, "/v1/params?id=65536&name=bob")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t,
			`{"params":{"name":"bob"},"rejected":[{"field":"id","error":"must fit in uint16"}]}`,
			rec.Body.String())
	})

	t.Run("empty query", func(t *testing.T) {
		rec := get(e, "/v1/params")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"params":{},"rejected":[]}`, rec.Body.String())
	})
}

func TestStrictParams(t *testing.T) {
	_, e := newTestRouter(t, config.DefaultParams)

	rec := get(e, "/v1/params/strict?id=7")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"params":{"id":7},"rejected":[]}`, rec.Body.String())

	rec = get(e, "/v1/params/strict?id=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "BAD_REQUEST", body.Code)
	assert.True(t, body.Override)
	assert.Equal(t, []errs.FieldError{{Field: "id", Error: "must be a non-negative base-10 integer"}}, body.Errors)
}

func TestStrictParams_Required(t *testing.T) {
	_, e := newTestRouter(t, map[string]string{
		"id":   "uint16:required",
		"name": "string",
	})

	rec := get(e, "/v1/params/strict?name=x")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []errs.FieldError{{Field: "id", Error: "is required"}}, body.Errors)

	// the lenient endpoint does not enforce presence
	rec = get(e, "/v1/params?name=x")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get(e, "/docs/params.json")
	assert.Contains(t, rec.Body.String(), `"name":"id","in":"query","required":true`)
}

func TestNilSchema(t *testing.T) {
	s, e := newTestRouter(t, config.DefaultParams)
	s.Schema = nil
	e = NewRouter(s, handler.NewHandlers(s))

	rec := get(e, "/?id=42")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Parameter schema unavailable")

	rec = get(e, "/status")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestStatus(t *testing.T) {
	_, e := newTestRouter(t, config.DefaultParams)

	rec := get(e, "/status")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "test", body["environment"])

	checks := body["checks"].(map[string]any)
	assert.Equal(t, float64(1), checks["schema"].(map[string]any)["declared"])
	assert.Equal(t, "disabled", checks["new_relic"].(map[string]any)["status"])
}

func TestParamsDocs(t *testing.T) {
	_, e := newTestRouter(t, config.DefaultParams)

	rec := get(e, "/docs/params.json")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"parameters":[{
		"name":"id","in":"query","required":false,
		"schema":{"type":"integer","format":"int32","minimum":0,"maximum":65535}
	}]}`, rec.Body.String())
}

func TestUnknownRoute(t *testing.T) {
	_, e := newTestRouter(t, config.DefaultParams)

	rec := get(e, "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "NOT_FOUND", body.Code)
}

func TestRateLimitKeyedOnPeerAddress(t *testing.T) {
	s, _ := newTestRouter(t, config.DefaultParams)
	s.Config.Server.RateLimit = 1
	s.Config.Server.RateBurst = 1
	e := NewRouter(s, handler.NewHandlers(s))

	codes := map[int]int{}
	for _, xff := range []string{"203.0.113.1", "203.0.113.2", "203.0.113.3"} {
		req := httptest.NewRequest(http.MethodGet, "/v1/params?id=1", nil)
		req.Header.Set(echo.HeaderXForwardedFor, xff)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		codes[rec.Code]++
	}

	assert.Equal(t, map[int]int{http.StatusOK: 1, http.StatusTooManyRequests: 2}, codes)
}
