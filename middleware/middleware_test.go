package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/wyfcoding/montecarlo/metrics"
	"github.com/wyfcoding/montecarlo/xerrors"
)

type fixedGen struct{}

func (fixedGen) Generate() int64         { return 42 }
func (fixedGen) GenerateString() string { return "42" }

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	return r
}

func do(r http.Handler, method, path string, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRequestID(t *testing.T) {
	r := newEngine(RequestID(fixedGen{}))
	r.GET("/id", func(c *gin.Context) {
		c.String(http.StatusOK, RequestIDFromContext(c.Request.Context()))
	})

	rec := do(r, http.MethodGet, "/id", "", nil)
	assert.Equal(t, "42", rec.Body.String())
	assert.Equal(t, "42", rec.Header().Get(HeaderXRequestID))

	rec = do(r, http.MethodGet, "/id", "", map[string]string{HeaderXRequestID: "abc"})
	assert.Equal(t, "abc", rec.Body.String())
}

func TestRecovery(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	r := newEngine(Recovery(logger))
	r.GET("/panic", func(*gin.Context) { panic("boom") })

	rec := do(r, http.MethodGet, "/panic", "", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHTTPErrorHandler(t *testing.T) {
	r := newEngine(HTTPErrorHandler())
	r.GET("/err", func(c *gin.Context) {
		_ = c.Error(xerrors.Errorf(xerrors.ErrSymbolNotFound, "TSLA"))
	})
	r.GET("/plain", func(c *gin.Context) { _ = c.Error(errors.New("boom")) })

	rec := do(r, http.MethodGet, "/err", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "TSLA", body["detail"])

	rec = do(r, http.MethodGet, "/plain", "", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMaxBodyBytes(t *testing.T) {
	r := newEngine(MaxBodyBytes(8))
	r.POST("/echo", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodPost, "/echo", "small", nil).Code)
	assert.Equal(t, http.StatusRequestEntityTooLarge, do(r, http.MethodPost, "/echo", "much too large", nil).Code)
}

func TestRateLimit(t *testing.T) {
	r := newEngine(RateLimit(rate.Every(time.Hour), 2, slog.New(slog.DiscardHandler)))
	r.POST("/v1/run", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodPost, "/v1/run", "", nil).Code)
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodPost, "/v1/run", "", nil).Code)

	rec := do(r, http.MethodPost, "/v1/run", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "too many requests", body["msg"])
}

func TestRateLimitDisabled(t *testing.T) {
	r := newEngine(RateLimit(0, 0, nil))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	for range 5 {
		assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/", "", nil).Code)
	}
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	m := metrics.NewMetrics()
	r := newEngine(HTTPMetricsMiddleware(m, MetricsOptions{SkipPaths: []string{"/healthz"}}))
	r.GET("/v1/things/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	do(r, http.MethodGet, "/v1/things/1", "", nil)
	do(r, http.MethodGet, "/v1/things/2", "", nil)
	do(r, http.MethodGet, "/healthz", "", nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/v1/things/:id", "200")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/healthz", "200")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.HTTPInFlight))
}

func TestLoggerMarksSlowRequests(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	r := newEngine(RequestID(fixedGen{}), Logger(logger, time.Nanosecond))
	r.GET("/slow", func(c *gin.Context) {
		time.Sleep(time.Millisecond)
		c.Status(http.StatusOK)
	})

	do(r, http.MethodGet, "/slow", "", nil)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "slow http request", entry["msg"])
	assert.Equal(t, "42", entry["request_id"])
}
