package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/tablelens/internal/config"
	"github.com/KaramelBytes/tablelens/internal/logger"
)

const sampleCSV = "a,b\n1,x\n2,x\n3,y\n,z\n"

func newTestServer(t *testing.T, mutate ...func(*config.Global)) *Server {
	t.Helper()
	cfg := config.Defaults()
	cfg.RateLimitPerMin = 0
	for _, m := range mutate {
		m(cfg)
	}
	s := New(cfg, logger.New("error", "text", io.Discard))
	s.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func uploadRequest(t *testing.T, path, field, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestUploadEndpoints(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		path string
		want string
	}{
		{"/upload", `{"column_types":{"a":"numeric","b":"text"}}`},
		{"/audit", `{"missing_values_per_column":{"a":1,"b":0},"duplicate_rows_count":0,"health_score":87.5}`},
		{"/stats", `{"numeric_column_stats":{"a":{"mean":2,"min":1,"max":3,"total":6}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := serve(s, uploadRequest(t, tt.path, "file", "sales.csv", []byte(sampleCSV)))
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.want, rec.Body.String())
		})
	}
}

func TestAnalyzeEndpoint_PreservesKeyOrder(t *testing.T) {
	s := newTestServer(t)
	rec := serve(s, uploadRequest(t, "/analyze", "file", "sales.CSV", []byte(sampleCSV)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, `{"column_types":{"a":"numeric","b":"text"},"audit":`), body)
	out := decode(t, rec)
	assert.Contains(t, out, "chart_suggestions")
	assert.Len(t, out["insights"], 3)
}

func TestDashboardEndpoint(t *testing.T) {
	s := newTestServer(t)
	rec := serve(s, uploadRequest(t, "/dashboard", "file", "sales.csv", []byte(sampleCSV)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	out := decode(t, rec)
	assert.Equal(t, map[string]any{
		"rows":         float64(4),
		"columns":      float64(2),
		"generated_at": "2026-03-01T12:00:00Z",
	}, out["meta"])
	assert.Equal(t, []any{}, out["anomalies"])
}

func TestAnalyzeEndpoint_LargeValues(t *testing.T) {
	s := newTestServer(t)
	rec := serve(s, uploadRequest(t, "/analyze", "file", "big.csv", []byte("v\n1e200\n-1e200\n")))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	out := decode(t, rec)
	anomalies := out["anomalies"].(map[string]any)["v"].(map[string]any)
	assert.Equal(t, 1e200, anomalies["std_dev"])
	assert.Equal(t, 2e200, anomalies["threshold"])
}

func TestRespondJSON_EncodeFailureIs500(t *testing.T) {
	rec := httptest.NewRecorder()
	respondJSON(rec, http.StatusOK, map[string]float64{"x": math.Inf(1)})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"detail":"Internal server error."}`, rec.Body.String())
}

func TestDashboardEndpoint_ListsFlaggedColumns(t *testing.T) {
	csv := "v,w\n" + strings.Repeat("10,1\n10,2\n", 4) + "10,1\n100,1\n"
	s := newTestServer(t)
	rec := serve(s, uploadRequest(t, "/dashboard", "file", "spikes.csv", []byte(csv)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	out := decode(t, rec)
	assert.Equal(t, []any{map[string]any{"column": "v", "count": float64(1)}}, out["anomalies"])
}

func TestUploadErrors(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name     string
		field    string
		filename string
		content  string
		detail   string
	}{
		{"wrong field", "upload", "sales.csv", sampleCSV, "Please choose a CSV file in field 'file'."},
		{"wrong extension", "file", "sales.txt", sampleCSV, "Please upload a CSV file."},
		{"not utf-8", "file", "sales.csv", "name\nJos\xe9\n", "CSV must be UTF-8 encoded."},
		{"empty file", "file", "sales.csv", "", "Invalid CSV content: No columns to parse from file"},
		{"ragged rows", "file", "sales.csv", "a,b\n1,2\n1,2,3\n", "Invalid CSV content: Expected 2 fields in line 3, saw 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(s, uploadRequest(t, "/analyze", tt.field, tt.filename, []byte(tt.content)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.detail, decode(t, rec)["detail"])
		})
	}
}

func TestUpload_NotMultipart(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/audit", strings.NewReader(sampleCSV))
	req.Header.Set("Content-Type", "text/csv")
	rec := serve(s, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, detailMissingFile, decode(t, rec)["detail"])
}

func TestUpload_TooLarge(t *testing.T) {
	s := newTestServer(t, func(c *config.Global) { c.MaxUploadMB = 1 })
	big := bytes.Repeat([]byte("1\n"), 1<<20)
	rec := serve(s, uploadRequest(t, "/upload", "file", "big.csv", append([]byte("v\n"), big...)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, detailTooLarge, decode(t, rec)["detail"])
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, func(c *config.Global) {
		c.RateLimitPerMin = 2
		c.TrustProxyHeaders = true
	})
	for i := 0; i < 2; i++ {
		rec := serve(s, uploadRequest(t, "/upload", "file", "a.csv", []byte(sampleCSV)))
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := serve(s, uploadRequest(t, "/upload", "file", "a.csv", []byte(sampleCSV)))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	// Other clients and the health check keep their own budget.
	req := uploadRequest(t, "/upload", "file", "a.csv", []byte(sampleCSV))
	req.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.1")
	assert.Equal(t, http.StatusOK, serve(s, req).Code)
	assert.Equal(t, http.StatusOK, serve(s, httptest.NewRequest(http.MethodGet, "/health", nil)).Code)
}

func TestRateLimit_IgnoresForwardedHeadersByDefault(t *testing.T) {
	s := newTestServer(t, func(c *config.Global) { c.RateLimitPerMin = 2 })
	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		req := uploadRequest(t, "/upload", "file", "a.csv", []byte(sampleCSV))
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
		req.Header.Set("X-Real-IP", fmt.Sprintf("198.51.100.%d", i))
		codes = append(codes, serve(s, req).Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
	assert.Equal(t, 1, s.limiter.size())
}

func TestIPLimiter_EvictsIdleClients(t *testing.T) {
	l := newIPLimiter(5)
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first := l.get("192.0.2.1", t0)
	l.get("192.0.2.2", t0.Add(5*time.Minute))
	assert.Same(t, first, l.get("192.0.2.1", t0.Add(6*time.Minute)))
	assert.Equal(t, 2, l.size())

	// .2 was last seen at +5m and .1 at +6m; only .2 is idle past the TTL.
	l.get("192.0.2.3", t0.Add(15*time.Minute+30*time.Second))
	assert.Equal(t, 2, l.size())
	assert.Same(t, first, l.get("192.0.2.1", t0.Add(15*time.Minute+30*time.Second)))

	l.get("192.0.2.4", t0.Add(40*time.Minute))
	assert.Equal(t, 1, l.size())
}

func TestRequestIDIsEchoed(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	assert.Equal(t, "abc-123", serve(s, req).Header().Get(RequestIDHeader))
}

func TestRecoverPanics(t *testing.T) {
	s := newTestServer(t)
	h := s.recoverPanics(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"detail":"Internal server error."}`, rec.Body.String())
}

func TestOpenAPI(t *testing.T) {
	s := newTestServer(t)
	first := serve(s, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))
	require.Equal(t, http.StatusOK, first.Code)
	second := serve(s, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))
	assert.Equal(t, first.Body.String(), second.Body.String())

	doc := decode(t, first)
	paths := doc["paths"].(map[string]any)
	for _, p := range []string{"/health", "/upload", "/audit", "/analyze", "/stats", "/dashboard"} {
		assert.Contains(t, paths, p)
	}
	responses := paths["/analyze"].(map[string]any)["post"].(map[string]any)["responses"].(map[string]any)
	assert.Len(t, responses, 2)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	rec := serve(s, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tablelens_http_requests_total")
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/analyze", nil)
	req.Header.Set("Origin", "https://dashboard.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := serve(s, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	s := newTestServer(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestNew_NilLogger(t *testing.T) {
	s := New(config.Defaults(), nil)
	assert.Equal(t, logrus.PanicLevel, s.log.GetLevel())
}
