package obs

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseRecorderTracksStatusAndBytes(t *testing.T) {
	rec := httptest.NewRecorder()
	wrapped, recorder := NewResponseRecorder(rec)

	wrapped.WriteHeader(http.StatusTeapot)
	wrapped.WriteHeader(http.StatusOK) // ignored, first write wins
	wrapped.Write([]byte("hello"))

	assert.Equal(t, http.StatusTeapot, recorder.StatusCode())
	assert.Equal(t, int64(5), recorder.RespBytes())
	assert.True(t, recorder.WroteHeader())
}

func TestResponseRecorderDefaultsTo200(t *testing.T) {
	rec := httptest.NewRecorder()
	wrapped, recorder := NewResponseRecorder(rec)

	wrapped.Write([]byte("ok"))
	assert.Equal(t, http.StatusOK, recorder.StatusCode())
}

func TestRequestContextMiddlewareSetsRequestID(t *testing.T) {
	var got Correlation
	handler := RequestContextMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = CorrelationFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/v3/notes", nil))

	assert.NotEmpty(t, got.RequestID)
	assert.Equal(t, got.RequestID, rec.Header().Get("X-Request-Id"))
}

func TestRequestContextMiddlewarePropagatesTraceparent(t *testing.T) {
	var got Correlation
	handler := RequestContextMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = CorrelationFromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/v3/notes", nil)
	req.Header.Set("traceparent", "00-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331-01")

	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "0af7651916cd43dd8448eb211c80319c", got.TraceID)
	assert.Equal(t, got.TraceID, got.RequestID, "trace id doubles as request id when no explicit header")
}

func TestExtractTraceID(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"00-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331-01", "0af7651916cd43dd8448eb211c80319c"},
		{"00-00000000000000000000000000000000-b7ad6b7169203331-01", ""},
		{"garbage", ""},
		{"", ""},
		{"00-SHORT-b7ad6b7169203331-01", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, extractTraceID(tc.in), "input %q", tc.in)
	}
}

func TestAccessLogMiddlewareEmitsOneEvent(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutputForTests(&buf)
	defer restore()

	handler := AccessLogMiddleware("http", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"ok":true}`))
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/v3/notes", nil))

	var event map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &event))
	assert.Equal(t, "http_access", event["msg"])
	assert.Equal(t, "POST", event["method"])
	assert.Equal(t, "/v3/notes", event["path"])
	assert.Equal(t, float64(http.StatusCreated), event["status"])
}
