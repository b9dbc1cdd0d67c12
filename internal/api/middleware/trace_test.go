package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/tasktrack/internal/api/shared"
	"github.com/phrazzld/tasktrack/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceMiddleware(t *testing.T) {
	base, buf := logger.NewTestLogger(t)

	var traceID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).Info("handled")
	})

	rec := httptest.NewRecorder()
	TraceMiddleware(base)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Len(t, traceID, 32)
	assert.Equal(t, traceID, rec.Header().Get(TraceHeader))

	entries, err := buf.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, traceID, e["trace_id"])
	}
}
