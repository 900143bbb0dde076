package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/chatbot-pro/chatd/pkg/logger"
)

func newObservedLogger() (*logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.InfoLevel)
	return &logger.Logger{Logger: zap.New(core)}, logs
}

func TestLoggingRecordsRequestFields(t *testing.T) {
	log, logs := newObservedLogger()

	handler := Logging(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/conversations", nil)
	req.Header.Set("X-Correlation-ID", "corr-1")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, "corr-1", rec.Header().Get("X-Correlation-ID"))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "request completed", entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/api/v1/conversations", fields["path"])
	assert.EqualValues(t, http.StatusTeapot, fields["status"])
	assert.EqualValues(t, len("short and stout"), fields["bytes"])
	assert.Equal(t, "corr-1", fields["correlation_id"])

	// The access log runs outside the auth layer and carries no user
	// identity; user-scoped events log their own user_id.
	_, ok := fields["user_id"]
	assert.False(t, ok)
}

func TestLoggingGeneratesCorrelationID(t *testing.T) {
	log, logs := newObservedLogger()

	handler := Logging(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	generated := rec.Header().Get("X-Correlation-ID")
	assert.NotEmpty(t, generated)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, generated, logs.All()[0].ContextMap()["correlation_id"])
}
