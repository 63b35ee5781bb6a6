package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/studydev/studydev/internal/api/shared"
	"github.com/studydev/studydev/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceMiddleware_UsesChiRequestID(t *testing.T) {
	log, buf := logger.GetTestLogger(t)

	var traceID, requestID string
	handler := chimiddleware.RequestID(NewTraceMiddleware(log)(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			traceID = shared.GetTraceID(r.Context())
			requestID = logger.RequestID(r.Context())
			logger.FromContext(r.Context()).Info("inside handler")
		})))

	req := httptest.NewRequest(http.MethodGet, "/api/cards", nil)
	req.Header.Set(chimiddleware.RequestIDHeader, "req-42")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "req-42", traceID)
	assert.Equal(t, "req-42", requestID)
	assert.Contains(t, buf.String(), `"request_id":"req-42"`)
}

func TestTraceMiddleware_GeneratesID(t *testing.T) {
	var traceID string
	handler := NewTraceMiddleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, traceID)
	assert.Len(t, traceID, 36)
}
