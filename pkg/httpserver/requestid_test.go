package httpserver_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/formguard/pkg/httpserver"
	"github.com/dmitrymomot/formguard/pkg/logger"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	serve := func(header string) (ctxID, respID string) {
		h := httpserver.RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			ctxID, _ = logger.RequestID(r.Context())
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set(httpserver.RequestIDHeader, header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return ctxID, rec.Header().Get(httpserver.RequestIDHeader)
	}

	t.Run("reuses a valid id", func(t *testing.T) {
		t.Parallel()
		ctxID, respID := serve("edge-42_a")
		assert.Equal(t, "edge-42_a", ctxID)
		assert.Equal(t, "edge-42_a", respID)
	})

	for name, header := range map[string]string{
		"missing":    "",
		"bad chars":  "a b<script>",
		"path":       "../etc/passwd",
		"too long":   strings.Repeat("a", 129),
		"line break": "a\nb",
	} {
		t.Run("generates for "+name, func(t *testing.T) {
			t.Parallel()
			ctxID, respID := serve(header)
			assert.Equal(t, ctxID, respID)
			_, err := uuid.Parse(ctxID)
			assert.NoError(t, err)
		})
	}
}
