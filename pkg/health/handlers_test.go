package health

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func probe(t *testing.T, c *Checker, handler http.HandlerFunc, path string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestLivenessHandler(t *testing.T) {
	t.Parallel()

	c := NewChecker()

	// Liveness does not depend on readiness.
	for _, ready := range []bool{false, true} {
		c.SetReady(ready)
		rec := probe(t, c, c.LivenessHandler, "/healthz")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", rec.Body.String())
	}
}

func TestReadinessHandler(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		transitions    []bool
		expectedStatus int
		expectedBody   string
	}{
		"not ready by default": {
			transitions:    nil,
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   "not ready",
		},
		"ready after SetReady": {
			transitions:    []bool{true},
			expectedStatus: http.StatusOK,
			expectedBody:   "ok",
		},
		"readiness can be revoked": {
			transitions:    []bool{true, false},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   "not ready",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			c := NewChecker()
			for _, ready := range test.transitions {
				c.SetReady(ready)
			}

			rec := probe(t, c, c.ReadinessHandler, "/readyz")
			assert.Equal(t, test.expectedStatus, rec.Code)
			assert.Equal(t, test.expectedBody, rec.Body.String())
		})
	}
}
