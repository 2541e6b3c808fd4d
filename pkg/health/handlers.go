// Package health provides liveness and readiness handlers for the HTTP
// gateway. The host is live as soon as it serves HTTP; it becomes ready once
// the child MCP session has finished initializing.
package health

import (
	"net/http"
	"sync/atomic"
)

type Checker struct {
	ready atomic.Bool
}

func NewChecker() *Checker {
	return &Checker{}
}

func (c *Checker) SetReady(ready bool) {
	c.ready.Store(ready)
}

func (c *Checker) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (c *Checker) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	if c.ready.Load() {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
		return
	}

	w.WriteHeader(http.StatusServiceUnavailable)
	_, _ = w.Write([]byte("not ready"))
}
