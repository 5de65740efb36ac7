package app

import (
	"net/http"
	"sync/atomic"
)

// Probes serves liveness and readiness endpoints.
type Probes struct {
	ready atomic.Bool
}

// SetReady marks the server as ready.
func (p *Probes) SetReady() {
	p.ready.Store(true)
}

// SetNotReady marks the server as not ready.
func (p *Probes) SetNotReady() {
	p.ready.Store(false)
}

// Healthz handles liveness probes.
func (p *Probes) Healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Readyz handles readiness probes.
func (p *Probes) Readyz(w http.ResponseWriter, _ *http.Request) {
	if p.ready.Load() {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
		return
	}
	w.WriteHeader(http.StatusServiceUnavailable)
	_, _ = w.Write([]byte("not ready"))
}
