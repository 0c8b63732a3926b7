// Package health exposes the liveness and readiness endpoints.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Checker represents dependencies that can be probed for readiness.
type Checker interface {
	// PingStorage probes the article store. Always nil for the in-memory driver.
	PingStorage(ctx context.Context, timeout time.Duration) error
	// PingCache probes Redis. Nil when no cache is configured.
	PingCache(ctx context.Context, timeout time.Duration) error
}

// Handler exposes HTTP handlers for health endpoints.
type Handler struct {
	Checker        Checker
	StorageTimeout time.Duration
	CacheTimeout   time.Duration
}

// Live reports liveness status.
func (h Handler) Live(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ready reports readiness based on dependency probes.
func (h Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.Checker == nil {
		http.Error(w, "dependencies unavailable", http.StatusServiceUnavailable)
		return
	}
	ctx := r.Context()
	storageStatus := "ok"
	if err := h.Checker.PingStorage(ctx, h.storageTimeout()); err != nil {
		storageStatus = err.Error()
	}
	cacheStatus := "ok"
	if err := h.Checker.PingCache(ctx, h.cacheTimeout()); err != nil {
		cacheStatus = err.Error()
	}
	status := map[string]string{
		"storage": storageStatus,
		"cache":   cacheStatus,
	}
	w.Header().Set("Content-Type", "application/json")
	if storageStatus != "ok" || cacheStatus != "ok" {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	_ = json.NewEncoder(w).Encode(status)
}

func (h Handler) storageTimeout() time.Duration {
	if h.StorageTimeout <= 0 {
		return 500 * time.Millisecond
	}
	return h.StorageTimeout
}

func (h Handler) cacheTimeout() time.Duration {
	if h.CacheTimeout <= 0 {
		return 300 * time.Millisecond
	}
	return h.CacheTimeout
}
