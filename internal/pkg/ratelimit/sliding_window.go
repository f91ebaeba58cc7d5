// Package ratelimit implements a sliding-window rate limiter keyed by
// caller identity.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/FACorreiaa/tripweaver/internal/app/ports"
)

// SlidingWindow tracks request timestamps per caller and allows at most
// maxRequests within a trailing window.
type SlidingWindow struct {
	clients map[string]*clientWindow
	mu      sync.RWMutex
	logger  *zap.Logger

	maxRequests     int
	window          time.Duration
	cleanupInterval time.Duration
}

type clientWindow struct {
	requests []time.Time
	mu       sync.Mutex
	lastSeen time.Time
}

// NewSlidingWindow creates a limiter allowing maxRequests per window
// for each identifier. A background goroutine evicts idle clients.
func NewSlidingWindow(logger *zap.Logger, maxRequests int, window time.Duration) *SlidingWindow {
	if logger == nil {
		logger = zap.NewNop()
	}
	sw := &SlidingWindow{
		clients:         make(map[string]*clientWindow),
		logger:          logger,
		maxRequests:     maxRequests,
		window:          window,
		cleanupInterval: window * 2,
	}
	go sw.cleanup()
	return sw
}

// Check records a request for identifier if the budget allows it and
// returns the decision. ResetAt is when the oldest counted request
// leaves the window.
func (sw *SlidingWindow) Check(_ context.Context, identifier string) (ports.RateLimitDecision, error) {
	sw.mu.RLock()
	client, exists := sw.clients[identifier]
	sw.mu.RUnlock()

	if !exists {
		sw.mu.Lock()
		// Re-check under the write lock; another goroutine may have won.
		client, exists = sw.clients[identifier]
		if !exists {
			client = &clientWindow{
				requests: make([]time.Time, 0, sw.maxRequests),
			}
			sw.clients[identifier] = client
		}
		sw.mu.Unlock()
	}

	client.mu.Lock()
	defer client.mu.Unlock()

	now := time.Now()
	client.lastSeen = now

	cutoff := now.Add(-sw.window)
	valid := client.requests[:0]
	for _, t := range client.requests {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}
	client.requests = valid

	if len(client.requests) >= sw.maxRequests {
		resetAt := client.requests[0].Add(sw.window)
		sw.logger.Warn("Rate limit exceeded",
			zap.String("identifier", identifier),
			zap.Int("requests", len(client.requests)),
			zap.Int("max_requests", sw.maxRequests),
			zap.Duration("window", sw.window))
		return ports.RateLimitDecision{Allowed: false, ResetAt: resetAt}, nil
	}

	client.requests = append(client.requests, now)
	return ports.RateLimitDecision{Allowed: true, ResetAt: now.Add(sw.window)}, nil
}

// cleanup removes idle client entries periodically.
func (sw *SlidingWindow) cleanup() {
	ticker := time.NewTicker(sw.cleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		sw.mu.Lock()
		now := time.Now()
		for id, client := range sw.clients {
			client.mu.Lock()
			if now.Sub(client.lastSeen) > sw.window*2 {
				delete(sw.clients, id)
			}
			client.mu.Unlock()
		}
		sw.mu.Unlock()
	}
}
