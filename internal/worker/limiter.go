package worker

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

const defaultConversation = "default"

// Limiter implements per-conversation rate limiting. Each conversation
// gets its own token bucket so one noisy session cannot starve others.
type Limiter struct {
	limiters     map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a new rate limiter
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}

	return &Limiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  rate.Limit(requestsPerSecond),
		defaultBurst: burst,
	}
}

// Wait blocks until the conversation is allowed another request
func (l *Limiter) Wait(ctx context.Context, conversationID string) error {
	return l.getLimiter(conversationKey(conversationID)).Wait(ctx)
}

// Allow checks if a request is allowed without waiting
func (l *Limiter) Allow(conversationID string) bool {
	return l.getLimiter(conversationKey(conversationID)).Allow()
}

func (l *Limiter) getLimiter(key string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[key]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists := l.limiters[key]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[key] = limiter

	return limiter
}

// SetConversationRate sets a custom rate limit for a specific conversation
func (l *Limiter) SetConversationRate(conversationID string, requestsPerSecond float64, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if burst <= 0 {
		burst = l.defaultBurst
	}

	l.limiters[conversationKey(conversationID)] = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}

func conversationKey(conversationID string) string {
	if conversationID == "" {
		return defaultConversation
	}
	return conversationID
}
