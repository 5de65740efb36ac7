// Package limits provides a guard that caps tool usage by call count
// and per-minute rate.
package limits

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/cloudsentry/aws-sentinel/internal/guard"
)

// Budget describes usage limits for a tool.
type Budget struct {
	// MaxTotal limits total calls over the process lifetime. Zero means unlimited.
	MaxTotal int
	// RatePerMinute limits calls per minute. Zero means unlimited.
	RatePerMinute int
}

type limiterState struct {
	count   int
	limiter *rate.Limiter
}

// Store keeps per-tool counters and rate limiters.
type Store struct {
	mu      sync.Mutex
	byTool  map[string]*limiterState
	name    string
	def     Budget
	budgets map[string]Budget
}

// New creates a limits guard. Tools listed in perTool get their own budget;
// everything else uses def.
func New(name string, def Budget, perTool map[string]Budget) *Store {
	return &Store{
		byTool:  make(map[string]*limiterState),
		name:    name,
		def:     def,
		budgets: perTool,
	}
}

// Name returns the guard name for audit and logging.
func (s *Store) Name() string {
	if s.name != "" {
		return s.name
	}
	return "limits"
}

// Check rate limits the tool usage.
func (s *Store) Check(_ context.Context, req guard.Request) (guard.Decision, error) {
	budget := s.def
	if b, ok := s.budgets[req.Tool]; ok {
		budget = b
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.byTool[req.Tool]
	if state == nil {
		state = &limiterState{}
		if budget.RatePerMinute > 0 {
			state.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(budget.RatePerMinute)), budget.RatePerMinute)
		}
		s.byTool[req.Tool] = state
	}

	if budget.MaxTotal > 0 && state.count >= budget.MaxTotal {
		return guard.Decision{Allowed: false, Reason: "maximum number of calls exceeded", Source: s.Name()}, nil
	}
	if state.limiter != nil && !state.limiter.Allow() {
		return guard.Decision{Allowed: false, Reason: "rate limit exceeded", Source: s.Name()}, nil
	}

	state.count++
	return guard.Decision{Allowed: true, Reason: "approved", Source: s.Name()}, nil
}
