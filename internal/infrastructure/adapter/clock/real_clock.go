package clock

import (
	"context"
	"time"

	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/port/core"
)

// RealClock implements the TimeProvider interface with real time operations
type RealClock struct{}

// NewRealClock creates a time provider backed by the system clock
func NewRealClock() core.TimeProvider {
	return &RealClock{}
}

// Now returns the current time
func (c *RealClock) Now() time.Time {
	return time.Now()
}

// Since returns the time elapsed since t
func (c *RealClock) Since(t time.Time) time.Duration {
	return time.Since(t)
}

// WithTimeout returns a context that is canceled after the specified timeout
func (c *RealClock) WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}
