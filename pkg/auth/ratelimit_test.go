package auth

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoginLimiter(t *testing.T) {
	t.Parallel()
	l := NewLoginLimiter(1, 2)

	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"), "each address has its own budget")
}

func TestLoginLimiter_Disabled(t *testing.T) {
	t.Parallel()
	l := NewLoginLimiter(0, 0)

	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow("10.0.0.1"))
	}
	assert.Equal(t, 0, l.size())
}

func TestLoginLimiter_DropsIdleAddresses(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, time.March, 10, 15, 30, 0, 0, time.UTC)
	l := NewLoginLimiter(10, 5)
	l.now = func() time.Time { return now }

	for i := 0; i < 50; i++ {
		l.Allow(fmt.Sprintf("10.0.1.%d", i))
	}
	assert.Equal(t, 50, l.size())

	now = now.Add(limiterIdle)
	assert.True(t, l.Allow("10.0.0.9"))
	assert.Equal(t, 1, l.size())
}

func TestLoginLimiter_KeepsThrottledAddressUntilRefilled(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, time.March, 10, 15, 30, 0, 0, time.UTC)
	// one attempt per minute with a burst of 20 takes 20 minutes to refill
	l := NewLoginLimiter(1, 20)
	l.now = func() time.Time { return now }

	for i := 0; i < 20; i++ {
		assert.True(t, l.Allow("10.0.0.1"))
	}
	assert.False(t, l.Allow("10.0.0.1"))

	now = now.Add(limiterIdle)
	l.Allow("10.0.0.2")
	assert.Equal(t, 2, l.size(), "a throttled address keeps its limiter while it refills")
}
