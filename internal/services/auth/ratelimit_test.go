// filepath: internal/services/auth/ratelimit_test.go
package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_LockoutAfterMaxAttempts(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute, time.Minute)
	defer rl.Stop()

	for i := 0; i < 2; i++ {
		locked, _ := rl.RecordFailure("1.2.3.4", "jane")
		assert.False(t, locked)

		allowed, _ := rl.Allow("1.2.3.4", "jane")
		assert.True(t, allowed)
	}

	locked, retryAfter := rl.RecordFailure("1.2.3.4", "jane")
	assert.True(t, locked)
	assert.Equal(t, time.Minute, retryAfter)

	allowed, wait := rl.Allow("1.2.3.4", "jane")
	assert.False(t, allowed)
	assert.Greater(t, wait, time.Duration(0))
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute, time.Minute)
	defer rl.Stop()

	rl.RecordFailure("1.2.3.4", "jane")

	// Different IP, same username.
	allowed, _ := rl.Allow("5.6.7.8", "jane")
	assert.True(t, allowed)

	// Same IP, different username.
	allowed, _ = rl.Allow("1.2.3.4", "john")
	assert.True(t, allowed)
}

func TestRateLimiter_SuccessClearsRecord(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute, time.Minute)
	defer rl.Stop()

	rl.RecordFailure("1.2.3.4", "jane")
	rl.RecordSuccess("1.2.3.4", "jane")

	locked, _ := rl.RecordFailure("1.2.3.4", "jane")
	assert.False(t, locked)
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/token", nil)
	r.RemoteAddr = "10.1.2.3:4444"
	assert.Equal(t, "10.1.2.3", ClientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", ClientIP(r))
}

func TestGenerateSecret(t *testing.T) {
	a, err := GenerateSecret()
	require.NoError(t, err)
	b, err := GenerateSecret()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}
