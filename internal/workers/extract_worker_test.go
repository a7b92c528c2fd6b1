package workers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoff(t *testing.T) {
	assert.Equal(t, time.Second, Backoff(1))
	assert.Equal(t, 2*time.Second, Backoff(2))
	assert.Equal(t, 4*time.Second, Backoff(3))
	assert.Equal(t, 8*time.Second, Backoff(4))
}

func TestBackoffCapped(t *testing.T) {
	assert.Equal(t, 30*time.Second, Backoff(10))
	assert.Equal(t, 30*time.Second, Backoff(63))
}

func TestBackoffLowAttempts(t *testing.T) {
	assert.Equal(t, time.Second, Backoff(0))
	assert.Equal(t, time.Second, Backoff(-1))
}
