package speed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_FirstSampleEmits(t *testing.T) {
	start := time.Unix(1000, 0)
	tr := NewTracker(start, 500*time.Millisecond)

	speed, ok := tr.Sample(start.Add(time.Second), 2*1024*1024)
	assert.True(t, ok)
	assert.InDelta(t, 2.0, speed, 1e-9)
}

func TestTracker_RateLimited(t *testing.T) {
	start := time.Unix(1000, 0)
	tr := NewTracker(start, 500*time.Millisecond)

	_, ok := tr.Sample(start.Add(100*time.Millisecond), 1024)
	assert.True(t, ok)

	// Within the interval: suppressed
	_, ok = tr.Sample(start.Add(400*time.Millisecond), 4096)
	assert.False(t, ok)

	// Exactly one interval later is still suppressed
	_, ok = tr.Sample(start.Add(600*time.Millisecond), 8192)
	assert.False(t, ok)

	_, ok = tr.Sample(start.Add(601*time.Millisecond), 8192)
	assert.True(t, ok)
}

func TestTracker_AverageSinceStart(t *testing.T) {
	start := time.Unix(1000, 0)
	tr := NewTracker(start, 500*time.Millisecond)

	// 10 MB over 4 seconds is 2.5 MB/s regardless of how it arrived
	speed, ok := tr.Sample(start.Add(4*time.Second), 10*1024*1024)
	assert.True(t, ok)
	assert.InDelta(t, 2.5, speed, 1e-9)
}

func TestTracker_ZeroElapsedSkipped(t *testing.T) {
	start := time.Unix(1000, 0)
	tr := NewTracker(start, 500*time.Millisecond)

	_, ok := tr.Sample(start, 1024)
	assert.False(t, ok)
	assert.Zero(t, tr.last)
}

func TestTracker_HoldsBetweenEmits(t *testing.T) {
	start := time.Unix(1000, 0)
	tr := NewTracker(start, 500*time.Millisecond)

	v, ok := tr.Sample(start.Add(time.Second), 1024*1024)
	require.True(t, ok)
	assert.InDelta(t, 1.0, v, 1e-9)

	// More bytes inside the window do not move the reported speed
	v, ok = tr.Sample(start.Add(1200*time.Millisecond), 4*1024*1024)
	assert.False(t, ok)
	assert.InDelta(t, 1.0, v, 1e-9)
}

func TestTracker_DefaultInterval(t *testing.T) {
	tr := NewTracker(time.Now(), 0)
	assert.Equal(t, 500*time.Millisecond, tr.interval)
}
