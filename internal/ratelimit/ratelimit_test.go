package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWait_FirstRequestImmediate(t *testing.T) {
	p := NewPerHost(1)
	start := time.Now()
	require.NoError(t, p.Wait(context.Background(), "https://repo1.maven.org/maven2"))
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestWait_SecondRequestToSameHostIsDelayed(t *testing.T) {
	p := NewPerHost(10) // 100ms between requests
	ctx := context.Background()
	require.NoError(t, p.Wait(ctx, "https://repo1.maven.org/a"))

	start := time.Now()
	require.NoError(t, p.Wait(ctx, "https://repo1.maven.org/b"))
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestWait_DistinctHostsNotCoupled(t *testing.T) {
	p := NewPerHost(10)
	ctx := context.Background()
	require.NoError(t, p.Wait(ctx, "https://repo1.maven.org/a"))

	start := time.Now()
	require.NoError(t, p.Wait(ctx, "https://mvnrepository.com/artifact"))
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestWait_Disabled(t *testing.T) {
	p := NewPerHost(0)
	start := time.Now()
	for i := 0; i < 100; i++ {
		require.NoError(t, p.Wait(context.Background(), "https://repo1.maven.org/a"))
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestWait_CanceledContext(t *testing.T) {
	p := NewPerHost(0.001)
	ctx := context.Background()
	require.NoError(t, p.Wait(ctx, "https://slow.example.com/a"))

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	err := p.Wait(canceled, "https://slow.example.com/b")
	assert.Error(t, err)
}

func TestWait_UnparseableURL(t *testing.T) {
	p := NewPerHost(1)
	assert.NoError(t, p.Wait(context.Background(), "not a url"))
}
