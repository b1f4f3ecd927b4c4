package redis

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wattwise/HomeAudit-Intelligence/internal/testutil"
	audittypes "github.com/wattwise/HomeAudit-Intelligence/pkg/types/audit"
)

// Without a client the cache must behave as a transparent pass-through; the
// server keeps running when Redis is down.

func TestResultCacheNilClient(t *testing.T) {
	c := NewResultCache(nil, "wattwise:", time.Minute, testutil.NewMockLogger())
	ctx := context.Background()

	res, ok := c.Get(ctx, "a-1")
	assert.Nil(t, res)
	assert.False(t, ok)

	// Set and Invalidate must not panic.
	c.Set(ctx, &audittypes.AnalysisResult{AuditID: "a-1"})
	c.Invalidate(ctx, "a-1")

	want := &audittypes.AnalysisResult{AuditID: "a-1"}
	got, err := c.GetOrCompute(ctx, "a-1", func(context.Context) (*audittypes.AnalysisResult, error) {
		return want, nil
	})
	require.NoError(t, err)
	assert.Same(t, want, got)
}

func TestGetOrComputePropagatesComputeError(t *testing.T) {
	c := NewResultCache(nil, "", time.Minute, testutil.NewMockLogger())

	_, err := c.GetOrCompute(context.Background(), "a-2", func(context.Context) (*audittypes.AnalysisResult, error) {
		return nil, assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
}

func TestGetOrComputeCollapsesConcurrentCallers(t *testing.T) {
	c := NewResultCache(nil, "", time.Minute, testutil.NewMockLogger())
	ctx := context.Background()

	var computes atomic.Int32
	release := make(chan struct{})
	compute := func(context.Context) (*audittypes.AnalysisResult, error) {
		computes.Add(1)
		<-release
		return &audittypes.AnalysisResult{AuditID: "a-3"}, nil
	}

	const callers = 8
	var wg sync.WaitGroup
	results := make([]*audittypes.AnalysisResult, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.GetOrCompute(ctx, "a-3", compute)
		}(i)
	}

	// Give the goroutines time to pile onto the same flight before release.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), computes.Load())
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		require.NotNil(t, results[i])
		assert.Equal(t, results[0], results[i])
	}
}

func TestCacheKeyUsesPrefix(t *testing.T) {
	c := NewResultCache(nil, "wattwise:", time.Minute, nil)
	assert.Equal(t, "wattwise:analysis:a-9", c.key("a-9"))
}
