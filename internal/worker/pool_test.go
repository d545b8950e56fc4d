package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestPoolRunsJobsBeforeClose(t *testing.T) {
	p := NewPool(2, 16, time.Second, zap.NewNop(), nil)
	var count atomic.Int32
	for i := 0; i < 10; i++ {
		require.True(t, p.Submit("cache", func(context.Context) error {
			count.Add(1)
			return nil
		}))
	}
	p.Close()
	assert.Equal(t, int32(10), count.Load())
}

func TestPoolLogsFailures(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	p := NewPool(1, 4, time.Second, zap.New(core), nil)
	p.Submit("notify", func(context.Context) error { return errors.New("redis down") })
	p.Submit("notify", func(context.Context) error { panic("boom") })
	p.Close()

	assert.Equal(t, 1, logs.FilterMessage("side channel call failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("side channel panic").Len())
}

func TestPoolAppliesTimeout(t *testing.T) {
	p := NewPool(1, 1, 20*time.Millisecond, zap.NewNop(), nil)
	var gotErr atomic.Value
	p.Submit("cache", func(ctx context.Context) error {
		<-ctx.Done()
		gotErr.Store(ctx.Err())
		return ctx.Err()
	})
	p.Close()
	assert.ErrorIs(t, gotErr.Load().(error), context.DeadlineExceeded)
}

func TestPoolDropsWhenFull(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	p := NewPool(1, 1, time.Second, zap.NewNop(), nil)

	require.True(t, p.Submit("cache", func(context.Context) error {
		close(started)
		<-release
		return nil
	}))
	<-started
	require.True(t, p.Submit("cache", func(context.Context) error { return nil }))
	assert.False(t, p.Submit("cache", func(context.Context) error { return nil }))

	close(release)
	p.Close()
}

func TestPoolRejectsAfterClose(t *testing.T) {
	p := NewPool(1, 1, time.Second, zap.NewNop(), nil)
	p.Close()
	assert.False(t, p.Submit("cache", func(context.Context) error { return nil }))
	p.Close()
}
