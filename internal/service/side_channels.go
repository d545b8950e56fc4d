package service

import (
	"context"

	"github.com/spec-kit/support-tickets/internal/cache"
	"github.com/spec-kit/support-tickets/internal/notify"
	"github.com/spec-kit/support-tickets/internal/worker"
)

// Side-channel names used in logs and metrics.
const (
	ChannelCache  = "cache"
	ChannelNotify = "notify"
)

// SideChannels runs best-effort work after the primary write has committed.
// Submit must not block; a rejected job is simply lost.
type SideChannels interface {
	Submit(channel string, fn worker.Job) bool
}

// sideEffects holds the best-effort collaborators shared by the services.
type sideEffects struct {
	runner   SideChannels
	cache    cache.Cache
	notifier notify.Notifier
}

func (s sideEffects) cachePut(key string, record any) {
	if s.cache == nil || s.runner == nil {
		return
	}
	s.runner.Submit(ChannelCache, func(ctx context.Context) error {
		return s.cache.Put(ctx, key, record)
	})
}

func (s sideEffects) notify(ticketID int64) {
	if s.notifier == nil || s.runner == nil {
		return
	}
	s.runner.Submit(ChannelNotify, func(ctx context.Context) error {
		return s.notifier.Send(ctx, ticketID)
	})
}
