package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"taskboard/internal/core/cache"
	"taskboard/internal/domain"
)

func taskKey(id string) string { return "task:" + id }
func userKey(id string) string { return "user:" + id }

// lookups serves single-record reads through the optional cache. Every write
// path calls forget for the records it touched.
type lookups struct {
	store domain.Store
	cache *cache.Cache
	ttl   time.Duration
	log   *zap.Logger
}

func (l *lookups) task(ctx context.Context, id string) (*domain.Task, error) {
	return cache.GetOrLoadJSON(l.cache, ctx, taskKey(id), l.ttl, func(ctx context.Context) (*domain.Task, error) {
		return l.store.Tasks().FindActive(ctx, id)
	})
}

func (l *lookups) user(ctx context.Context, id string) (*domain.User, error) {
	return cache.GetOrLoadJSON(l.cache, ctx, userKey(id), l.ttl, func(ctx context.Context) (*domain.User, error) {
		return l.store.Users().FindActive(ctx, id)
	})
}

func (l *lookups) forget(ctx context.Context, keys ...string) {
	if err := l.cache.Del(ctx, keys...); err != nil {
		l.log.Warn("cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

// view resolves the assignee of t. A soft-deleted assignee resolves to null.
func (l *lookups) view(ctx context.Context, t *domain.Task) (*domain.TaskView, error) {
	v := &domain.TaskView{Task: *t}
	if t.AssigneeID == nil {
		return v, nil
	}
	u, err := l.user(ctx, *t.AssigneeID)
	if err != nil {
		return nil, domain.Internal("load assignee failed", err)
	}
	v.Assignee = u
	return v, nil
}
