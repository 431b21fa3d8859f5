package testutil

import (
	"context"
	"time"

	"github.com/facepass-lab/backend/pkg/xredis"
)

type MockRedisClient struct {
	DelFunc    func(ctx context.Context, key ...string) error
	SetFunc    func(ctx context.Context, key, value string, ttl time.Duration) error
	SetObjFunc func(ctx context.Context, key string, obj any, ttl time.Duration) error
	GetFunc    func(ctx context.Context, key string) (string, error)
	GetObjFunc func(ctx context.Context, key string, v any) error
	IncrFunc   func(ctx context.Context, key string) (int64, error)
}

func (m *MockRedisClient) Del(ctx context.Context, key ...string) error {
	if m.DelFunc != nil {
		return m.DelFunc(ctx, key...)
	}

	return nil
}

func (m *MockRedisClient) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}

	return nil
}

func (m *MockRedisClient) SetObj(ctx context.Context, key string, obj any, ttl time.Duration) error {
	if m.SetObjFunc != nil {
		return m.SetObjFunc(ctx, key, obj, ttl)
	}

	return nil
}

func (m *MockRedisClient) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}

	return "", xredis.ErrNil
}

func (m *MockRedisClient) GetObj(ctx context.Context, key string, v any) error {
	if m.GetObjFunc != nil {
		return m.GetObjFunc(ctx, key, v)
	}

	return xredis.ErrNil
}

func (m *MockRedisClient) Incr(ctx context.Context, key string) (int64, error) {
	if m.IncrFunc != nil {
		return m.IncrFunc(ctx, key)
	}

	return 0, nil
}
