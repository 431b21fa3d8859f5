package xredis

import (
	"context"
	"time"
)

// noopClient stores nothing. It is used when no redis address is configured,
// so every read is a miss.
type noopClient struct{}

func NewNoopClient() *noopClient {
	return &noopClient{}
}

func (noopClient) Del(context.Context, ...string) error                     { return nil }
func (noopClient) Set(context.Context, string, string, time.Duration) error { return nil }
func (noopClient) SetObj(context.Context, string, any, time.Duration) error { return nil }
func (noopClient) Get(context.Context, string) (string, error)              { return "", ErrNil }
func (noopClient) GetObj(context.Context, string, any) error                { return ErrNil }
func (noopClient) Incr(context.Context, string) (int64, error)              { return 0, nil }
