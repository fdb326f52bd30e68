package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	pkgerrors "github.com/HansTydecks/fast-lessonplan/pkg/errors"
)

func TestNilClient_Unavailable(t *testing.T) {
	var c *Client
	ctx := context.Background()

	if _, ok, err := c.Get(ctx, "k"); ok || !errors.Is(err, pkgerrors.ErrCacheUnavailable) {
		t.Errorf("nil 客户端 Get 应返回 ErrCacheUnavailable，实际 ok=%v err=%v", ok, err)
	}
	if err := c.Set(ctx, "k", "v"); !errors.Is(err, pkgerrors.ErrCacheUnavailable) {
		t.Errorf("nil 客户端 Set 应返回 ErrCacheUnavailable，实际: %v", err)
	}
	allowed, err := c.CheckRateLimit(ctx, "k", 1, time.Minute)
	if !allowed || !errors.Is(err, pkgerrors.ErrCacheUnavailable) {
		t.Errorf("nil 客户端限流应放行并返回 ErrCacheUnavailable，实际 %v %v", allowed, err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("nil 客户端 Close 不应报错: %v", err)
	}
}
