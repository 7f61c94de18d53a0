package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aryanchaturvedi13/Social-Media-Management/internal/domain"
	goredis "github.com/redis/go-redis/v9"
)

const DefaultLikeDebounce = 500 * time.Millisecond

// LikeDebouncer allows one like toggle per (user, post) per window. The
// window is shared by every replica through Redis.
type LikeDebouncer struct {
	rdb    *goredis.Client
	window time.Duration
}

var _ domain.LikeDebouncer = (*LikeDebouncer)(nil)

func NewLikeDebouncer(rdb *goredis.Client, window time.Duration) *LikeDebouncer {
	if window <= 0 {
		window = DefaultLikeDebounce
	}
	return &LikeDebouncer{rdb: rdb, window: window}
}

// Allow claims the (user, post) window. It returns false when the window is
// already claimed.
func (d *LikeDebouncer) Allow(ctx context.Context, userID, postID string) (bool, error) {
	args := goredis.SetArgs{TTL: d.window, Mode: "NX"}
	err := d.rdb.SetArgs(ctx, likeDebounceKey(userID, postID), "1", args).Err()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to set like debounce: %w", err)
	}
	return true, nil
}

func likeDebounceKey(userID, postID string) string {
	return "debounce:like:" + userID + ":" + postID
}
