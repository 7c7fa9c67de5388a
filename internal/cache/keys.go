package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix         = "user:%d"
	PostKeyPrefix         = "post:%d"
	UserStatsKeyPrefix    = "user:%d:stats"
	TrendingTagsKey       = "trending:tags"
	ConversationKeyPrefix = "conversations:%d"
)

const (
	UserTTL         = 5 * time.Minute
	PostTTL         = 30 * time.Minute
	UserStatsTTL    = 1 * time.Minute
	TrendingTagsTTL = 5 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func UserStatsKey(userID uint) string {
	return fmt.Sprintf(UserStatsKeyPrefix, userID)
}

func ConversationsKey(userID uint) string {
	return fmt.Sprintf(ConversationKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
	Invalidate(ctx, UserStatsKey(userID))
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

func InvalidateTrendingTags(ctx context.Context) {
	Invalidate(ctx, TrendingTagsKey)
}
