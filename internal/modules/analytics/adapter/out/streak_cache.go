package out

import (
	"context"
	"strconv"

	analyticsout "studytrack/internal/modules/analytics/port/out"
	sessiondomain "studytrack/internal/modules/session/domain"
	sessionout "studytrack/internal/modules/session/port/out"
)

// KVStreakCache stores the current streak as a bare number under the streak key.
type KVStreakCache struct {
	store sessionout.KVStore
}

func NewKVStreakCache(store sessionout.KVStore) analyticsout.StreakCache {
	return &KVStreakCache{store: store}
}

func (c *KVStreakCache) SaveStreak(ctx context.Context, current int) error {
	return c.store.Set(ctx, sessiondomain.KeyStreak, []byte(strconv.Itoa(current)))
}
