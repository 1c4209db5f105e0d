package position

import (
	"context"
	"fmt"
	"time"

	"pledge/core"

	"github.com/bluele/gcache"
	"golang.org/x/sync/singleflight"
)

// Cache read-through cache decorator for query-heavy callers. Mutating
// paths go through Save, which refreshes the cached copy.
func Cache(store core.PositionStore, exp time.Duration) core.PositionStore {
	return &cachePositionStore{
		PositionStore: store,
		cache:         gcache.New(2048).LRU().Expiration(exp).Build(),
		sf:            &singleflight.Group{},
	}
}

type cachePositionStore struct {
	core.PositionStore
	cache gcache.Cache
	sf    *singleflight.Group
}

func (s *cachePositionStore) Find(ctx context.Context, userID string) (*core.Position, error) {
	if v, err := s.cache.Get(s.positionKey(userID)); err == nil {
		if position, ok := v.(*core.Position); ok {
			dup := *position
			return &dup, nil
		}
	}

	v, err, _ := s.sf.Do(s.positionKey(userID), func() (interface{}, error) {
		position, err := s.PositionStore.Find(ctx, userID)
		if err != nil {
			return nil, err
		}

		s.cachePosition(position)
		return position, nil
	})
	if err != nil {
		return nil, err
	}

	dup := *v.(*core.Position)
	return &dup, nil
}

func (s *cachePositionStore) Save(ctx context.Context, position *core.Position) error {
	if err := s.PositionStore.Save(ctx, position); err != nil {
		return err
	}

	s.cachePosition(position)
	return nil
}

func (s *cachePositionStore) cachePosition(position *core.Position) {
	dup := *position
	s.cache.Set(s.positionKey(position.UserID), &dup)
}

func (s *cachePositionStore) positionKey(userID string) string {
	return fmt.Sprintf("position:user:%s", userID)
}
