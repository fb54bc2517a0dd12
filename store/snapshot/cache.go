package snapshot

import (
	"context"
	"fmt"
	"time"

	"evault/core"

	"github.com/bluele/gcache"
	"golang.org/x/sync/singleflight"
)

// Cache cache the latest snapshot of every vault for exp
func Cache(store core.ISnapshotStore, exp time.Duration) core.ISnapshotStore {
	return &cacheSnapshotStore{
		ISnapshotStore: store,
		cache:          gcache.New(1024).LRU().Expiration(exp).Build(),
		sf:             &singleflight.Group{},
	}
}

type cacheSnapshotStore struct {
	core.ISnapshotStore
	cache gcache.Cache
	sf    *singleflight.Group
}

func (s *cacheSnapshotStore) Save(ctx context.Context, snapshot *core.VaultSnapshot) error {
	if err := s.ISnapshotStore.Save(ctx, snapshot); err != nil {
		return err
	}

	_ = s.cache.Set(s.latestKey(snapshot.Vault), snapshot)
	return nil
}

func (s *cacheSnapshotStore) FindLatest(ctx context.Context, vault string) (*core.VaultSnapshot, error) {
	key := s.latestKey(vault)
	if v, err := s.cache.Get(key); err == nil {
		if snapshot, ok := v.(*core.VaultSnapshot); ok {
			return snapshot, nil
		}
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		snapshot, err := s.ISnapshotStore.FindLatest(ctx, vault)
		if err != nil {
			return nil, err
		}

		_ = s.cache.Set(key, snapshot)
		return snapshot, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*core.VaultSnapshot), nil
}

func (s *cacheSnapshotStore) latestKey(vault string) string {
	return fmt.Sprintf("snapshot:latest:%s", vault)
}
