package snapshot

import (
	"context"

	"evault/core"

	"github.com/fox-one/pkg/store/db"
)

type snapshotStore struct {
	db *db.DB
}

// New new snapshot store instance
func New(db *db.DB) core.ISnapshotStore {
	return &snapshotStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.VaultSnapshot{})
		if err := tx.AutoMigrate(core.VaultSnapshot{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *snapshotStore) Save(ctx context.Context, snapshot *core.VaultSnapshot) error {
	return s.db.Update().Create(snapshot).Error
}

func (s *snapshotStore) FindLatest(ctx context.Context, vault string) (*core.VaultSnapshot, error) {
	var snapshot core.VaultSnapshot
	if e := s.db.View().Where("vault=?", vault).Order("id DESC").First(&snapshot).Error; e != nil {
		return nil, e
	}

	return &snapshot, nil
}

func (s *snapshotStore) List(ctx context.Context, vault string, limit int) ([]*core.VaultSnapshot, error) {
	var snapshots []*core.VaultSnapshot
	if e := s.db.View().Where("vault=?", vault).Order("id DESC").Limit(limit).Find(&snapshots).Error; e != nil {
		return nil, e
	}

	return snapshots, nil
}
