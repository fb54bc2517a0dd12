package event

import (
	"context"

	"evault/core"

	"github.com/fox-one/pkg/store/db"
)

type eventStore struct {
	db *db.DB
}

// New new event store
func New(db *db.DB) core.IEventStore {
	return &eventStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Event{})
		if err := tx.AutoMigrate(core.Event{}).Error; err != nil {
			return err
		}

		return nil
	})
}

// Create events of one committed call are written in one transaction
func (s *eventStore) Create(ctx context.Context, events []*core.Event) error {
	return s.db.Tx(func(tx *db.DB) error {
		for _, e := range events {
			if err := tx.Update().Create(e).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (s *eventStore) ListByVault(ctx context.Context, vault string, fromID int64, limit int) ([]*core.Event, error) {
	var events []*core.Event
	if err := s.db.View().Where("vault = ? AND id > ?", vault, fromID).Order("id").Limit(limit).Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}

func (s *eventStore) ListByAccount(ctx context.Context, account string, fromID int64, limit int) ([]*core.Event, error) {
	var events []*core.Event
	query := s.db.View().Where("(account = ? OR counterparty = ?) AND id > ?", account, account, fromID)
	if err := query.Order("id").Limit(limit).Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}
