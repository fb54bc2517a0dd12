package cmd

import (
	"context"
	"time"

	"evault/core"
	"evault/pkg/clock"
	"evault/service/system"
	"evault/store/event"
	"evault/store/snapshot"

	"github.com/fox-one/pkg/store/db"
)

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

func provideConfig() *core.Config {
	return &cfg
}

func provideClock() core.IClock {
	return clock.System{}
}

// ---------------store-----------------------------------------

func provideEventStore(db *db.DB) core.IEventStore {
	return event.New(db)
}

func provideMemoryEventStore() core.IEventStore {
	return event.Memory()
}

func provideSnapshotStore(db *db.DB) core.ISnapshotStore {
	return snapshot.Cache(snapshot.New(db), time.Minute)
}

// ------------------service------------------------------------

func provideSystem(ctx context.Context, events core.IEventStore) *system.System {
	s, err := system.New(ctx, provideConfig(), provideClock(), events)
	if err != nil {
		panic(err)
	}

	return s
}
