package accrual

import (
	"context"

	"evault/core"
	"evault/service/vault"
	"evault/worker"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fox-one/pkg/logger"
	"golang.org/x/sync/errgroup"
)

const defaultSpec = "@every 1m"

// Vaults vaults visible to the worker
type Vaults interface {
	Vaults() []*vault.Vault
}

// Viewer runs read only access to vault state
type Viewer interface {
	View(ctx context.Context, fn func(ctx context.Context) error) error
}

// Worker accrue interest on every vault and save a snapshot of its totals
type Worker struct {
	worker.BaseJob
	vaults    Vaults
	viewer    Viewer
	snapshots core.ISnapshotStore
}

// New new accrual worker
func New(cfg *core.Config, vaults Vaults, viewer Viewer, snapshots core.ISnapshotStore) (*Worker, error) {
	w := &Worker{
		vaults:    vaults,
		viewer:    viewer,
		snapshots: snapshots,
	}

	spec := cfg.Worker.AccrualSpec
	if spec == "" {
		spec = defaultSpec
	}

	w.Name = "accrual"
	w.Cron = worker.NewCron(cfg.App.Location)
	w.OnWork = w.onWork
	if err := w.Schedule(spec); err != nil {
		return nil, err
	}

	return w, nil
}

func (w *Worker) onWork(ctx context.Context) error {
	var g errgroup.Group
	g.SetLimit(4)

	for _, v := range w.vaults.Vaults() {
		v := v
		g.Go(func() error {
			return w.handleVault(ctx, v)
		})
	}

	return g.Wait()
}

func (w *Worker) handleVault(ctx context.Context, v *vault.Vault) error {
	log := logger.FromContext(ctx).WithField("worker", "accrual").WithField("vault", v.Address().Hex())

	// persist accrual and re-run the vault check
	if err := v.Touch(ctx, common.Address{}); err != nil {
		log.WithError(err).Warnln("touch")
	}

	var snapshot *core.VaultSnapshot
	if err := w.viewer.View(ctx, func(ctx context.Context) error {
		snapshot = v.Record(ctx)
		return nil
	}); err != nil {
		log.WithError(err).Errorln("record")
		return err
	}

	if err := w.snapshots.Save(ctx, snapshot); err != nil {
		log.WithError(err).Errorln("snapshots.Save")
		return err
	}

	log.Debugf("utilization %s, borrow apr %s", snapshot.UtilizationRate, snapshot.BorrowAPR)
	return nil
}
