package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/fox-one/pkg/logger"
	"github.com/robfig/cron/v3"
)

// IJob cron driven job
type IJob interface {
	Start() error
	Run()
	Stop() error
}

// OnWork one round of a job
type OnWork func(ctx context.Context) error

// BaseJob runs OnWork on a cron schedule, skipping a tick while the previous round is still running
type BaseJob struct {
	Name    string
	Cron    *cron.Cron
	OnWork  OnWork
	running int32
}

// NewCron cron in the named location, falling back to UTC
func NewCron(location string) *cron.Cron {
	l, err := time.LoadLocation(location)
	if err != nil {
		l = time.UTC
	}

	return cron.New(cron.WithLocation(l))
}

// Schedule register the job on its cron with spec
func (job *BaseJob) Schedule(spec string) error {
	_, err := job.Cron.AddFunc(spec, job.Run)
	return err
}

func (job *BaseJob) Start() error {
	job.Cron.Start()
	return nil
}

func (job *BaseJob) Stop() error {
	<-job.Cron.Stop().Done()
	return nil
}

func (job *BaseJob) Run() {
	if !atomic.CompareAndSwapInt32(&job.running, 0, 1) {
		return
	}
	defer atomic.StoreInt32(&job.running, 0)

	ctx := context.Background()
	if err := job.OnWork(ctx); err != nil {
		logger.FromContext(ctx).WithError(err).WithField("worker", job.Name).Errorln("work failed")
	}
}
