package worker

import (
	"context"
	"time"

	"bcvrates-service/internal/application"
	infraconfig "bcvrates-service/internal/infrastructure/config"

	"go.uber.org/zap"
)

type Task struct {
	Name string
	Fn   func(ctx context.Context) error
}

// Runner drains a bounded queue of best-effort tasks. Submit never blocks:
// a full queue drops the task with a warning. Task failures and panics go
// to the log sink only.
type Runner struct {
	tasks chan Task
	log   *zap.Logger
}

var _ application.TaskRunner = (*Runner)(nil)
var _ application.Worker = (*Runner)(nil)

func NewRunner(buffer int, log *zap.Logger) *Runner {
	if buffer <= 0 {
		buffer = infraconfig.DefaultTaskQueueSize
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{tasks: make(chan Task, buffer), log: log}
}

func (r *Runner) Submit(name string, fn func(ctx context.Context) error) {
	select {
	case r.tasks <- Task{Name: name, Fn: fn}:
	default:
		r.log.Warn("runner.queue_full", zap.String("task", name))
	}
}

func (r *Runner) Start(ctx context.Context) {
	r.log.Info("runner.start")
	for {
		select {
		case <-ctx.Done():
			r.log.Info("runner.stop")
			return
		case t := <-r.tasks:
			r.runOne(ctx, t)
		}
	}
}

func (r *Runner) runOne(ctx context.Context, t Task) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Warn("runner.task_panic", zap.String("task", t.Name), zap.Any("r", rec))
		}
	}()
	c, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := t.Fn(c); err != nil {
		r.log.Warn("runner.task_failed", zap.String("task", t.Name), zap.Error(err))
	}
}
