package scheduler

import (
	"log/slog"

	"github.com/uptrace/bun"
	"go.uber.org/fx"

	"github.com/mindweave-labs/mindweave/domain/notes"
	"github.com/mindweave-labs/mindweave/internal/config"
)

// Module provides scheduled maintenance tasks
var Module = fx.Module("scheduler",
	fx.Provide(NewScheduler),
	fx.Invoke(
		RegisterTasks,
		RegisterSchedulerLifecycle,
	),
)

// TaskParams contains dependencies for creating scheduled tasks
type TaskParams struct {
	fx.In
	Scheduler *Scheduler
	Notes     *notes.Service
	DB        bun.IDB
	Cfg       *config.Config
	Log       *slog.Logger
}

// RegisterTasks registers all scheduled tasks
func RegisterTasks(p TaskParams) error {
	if !p.Cfg.Scheduler.Enabled {
		p.Log.Info("scheduler disabled, skipping task registration")
		return nil
	}

	reconcile := NewVectorReconcileTask(p.Notes, p.Cfg.Scheduler.VectorReconcileBatch, p.Log)
	if err := p.Scheduler.AddTask("vector_reconcile", p.Cfg.Scheduler.VectorReconcileSpec, reconcile.Run); err != nil {
		return err
	}

	orphans := NewOrphanNodeCleanupTask(p.DB, p.Log)
	if err := p.Scheduler.AddTask("orphan_node_cleanup", p.Cfg.Scheduler.VectorReconcileSpec, orphans.Run); err != nil {
		return err
	}

	p.Log.Info("registered scheduled tasks", slog.Any("tasks", p.Scheduler.ListTasks()))
	return nil
}

// RegisterSchedulerLifecycle ties the scheduler to the fx lifecycle
func RegisterSchedulerLifecycle(lc fx.Lifecycle, scheduler *Scheduler, cfg *config.Config) {
	if !cfg.Scheduler.Enabled {
		return
	}

	lc.Append(fx.Hook{
		OnStart: scheduler.Start,
		OnStop:  scheduler.Stop,
	})
}
