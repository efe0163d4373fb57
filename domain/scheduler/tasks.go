package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/uptrace/bun"

	"github.com/mindweave-labs/mindweave/domain/notes"
	"github.com/mindweave-labs/mindweave/pkg/logger"
)

// VectorReconcileTask re-embeds notes whose vectors are missing or older
// than the note. It backstops the best-effort enrichment pipeline: a note
// whose indexing step failed at creation time gets picked up here.
type VectorReconcileTask struct {
	notes *notes.Service
	batch int
	log   *slog.Logger
}

func NewVectorReconcileTask(notesSvc *notes.Service, batch int, log *slog.Logger) *VectorReconcileTask {
	return &VectorReconcileTask{
		notes: notesSvc,
		batch: batch,
		log:   log.With(logger.Scope("scheduler.vector_reconcile")),
	}
}

// Run executes one reconciliation sweep.
func (t *VectorReconcileTask) Run(ctx context.Context) error {
	start := time.Now()

	stale, err := t.notes.NotesNeedingReindex(ctx, t.batch)
	if err != nil {
		return err
	}
	if len(stale) == 0 {
		t.log.Debug("no stale vectors")
		return nil
	}

	reindexed := 0
	for _, note := range stale {
		if err := t.notes.Reindex(ctx, note); err != nil {
			t.log.Warn("failed to reindex note",
				slog.Int64("note_id", note.ID),
				logger.Error(err),
			)
			continue
		}
		reindexed++
	}

	t.log.Info("vector reconcile sweep complete",
		slog.Int("stale", len(stale)),
		slog.Int("reindexed", reindexed),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

// OrphanNodeCleanupTask removes note-typed graph nodes whose note is gone.
// Note deletion removes the node best-effort; this catches the leftovers.
type OrphanNodeCleanupTask struct {
	db  bun.IDB
	log *slog.Logger
}

func NewOrphanNodeCleanupTask(db bun.IDB, log *slog.Logger) *OrphanNodeCleanupTask {
	return &OrphanNodeCleanupTask{
		db:  db,
		log: log.With(logger.Scope("scheduler.orphan_nodes")),
	}
}

// Run executes one cleanup sweep.
func (t *OrphanNodeCleanupTask) Run(ctx context.Context) error {
	start := time.Now()

	result, err := t.db.NewRaw(`
		DELETE FROM graph_nodes gn
		WHERE gn.node_type = 'note'
		  AND (gn.data->>'note_id') IS NOT NULL
		  AND NOT EXISTS (
			SELECT 1 FROM notes n WHERE n.id = (gn.data->>'note_id')::bigint
		  )
	`).Exec(ctx)
	if err != nil {
		return err
	}

	removed, _ := result.RowsAffected()
	if removed > 0 {
		t.log.Info("removed orphaned graph nodes",
			slog.Int64("count", removed),
			slog.Duration("duration", time.Since(start)),
		)
	} else {
		t.log.Debug("no orphaned graph nodes")
	}
	return nil
}
