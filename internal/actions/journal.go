package actions

import (
	"context"
	"log/slog"
	"time"

	"github.com/roach88/reelsync/internal/action"
	"github.com/roach88/reelsync/internal/store"
)

// Journal records every execution in the store's runs table. It implements
// action.Observer; journal write failures are logged and never fail the
// execution itself.
type Journal struct {
	store  *store.Store
	clock  Clock
	logger *slog.Logger
}

// NewJournal creates a Journal. A nil clock means SystemClock, a nil logger
// slog.Default.
func NewJournal(st *store.Store, clock Clock, logger *slog.Logger) *Journal {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Journal{store: st, clock: clock, logger: logger}
}

func (j *Journal) ExecutionStarted(h *action.Handle) {
	err := j.store.WriteRunStart(context.Background(), h.ID(), h.Key(), j.clock.Now().UnixMilli())
	if err != nil {
		j.logger.Warn("journal write failed", "key", h.Key(), "id", h.ID(), "error", err)
	}
}

func (j *Journal) ExecutionFinished(h *action.Handle, err error) {
	run := store.Run{
		ID:         h.ID(),
		FinishedAt: j.clock.Now().UnixMilli(),
		Outcome:    store.RunOK,
	}
	if err != nil {
		run.Outcome = store.RunFailed
		run.FailedPage = action.FailedPage(err)
		run.Error = err.Error()
	}
	if werr := j.store.WriteRunEnd(context.Background(), run); werr != nil {
		j.logger.Warn("journal write failed", "key", h.Key(), "id", h.ID(), "error", werr)
	}
}

// RecoverRuns closes runs a previous process left unfinished and drops
// finished runs older than keep. Returns how many runs were abandoned.
func (j *Journal) RecoverRuns(ctx context.Context, keep time.Duration) (int64, error) {
	incomplete, err := j.store.IncompleteRuns(ctx)
	if err != nil {
		return 0, err
	}
	for _, r := range incomplete {
		j.logger.Warn("run did not finish", "key", r.Key, "id", r.ID, "started_at", r.StartedAt)
	}

	now := j.clock.Now().UnixMilli()
	abandoned, err := j.store.AbandonIncompleteRuns(ctx, now)
	if err != nil {
		return 0, err
	}
	pruned, err := j.store.PruneRuns(ctx, now-keep.Milliseconds())
	if err != nil {
		return abandoned, err
	}
	if pruned > 0 {
		j.logger.Debug("pruned old runs", "count", pruned)
	}
	return abandoned, nil
}
