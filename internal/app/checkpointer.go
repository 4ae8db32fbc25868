package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/Leeps-Lab/oTree-HFT-CDA/internal/engine"
	"github.com/Leeps-Lab/oTree-HFT-CDA/internal/storage"
)

const checkpointKeep = 5

// RunCheckpoints periodically snapshots the session into the checkpoint
// directory. Runs until the context is canceled; a final checkpoint is
// written on the way out.
func (b *Bootstrap) RunCheckpoints(ctx context.Context, session *engine.Session, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			b.saveCheckpoint(session)
			return
		case <-ticker.C:
			b.saveCheckpoint(session)
		}
	}
}

func (b *Bootstrap) saveCheckpoint(session *engine.Session) {
	seq := session.LastSeq()
	if seq == 0 {
		return // nothing processed yet
	}

	cp := storage.CreateCheckpoint(seq, session.PlayerSnapshot(), session.MarketSnapshot())
	if err := b.Checkpoints.Save(cp); err != nil {
		slog.Warn("Checkpoint save failed", slog.Any("error", err))
		return
	}
	if err := b.Checkpoints.Cleanup(checkpointKeep); err != nil {
		slog.Warn("Checkpoint cleanup failed", slog.Any("error", err))
	}
	slog.Debug("Checkpoint saved", slog.Uint64("seq", seq))
}
