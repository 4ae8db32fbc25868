package backtest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Leeps-Lab/oTree-HFT-CDA/internal/engine"
	"github.com/Leeps-Lab/oTree-HFT-CDA/internal/storage"
)

// Replayer reads the message journal and feeds it back through a session,
// reproducing the exact state the live client held at any sequence number.
type Replayer struct {
	journal *storage.MessageJournal
}

// NewReplayer opens the journal at dbPath.
func NewReplayer(dbPath string) (*Replayer, error) {
	journal, err := storage.NewMessageJournal(dbPath)
	if err != nil {
		return nil, err
	}
	return &Replayer{journal: journal}, nil
}

// Close releases the journal.
func (r *Replayer) Close() error {
	return r.journal.Close()
}

// Run replays every journaled message into the session in sequence order.
// Messages that fail validation are logged and skipped; the live client
// journals post-validation so these indicate journal corruption.
func (r *Replayer) Run(ctx context.Context, session *engine.Session) (int, error) {
	msgs, err := r.journal.LoadMessages(ctx, 0)
	if err != nil {
		return 0, fmt.Errorf("failed to load journal: %w", err)
	}

	replayed := 0
	for _, msg := range msgs {
		if err := session.ReplayMessage(msg); err != nil {
			slog.Warn("Journaled message skipped", slog.Uint64("seq", msg.Seq), slog.Any("error", err))
			continue
		}
		replayed++
	}

	return replayed, nil
}
