package app

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/Leeps-Lab/oTree-HFT-CDA/internal/event"
	"github.com/Leeps-Lab/oTree-HFT-CDA/internal/infra"
	"github.com/Leeps-Lab/oTree-HFT-CDA/internal/storage"
)

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config      *infra.Config
	Journal     *storage.MessageJournal
	Checkpoints *storage.CheckpointManager

	unlock func()
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize performs core system initialization (config, dirs, journal).
func (b *Bootstrap) Initialize() error {
	slog.Info("🚀 Bootstrapping HFT client...")

	// 0. Runtime Warmup (GC Optimization)
	event.Warmup()
	slog.Info("🔥 Event Pool warmed up")

	// 1. Load Config (Dynamic Path Resolution)
	cfg, err := infra.LoadConfig(infra.ResolveConfigPath())
	if err != nil {
		return err
	}
	b.Config = cfg

	// 2. Setup Logger
	logger := infra.NewLogger(cfg.Logging.Level)
	slog.SetDefault(logger)

	// 3. Workspace layout: one data tree per subsession so reruns of the
	// same experiment never mix journals.
	workDir := infra.GetWorkspaceDir()
	dataDir := filepath.Join(workDir, "data", cfg.Session.SubsessionID)
	checkpointDir := filepath.Join(workDir, "checkpoints", cfg.Session.SubsessionID)

	if err := infra.EnsureDir(dataDir); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}
	if err := infra.EnsureDir(checkpointDir); err != nil {
		return fmt.Errorf("failed to create checkpoint dir: %w", err)
	}

	// 3.1 Singleton instance lock. Two clients journaling into the same
	// workspace would corrupt the WAL DB.
	unlock, err := infra.CreateLockFile(workDir)
	if err != nil {
		return err
	}
	b.unlock = unlock

	// 4. Message journal (single-writer WAL DB)
	dbPath := filepath.Join(dataDir, fmt.Sprintf("messages_m%d_p%d.db",
		cfg.Session.MarketID, cfg.Session.PlayerID))
	journal, err := storage.NewMessageJournal(dbPath)
	if err != nil {
		return err
	}
	b.Journal = journal
	slog.Info("✅ Message journal initialized (WAL-mode)", "path", dbPath)

	b.Checkpoints = storage.NewCheckpointManager(checkpointDir)
	slog.Info("✅ Checkpoint manager ready", "dir", checkpointDir)

	return nil
}

// Close releases the journal and the instance lock.
func (b *Bootstrap) Close() {
	if b.Journal != nil {
		if err := b.Journal.Close(); err != nil {
			slog.Warn("Journal close failed", slog.Any("error", err))
		}
	}
	if b.unlock != nil {
		b.unlock()
	}
}
