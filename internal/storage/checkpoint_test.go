package storage

import (
	"testing"

	"github.com/Leeps-Lab/oTree-HFT-CDA/internal/domain"
)

func TestCheckpoint_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()

	cm := NewCheckpointManager(dir)

	player := domain.NewPlayerState("7")
	player.Inventory = -2
	player.MyBid = 10100
	market := domain.NewMarketState(1)
	market.BestBid = 10000
	market.BestOffer = 10200

	cp := CreateCheckpoint(100, player, market)

	if err := cm.Save(cp); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := cm.LoadLatest()
	if err != nil {
		t.Fatalf("LoadLatest failed: %v", err)
	}
	if loaded == nil {
		t.Fatal("Expected checkpoint, got nil")
	}

	if loaded.Seq != 100 {
		t.Errorf("Expected seq 100, got %d", loaded.Seq)
	}
	if loaded.Player.Inventory != -2 || loaded.Player.MyBid != 10100 {
		t.Errorf("Player state mismatch: %+v", loaded.Player)
	}
	if loaded.Market.BestOffer != 10200 {
		t.Errorf("Market state mismatch: %+v", loaded.Market)
	}
}

func TestCheckpoint_LoadLatestPicksHighestSeq(t *testing.T) {
	dir := t.TempDir()
	cm := NewCheckpointManager(dir)

	player := domain.NewPlayerState("7")
	market := domain.NewMarketState(1)

	for _, seq := range []uint64{10, 50, 30} {
		if err := cm.Save(CreateCheckpoint(seq, player, market)); err != nil {
			t.Fatalf("Save(%d) failed: %v", seq, err)
		}
	}

	loaded, err := cm.LoadLatest()
	if err != nil {
		t.Fatalf("LoadLatest failed: %v", err)
	}
	if loaded.Seq != 50 {
		t.Errorf("Expected seq 50, got %d", loaded.Seq)
	}
}

func TestCheckpoint_LoadLatestEmptyDir(t *testing.T) {
	cm := NewCheckpointManager(t.TempDir() + "/missing")

	loaded, err := cm.LoadLatest()
	if err != nil {
		t.Fatalf("LoadLatest on missing dir failed: %v", err)
	}
	if loaded != nil {
		t.Error("Expected nil for missing dir")
	}
}

func TestCheckpoint_CreateCopiesState(t *testing.T) {
	player := domain.NewPlayerState("7")
	market := domain.NewMarketState(1)

	cp := CreateCheckpoint(1, player, market)
	player.Inventory = 99

	if cp.Player.Inventory != 0 {
		t.Error("CreateCheckpoint should deep-copy player state")
	}
}
