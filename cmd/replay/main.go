package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/Leeps-Lab/oTree-HFT-CDA/backtest"
	"github.com/Leeps-Lab/oTree-HFT-CDA/internal/book"
	"github.com/Leeps-Lab/oTree-HFT-CDA/internal/engine"
	"github.com/Leeps-Lab/oTree-HFT-CDA/internal/infra"
)

func main() {
	dbPath := flag.String("db", "", "path to a message journal (messages_m*_p*.db)")
	playerID := flag.Int64("player", 0, "player id the journal belongs to")
	marketID := flag.Int64("market", 1, "market id")
	initialCash := flag.Int64("cash", 0, "initial cash endowment")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	if *dbPath == "" || *playerID == 0 {
		fmt.Fprintln(os.Stderr, "usage: replay -db <journal.db> -player <id> [-market <id>] [-cash <amount>]")
		os.Exit(2)
	}

	level := "warn"
	if *verbose {
		level = "debug"
	}
	slog.SetDefault(infra.NewLogger(level))

	replayer, err := backtest.NewReplayer(*dbPath)
	if err != nil {
		slog.Error("Failed to open journal", slog.Any("error", err))
		os.Exit(1)
	}
	defer replayer.Close()

	session := engine.NewSession(engine.SessionConfig{
		PlayerID:    *playerID,
		MarketID:    *marketID,
		InitialCash: *initialCash,
		InboxSize:   1,
	})

	replayed, err := replayer.Run(context.Background(), session)
	if err != nil {
		slog.Error("Replay failed", slog.Any("error", err))
		os.Exit(1)
	}

	endowment, hasMark := session.Endowment()
	report := struct {
		Replayed  int    `json:"replayed"`
		LastSeq   uint64 `json:"last_seq"`
		Player    any    `json:"player"`
		Market    any    `json:"market"`
		Bids      any    `json:"bids"`
		Asks      any    `json:"asks"`
		Endowment *int64 `json:"endowment,omitempty"`
	}{
		Replayed: replayed,
		LastSeq:  session.LastSeq(),
		Player:   session.PlayerSnapshot(),
		Market:   session.MarketSnapshot(),
		Bids:     session.Book(book.Bid),
		Asks:     session.Book(book.Ask),
	}
	if hasMark {
		report.Endowment = &endowment
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		slog.Error("Failed to render report", slog.Any("error", err))
		os.Exit(1)
	}
	fmt.Println(string(out))
}
