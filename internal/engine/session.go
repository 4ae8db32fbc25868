package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"sync"

	"github.com/Leeps-Lab/oTree-HFT-CDA/internal/book"
	"github.com/Leeps-Lab/oTree-HFT-CDA/internal/domain"
	"github.com/Leeps-Lab/oTree-HFT-CDA/internal/event"
	"github.com/Leeps-Lab/oTree-HFT-CDA/internal/schema"
	"github.com/Leeps-Lab/oTree-HFT-CDA/internal/storage"
	"github.com/Leeps-Lab/oTree-HFT-CDA/pkg/quant"
)

// Session is the single-threaded consumer of the inbound message stream.
// It validates each frame, journals it, and dispatches it to the handlers
// that mutate the order book and player/market state. All writes are
// confined to the Run goroutine.
type Session struct {
	inbox      chan *event.Inbound
	registry   *schema.Registry
	dispatcher *Dispatcher
	book       *book.OrderBook
	player     *domain.PlayerState
	market     *domain.MarketState
	journal    *storage.MessageJournal
	outbox     *Outbox

	playerID int64
	lastSeq  uint64
	active   bool

	// Boundary: notifies external observers of state changes
	onStateUpdate func(*domain.PlayerState, *domain.MarketState)

	mu sync.RWMutex // Used only for external reads
}

// SessionConfig carries the wiring for one market session.
type SessionConfig struct {
	PlayerID    int64
	MarketID    int64
	InitialCash int64
	InboxSize   int
	Journal     *storage.MessageJournal // nil disables journaling
	Sender      Sender                  // nil disables outbound
	OnUpdate    func(*domain.PlayerState, *domain.MarketState)
}

// NewSession creates a session and builds its handler table.
func NewSession(cfg SessionConfig) *Session {
	reg := schema.NewRegistry()
	s := &Session{
		inbox:         make(chan *event.Inbound, cfg.InboxSize),
		registry:      reg,
		dispatcher:    NewDispatcher(),
		book:          book.New(),
		player:        domain.NewPlayerState(strconv.FormatInt(cfg.PlayerID, 10)),
		market:        domain.NewMarketState(cfg.MarketID),
		journal:       cfg.Journal,
		playerID:      cfg.PlayerID,
		onStateUpdate: cfg.OnUpdate,
	}
	s.player.Cash = cfg.InitialCash
	if cfg.Sender != nil {
		s.outbox = NewOutbox(reg, cfg.Sender)
	}

	// Handler table. Executed runs the exchange-book handler before the
	// inventory handler.
	s.dispatcher.Register(schema.TypeConfirmed, s.handleExchangeMessage)
	s.dispatcher.Register(schema.TypeReplaced, s.handleExchangeMessage)
	s.dispatcher.Register(schema.TypeExecuted, s.handleExchangeMessage, s.handleExecuted)
	s.dispatcher.Register(schema.TypeCanceled, s.handleExchangeMessage)
	s.dispatcher.Register(schema.TypeBBO, s.handleBestBidOfferUpdate)
	s.dispatcher.Register(schema.TypeSignedVolume, s.handleSignedVolume)
	s.dispatcher.Register(schema.TypeExternalFeed, s.handleExternalFeed)
	s.dispatcher.Register(schema.TypeReferencePrice, s.handleReferencePrice)
	s.dispatcher.Register(schema.TypeSystemEvent, s.handleSystemEvent)
	s.dispatcher.Register(schema.TypeRoleConfirm, s.handleRoleConfirm)
	s.dispatcher.Register(schema.TypeSpeedConfirm, s.handleSpeedConfirm)
	s.dispatcher.Register(schema.TypeQuoteCue, s.handleQuoteCue)

	// Unhandled registered types are intentionally ignored; surface them
	// once at startup so a table edit is never a silent drop.
	for _, msgType := range reg.Types(schema.Inbound) {
		if !s.dispatcher.Handles(msgType) {
			slog.Debug("Inbound type has no handlers (ignored)", slog.String("type", msgType))
		}
	}

	return s
}

// Inbox returns the frame channel. The gateway worker sends frames here.
func (s *Session) Inbox() chan<- *event.Inbound {
	return s.inbox
}

// Outbox returns the outbound message builder, or nil when the session
// has no sender.
func (s *Session) Outbox() *Outbox {
	return s.outbox
}

// Run starts the main consumer loop. This MUST be run in a single goroutine.
func (s *Session) Run(ctx context.Context) {
	slog.Info("Session started (single-thread hotpath)")

	defer func() {
		if r := recover(); r != nil {
			slog.Error("CRITICAL_PANIC_DETECTED", slog.Any("panic", r))
			s.DumpState("panic_dump.json")
			panic(fmt.Sprintf("HALTED: %v", r))
		}
	}()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Session stopping...")
			return
		case ev := <-s.inbox:
			s.process(ev)
			event.ReleaseInbound(ev)
		}
	}
}

// process decodes, validates, journals and dispatches one frame.
// Every failure path drops the frame and continues; a degraded local view
// self-heals from later venue pushes, so nothing here is fatal.
func (s *Session) process(ev *event.Inbound) {
	var raw map[string]any
	if err := json.Unmarshal(ev.Data, &raw); err != nil {
		slog.Warn("Frame is not a JSON object, dropped",
			slog.Uint64("seq", ev.Seq), slog.Any("error", err))
		return
	}

	msg, err := s.registry.Validate(schema.Inbound, raw)
	if err != nil {
		slog.Warn("Message rejected", slog.Uint64("seq", ev.Seq), slog.Any("error", err))
		return
	}

	if s.journal != nil {
		stored := storage.StoredMessage{Seq: ev.Seq, Type: msg.Type, Ts: ev.Ts}
		if stored.Payload, err = msg.Encode(); err == nil {
			err = s.journal.SaveMessage(context.Background(), stored)
		}
		if err != nil {
			// The venue stays authoritative; a journal miss costs replay
			// fidelity, not correctness.
			slog.Warn("Journal write failed", slog.Uint64("seq", ev.Seq), slog.Any("error", err))
		}
	}

	s.mu.Lock()
	s.dispatcher.Dispatch(msg)
	s.lastSeq = ev.Seq
	s.mu.Unlock()

	if s.onStateUpdate != nil {
		s.onStateUpdate(s.PlayerSnapshot(), s.MarketSnapshot())
	}
}

// ReplayMessage feeds one journaled message through the live dispatch path
// without journaling it again. Used exclusively by the replayer; messages
// must arrive in ascending sequence order.
func (s *Session) ReplayMessage(stored storage.StoredMessage) error {
	if stored.Seq <= s.lastSeq {
		panic(fmt.Sprintf("REPLAY_OUT_OF_ORDER: seq %d after %d", stored.Seq, s.lastSeq))
	}

	var raw map[string]any
	if err := json.Unmarshal(stored.Payload, &raw); err != nil {
		return fmt.Errorf("replay seq %d: %w", stored.Seq, err)
	}
	msg, err := s.registry.Validate(schema.Inbound, raw)
	if err != nil {
		return fmt.Errorf("replay seq %d: %w", stored.Seq, err)
	}

	s.mu.Lock()
	s.dispatcher.Dispatch(msg)
	s.lastSeq = stored.Seq
	s.mu.Unlock()
	return nil
}

// handleExchangeMessage applies confirmed/replaced/executed/canceled to the
// order book, then updates the player's own quote when the order is theirs.
func (s *Session) handleExchangeMessage(m *schema.Message) {
	side, err := book.SideFromIndicator(m.Str("buy_sell_indicator"))
	if err != nil {
		slog.Warn("Exchange message skipped", slog.String("type", m.Type), slog.Any("error", err))
		return
	}

	price := quant.Price(m.Int("price"))
	token := m.Str("order_token")

	switch m.Type {
	case schema.TypeConfirmed:
		s.book.Add(price, side, token, m.Int("time_in_force"))
	case schema.TypeExecuted, schema.TypeCanceled:
		if err := s.book.Remove(price, side, token); err != nil {
			slog.Warn("Book inconsistency on remove", slog.String("type", m.Type), slog.Any("error", err))
		}
	case schema.TypeReplaced:
		oldPrice := quant.Price(m.Int("old_price"))
		if err := s.book.Replace(price, side, token, oldPrice, m.Str("old_token")); err != nil {
			slog.Warn("Book inconsistency on replace", slog.Any("error", err))
		}
	}

	if s.isOwn(m) {
		remove := m.Type == schema.TypeExecuted || m.Type == schema.TypeCanceled
		s.myBidOfferUpdate(price, side, remove)
	}
}

// handleExecuted adopts the venue's post-trade inventory for own fills.
// Runs after handleExchangeMessage by dispatcher order.
func (s *Session) handleExecuted(m *schema.Message) {
	if !s.isOwn(m) {
		return
	}
	s.player.Inventory = m.Int("inventory")
}

func (s *Session) handleBestBidOfferUpdate(m *schema.Message) {
	s.market.BestBid = quant.Price(m.Int("best_bid"))
	s.market.BestOffer = quant.Price(m.Int("best_offer"))
	s.market.VolumeAtBestBid = quant.Volume(m.Int("volume_at_best_bid"))
	s.market.VolumeAtBestOffer = quant.Volume(m.Int("volume_at_best_offer"))
}

func (s *Session) handleSignedVolume(m *schema.Message) {
	s.market.SignedVolume = m.Float("signed_volume")
}

func (s *Session) handleExternalFeed(m *schema.Message) {
	s.market.ExternalBestBid = quant.Price(m.Int("e_best_bid"))
	s.market.ExternalBestOffer = quant.Price(m.Int("e_best_offer"))
	s.market.ExternalSignedVolume = m.Float("e_signed_volume")
}

func (s *Session) handleReferencePrice(m *schema.Message) {
	s.market.ReferencePrice = quant.Price(m.Int("reference_price"))
}

func (s *Session) handleSystemEvent(m *schema.Message) {
	if m.Str("code") == "S" {
		s.active = true
		slog.Info("Session synchronized, experiment started")
	}
}

func (s *Session) handleRoleConfirm(m *schema.Message) {
	if m.Int("player_id") != s.playerID {
		return
	}
	s.player.Role = m.Str("role_name")
	slog.Info("Role confirmed", slog.String("role", s.player.Role))
}

func (s *Session) handleSpeedConfirm(m *schema.Message) {
	if m.Int("player_id") != s.playerID {
		return
	}
	s.player.Speed = m.Bool("value")
}

func (s *Session) handleQuoteCue(m *schema.Message) {
	s.market.CueBid = quant.Price(m.Int("bid"))
	s.market.CueOffer = quant.Price(m.Int("offer"))
}

// isOwn matches the message's player id against the local player.
// The confirmed table carries the id as a string, the rest as an int.
func (s *Session) isOwn(m *schema.Message) bool {
	switch v := m.Get("player_id").(type) {
	case string:
		return v == s.player.PlayerID
	case int64:
		return v == s.playerID
	default:
		return false
	}
}

// myBidOfferUpdate moves the player's displayed own quote: the event price
// for a new resting order, the "none" sentinel (0) on execution or cancel.
func (s *Session) myBidOfferUpdate(price quant.Price, side book.Side, remove bool) {
	if remove {
		price = 0
	}
	switch side {
	case book.Bid:
		s.player.MyBid = price
	case book.Ask:
		s.player.MyOffer = price
	}
}

// Active reports whether the venue has sent the sync system event.
func (s *Session) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// LastSeq returns the sequence number of the last dispatched message.
func (s *Session) LastSeq() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeq
}

// PlayerSnapshot returns a copy of the player state (external read).
func (s *Session) PlayerSnapshot() *domain.PlayerState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state := *s.player
	return &state
}

// MarketSnapshot returns a copy of the market state (external read).
func (s *Session) MarketSnapshot() *domain.MarketState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state := *s.market
	return &state
}

// Endowment returns the current mark-to-market endowment, absent when no
// valid mark exists.
func (s *Session) Endowment() (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Endowment(s.player.Inventory, s.player.Cash, s.market.BestBid, s.market.BestOffer)
}

// Book returns the side's resting levels (read-only copy).
func (s *Session) Book(side book.Side) []book.Level {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.book.Levels(side)
}

// DumpState writes the entire internal state to a file (for post-mortem).
func (s *Session) DumpState(filename string) {
	slog.Info("Dumping internal state...", slog.String("file", filename))

	data := struct {
		LastSeq uint64              `json:"last_seq"`
		Player  *domain.PlayerState `json:"player"`
		Market  *domain.MarketState `json:"market"`
		Bids    []book.Level        `json:"bids"`
		Asks    []book.Level        `json:"asks"`
	}{
		LastSeq: s.lastSeq,
		Player:  s.player,
		Market:  s.market,
		Bids:    s.book.Levels(book.Bid),
		Asks:    s.book.Levels(book.Ask),
	}

	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		slog.Error("Failed to marshal state", slog.Any("error", err))
		return
	}

	if err := os.WriteFile(filename, b, 0644); err != nil {
		slog.Error("Failed to write state dump", slog.Any("error", err))
	}
}
