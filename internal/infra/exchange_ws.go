package infra

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Leeps-Lab/oTree-HFT-CDA/internal/event"
	"github.com/Leeps-Lab/oTree-HFT-CDA/pkg/quant"
)

// ExchangeWorker is the venue gateway. It implements WebSocketHandler for
// the inbound stream (frames go into the session inbox) and acts as the
// session's outbound transport (writes guarded by a rate limiter and a
// circuit breaker).
type ExchangeWorker struct {
	baseURL    string
	subsession string
	marketID   int64
	playerID   int64

	inbox chan<- *event.Inbound
	seq   uint64

	worker    *BaseWSWorker
	limiter   *RateLimiter
	breaker   *CircuitBreaker
	onConnect func() error
}

// ExchangeConfig carries the wiring for one venue connection.
type ExchangeConfig struct {
	BaseURL      string // ws(s)://host[:port], no trailing slash
	SubsessionID string
	MarketID     int64
	PlayerID     int64
	Inbox        chan<- *event.Inbound
	Burst        int
	PerSecond    float64

	PingInterval time.Duration // zero keeps the worker default
	ReadTimeout  time.Duration

	// OnConnect runs after every (re)connect. The session hooks its
	// readiness signal here; the venue does not stream until it arrives.
	OnConnect func() error
}

// NewExchangeWorker creates the gateway. Call Start to connect.
func NewExchangeWorker(cfg ExchangeConfig) *ExchangeWorker {
	w := &ExchangeWorker{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		subsession: cfg.SubsessionID,
		marketID:   cfg.MarketID,
		playerID:   cfg.PlayerID,
		inbox:      cfg.Inbox,
		limiter:    NewRateLimiter(cfg.Burst, cfg.PerSecond),
		breaker:    NewCircuitBreaker(DefaultCircuitBreakerConfig("exchange-ws")),
		onConnect:  cfg.OnConnect,
	}
	w.worker = NewBaseWSWorker(w)
	if cfg.PingInterval > 0 {
		w.worker.PingInterval = cfg.PingInterval
	}
	if cfg.ReadTimeout > 0 {
		w.worker.ReadTimeout = cfg.ReadTimeout
	}
	return w
}

// Start begins the connection loop.
func (w *ExchangeWorker) Start(ctx context.Context) {
	w.worker.Start(ctx)
}

// Stop terminates the connection.
func (w *ExchangeWorker) Stop() {
	w.worker.Stop()
}

// GetURL builds the per-player stream path.
func (w *ExchangeWorker) GetURL() string {
	return fmt.Sprintf("%s/hft/%s/%d/%d/", w.baseURL, w.subsession, w.marketID, w.playerID)
}

func (w *ExchangeWorker) ID() string {
	return fmt.Sprintf("EXCHANGE-M%d-P%d", w.marketID, w.playerID)
}

func (w *ExchangeWorker) OnConnect(ctx context.Context, conn *websocket.Conn) error {
	if w.onConnect != nil {
		return w.onConnect()
	}
	return nil
}

// OnMessage wraps the frame in a pooled envelope and hands it to the
// session. A full inbox drops the frame; blocking here would stall the
// read loop and cascade into a venue disconnect.
func (w *ExchangeWorker) OnMessage(ctx context.Context, msg []byte) {
	ev := event.AcquireInbound()
	ev.Seq = quant.NextSeq(&w.seq)
	ev.Ts = quant.TimeStamp(time.Now().UnixMicro())
	ev.SetData(msg)

	select {
	case w.inbox <- ev:
	default:
		slog.Warn("Inbox full, frame dropped", slog.Uint64("seq", ev.Seq))
		event.ReleaseInbound(ev)
	}
}

func (w *ExchangeWorker) OnPing(ctx context.Context, conn *websocket.Conn) error {
	return conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
}

// Send delivers one encoded outbound message to the venue.
// Implements the session's transport interface.
func (w *ExchangeWorker) Send(data []byte) error {
	if !w.breaker.Allow() {
		return fmt.Errorf("exchange write rejected (circuit %s)", w.breaker.GetState())
	}

	w.limiter.Wait()

	if err := w.worker.Write(websocket.TextMessage, data); err != nil {
		w.breaker.RecordFailure()
		return err
	}
	w.breaker.RecordSuccess()
	return nil
}
