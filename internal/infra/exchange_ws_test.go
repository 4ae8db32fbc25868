package infra

import (
	"context"
	"testing"

	"github.com/Leeps-Lab/oTree-HFT-CDA/internal/event"
)

func newTestExchangeWorker(inbox chan *event.Inbound) *ExchangeWorker {
	return NewExchangeWorker(ExchangeConfig{
		BaseURL:      "ws://localhost:8000/",
		SubsessionID: "s1a2b3c4",
		MarketID:     1,
		PlayerID:     7,
		Inbox:        inbox,
		Burst:        5,
		PerSecond:    10,
	})
}

func TestExchangeWorker_URL(t *testing.T) {
	w := newTestExchangeWorker(make(chan *event.Inbound, 1))

	want := "ws://localhost:8000/hft/s1a2b3c4/1/7/"
	if got := w.GetURL(); got != want {
		t.Errorf("GetURL() = %s; want %s", got, want)
	}
}

func TestExchangeWorker_OnMessageSequencesFrames(t *testing.T) {
	inbox := make(chan *event.Inbound, 4)
	w := newTestExchangeWorker(inbox)

	w.OnMessage(context.Background(), []byte(`{"type":"a"}`))
	w.OnMessage(context.Background(), []byte(`{"type":"b"}`))

	first := <-inbox
	second := <-inbox
	if first.Seq != 1 || second.Seq != 2 {
		t.Errorf("seqs = %d, %d; want 1, 2", first.Seq, second.Seq)
	}
	if string(first.Data) != `{"type":"a"}` {
		t.Errorf("first frame = %s", first.Data)
	}
	event.ReleaseInbound(first)
	event.ReleaseInbound(second)
}

func TestExchangeWorker_OnMessageCopiesFrame(t *testing.T) {
	inbox := make(chan *event.Inbound, 1)
	w := newTestExchangeWorker(inbox)

	buf := []byte(`{"type":"a"}`)
	w.OnMessage(context.Background(), buf)
	buf[0] = 'X' // transport reuses its read buffer

	ev := <-inbox
	if string(ev.Data) != `{"type":"a"}` {
		t.Errorf("frame mutated after transport buffer reuse: %s", ev.Data)
	}
	event.ReleaseInbound(ev)
}

func TestExchangeWorker_OnMessageDropsWhenInboxFull(t *testing.T) {
	inbox := make(chan *event.Inbound, 1)
	w := newTestExchangeWorker(inbox)

	w.OnMessage(context.Background(), []byte(`{"type":"a"}`))
	// Inbox is full; this frame must be dropped, not block the reader.
	w.OnMessage(context.Background(), []byte(`{"type":"b"}`))

	ev := <-inbox
	if string(ev.Data) != `{"type":"a"}` {
		t.Errorf("kept frame = %s; want the first one", ev.Data)
	}
	event.ReleaseInbound(ev)

	select {
	case extra := <-inbox:
		t.Errorf("unexpected second frame: %s", extra.Data)
	default:
	}
}

func TestExchangeWorker_OnConnectHook(t *testing.T) {
	called := false
	w := NewExchangeWorker(ExchangeConfig{
		BaseURL:      "ws://localhost:8000",
		SubsessionID: "s1",
		MarketID:     1,
		PlayerID:     7,
		Inbox:        make(chan *event.Inbound, 1),
		Burst:        1,
		PerSecond:    1,
		OnConnect:    func() error { called = true; return nil },
	})

	if err := w.OnConnect(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if !called {
		t.Error("OnConnect hook was not invoked")
	}
}

func TestExchangeWorker_SendRejectedWhenCircuitOpen(t *testing.T) {
	w := newTestExchangeWorker(make(chan *event.Inbound, 1))

	// No connection: every write fails until the breaker opens.
	for i := 0; i < 5; i++ {
		w.Send([]byte("x"))
	}
	if w.breaker.GetState() != StateOpen {
		t.Fatalf("breaker = %s; want OPEN after repeated write failures", w.breaker.GetState())
	}
	if err := w.Send([]byte("x")); err == nil {
		t.Error("expected Send to be rejected while the circuit is open")
	}
}
