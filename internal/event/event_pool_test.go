package event

import (
	"testing"
)

func TestInboundPool(t *testing.T) {
	// Acquire and use
	ev := AcquireInbound()
	ev.Seq = 42
	ev.SetData([]byte(`{"type":"bbo"}`))

	if string(ev.Data) != `{"type":"bbo"}` {
		t.Error("Data not set")
	}

	// Release
	ReleaseInbound(ev)

	// Acquire again - should be reset
	ev2 := AcquireInbound()
	if ev2.Seq != 0 || len(ev2.Data) != 0 {
		t.Error("Envelope should be reset after release")
	}
	ReleaseInbound(ev2)
}

func TestInbound_SetDataCopies(t *testing.T) {
	src := []byte(`{"type":"bbo"}`)
	ev := AcquireInbound()
	ev.SetData(src)

	src[2] = 'X' // mutate the transport buffer
	if string(ev.Data) != `{"type":"bbo"}` {
		t.Error("SetData must copy, not alias, the transport buffer")
	}
	ReleaseInbound(ev)
}

// BenchmarkWithoutPool measures allocation without pool
func BenchmarkWithoutPool(b *testing.B) {
	b.ReportAllocs()
	payload := []byte(`{"type":"bbo","market_id":1}`)
	for i := 0; i < b.N; i++ {
		ev := &Inbound{Seq: uint64(i), Data: append([]byte(nil), payload...)}
		_ = ev
	}
}

// BenchmarkWithPool measures allocation with pool
func BenchmarkWithPool(b *testing.B) {
	b.ReportAllocs()
	payload := []byte(`{"type":"bbo","market_id":1}`)
	for i := 0; i < b.N; i++ {
		ev := AcquireInbound()
		ev.Seq = uint64(i)
		ev.SetData(payload)
		ReleaseInbound(ev)
	}
}
