package event

import "sync"

// inboundPool recycles frame envelopes on the hotpath. One envelope is
// allocated per inbound message; without pooling that is one GC allocation
// per frame at feed rate.
var inboundPool = sync.Pool{
	New: func() any {
		return &Inbound{Data: make([]byte, 0, 512)}
	},
}

// AcquireInbound returns a clean envelope from the pool.
func AcquireInbound() *Inbound {
	return inboundPool.Get().(*Inbound)
}

// ReleaseInbound resets the envelope and returns it to the pool.
// The caller must not touch the envelope afterwards.
func ReleaseInbound(e *Inbound) {
	e.Reset()
	inboundPool.Put(e)
}

// Warmup pre-populates the pool so the first burst of frames does not
// allocate. Called once at bootstrap.
func Warmup() {
	warm := make([]*Inbound, 64)
	for i := range warm {
		warm[i] = AcquireInbound()
	}
	for _, e := range warm {
		ReleaseInbound(e)
	}
}
