package event

import (
	"github.com/Leeps-Lab/oTree-HFT-CDA/pkg/quant"
)

// Inbound is one raw transport frame queued for the session consumer.
// The gateway worker fills it; the session releases it back to the pool
// after dispatch.
type Inbound struct {
	Seq  uint64
	Ts   quant.TimeStamp
	Data []byte
}

// Reset clears the envelope for reuse, keeping the payload capacity.
func (e *Inbound) Reset() {
	e.Seq = 0
	e.Ts = 0
	e.Data = e.Data[:0]
}

// SetData copies a transport frame into the envelope's buffer. The
// transport reuses its read buffer, so the bytes must be owned here.
func (e *Inbound) SetData(b []byte) {
	e.Data = append(e.Data[:0], b...)
}
