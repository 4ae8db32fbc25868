package quant

import (
	"sync/atomic"

	"github.com/shopspring/decimal"
)

// Price is a price in exchange tick units. One tick is 1e-4 currency units,
// matching the venue's integer price feed.
type Price int64

// Volume is a displayed share count at a price level.
type Volume int64

// TimeStamp represents Unix Microseconds.
type TimeStamp int64

const (
	// TickScale is the number of tick units per currency unit.
	TickScale = 10000

	// MinBid is the venue sentinel for "no best bid".
	MinBid Price = 0

	// MaxAsk is the venue sentinel for "no best offer" (max 32-bit signed int).
	MaxAsk Price = 2147483647
)

// HasBid reports whether p is a real best bid rather than the sentinel.
func (p Price) HasBid() bool {
	return p != MinBid
}

// HasOffer reports whether p is a real best offer rather than the sentinel.
func (p Price) HasOffer() bool {
	return p != MaxAsk
}

// Currency converts tick units to an exact currency amount.
// Only used at the display boundary. Internal logic stays in tick units.
func (p Price) Currency() decimal.Decimal {
	return decimal.New(int64(p), -4)
}

func (p Price) String() string {
	return p.Currency().StringFixed(4)
}

// NextSeq generates the next sequence number atomically.
func NextSeq(ptr *uint64) uint64 {
	return atomic.AddUint64(ptr, 1)
}
