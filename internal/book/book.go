package book

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Leeps-Lab/oTree-HFT-CDA/pkg/quant"
)

// Side is the trading side of an order.
type Side int

const (
	Bid Side = iota
	Ask
)

func (s Side) String() string {
	if s == Ask {
		return "ask"
	}
	return "bid"
}

// Indicator returns the venue's one-character wire form of the side.
func (s Side) Indicator() string {
	if s == Ask {
		return "S"
	}
	return "B"
}

// ErrInvalidSide is returned for indicators outside {'B','S'}.
var ErrInvalidSide = errors.New("book: invalid buy/sell indicator")

// SideFromIndicator maps the venue's one-character indicator to a Side.
func SideFromIndicator(indicator string) (Side, error) {
	switch indicator {
	case "B":
		return Bid, nil
	case "S":
		return Ask, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidSide, indicator)
	}
}

// Remove inconsistencies. Both are recoverable: a remove can trail an
// already-applied remove or replace on a reordered transport, so the book
// stays best-effort consistent and the caller just logs.
var (
	ErrPriceLevelMissing = errors.New("book: no level at price")
	ErrTokenMissing      = errors.New("book: token not resting at level")
)

// defaultTimeInForce marks a resting order when a replace carries no
// explicit time in force.
const defaultTimeInForce int64 = 9999

// Level is a read-only view of one price level.
type Level struct {
	Price  quant.Price
	Tokens []string
}

// OrderBook tracks one player's resting orders by side and price.
// Not safe for concurrent mutation; all writes are confined to the
// session's consumer goroutine.
type OrderBook struct {
	bids map[quant.Price]map[string]struct{}
	asks map[quant.Price]map[string]struct{}
}

// New creates an empty order book.
func New() *OrderBook {
	return &OrderBook{
		bids: make(map[quant.Price]map[string]struct{}),
		asks: make(map[quant.Price]map[string]struct{}),
	}
}

func (b *OrderBook) levels(side Side) map[quant.Price]map[string]struct{} {
	if side == Ask {
		return b.asks
	}
	return b.bids
}

// Add inserts a token at (side, price), creating the level if absent.
// Time in force 0 is an immediate-or-cancel marker: the order never rests,
// so the add is a no-op.
func (b *OrderBook) Add(price quant.Price, side Side, token string, timeInForce int64) {
	if timeInForce == 0 {
		return
	}
	levels := b.levels(side)
	tokens, ok := levels[price]
	if !ok {
		tokens = make(map[string]struct{})
		levels[price] = tokens
	}
	tokens[token] = struct{}{}
}

// Remove deletes a token from (side, price). An empty level is deleted
// immediately; the book never keeps dangling empty levels. A missing level
// or token returns a typed recoverable error and leaves the book unchanged.
func (b *OrderBook) Remove(price quant.Price, side Side, token string) error {
	levels := b.levels(side)
	tokens, ok := levels[price]
	if !ok {
		return fmt.Errorf("%w: side=%s price=%d token=%s", ErrPriceLevelMissing, side, price, token)
	}
	if _, ok := tokens[token]; !ok {
		return fmt.Errorf("%w: side=%s price=%d token=%s", ErrTokenMissing, side, price, token)
	}
	delete(tokens, token)
	if len(tokens) == 0 {
		delete(levels, price)
	}
	return nil
}

// Replace atomically moves a resting order: remove the old (price, token)
// pair, then add the new one. The add proceeds even when the remove reports
// an inconsistency, so a replace that only partially matches local knowledge
// still converges to the correct new resting order. The remove inconsistency,
// if any, is returned for the caller to log.
func (b *OrderBook) Replace(newPrice quant.Price, side Side, newToken string, oldPrice quant.Price, oldToken string) error {
	err := b.Remove(oldPrice, side, oldToken)
	b.Add(newPrice, side, newToken, defaultTimeInForce)
	return err
}

// Levels returns the side's price levels in ascending price order.
// The result is a copy; mutation goes through Add/Remove/Replace only.
func (b *OrderBook) Levels(side Side) []Level {
	levels := b.levels(side)
	out := make([]Level, 0, len(levels))
	for price, tokens := range levels {
		lvl := Level{Price: price, Tokens: make([]string, 0, len(tokens))}
		for token := range tokens {
			lvl.Tokens = append(lvl.Tokens, token)
		}
		sort.Strings(lvl.Tokens)
		out = append(out, lvl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	return out
}

// Contains reports whether a token rests at (side, price).
func (b *OrderBook) Contains(price quant.Price, side Side, token string) bool {
	tokens, ok := b.levels(side)[price]
	if !ok {
		return false
	}
	_, ok = tokens[token]
	return ok
}
