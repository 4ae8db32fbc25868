package domain

import (
	"github.com/Leeps-Lab/oTree-HFT-CDA/pkg/quant"
	"github.com/Leeps-Lab/oTree-HFT-CDA/pkg/safe"
	"github.com/shopspring/decimal"
)

// PlayerState is the local mirror of one player's trading state.
// Created at session start with a flat position; mutated only by the
// session's handlers; discarded at session end.
type PlayerState struct {
	PlayerID  string      `json:"player_id"`
	Inventory int64       `json:"inventory"`
	Cash      int64       `json:"cash"`
	MyBid     quant.Price `json:"my_bid"`   // 0 when no own bid rests
	MyOffer   quant.Price `json:"my_offer"` // 0 when no own offer rests
	Role      string      `json:"role"`
	Speed     bool        `json:"speed"`
}

// NewPlayerState creates a flat starting state for one player.
func NewPlayerState(playerID string) *PlayerState {
	return &PlayerState{PlayerID: playerID}
}

// Endowment is the mark-to-market value of inventory at the prevailing
// best price, in tick units. A short (or flat) position is marked at the
// offer, a long position at the bid. When no valid mark exists the value
// is absent, which downstream must treat differently from zero. Cash is
// part of the player's observable state but does not enter the mark.
func Endowment(inventory, cash int64, bestBid, bestOffer quant.Price) (int64, bool) {
	if inventory <= 0 && bestOffer.HasOffer() {
		return safe.Mul(inventory, int64(bestOffer)), true
	}
	if inventory > 0 && bestBid.HasBid() {
		return safe.Mul(inventory, int64(bestBid)), true
	}
	return 0, false
}

// EndowmentCurrency converts an endowment mark from tick units to an
// exact currency amount for display.
func EndowmentCurrency(value int64) decimal.Decimal {
	return quant.Price(value).Currency()
}
