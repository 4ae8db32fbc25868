package domain

import "github.com/Leeps-Lab/oTree-HFT-CDA/pkg/quant"

// MarketState holds the venue-pushed view of one market.
// Hot fields (BBO) first; updated verbatim from bbo messages, no smoothing.
type MarketState struct {
	BestBid           quant.Price  `json:"best_bid"`
	BestOffer         quant.Price  `json:"best_offer"`
	VolumeAtBestBid   quant.Volume `json:"volume_at_best_bid"`
	VolumeAtBestOffer quant.Volume `json:"volume_at_best_offer"`

	SignedVolume   float64     `json:"signed_volume"`
	ReferencePrice quant.Price `json:"reference_price"`

	// External feed mirror (e_* fields of external_feed messages).
	ExternalBestBid      quant.Price `json:"e_best_bid"`
	ExternalBestOffer    quant.Price `json:"e_best_offer"`
	ExternalSignedVolume float64     `json:"e_signed_volume"`

	// Quote cue pushed to taker-role players.
	CueBid   quant.Price `json:"cue_bid"`
	CueOffer quant.Price `json:"cue_offer"`

	MarketID int64 `json:"market_id"`
}

// NewMarketState creates a market view with both BBO sides at their
// "absent" sentinels.
func NewMarketState(marketID int64) *MarketState {
	return &MarketState{
		MarketID:          marketID,
		BestBid:           quant.MinBid,
		BestOffer:         quant.MaxAsk,
		ExternalBestBid:   quant.MinBid,
		ExternalBestOffer: quant.MaxAsk,
	}
}
