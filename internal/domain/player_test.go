package domain

import (
	"testing"

	"github.com/Leeps-Lab/oTree-HFT-CDA/pkg/quant"
)

func TestEndowment(t *testing.T) {
	tests := []struct {
		name      string
		inventory int64
		cash      int64
		bestBid   quant.Price
		bestOffer quant.Price
		want      int64
		wantOK    bool
	}{
		{"short marked at offer", -5, 0, 100, 110, -550, true},
		{"long marked at bid", 5, 0, 100, quant.MaxAsk, 500, true},
		{"flat with no offer is absent", 0, 12345, 0, quant.MaxAsk, 0, false},
		{"flat with offer marks at offer", 0, 0, 100, 110, 0, true},
		{"long with no bid is absent", 5, 0, quant.MinBid, 110, 0, false},
		{"short with no offer is absent", -5, 0, 100, quant.MaxAsk, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Endowment(tt.inventory, tt.cash, tt.bestBid, tt.bestOffer)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v; want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("value = %d; want %d", got, tt.want)
			}
		})
	}
}

func TestEndowmentCurrency(t *testing.T) {
	if got := EndowmentCurrency(-550).StringFixed(4); got != "-0.0550" {
		t.Errorf("currency = %s; want -0.0550", got)
	}
}

func TestNewMarketState_Sentinels(t *testing.T) {
	m := NewMarketState(1)
	if m.BestBid.HasBid() {
		t.Error("fresh market should have no best bid")
	}
	if m.BestOffer.HasOffer() {
		t.Error("fresh market should have no best offer")
	}
}

func TestNewPlayerState_Flat(t *testing.T) {
	p := NewPlayerState("7")
	if p.Inventory != 0 || p.Cash != 0 || p.MyBid != 0 || p.MyOffer != 0 {
		t.Errorf("fresh player state should be flat: %+v", p)
	}
}
