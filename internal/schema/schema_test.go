package schema

import (
	"testing"
)

func TestRegistry_Lookup(t *testing.T) {
	reg := NewRegistry()

	spec, ok := reg.Lookup(Inbound, TypeConfirmed)
	if !ok {
		t.Fatal("confirmed should be a known inbound type")
	}
	if spec[0].Name != "type" || spec[0].Rule != CoerceString {
		t.Errorf("first field = %v; want type:string", spec[0])
	}

	if _, ok := reg.Lookup(Outbound, TypeConfirmed); ok {
		t.Error("confirmed should not be an outbound type")
	}
	if _, ok := reg.Lookup(Inbound, "order_imbalance"); ok {
		t.Error("order_imbalance should not be registered")
	}
}

func TestRegistry_Types(t *testing.T) {
	reg := NewRegistry()

	inbound := reg.Types(Inbound)
	if len(inbound) != 12 {
		t.Errorf("inbound type count = %d; want 12", len(inbound))
	}
	outbound := reg.Types(Outbound)
	if len(outbound) != 5 {
		t.Errorf("outbound type count = %d; want 5", len(outbound))
	}

	// Sorted for deterministic handler-table construction.
	for i := 1; i < len(inbound); i++ {
		if inbound[i-1] >= inbound[i] {
			t.Fatalf("Types not sorted: %q before %q", inbound[i-1], inbound[i])
		}
	}

	// Every enumerated type must resolve.
	for _, name := range inbound {
		if _, ok := reg.Lookup(Inbound, name); !ok {
			t.Errorf("enumerated type %q does not resolve", name)
		}
	}
}

func TestRegistry_OutboundTables(t *testing.T) {
	reg := NewRegistry()

	slider, ok := reg.Lookup(Outbound, TypeSlider)
	if !ok {
		t.Fatal("slider should be a known outbound type")
	}
	if len(slider) != 4 {
		t.Errorf("slider field count = %d; want 4", len(slider))
	}

	ready, _ := reg.Lookup(Outbound, TypePlayerReady)
	if len(ready) != 1 || ready[0].Name != "type" {
		t.Errorf("player_ready spec = %v; want single type field", ready)
	}
}
