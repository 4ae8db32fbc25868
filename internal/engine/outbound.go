package engine

import (
	"fmt"

	"github.com/Leeps-Lab/oTree-HFT-CDA/internal/book"
	"github.com/Leeps-Lab/oTree-HFT-CDA/internal/schema"
	"github.com/Leeps-Lab/oTree-HFT-CDA/pkg/quant"
)

// Sender hands an encoded outbound message to the transport.
// Fire-and-forget: the send must not sit on the inbound critical path.
type Sender interface {
	Send(data []byte) error
}

// Outbox builds outbound messages, validates them against the outbound
// schema and hands them to the transport. A message that fails its own
// schema never leaves the client.
type Outbox struct {
	registry *schema.Registry
	sender   Sender
}

// NewOutbox creates an outbox bound to one transport.
func NewOutbox(registry *schema.Registry, sender Sender) *Outbox {
	return &Outbox{registry: registry, sender: sender}
}

func (o *Outbox) send(raw map[string]any) error {
	msg, err := o.registry.Validate(schema.Outbound, raw)
	if err != nil {
		return fmt.Errorf("outbound rejected: %w", err)
	}
	data, err := msg.Encode()
	if err != nil {
		return fmt.Errorf("outbound encode: %w", err)
	}
	return o.sender.Send(data)
}

// EnterOrder submits a new order at a price on a side.
func (o *Outbox) EnterOrder(price quant.Price, side book.Side) error {
	return o.send(map[string]any{
		"type":               schema.TypeOrderEntered,
		"price":              float64(price),
		"buy_sell_indicator": side.Indicator(),
	})
}

// RoleChange requests a trading role transition.
func (o *Outbox) RoleChange(state string) error {
	return o.send(map[string]any{
		"type":  schema.TypeRoleChange,
		"state": state,
	})
}

// Slider reports the player's current sensitivity settings.
func (o *Outbox) Slider(aX, aY, aZ float64) error {
	return o.send(map[string]any{
		"type": schema.TypeSlider,
		"a_x":  aX,
		"a_y":  aY,
		"a_z":  aZ,
	})
}

// SpeedChange toggles the speed subscription.
func (o *Outbox) SpeedChange(value bool) error {
	return o.send(map[string]any{
		"type":  schema.TypeSpeedChange,
		"value": value,
	})
}

// PlayerReady signals the venue that this client is ready to stream.
func (o *Outbox) PlayerReady() error {
	return o.send(map[string]any{
		"type": schema.TypePlayerReady,
	})
}
