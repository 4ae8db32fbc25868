package engine

import (
	"errors"
	"testing"

	"github.com/Leeps-Lab/oTree-HFT-CDA/internal/book"
	"github.com/Leeps-Lab/oTree-HFT-CDA/internal/schema"
)

type captureSender struct {
	frames [][]byte
	err    error
}

func (c *captureSender) Send(data []byte) error {
	if c.err != nil {
		return c.err
	}
	c.frames = append(c.frames, data)
	return nil
}

func newTestOutbox(sender Sender) *Outbox {
	return NewOutbox(schema.NewRegistry(), sender)
}

func TestOutbox_EnterOrderWireFormat(t *testing.T) {
	sender := &captureSender{}
	o := newTestOutbox(sender)

	if err := o.EnterOrder(10100, book.Bid); err != nil {
		t.Fatal(err)
	}

	want := `{"type":"order_entered","price":10100,"buy_sell_indicator":"B"}`
	if len(sender.frames) != 1 || string(sender.frames[0]) != want {
		t.Errorf("sent %s; want %s", sender.frames[0], want)
	}
}

func TestOutbox_AllMessageTypes(t *testing.T) {
	sender := &captureSender{}
	o := newTestOutbox(sender)

	if err := o.RoleChange("maker"); err != nil {
		t.Fatal(err)
	}
	if err := o.Slider(0.5, -1.25, 0); err != nil {
		t.Fatal(err)
	}
	if err := o.SpeedChange(true); err != nil {
		t.Fatal(err)
	}
	if err := o.PlayerReady(); err != nil {
		t.Fatal(err)
	}

	want := []string{
		`{"type":"role_change","state":"maker"}`,
		`{"type":"slider","a_x":0.5,"a_y":-1.25,"a_z":0}`,
		`{"type":"speed_change","value":true}`,
		`{"type":"player_ready"}`,
	}
	if len(sender.frames) != len(want) {
		t.Fatalf("sent %d frames; want %d", len(sender.frames), len(want))
	}
	for i, w := range want {
		if string(sender.frames[i]) != w {
			t.Errorf("frame %d = %s; want %s", i, sender.frames[i], w)
		}
	}
}

func TestOutbox_ValidatesBeforeSending(t *testing.T) {
	sender := &captureSender{}
	o := newTestOutbox(sender)

	// Missing required field: rejected before it ever reaches encode.
	err := o.send(map[string]any{"type": schema.TypeRoleChange})
	if err == nil {
		t.Fatal("expected validation error for missing state field")
	}
	var verr *schema.ValidationError
	if !errors.As(err, &verr) || verr.Kind != schema.MissingField {
		t.Errorf("error = %v; want MissingField validation error", err)
	}
	if len(sender.frames) != 0 {
		t.Error("rejected message must never reach the transport")
	}
}

func TestOutbox_PropagatesTransportError(t *testing.T) {
	sendErr := errors.New("socket closed")
	o := newTestOutbox(&captureSender{err: sendErr})

	if err := o.PlayerReady(); !errors.Is(err, sendErr) {
		t.Errorf("err = %v; want transport error", err)
	}
}
