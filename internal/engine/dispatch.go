package engine

import (
	"github.com/Leeps-Lab/oTree-HFT-CDA/internal/schema"
)

// Handler consumes one validated message. Handlers run synchronously on
// the session's consumer goroutine and never see partially validated data.
type Handler func(*schema.Message)

// Dispatcher routes validated messages to their handlers in registration
// order. Order is part of the contract: for executed messages the book
// handler must run before the inventory handler, which reads book state
// the first one mutated.
type Dispatcher struct {
	handlers map[string][]Handler
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string][]Handler)}
}

// Register appends handlers for a message type, preserving order across
// calls.
func (d *Dispatcher) Register(msgType string, handlers ...Handler) {
	d.handlers[msgType] = append(d.handlers[msgType], handlers...)
}

// Handles reports whether any handler is registered for a type.
func (d *Dispatcher) Handles(msgType string) bool {
	return len(d.handlers[msgType]) > 0
}

// Dispatch invokes every registered handler with the same message.
// A type with no handlers is intentionally ignored, not an error.
func (d *Dispatcher) Dispatch(msg *schema.Message) {
	for _, h := range d.handlers[msg.Type] {
		h(msg)
	}
}
