package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Message is a validated message: exactly the declared fields, each value
// coerced to its rule's Go type (string, int64, float64 or bool).
// Created fresh per event and consumed immediately; not retained.
type Message struct {
	Type   string
	spec   FieldSpec
	values map[string]any
}

// Fields returns the declared field table in wire order.
func (m *Message) Fields() FieldSpec {
	return m.spec
}

// Get returns the coerced value for a field, or nil if not declared.
func (m *Message) Get(name string) any {
	return m.values[name]
}

// Str returns a string field. Zero value if absent or mistyped;
// handlers only ever see validated messages.
func (m *Message) Str(name string) string {
	v, _ := m.values[name].(string)
	return v
}

// Int returns an integer field.
func (m *Message) Int(name string) int64 {
	v, _ := m.values[name].(int64)
	return v
}

// Float returns a float field.
func (m *Message) Float(name string) float64 {
	v, _ := m.values[name].(float64)
	return v
}

// Bool returns a boolean field.
func (m *Message) Bool(name string) bool {
	v, _ := m.values[name].(bool)
	return v
}

// Encode renders the message as a JSON object with fields in declared order.
// This is the outbound wire format and also makes the schema round-trip
// deterministic.
func (m *Message) Encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range m.spec {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(m.values[f.Name])
		if err != nil {
			return nil, fmt.Errorf("encode field %s: %w", f.Name, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
