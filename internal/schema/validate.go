package schema

import (
	"fmt"
	"math"
	"strconv"
)

// ErrorKind classifies validation failures. All of them are recoverable:
// the message is dropped and the stream continues.
type ErrorKind int

const (
	UnknownType ErrorKind = iota
	MissingField
	NullValue
	CoercionError
)

func (k ErrorKind) String() string {
	switch k {
	case UnknownType:
		return "unknown_type"
	case MissingField:
		return "missing_field"
	case NullValue:
		return "null_value"
	case CoercionError:
		return "coercion_error"
	default:
		return "unknown"
	}
}

// ValidationError reports why a raw message was rejected.
type ValidationError struct {
	Kind    ErrorKind
	MsgType string
	Field   string
	Value   any
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case UnknownType:
		return fmt.Sprintf("validate: unknown message type %q", e.MsgType)
	case MissingField:
		return fmt.Sprintf("validate: %s missing field %q", e.MsgType, e.Field)
	case NullValue:
		return fmt.Sprintf("validate: %s field %q is null", e.MsgType, e.Field)
	case CoercionError:
		return fmt.Sprintf("validate: %s field %q value %v not coercible", e.MsgType, e.Field, e.Value)
	default:
		return "validate: invalid message"
	}
}

// Validate turns an untyped raw mapping into a Message or rejects it.
// The field table is a strict allow-list: every declared field is required,
// undeclared incoming fields are dropped. Validation is pure; on failure
// nothing is mutated anywhere.
func (r *Registry) Validate(dir Direction, raw map[string]any) (*Message, error) {
	msgType, _ := raw["type"].(string)
	spec, ok := r.Lookup(dir, msgType)
	if !ok {
		return nil, &ValidationError{Kind: UnknownType, MsgType: msgType}
	}

	values := make(map[string]any, len(spec))
	for _, f := range spec {
		rawValue, present := raw[f.Name]
		if !present {
			return nil, &ValidationError{Kind: MissingField, MsgType: msgType, Field: f.Name}
		}
		if rawValue == nil {
			return nil, &ValidationError{Kind: NullValue, MsgType: msgType, Field: f.Name}
		}

		clean, ok := coerce(f.Rule, rawValue)
		if !ok {
			return nil, &ValidationError{Kind: CoercionError, MsgType: msgType, Field: f.Name, Value: rawValue}
		}
		values[f.Name] = clean
	}

	return &Message{Type: msgType, spec: spec, values: values}, nil
}

// coerce applies one rule to one raw JSON value. Raw values arrive as the
// encoding/json defaults: string, float64, bool.
func coerce(rule CoercionRule, raw any) (any, bool) {
	switch rule {
	case CoerceString:
		switch v := raw.(type) {
		case string:
			return v, true
		case float64:
			// Venues are loose about numeric identifiers.
			return strconv.FormatFloat(v, 'f', -1, 64), true
		case bool:
			return strconv.FormatBool(v), true
		default:
			return nil, false
		}

	case CoerceInt:
		switch v := raw.(type) {
		case float64:
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, false
			}
			return int64(math.Trunc(v)), true
		case string:
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				return n, true
			}
			if f, err := strconv.ParseFloat(v, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
				return int64(math.Trunc(f)), true
			}
			return nil, false
		default:
			return nil, false
		}

	case CoerceFloat:
		switch v := raw.(type) {
		case float64:
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, false
			}
			return v, true
		case string:
			f, err := strconv.ParseFloat(v, 64)
			if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
				return nil, false
			}
			return f, true
		default:
			return nil, false
		}

	case CoerceBool:
		if v, ok := raw.(bool); ok {
			return v, true
		}
		return nil, false

	default:
		return nil, false
	}
}
