package schema

import "sort"

// Direction separates the two message tables: what the venue sends us and
// what we are allowed to send back.
type Direction int

const (
	Inbound Direction = iota
	Outbound
)

func (d Direction) String() string {
	if d == Outbound {
		return "outbound"
	}
	return "inbound"
}

// CoercionRule is the closed set of per-field value conversions.
type CoercionRule int

const (
	CoerceString CoercionRule = iota
	CoerceInt
	CoerceFloat
	CoerceBool
)

func (r CoercionRule) String() string {
	switch r {
	case CoerceString:
		return "string"
	case CoerceInt:
		return "int"
	case CoerceFloat:
		return "float"
	case CoerceBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Field is one required message field and its coercion rule.
type Field struct {
	Name string
	Rule CoercionRule
}

// FieldSpec is the ordered field table for one (direction, type) pair.
// Order is part of the wire contract: Encode re-emits fields in this order.
type FieldSpec []Field

// Inbound message type identifiers.
const (
	TypeConfirmed      = "confirmed"
	TypeExecuted       = "executed"
	TypeReplaced       = "replaced"
	TypeCanceled       = "canceled"
	TypeBBO            = "bbo"
	TypeSignedVolume   = "signed_volume"
	TypeExternalFeed   = "external_feed"
	TypeReferencePrice = "reference_price"
	TypeSystemEvent    = "system_event"
	TypeRoleConfirm    = "role_confirm"
	TypeSpeedConfirm   = "speed_confirm"
	TypeQuoteCue       = "elo_quote_cue"
)

// Outbound message type identifiers.
const (
	TypeOrderEntered = "order_entered"
	TypeRoleChange   = "role_change"
	TypeSlider       = "slider"
	TypeSpeedChange  = "speed_change"
	TypePlayerReady  = "player_ready"
)

// Registry holds the message tables for both directions.
// Read-only after construction; safe for concurrent lookups.
type Registry struct {
	inbound  map[string]FieldSpec
	outbound map[string]FieldSpec
}

// NewRegistry builds the ELO environment message tables.
func NewRegistry() *Registry {
	return &Registry{
		inbound: map[string]FieldSpec{
			TypeConfirmed: {
				{"type", CoerceString},
				{"order_token", CoerceString},
				{"price", CoerceInt},
				{"player_id", CoerceString},
				{"market_id", CoerceInt},
				{"buy_sell_indicator", CoerceString},
				{"time_in_force", CoerceInt},
			},
			TypeExecuted: {
				{"type", CoerceString},
				{"order_token", CoerceString},
				{"player_id", CoerceInt},
				{"market_id", CoerceInt},
				{"price", CoerceInt},
				{"inventory", CoerceInt},
				{"execution_price", CoerceInt},
				{"buy_sell_indicator", CoerceString},
			},
			TypeReplaced: {
				{"type", CoerceString},
				{"order_token", CoerceString},
				{"old_token", CoerceString},
				{"player_id", CoerceInt},
				{"market_id", CoerceInt},
				{"price", CoerceInt},
				{"old_price", CoerceInt},
				{"buy_sell_indicator", CoerceString},
			},
			TypeCanceled: {
				{"type", CoerceString},
				{"order_token", CoerceString},
				{"player_id", CoerceInt},
				{"market_id", CoerceInt},
				{"price", CoerceInt},
				{"buy_sell_indicator", CoerceString},
			},
			TypeBBO: {
				{"type", CoerceString},
				{"market_id", CoerceInt},
				{"best_bid", CoerceInt},
				{"best_offer", CoerceInt},
				{"volume_at_best_bid", CoerceInt},
				{"volume_at_best_offer", CoerceInt},
			},
			TypeSignedVolume: {
				{"type", CoerceString},
				{"market_id", CoerceInt},
				{"signed_volume", CoerceFloat},
			},
			TypeExternalFeed: {
				{"type", CoerceString},
				{"market_id", CoerceInt},
				{"e_best_bid", CoerceInt},
				{"e_best_offer", CoerceInt},
				{"e_signed_volume", CoerceFloat},
			},
			TypeReferencePrice: {
				{"type", CoerceString},
				{"market_id", CoerceInt},
				{"reference_price", CoerceInt},
			},
			TypeSystemEvent: {
				{"type", CoerceString},
				{"market_id", CoerceInt},
				{"code", CoerceString},
			},
			TypeRoleConfirm: {
				{"type", CoerceString},
				{"market_id", CoerceInt},
				{"player_id", CoerceInt},
				{"role_name", CoerceString},
			},
			TypeSpeedConfirm: {
				{"type", CoerceString},
				{"market_id", CoerceInt},
				{"player_id", CoerceInt},
				{"value", CoerceBool},
			},
			TypeQuoteCue: {
				{"type", CoerceString},
				{"market_id", CoerceInt},
				{"bid", CoerceInt},
				{"offer", CoerceInt},
			},
		},
		outbound: map[string]FieldSpec{
			TypeOrderEntered: {
				{"type", CoerceString},
				{"price", CoerceInt},
				{"buy_sell_indicator", CoerceString},
			},
			TypeRoleChange: {
				{"type", CoerceString},
				{"state", CoerceString},
			},
			TypeSlider: {
				{"type", CoerceString},
				{"a_x", CoerceFloat},
				{"a_y", CoerceFloat},
				{"a_z", CoerceFloat},
			},
			TypeSpeedChange: {
				{"type", CoerceString},
				{"value", CoerceBool},
			},
			TypePlayerReady: {
				{"type", CoerceString},
			},
		},
	}
}

func (r *Registry) table(dir Direction) map[string]FieldSpec {
	if dir == Outbound {
		return r.outbound
	}
	return r.inbound
}

// Lookup returns the field table for one message type.
func (r *Registry) Lookup(dir Direction, msgType string) (FieldSpec, bool) {
	spec, ok := r.table(dir)[msgType]
	return spec, ok
}

// Types lists all known message types for a direction, sorted.
// Used to build exhaustive handler tables at startup.
func (r *Registry) Types(dir Direction) []string {
	t := r.table(dir)
	types := make([]string, 0, len(t))
	for name := range t {
		types = append(types, name)
	}
	sort.Strings(types)
	return types
}
