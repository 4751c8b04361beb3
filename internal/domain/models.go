package domain

import "time"

// Broker enumerates the supported account brokers.
type Broker string

const (
	BrokerQMT Broker = "QMT"
	BrokerGM  Broker = "GM"
	BrokerTDX Broker = "TDX"
)

// ValidBroker reports whether b is one of the enumerated brokers.
func ValidBroker(b string) bool {
	switch Broker(b) {
	case BrokerQMT, BrokerGM, BrokerTDX:
		return true
	default:
		return false
	}
}

// AccountStatus enumerates account lifecycle states.
type AccountStatus string

const (
	AccountActive     AccountStatus = "active"
	AccountInactive   AccountStatus = "inactive"
	AccountSuspended  AccountStatus = "suspended"
)

// ValidAccountStatus reports whether s is an enumerated account status.
func ValidAccountStatus(s string) bool {
	switch AccountStatus(s) {
	case AccountActive, AccountInactive, AccountSuspended:
		return true
	default:
		return false
	}
}

// StrategyType enumerates the supported strategy classes.
type StrategyType string

const (
	StrategyWencai    StrategyType = "wencai"
	StrategyRemote    StrategyType = "remote"
	StrategyTechnical StrategyType = "technical"
)

// ValidStrategyType reports whether s is an enumerated strategy type.
func ValidStrategyType(s string) bool {
	switch StrategyType(s) {
	case StrategyWencai, StrategyRemote, StrategyTechnical:
		return true
	default:
		return false
	}
}

// StrategyStatus enumerates strategy lifecycle states.
type StrategyStatus string

const (
	StrategyActive   StrategyStatus = "active"
	StrategyTesting  StrategyStatus = "testing"
	StrategyInactive StrategyStatus = "inactive"
)

// OrderType enumerates trade record order types.
type OrderType string

const (
	OrderBuyOrder  OrderType = "buy_order"
	OrderSellOrder OrderType = "sell_order"
	OrderBuyTrade  OrderType = "buy_trade"
	OrderSellTrade OrderType = "sell_trade"
	OrderCancel    OrderType = "cancel"
)

// ValidOrderType reports whether s is an enumerated order type.
func ValidOrderType(s string) bool {
	switch OrderType(s) {
	case OrderBuyOrder, OrderSellOrder, OrderBuyTrade, OrderSellTrade, OrderCancel:
		return true
	default:
		return false
	}
}

// ParamType tags the runtime type of a serialized StrategyParam value.
type ParamType string

const (
	ParamInt    ParamType = "int"
	ParamFloat  ParamType = "float"
	ParamString ParamType = "string"
	ParamJSON   ParamType = "json"
)

// ParamValue is a tagged variant holding one strategy parameter value.
// It replaces the source's dynamically-typed parameter dict with an
// explicit, statically-checkable union plus one untyped escape hatch
// (the Interface method) used only for migration/export round-tripping.
type ParamValue struct {
	Type ParamType
	I    int64
	F    float64
	S    string
	J    any // structured value, for ParamJSON (objects, arrays, bools)
}

// IntValue constructs an int-tagged ParamValue.
func IntValue(v int64) ParamValue { return ParamValue{Type: ParamInt, I: v} }

// FloatValue constructs a float-tagged ParamValue.
func FloatValue(v float64) ParamValue { return ParamValue{Type: ParamFloat, F: v} }

// StringValue constructs a string-tagged ParamValue.
func StringValue(v string) ParamValue { return ParamValue{Type: ParamString, S: v} }

// JSONValue constructs a json-tagged ParamValue (booleans, arrays, objects).
func JSONValue(v any) ParamValue { return ParamValue{Type: ParamJSON, J: v} }

// Interface returns the ParamValue's payload as an untyped Go value, for
// callers (and the migration toolkit) that want a plain map[string]any view.
func (p ParamValue) Interface() any {
	switch p.Type {
	case ParamInt:
		return p.I
	case ParamFloat:
		return p.F
	case ParamString:
		return p.S
	default:
		return p.J
	}
}

// Equal reports whether two ParamValues carry the same tag and payload.
// Used by CompareStrategyParams to detect modifications.
func (p ParamValue) Equal(other ParamValue) bool {
	if p.Type != other.Type {
		return false
	}
	switch p.Type {
	case ParamInt:
		return p.I == other.I
	case ParamFloat:
		return p.F == other.F
	case ParamString:
		return p.S == other.S
	default:
		return deepEqualJSON(p.J, other.J)
	}
}

// PositionState is per (AccountId, InstrumentCode) HOT-class state.
type PositionState struct {
	HeldDays int
	MaxPrice *float64
	MinPrice *float64
}

// TradeRecord is an immutable, append-only trade entry.
type TradeRecord struct {
	AccountID    string
	Timestamp    time.Time
	Date         string // YYYY-MM-DD, derived from Timestamp
	Code         string
	Name         string
	OrderType    OrderType
	Remark       string
	Price        float64
	Volume       int64
	Amount       float64
	StrategyName string
}

// Candle is one OHLCV bar for (InstrumentCode, Date).
type Candle struct {
	Code   string
	Date   string // YYYY-MM-DD
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
	Amount float64
}

// Account is a trading account record.
type Account struct {
	ID              int64
	AccountID       string
	AccountName     string
	Broker          Broker
	InitialCapital  float64
	CurrentCapital  float64
	TotalAssets     float64
	PositionValue   float64
	Status          AccountStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Strategy is a trading strategy record.
type Strategy struct {
	ID           int64
	StrategyName string
	StrategyCode string
	StrategyType StrategyType
	Version      string
	Status       StrategyStatus
	Description  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// StrategyParam is one versioned parameter row.
type StrategyParam struct {
	ID         int64
	StrategyID int64
	ParamKey   string
	Value      ParamValue
	Version    int
	IsActive   bool
	Remark     string
	CreatedAt  time.Time
}

// AccountStrategy is an account/strategy allocation row.
type AccountStrategy struct {
	AccountID       string
	StrategyID      int64
	AllocatedCapital float64
	RiskLimit        float64
	Status           string
}

// User / Role / Permission — RBAC join-table schema.
type User struct {
	ID        int64
	Username  string
	CreatedAt time.Time
}

type Role struct {
	ID   int64
	Name string
}

type Permission struct {
	ID   int64
	Name string
}

// AggregateRow is one row of AggregateTrades output.
type AggregateRow struct {
	Key         string // aggregation key (instrument code only, name not included; date; YYYY-MM month; or order_type)
	Count       int64
	TotalVolume int64
	TotalAmount float64
	NetAmount   float64 // sell amount minus buy amount, see SPEC_FULL.md §6
}

// GroupBy enumerates AggregateTrades grouping dimensions.
type GroupBy string

const (
	GroupByStock GroupBy = "stock"
	GroupByDate  GroupBy = "date"
	GroupByMonth GroupBy = "month"
	GroupByType  GroupBy = "type"
)

func deepEqualJSON(a, b any) bool {
	return jsonRepr(a) == jsonRepr(b)
}
