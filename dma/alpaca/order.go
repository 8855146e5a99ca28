package alpaca

import (
	"encoding/json"
	"time"

	"github.com/gbkr-com/alpaca/dma"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// An Order as reported by the service. Orders are only ever changed by the
// service: a replacement or cancellation returns, or must be followed by
// fetching, a fresh [Order].
//
// Each optional timestamp is present once the corresponding transition has
// occurred. Optional fields are written as null when absent.
type Order struct {
	ID             uuid.UUID
	ClientOrderID  string
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	SubmittedAt    *time.Time
	FilledAt       *time.Time
	ExpiredAt      *time.Time
	CanceledAt     *time.Time
	FailedAt       *time.Time
	AssetID        uuid.UUID
	Symbol         string
	AssetClass     string
	Qty            decimal.Decimal
	FilledQty      decimal.Decimal
	Type           OrderType
	Side           Side
	TimeInForce    TimeInForce
	LimitPrice     *decimal.Decimal
	StopPrice      *decimal.Decimal
	FilledAvgPrice *decimal.Decimal
	Status         OrderStatus
	ExtendedHours  bool
	Legs           []Order // Child orders of a bracket, OCO or OTO order.
}

type orderWire struct {
	ID             uuid.UUID   `json:"id"`
	ClientOrderID  string      `json:"client_order_id"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      *time.Time  `json:"updated_at"`
	SubmittedAt    *time.Time  `json:"submitted_at"`
	FilledAt       *time.Time  `json:"filled_at"`
	ExpiredAt      *time.Time  `json:"expired_at"`
	CanceledAt     *time.Time  `json:"canceled_at"`
	FailedAt       *time.Time  `json:"failed_at"`
	AssetID        uuid.UUID   `json:"asset_id"`
	Symbol         string      `json:"symbol"`
	AssetClass     string      `json:"asset_class"`
	Qty            string      `json:"qty"`
	FilledQty      string      `json:"filled_qty"`
	Type           OrderType   `json:"type"`
	Side           Side        `json:"side"`
	TimeInForce    TimeInForce `json:"time_in_force"`
	LimitPrice     *string     `json:"limit_price"`
	StopPrice      *string     `json:"stop_price"`
	FilledAvgPrice *string     `json:"filled_avg_price"`
	Status         OrderStatus `json:"status"`
	ExtendedHours  bool        `json:"extended_hours"`
	Legs           []Order     `json:"legs"`
}

// MarshalJSON implements [json.Marshaler].
func (x Order) MarshalJSON() ([]byte, error) {
	return json.Marshal(&orderWire{
		ID:             x.ID,
		ClientOrderID:  x.ClientOrderID,
		CreatedAt:      x.CreatedAt,
		UpdatedAt:      x.UpdatedAt,
		SubmittedAt:    x.SubmittedAt,
		FilledAt:       x.FilledAt,
		ExpiredAt:      x.ExpiredAt,
		CanceledAt:     x.CanceledAt,
		FailedAt:       x.FailedAt,
		AssetID:        x.AssetID,
		Symbol:         x.Symbol,
		AssetClass:     x.AssetClass,
		Qty:            dma.EncodeDecimal(x.Qty),
		FilledQty:      dma.EncodeDecimal(x.FilledQty),
		Type:           x.Type,
		Side:           x.Side,
		TimeInForce:    x.TimeInForce,
		LimitPrice:     dma.EncodeOptional(x.LimitPrice),
		StopPrice:      dma.EncodeOptional(x.StopPrice),
		FilledAvgPrice: dma.EncodeOptional(x.FilledAvgPrice),
		Status:         x.Status,
		ExtendedHours:  x.ExtendedHours,
		Legs:           x.Legs,
	})
}

// UnmarshalJSON implements [json.Unmarshaler].
func (x *Order) UnmarshalJSON(b []byte) error {

	var w orderWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	var dec wireDecoder
	order := Order{
		ID:             w.ID,
		ClientOrderID:  w.ClientOrderID,
		CreatedAt:      w.CreatedAt,
		UpdatedAt:      w.UpdatedAt,
		SubmittedAt:    w.SubmittedAt,
		FilledAt:       w.FilledAt,
		ExpiredAt:      w.ExpiredAt,
		CanceledAt:     w.CanceledAt,
		FailedAt:       w.FailedAt,
		AssetID:        w.AssetID,
		Symbol:         w.Symbol,
		AssetClass:     w.AssetClass,
		Qty:            dec.decimal("qty", w.Qty),
		FilledQty:      dec.decimal("filled_qty", w.FilledQty),
		Type:           w.Type,
		Side:           w.Side,
		TimeInForce:    w.TimeInForce,
		LimitPrice:     dec.optional("limit_price", w.LimitPrice),
		StopPrice:      dec.optional("stop_price", w.StopPrice),
		FilledAvgPrice: dec.optional("filled_avg_price", w.FilledAvgPrice),
		Status:         w.Status,
		ExtendedHours:  w.ExtendedHours,
		Legs:           w.Legs,
	}
	if dec.err != nil {
		return dec.err
	}

	*x = order
	return nil
}
