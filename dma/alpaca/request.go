package alpaca

import (
	"encoding/json"

	"github.com/gbkr-com/alpaca/dma"
	"github.com/shopspring/decimal"
)

// OrderRequest is the body of a new order. Build one with [NewOrderRequest],
// [Buy] or [Sell] and the With... setters, for example
//
//	alpaca.Buy("IBM", dma.Num(2)).WithType(alpaca.OrderTypeLimit).WithLimitPrice(dma.Num(1))
//
// Setters return a modified copy and never change the receiver. Nothing is
// validated here: a limit order without a limit price can be built and will
// be rejected by the service.
type OrderRequest struct {
	Symbol        string // Symbol or asset ID.
	Qty           decimal.Decimal
	Side          Side
	Type          OrderType
	TimeInForce   TimeInForce
	LimitPrice    *decimal.Decimal // Required for limit and stop limit orders.
	StopPrice     *decimal.Decimal // Required for stop and stop limit orders.
	ExtendedHours *bool
	ClientOrderID *string
	OrderClass    *OrderClass
	TakeProfit    *TakeProfit
	StopLoss      *StopLoss
}

// TakeProfit is the take profit leg of a bracket or OCO order.
type TakeProfit struct {
	LimitPrice decimal.Decimal
}

// StopLoss is the stop loss leg of a bracket or OCO order. Without a limit
// price the leg is a stop order.
type StopLoss struct {
	StopPrice  decimal.Decimal
	LimitPrice *decimal.Decimal
}

// NewOrderRequest returns the default request: a day market buy of zero
// quantity with no optional fields.
func NewOrderRequest() OrderRequest {
	return OrderRequest{
		Qty:         decimal.Zero,
		Side:        SideBuy,
		Type:        OrderTypeMarket,
		TimeInForce: TimeInForceDay,
	}
}

// Buy returns a default request to buy qty of symbol.
func Buy(symbol string, qty decimal.Decimal) OrderRequest {
	return NewOrderRequest().WithSide(SideBuy).WithSymbol(symbol).WithQty(qty)
}

// Sell returns a default request to sell qty of symbol.
func Sell(symbol string, qty decimal.Decimal) OrderRequest {
	return NewOrderRequest().WithSide(SideSell).WithSymbol(symbol).WithQty(qty)
}

// WithSymbol sets the symbol.
func (x OrderRequest) WithSymbol(symbol string) OrderRequest {
	x.Symbol = symbol
	return x
}

// WithQty sets the quantity.
func (x OrderRequest) WithQty(qty decimal.Decimal) OrderRequest {
	x.Qty = dma.Materialize(qty)
	return x
}

// WithSide sets the side.
func (x OrderRequest) WithSide(side Side) OrderRequest {
	x.Side = side
	return x
}

// WithType sets the order type.
func (x OrderRequest) WithType(orderType OrderType) OrderRequest {
	x.Type = orderType
	return x
}

// WithTimeInForce sets the time in force.
func (x OrderRequest) WithTimeInForce(tif TimeInForce) OrderRequest {
	x.TimeInForce = tif
	return x
}

// WithLimitPrice sets the limit price.
func (x OrderRequest) WithLimitPrice(price decimal.Decimal) OrderRequest {
	x.LimitPrice = materialized(price)
	return x
}

// WithStopPrice sets the stop price.
func (x OrderRequest) WithStopPrice(price decimal.Decimal) OrderRequest {
	x.StopPrice = materialized(price)
	return x
}

// WithExtendedHours sets whether the order may execute outside regular
// trading hours.
func (x OrderRequest) WithExtendedHours(extended bool) OrderRequest {
	x.ExtendedHours = &extended
	return x
}

// WithClientOrderID sets the caller's own ID for the order.
func (x OrderRequest) WithClientOrderID(id string) OrderRequest {
	x.ClientOrderID = &id
	return x
}

// WithOrderClass sets the order class.
func (x OrderRequest) WithOrderClass(class OrderClass) OrderRequest {
	x.OrderClass = &class
	return x
}

// WithTakeProfit attaches a take profit leg.
func (x OrderRequest) WithTakeProfit(limitPrice decimal.Decimal) OrderRequest {
	x.TakeProfit = &TakeProfit{LimitPrice: dma.Materialize(limitPrice)}
	return x
}

// WithStopLoss attaches a stop loss leg.
func (x OrderRequest) WithStopLoss(stopPrice decimal.Decimal) OrderRequest {
	x.StopLoss = &StopLoss{StopPrice: dma.Materialize(stopPrice)}
	return x
}

// WithStopLossLimit attaches a stop limit loss leg.
func (x OrderRequest) WithStopLossLimit(stopPrice, limitPrice decimal.Decimal) OrderRequest {
	x.StopLoss = &StopLoss{
		StopPrice:  dma.Materialize(stopPrice),
		LimitPrice: materialized(limitPrice),
	}
	return x
}

func materialized(d decimal.Decimal) *decimal.Decimal {
	m := dma.Materialize(d)
	return &m
}

// -----------------------------------------------------------------------------

type orderRequestWire struct {
	Symbol        string      `json:"symbol"`
	Qty           string      `json:"qty"`
	Side          Side        `json:"side"`
	Type          OrderType   `json:"type"`
	TimeInForce   TimeInForce `json:"time_in_force"`
	LimitPrice    *string     `json:"limit_price,omitempty"`
	StopPrice     *string     `json:"stop_price,omitempty"`
	ExtendedHours *bool       `json:"extended_hours,omitempty"`
	ClientOrderID *string     `json:"client_order_id,omitempty"`
	OrderClass    *OrderClass `json:"order_class,omitempty"`
	TakeProfit    *TakeProfit `json:"take_profit,omitempty"`
	StopLoss      *StopLoss   `json:"stop_loss,omitempty"`
}

// MarshalJSON implements [json.Marshaler]. Unset optional fields are omitted.
func (x OrderRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal(&orderRequestWire{
		Symbol:        x.Symbol,
		Qty:           dma.EncodeDecimal(x.Qty),
		Side:          x.Side,
		Type:          x.Type,
		TimeInForce:   x.TimeInForce,
		LimitPrice:    dma.EncodeOptional(x.LimitPrice),
		StopPrice:     dma.EncodeOptional(x.StopPrice),
		ExtendedHours: x.ExtendedHours,
		ClientOrderID: x.ClientOrderID,
		OrderClass:    x.OrderClass,
		TakeProfit:    x.TakeProfit,
		StopLoss:      x.StopLoss,
	})
}

// UnmarshalJSON implements [json.Unmarshaler].
func (x *OrderRequest) UnmarshalJSON(b []byte) error {

	var w orderRequestWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	var dec wireDecoder
	request := OrderRequest{
		Symbol:        w.Symbol,
		Qty:           dec.decimal("qty", w.Qty),
		Side:          w.Side,
		Type:          w.Type,
		TimeInForce:   w.TimeInForce,
		LimitPrice:    dec.optional("limit_price", w.LimitPrice),
		StopPrice:     dec.optional("stop_price", w.StopPrice),
		ExtendedHours: w.ExtendedHours,
		ClientOrderID: w.ClientOrderID,
		OrderClass:    w.OrderClass,
		TakeProfit:    w.TakeProfit,
		StopLoss:      w.StopLoss,
	}
	if dec.err != nil {
		return dec.err
	}

	*x = request
	return nil
}

type takeProfitWire struct {
	LimitPrice string `json:"limit_price"`
}

// MarshalJSON implements [json.Marshaler].
func (x TakeProfit) MarshalJSON() ([]byte, error) {
	return json.Marshal(&takeProfitWire{LimitPrice: dma.EncodeDecimal(x.LimitPrice)})
}

// UnmarshalJSON implements [json.Unmarshaler].
func (x *TakeProfit) UnmarshalJSON(b []byte) error {
	var w takeProfitWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	var dec wireDecoder
	limitPrice := dec.decimal("take_profit.limit_price", w.LimitPrice)
	if dec.err != nil {
		return dec.err
	}
	x.LimitPrice = limitPrice
	return nil
}

type stopLossWire struct {
	StopPrice  string  `json:"stop_price"`
	LimitPrice *string `json:"limit_price,omitempty"`
}

// MarshalJSON implements [json.Marshaler].
func (x StopLoss) MarshalJSON() ([]byte, error) {
	return json.Marshal(&stopLossWire{
		StopPrice:  dma.EncodeDecimal(x.StopPrice),
		LimitPrice: dma.EncodeOptional(x.LimitPrice),
	})
}

// UnmarshalJSON implements [json.Unmarshaler].
func (x *StopLoss) UnmarshalJSON(b []byte) error {
	var w stopLossWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	var dec wireDecoder
	stopLoss := StopLoss{
		StopPrice:  dec.decimal("stop_loss.stop_price", w.StopPrice),
		LimitPrice: dec.optional("stop_loss.limit_price", w.LimitPrice),
	}
	if dec.err != nil {
		return dec.err
	}
	*x = stopLoss
	return nil
}

// -----------------------------------------------------------------------------

// OrderReplace is the sparse body of an order replacement. Only the fields
// that are set are sent; the service keeps its current value for the rest.
// Start from [NewOrderReplace].
type OrderReplace struct {
	Qty           *decimal.Decimal
	TimeInForce   *TimeInForce
	LimitPrice    *decimal.Decimal
	StopPrice     *decimal.Decimal
	ClientOrderID *string
}

// NewOrderReplace returns an empty replacement.
func NewOrderReplace() OrderReplace {
	return OrderReplace{}
}

// WithQty sets the new quantity.
func (x OrderReplace) WithQty(qty decimal.Decimal) OrderReplace {
	x.Qty = materialized(qty)
	return x
}

// WithTimeInForce sets the new time in force.
func (x OrderReplace) WithTimeInForce(tif TimeInForce) OrderReplace {
	x.TimeInForce = &tif
	return x
}

// WithLimitPrice sets the new limit price.
func (x OrderReplace) WithLimitPrice(price decimal.Decimal) OrderReplace {
	x.LimitPrice = materialized(price)
	return x
}

// WithStopPrice sets the new stop price.
func (x OrderReplace) WithStopPrice(price decimal.Decimal) OrderReplace {
	x.StopPrice = materialized(price)
	return x
}

// WithClientOrderID sets the client order ID of the replacing order.
func (x OrderReplace) WithClientOrderID(id string) OrderReplace {
	x.ClientOrderID = &id
	return x
}

type orderReplaceWire struct {
	Qty           *string      `json:"qty,omitempty"`
	TimeInForce   *TimeInForce `json:"time_in_force,omitempty"`
	LimitPrice    *string      `json:"limit_price,omitempty"`
	StopPrice     *string      `json:"stop_price,omitempty"`
	ClientOrderID *string      `json:"client_order_id,omitempty"`
}

// MarshalJSON implements [json.Marshaler]. Unset fields are omitted.
func (x OrderReplace) MarshalJSON() ([]byte, error) {
	return json.Marshal(&orderReplaceWire{
		Qty:           dma.EncodeOptional(x.Qty),
		TimeInForce:   x.TimeInForce,
		LimitPrice:    dma.EncodeOptional(x.LimitPrice),
		StopPrice:     dma.EncodeOptional(x.StopPrice),
		ClientOrderID: x.ClientOrderID,
	})
}

// UnmarshalJSON implements [json.Unmarshaler].
func (x *OrderReplace) UnmarshalJSON(b []byte) error {

	var w orderReplaceWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	var dec wireDecoder
	replace := OrderReplace{
		Qty:           dec.optional("qty", w.Qty),
		TimeInForce:   w.TimeInForce,
		LimitPrice:    dec.optional("limit_price", w.LimitPrice),
		StopPrice:     dec.optional("stop_price", w.StopPrice),
		ClientOrderID: w.ClientOrderID,
	}
	if dec.err != nil {
		return dec.err
	}

	*x = replace
	return nil
}
