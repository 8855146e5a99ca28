package alpaca

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/gbkr-com/alpaca/dma"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOrderRequestDefault(t *testing.T) {

	request := NewOrderRequest()
	assert.Equal(t, SideBuy, request.Side)
	assert.Equal(t, OrderTypeMarket, request.Type)
	assert.Equal(t, TimeInForceDay, request.TimeInForce)
	assert.True(t, request.Qty.IsZero())
	assert.Equal(t, "", request.Symbol)
	assert.Nil(t, request.LimitPrice)
	assert.Nil(t, request.StopPrice)
	assert.Nil(t, request.ExtendedHours)
	assert.Nil(t, request.ClientOrderID)
	assert.Nil(t, request.OrderClass)
	assert.Nil(t, request.TakeProfit)
	assert.Nil(t, request.StopLoss)

}

func TestOrderRequestComposition(t *testing.T) {

	request := Buy("IBM", dma.Num(2)).WithType(OrderTypeLimit).WithLimitPrice(dma.Num(1))

	assert.Equal(t, SideBuy, request.Side)
	assert.Equal(t, "IBM", request.Symbol)
	assert.True(t, request.Qty.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, OrderTypeLimit, request.Type)
	assert.Equal(t, TimeInForceDay, request.TimeInForce)
	assert.NotNil(t, request.LimitPrice)
	assert.True(t, request.LimitPrice.Equal(decimal.NewFromInt(1)))
	assert.Nil(t, request.StopPrice)
	assert.Nil(t, request.ExtendedHours)
	assert.Nil(t, request.ClientOrderID)
	assert.Nil(t, request.OrderClass)
	assert.Nil(t, request.TakeProfit)
	assert.Nil(t, request.StopLoss)

	sell := Sell("XRP", dma.Num(0.5))
	assert.Equal(t, SideSell, sell.Side)
	assert.Equal(t, "0.5", sell.Qty.String())

}

func TestOrderRequestSettersDoNotShare(t *testing.T) {

	base := Buy("IBM", dma.Num(10)).WithLimitPrice(dma.Num(100))

	a := base.WithLimitPrice(dma.Num(101)).WithClientOrderID("a")
	b := base.WithLimitPrice(dma.Num(99)).WithSide(SideSell)

	assert.Equal(t, "100", base.LimitPrice.String())
	assert.Equal(t, "101", a.LimitPrice.String())
	assert.Equal(t, "99", b.LimitPrice.String())
	assert.Nil(t, base.ClientOrderID)
	assert.Equal(t, SideBuy, a.Side)
	assert.Equal(t, SideSell, b.Side)

	//
	// Concurrent chains from the same prefix.
	//
	var wg sync.WaitGroup
	results := make([]OrderRequest, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = base.WithQty(dma.Num(i)).WithExtendedHours(i%2 == 0)
		}(i)
	}
	wg.Wait()
	for i, r := range results {
		assert.True(t, r.Qty.Equal(decimal.NewFromInt(int64(i))))
		assert.Equal(t, i%2 == 0, *r.ExtendedHours)
	}
	assert.True(t, base.Qty.Equal(decimal.NewFromInt(10)))
	assert.Nil(t, base.ExtendedHours)

}

func TestOrderRequestOmitOnNone(t *testing.T) {

	b, err := json.Marshal(Buy("IBM", dma.Num(2)))
	assert.Nil(t, err)
	assert.JSONEq(t, `{
		"symbol": "IBM",
		"qty": "2",
		"side": "buy",
		"type": "market",
		"time_in_force": "day"
	}`, string(b))

}

func TestOrderRequestBracket(t *testing.T) {

	request := Buy("AAPL", dma.Num(5)).
		WithType(OrderTypeLimit).
		WithLimitPrice(decimal.RequireFromString("170.50")).
		WithTimeInForce(TimeInForceGTC).
		WithOrderClass(OrderClassBracket).
		WithClientOrderID("my-order").
		WithExtendedHours(false).
		WithTakeProfit(dma.Num(180)).
		WithStopLossLimit(dma.Num(160), decimal.RequireFromString("159.95"))

	b, err := json.Marshal(request)
	assert.Nil(t, err)
	assert.JSONEq(t, `{
		"symbol": "AAPL",
		"qty": "5",
		"side": "buy",
		"type": "limit",
		"time_in_force": "gtc",
		"limit_price": "170.5",
		"extended_hours": false,
		"client_order_id": "my-order",
		"order_class": "bracket",
		"take_profit": {"limit_price": "180"},
		"stop_loss": {"stop_price": "160", "limit_price": "159.95"}
	}`, string(b))

	var again OrderRequest
	assert.Nil(t, json.Unmarshal(b, &again))
	assert.Equal(t, "AAPL", again.Symbol)
	assert.Equal(t, OrderClassBracket, *again.OrderClass)
	assert.Equal(t, "my-order", *again.ClientOrderID)
	assert.False(t, *again.ExtendedHours)
	assert.True(t, again.TakeProfit.LimitPrice.Equal(decimal.NewFromInt(180)))
	assert.True(t, again.StopLoss.StopPrice.Equal(decimal.NewFromInt(160)))
	assert.Equal(t, "159.95", again.StopLoss.LimitPrice.String())

	b, err = json.Marshal(Sell("AAPL", dma.Num(5)).WithStopLoss(dma.Num(160)))
	assert.Nil(t, err)
	fields := map[string]json.RawMessage{}
	assert.Nil(t, json.Unmarshal(b, &fields))
	assert.JSONEq(t, `{"stop_price": "160"}`, string(fields["stop_loss"]))

}

func TestOrderRequestNoValidation(t *testing.T) {

	request := Buy("IBM", dma.Num(1)).WithType(OrderTypeStopLimit)
	b, err := json.Marshal(request)
	assert.Nil(t, err)
	fields := map[string]json.RawMessage{}
	assert.Nil(t, json.Unmarshal(b, &fields))
	_, ok := fields["limit_price"]
	assert.False(t, ok)
	_, ok = fields["stop_price"]
	assert.False(t, ok)

}

func TestOrderRequestMalformed(t *testing.T) {

	var request OrderRequest
	err := json.Unmarshal([]byte(`{"symbol":"IBM","qty":"2","side":"buy","type":"limit","time_in_force":"day","limit_price":"1..0"}`), &request)
	assert.True(t, errors.Is(err, dma.ErrMalformedNumber))

	err = json.Unmarshal([]byte(`{"symbol":"IBM","qty":"2","side":"buy","type":"iceberg","time_in_force":"day"}`), &request)
	assert.True(t, errors.Is(err, dma.ErrUnrecognizedEnumTag))

	_, err = json.Marshal(Buy("IBM", dma.Num(1)).WithSide(Side("short")))
	assert.True(t, errors.Is(err, dma.ErrUnrecognizedEnumTag))

}

func TestOrderReplaceOmission(t *testing.T) {

	b, err := json.Marshal(NewOrderReplace())
	assert.Nil(t, err)
	assert.Equal(t, `{}`, string(b))

	b, err = json.Marshal(NewOrderReplace().WithQty(dma.Num(5)))
	assert.Nil(t, err)
	fields := map[string]json.RawMessage{}
	assert.Nil(t, json.Unmarshal(b, &fields))
	assert.Equal(t, 1, len(fields))
	assert.Equal(t, `"5"`, string(fields["qty"]))

	replace := NewOrderReplace().
		WithTimeInForce(TimeInForceGTC).
		WithLimitPrice(decimal.RequireFromString("10.10")).
		WithStopPrice(dma.Num(9)).
		WithClientOrderID("b")
	b, err = json.Marshal(replace)
	assert.Nil(t, err)
	assert.JSONEq(t, `{
		"time_in_force": "gtc",
		"limit_price": "10.1",
		"stop_price": "9",
		"client_order_id": "b"
	}`, string(b))

	var again OrderReplace
	assert.Nil(t, json.Unmarshal(b, &again))
	assert.Nil(t, again.Qty)
	assert.Equal(t, TimeInForceGTC, *again.TimeInForce)
	assert.Equal(t, "10.1", again.LimitPrice.String())

}
