package alpaca

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gbkr-com/alpaca/dma"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

const orderJSON = `{
	"id": "61e69015-8549-4bfd-b9c3-01e75843f47d",
	"client_order_id": "eb9e2aaa-f71a-4f51-b5b4-52a6c565dad4",
	"created_at": "2021-03-16T18:38:01.942282Z",
	"updated_at": "2021-03-16T18:38:01.942282Z",
	"submitted_at": "2021-03-16T18:38:01.937734Z",
	"filled_at": null,
	"expired_at": null,
	"canceled_at": null,
	"failed_at": null,
	"asset_id": "b0b6dd9d-8b9b-48a9-ba46-b9d54906e415",
	"symbol": "AAPL",
	"asset_class": "us_equity",
	"qty": "15",
	"filled_qty": "0",
	"type": "limit",
	"side": "buy",
	"time_in_force": "day",
	"limit_price": "107.00",
	"stop_price": null,
	"filled_avg_price": null,
	"status": "accepted",
	"extended_hours": false,
	"legs": null
}`

func TestOrderDecode(t *testing.T) {

	var order Order
	err := json.Unmarshal([]byte(orderJSON), &order)
	assert.Nil(t, err)

	assert.Equal(t, uuid.MustParse("61e69015-8549-4bfd-b9c3-01e75843f47d"), order.ID)
	assert.Equal(t, "eb9e2aaa-f71a-4f51-b5b4-52a6c565dad4", order.ClientOrderID)
	assert.Equal(t, "AAPL", order.Symbol)
	assert.True(t, order.Qty.Equal(decimal.NewFromInt(15)))
	assert.True(t, order.FilledQty.IsZero())
	assert.Equal(t, OrderTypeLimit, order.Type)
	assert.Equal(t, SideBuy, order.Side)
	assert.Equal(t, TimeInForceDay, order.TimeInForce)
	assert.Equal(t, OrderStatusAccepted, order.Status)
	assert.NotNil(t, order.LimitPrice)
	assert.Equal(t, "107", order.LimitPrice.String())
	assert.Nil(t, order.StopPrice)
	assert.Nil(t, order.FilledAvgPrice)
	assert.NotNil(t, order.SubmittedAt)
	assert.Nil(t, order.FilledAt)
	assert.Nil(t, order.Legs)

}

func TestOrderLegs(t *testing.T) {

	leg := strings.Replace(orderJSON, `"legs": null`, `"legs": []`, 1)
	parent := strings.Replace(orderJSON, `"legs": null`, `"legs": [`+leg+`, `+leg+`]`, 1)

	var order Order
	assert.Nil(t, json.Unmarshal([]byte(parent), &order))
	assert.Equal(t, 2, len(order.Legs))
	assert.Equal(t, "AAPL", order.Legs[1].Symbol)

	bad := strings.Replace(leg, `"limit"`, `"iceberg"`, 1)
	parent = strings.Replace(orderJSON, `"legs": null`, `"legs": [`+bad+`]`, 1)
	err := json.Unmarshal([]byte(parent), &order)
	assert.True(t, errors.Is(err, dma.ErrUnrecognizedEnumTag))

}

func TestOrderNullOnNone(t *testing.T) {

	order := Order{
		ID:          uuid.New(),
		CreatedAt:   time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC),
		AssetID:     uuid.New(),
		Symbol:      "IBM",
		Qty:         decimal.NewFromInt(2),
		FilledQty:   decimal.Zero,
		Type:        OrderTypeMarket,
		Side:        SideSell,
		TimeInForce: TimeInForceGTC,
		Status:      OrderStatusNew,
	}

	b, err := json.Marshal(order)
	assert.Nil(t, err)

	fields := map[string]json.RawMessage{}
	assert.Nil(t, json.Unmarshal(b, &fields))
	for _, key := range []string{"limit_price", "stop_price", "filled_avg_price", "filled_at", "legs"} {
		value, ok := fields[key]
		assert.True(t, ok, key)
		assert.Equal(t, "null", string(value), key)
	}
	assert.Equal(t, `"2"`, string(fields["qty"]))
	assert.Equal(t, `"2024-01-02T15:04:05Z"`, string(fields["created_at"]))

	var again Order
	assert.Nil(t, json.Unmarshal(b, &again))
	assert.Equal(t, order.ID, again.ID)
	assert.Nil(t, again.LimitPrice)

}

func TestOrderMalformed(t *testing.T) {

	var order Order

	err := json.Unmarshal([]byte(strings.Replace(orderJSON, `"107.00"`, `"12.34.56"`, 1)), &order)
	assert.True(t, errors.Is(err, dma.ErrMalformedNumber))

	err = json.Unmarshal([]byte(strings.Replace(orderJSON, `"accepted"`, `"held"`, 1)), &order)
	assert.True(t, errors.Is(err, dma.ErrUnrecognizedEnumTag))

	err = json.Unmarshal([]byte(strings.Replace(orderJSON, `"type": "limit"`, `"type": "iceberg"`, 1)), &order)
	assert.True(t, errors.Is(err, dma.ErrUnrecognizedEnumTag))

}
