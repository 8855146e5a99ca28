package run

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gbkr-com/alpaca/dma/alpaca"
	"github.com/redis/go-redis/v9"
)

// Prefixes for client order ID based keys. The first part of the prefix is
// the type of Redis data structure, to assist when working with the Redis
// command line. The colon separator is a Redis idiom.
const (
	OrderStreamPrefix = "stream:orders:"
	OrderHashPrefix   = "hash:order:"
)

// Fields of the hash named with [MakeOrderHashKey].
const (
	OrderHashStatus  = "status"
	OrderHashUpdated = "updated"
	OrderHashStream  = "stream"
)

func orderKey(order *alpaca.Order) string {
	if order.ClientOrderID != "" {
		return order.ClientOrderID
	}
	return order.ID.String()
}

// MakeOrderStreamName is a convenience function. Orders without a client
// order ID are keyed by their ID.
func MakeOrderStreamName(order *alpaca.Order) string {
	return OrderStreamPrefix + orderKey(order)
}

// MakeOrderHashKey is a convenience function.
func MakeOrderHashKey(order *alpaca.Order) string {
	return OrderHashPrefix + orderKey(order)
}

// WriteOrder to the stream named with [MakeOrderStreamName], and record the
// status last written in the hash named with [MakeOrderHashKey].
func WriteOrder(ctx context.Context, rdb *redis.Client, order *alpaca.Order) error {
	b, err := json.Marshal(order)
	if err != nil {
		return err
	}
	args := &redis.XAddArgs{
		Stream: MakeOrderStreamName(order),
		Values: []any{"json", string(b)},
	}
	id, err := rdb.XAdd(ctx, args).Result()
	if err != nil {
		return err
	}
	_, err = rdb.HSet(
		ctx,
		MakeOrderHashKey(order),
		OrderHashStatus,
		string(order.Status),
		OrderHashUpdated,
		updatedMarker(order),
		OrderHashStream,
		id,
	).Result()
	return err
}

// ReadOrders returns every order written to the stream, oldest first.
func ReadOrders(ctx context.Context, rdb *redis.Client, stream string) ([]alpaca.Order, error) {

	messages, err := rdb.XRange(ctx, stream, "-", "+").Result()
	if err != nil {
		return nil, err
	}

	orders := make([]alpaca.Order, 0, len(messages))
	for _, message := range messages {
		s, ok := message.Values["json"].(string)
		if !ok {
			continue
		}
		var order alpaca.Order
		if err := json.Unmarshal([]byte(s), &order); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil

}

// updatedMarker is the last change to the order as far as it is visible
// from outside the service.
func updatedMarker(order *alpaca.Order) string {
	if order.UpdatedAt != nil {
		return string(order.Status) + "@" + order.UpdatedAt.UTC().Format(time.RFC3339Nano)
	}
	return string(order.Status) + "@" + order.CreatedAt.UTC().Format(time.RFC3339Nano)
}
