package run

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/gbkr-com/alpaca/dma/alpaca"
	"github.com/redis/go-redis/v9"
)

// Publisher writes order snapshots to Redis streams, one stream per order.
// An order that has not changed since it was last written is skipped, so
// polling the service and publishing each result only records transitions.
type Publisher struct {
	rdb    *redis.Client
	logger *slog.Logger
}

// NewPublisher returns a [*Publisher] writing to the given client. A nil
// logger discards.
func NewPublisher(rdb *redis.Client, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Publisher{
		rdb:    rdb,
		logger: logger,
	}
}

// Publish the orders, returning the number written. Publishing stops at the
// first error.
func (x *Publisher) Publish(ctx context.Context, orders []alpaca.Order) (int, error) {

	written := 0
	for i := range orders {
		order := &orders[i]

		last, err := x.rdb.HGet(ctx, MakeOrderHashKey(order), OrderHashUpdated).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return written, err
		}
		if last == updatedMarker(order) {
			continue
		}

		if err := WriteOrder(ctx, x.rdb, order); err != nil {
			return written, err
		}
		written++
		x.logger.Debug("published", "stream", MakeOrderStreamName(order), "status", order.Status)
	}
	return written, nil

}
