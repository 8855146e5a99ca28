package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gbkr-com/alpaca/dma"
	"github.com/gbkr-com/alpaca/dma/alpaca"
	"github.com/gbkr-com/alpaca/run"
	"golang.org/x/sync/errgroup"
)

const symbol = "IBM"

// errTradingBlocked is returned when the account cannot place orders.
var errTradingBlocked = errors.New("trading blocked")

// session runs the example against the client. A nil publisher skips
// publishing.
func session(ctx context.Context, client *alpaca.Client, publisher *run.Publisher, logger *slog.Logger) error {

	//
	// Account and open orders.
	//
	var (
		account *alpaca.Account
		open    []alpaca.Order
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		account, err = client.GetAccount(gctx)
		return
	})
	g.Go(func() (err error) {
		open, err = client.GetOrders(gctx, alpaca.OrderQuery{})
		return
	})
	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("account", "status", account.Status, "buying_power", account.BuyingPower.String(), "open", len(open))
	if account.TradingBlocked || account.AccountBlocked {
		return errTradingBlocked
	}

	//
	// Place and replace.
	//
	request := alpaca.Buy(symbol, dma.Num(2)).WithType(alpaca.OrderTypeLimit).WithLimitPrice(dma.Num(1))
	order, err := client.SubmitOrder(ctx, request)
	if err != nil {
		return err
	}
	logger.Info("submitted", "id", order.ID, "client_order_id", order.ClientOrderID, "status", order.Status)

	order, err = client.ReplaceOrder(ctx, order.ID, alpaca.NewOrderReplace().WithLimitPrice(dma.Num(1.01)))
	if err != nil {
		return err
	}
	logger.Info("replaced", "id", order.ID, "limit_price", order.LimitPrice.String())

	//
	// Publish.
	//
	if publisher != nil {
		orders, err := client.GetOrders(ctx, alpaca.OrderQuery{Status: "all", Symbols: []string{symbol}})
		if err != nil {
			return err
		}
		n, err := publisher.Publish(ctx, orders)
		if err != nil {
			return err
		}
		logger.Info("published", "count", n)
	}

	//
	// Clean up.
	//
	statuses, err := client.CancelAllOrders(ctx)
	if err != nil {
		return err
	}
	for _, status := range statuses {
		if !status.OK() {
			logger.Warn("cancel", "id", status.ID, "status", status.Status)
		}
	}
	logger.Info("canceled", "count", len(statuses))
	return nil

}
