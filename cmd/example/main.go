// Package main is an example. It places a limit order on the paper trading
// service, replaces it, optionally publishes the orders to Redis, and then
// cancels everything open.
package main

import (
	"context"
	"os"

	"github.com/gbkr-com/alpaca/dma/alpaca"
	"github.com/gbkr-com/alpaca/env"
	"github.com/gbkr-com/alpaca/run"
	"github.com/redis/go-redis/v9"
)

func main() {

	//
	// A local .env file is optional.
	//
	_ = env.Load(".env")

	logger := setupLogger()

	client, err := alpaca.NewClient(
		env.MustHave("APCA_API_KEY_ID"),
		env.MustHave("APCA_API_SECRET_KEY"),
		alpaca.WithEndpoint(env.Getenv("APCA_API_BASE_URL", alpaca.PaperURL)),
		alpaca.WithLogger(logger),
	)
	if err != nil {
		logger.Error("client", "error", err)
		os.Exit(1)
	}

	var publisher *run.Publisher
	if address := os.Getenv("REDIS"); address != "" {
		rdb := redis.NewClient(
			&redis.Options{
				Addr: address,
			},
		)
		defer rdb.Close()
		publisher = run.NewPublisher(rdb, logger)
	}

	ctx, cxl := context.WithCancel(context.Background())
	go func() {
		<-env.Signal()
		cxl()
	}()

	code := 0
	if err := session(ctx, client, publisher, logger); err != nil {
		logger.Error("session", "error", err)
		code = 1
	}
	cxl()
	if code != 0 {
		os.Exit(code)
	}
	logger.Info("done")

}
