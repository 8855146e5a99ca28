// Package alpacatest provides an in-memory stand-in for the order management
// API, for use with [net/http/httptest].
package alpacatest

import (
	"encoding/json"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gbkr-com/alpaca/dma/alpaca"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Error bodies returned by the [Server].
var (
	ErrForbidden     = &alpaca.Error{Code: 40310000, Message: "access key verification failed"}
	ErrNotFound      = &alpaca.Error{Code: 40410000, Message: "order not found"}
	ErrNotOpen       = &alpaca.Error{Code: 42210000, Message: "order is not open"}
	ErrDuplicateID   = &alpaca.Error{Code: 40010001, Message: "client_order_id must be unique"}
	ErrLimitRequired = &alpaca.Error{Code: 40010001, Message: "limit_price is required"}
	ErrStopRequired  = &alpaca.Error{Code: 40010001, Message: "stop_price is required"}
	ErrQtyRequired   = &alpaca.Error{Code: 40010001, Message: "qty must be > 0"}
)

// Server is an [http.Handler] serving the order endpoints from memory.
// Orders are never filled: they stay new until replaced or canceled.
type Server struct {
	keyID     string
	secretKey string
	router    *gin.Engine

	lock    sync.Mutex
	account alpaca.Account
	orders  []*alpaca.Order
}

// NewServer returns a [*Server] accepting only the given credentials.
func NewServer(keyID, secretKey string) *Server {
	gin.SetMode(gin.ReleaseMode)
	x := &Server{
		keyID:     keyID,
		secretKey: secretKey,
		router:    gin.New(),
		account:   DefaultAccount(),
	}
	x.bind()
	return x
}

// DefaultAccount is the account served until [Server.SetAccount].
func DefaultAccount() alpaca.Account {
	equity := decimal.NewFromInt(100000)
	return alpaca.Account{
		ID:                    uuid.NewSHA1(uuid.NameSpaceOID, []byte("alpacatest")),
		AccountNumber:         "PA0000TEST",
		Status:                alpaca.AccountStatusActive,
		Currency:              "USD",
		Cash:                  equity,
		CreatedAt:             time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		ShortingEnabled:       true,
		LongMarketValue:       decimal.Zero,
		ShortMarketValue:      decimal.Zero,
		Equity:                equity,
		LastEquity:            equity,
		Multiplier:            decimal.NewFromInt(4),
		BuyingPower:           equity.Mul(decimal.NewFromInt(4)),
		InitialMargin:         decimal.Zero,
		MaintenanceMargin:     decimal.Zero,
		SMA:                   decimal.Zero,
		LastMaintenanceMargin: decimal.Zero,
		DaytradingBuyingPower: equity.Mul(decimal.NewFromInt(4)),
		RegTBuyingPower:       equity.Mul(decimal.NewFromInt(2)),
	}
}

// ServeHTTP implements [http.Handler].
func (x *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	x.router.ServeHTTP(w, r)
}

// SetAccount replaces the account.
func (x *Server) SetAccount(account alpaca.Account) {
	x.lock.Lock()
	defer x.lock.Unlock()
	x.account = account
}

// Orders returns a copy of every order, in the order they were created.
func (x *Server) Orders() []alpaca.Order {
	x.lock.Lock()
	defer x.lock.Unlock()
	orders := make([]alpaca.Order, 0, len(x.orders))
	for _, order := range x.orders {
		orders = append(orders, *order)
	}
	return orders
}

func (x *Server) bind() {
	x.router.Use(x.authenticate)
	x.router.GET("/v2/account", x.getAccount)
	x.router.GET("/v2/orders", x.getOrders)
	x.router.POST("/v2/orders", x.postOrder)
	x.router.DELETE("/v2/orders", x.deleteOrders)
	x.router.GET("/v2/orders/:id", x.getOrder)
	x.router.PATCH("/v2/orders/:id", x.patchOrder)
	x.router.DELETE("/v2/orders/:id", x.deleteOrder)
	//
	// The router cannot match a path segment containing a colon.
	//
	x.router.NoRoute(x.noRoute)
}

func (x *Server) authenticate(ctx *gin.Context) {
	if ctx.GetHeader(alpaca.KeyIDHeader) != x.keyID || ctx.GetHeader(alpaca.SecretKeyHeader) != x.secretKey {
		ctx.AbortWithStatusJSON(http.StatusForbidden, ErrForbidden)
		return
	}
	ctx.Next()
}

func (x *Server) noRoute(ctx *gin.Context) {
	if ctx.Request.Method == http.MethodGet && ctx.Request.URL.Path == "/v2/orders:by_client_order_id" {
		x.getOrderByClientID(ctx)
		return
	}
	ctx.AbortWithStatusJSON(http.StatusNotFound, &alpaca.Error{Code: 40410000, Message: "endpoint not found"})
}

func (x *Server) getAccount(ctx *gin.Context) {
	x.lock.Lock()
	defer x.lock.Unlock()
	ctx.JSON(http.StatusOK, x.account)
}

func (x *Server) getOrders(ctx *gin.Context) {

	status := ctx.DefaultQuery("status", "open")
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))
	var symbols []string
	if s := ctx.Query("symbols"); s != "" {
		symbols = strings.Split(s, ",")
	}

	x.lock.Lock()
	defer x.lock.Unlock()

	orders := []alpaca.Order{}
	for _, order := range x.orders {
		if limit > 0 && len(orders) >= limit {
			break
		}
		switch status {
		case "open":
			if !isOpen(order) {
				continue
			}
		case "closed":
			if isOpen(order) {
				continue
			}
		}
		if len(symbols) > 0 && !slices.Contains(symbols, order.Symbol) {
			continue
		}
		orders = append(orders, *order)
	}
	ctx.JSON(http.StatusOK, orders)
}

func (x *Server) getOrder(ctx *gin.Context) {

	x.lock.Lock()
	defer x.lock.Unlock()

	order := x.find(ctx.Param("id"))
	if order == nil {
		ctx.AbortWithStatusJSON(http.StatusNotFound, ErrNotFound)
		return
	}
	ctx.JSON(http.StatusOK, order)
}

func (x *Server) getOrderByClientID(ctx *gin.Context) {

	clientOrderID := ctx.Query("client_order_id")

	x.lock.Lock()
	defer x.lock.Unlock()

	for _, order := range x.orders {
		if order.ClientOrderID == clientOrderID {
			ctx.JSON(http.StatusOK, order)
			return
		}
	}
	ctx.AbortWithStatusJSON(http.StatusNotFound, ErrNotFound)
}

func (x *Server) postOrder(ctx *gin.Context) {
	//
	// Body.
	//
	b, err := ctx.GetRawData()
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, &alpaca.Error{Code: 40010000, Message: err.Error()})
		return
	}
	var request alpaca.OrderRequest
	if err := json.Unmarshal(b, &request); err != nil {
		ctx.AbortWithStatusJSON(http.StatusUnprocessableEntity, &alpaca.Error{Code: 40010000, Message: err.Error()})
		return
	}
	//
	// Content.
	//
	if e := validate(request); e != nil {
		ctx.AbortWithStatusJSON(http.StatusUnprocessableEntity, e)
		return
	}

	x.lock.Lock()
	defer x.lock.Unlock()

	clientOrderID := uuid.NewString()
	if request.ClientOrderID != nil {
		clientOrderID = *request.ClientOrderID
		for _, order := range x.orders {
			if order.ClientOrderID == clientOrderID {
				ctx.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrDuplicateID)
				return
			}
		}
	}

	now := time.Now().UTC()
	order := &alpaca.Order{
		ID:            uuid.New(),
		ClientOrderID: clientOrderID,
		CreatedAt:     now,
		UpdatedAt:     &now,
		SubmittedAt:   &now,
		AssetID:       uuid.NewSHA1(uuid.NameSpaceOID, []byte(request.Symbol)),
		Symbol:        request.Symbol,
		AssetClass:    "us_equity",
		Qty:           request.Qty,
		FilledQty:     decimal.Zero,
		Type:          request.Type,
		Side:          request.Side,
		TimeInForce:   request.TimeInForce,
		LimitPrice:    request.LimitPrice,
		StopPrice:     request.StopPrice,
		Status:        alpaca.OrderStatusNew,
		ExtendedHours: request.ExtendedHours != nil && *request.ExtendedHours,
	}
	order.Legs = legs(order, request, now)

	x.orders = append(x.orders, order)
	ctx.JSON(http.StatusOK, order)
}

func (x *Server) patchOrder(ctx *gin.Context) {

	b, err := ctx.GetRawData()
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, &alpaca.Error{Code: 40010000, Message: err.Error()})
		return
	}
	var replace alpaca.OrderReplace
	if err := json.Unmarshal(b, &replace); err != nil {
		ctx.AbortWithStatusJSON(http.StatusUnprocessableEntity, &alpaca.Error{Code: 40010000, Message: err.Error()})
		return
	}

	x.lock.Lock()
	defer x.lock.Unlock()

	old := x.find(ctx.Param("id"))
	if old == nil {
		ctx.AbortWithStatusJSON(http.StatusNotFound, ErrNotFound)
		return
	}
	if !isOpen(old) {
		ctx.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrNotOpen)
		return
	}

	now := time.Now().UTC()
	order := *old
	order.ID = uuid.New()
	order.ClientOrderID = uuid.NewString()
	order.CreatedAt = now
	order.UpdatedAt = &now
	order.SubmittedAt = &now
	order.Legs = nil
	for _, leg := range old.Legs {
		leg.ID = uuid.New()
		leg.ClientOrderID = uuid.NewString()
		leg.CreatedAt = now
		leg.UpdatedAt = &now
		order.Legs = append(order.Legs, leg)
	}
	if replace.Qty != nil {
		order.Qty = *replace.Qty
	}
	if replace.TimeInForce != nil {
		order.TimeInForce = *replace.TimeInForce
	}
	if replace.LimitPrice != nil {
		order.LimitPrice = replace.LimitPrice
	}
	if replace.StopPrice != nil {
		order.StopPrice = replace.StopPrice
	}
	if replace.ClientOrderID != nil {
		order.ClientOrderID = *replace.ClientOrderID
	}

	old.Status = alpaca.OrderStatusReplaced
	old.UpdatedAt = &now

	x.orders = append(x.orders, &order)
	ctx.JSON(http.StatusOK, &order)
}

func (x *Server) deleteOrder(ctx *gin.Context) {

	x.lock.Lock()
	defer x.lock.Unlock()

	order := x.find(ctx.Param("id"))
	if order == nil {
		ctx.AbortWithStatusJSON(http.StatusNotFound, ErrNotFound)
		return
	}
	if !isOpen(order) {
		ctx.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrNotOpen)
		return
	}
	cancel(order, time.Now().UTC())
	ctx.Status(http.StatusNoContent)
}

func (x *Server) deleteOrders(ctx *gin.Context) {

	x.lock.Lock()
	defer x.lock.Unlock()

	now := time.Now().UTC()
	statuses := []alpaca.CancelStatus{}
	for _, order := range x.orders {
		if !isOpen(order) {
			continue
		}
		cancel(order, now)
		statuses = append(statuses, alpaca.CancelStatus{ID: order.ID, Status: http.StatusOK})
	}
	ctx.JSON(http.StatusMultiStatus, statuses)
}

func (x *Server) find(id string) *alpaca.Order {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil
	}
	for _, order := range x.orders {
		if order.ID == parsed {
			return order
		}
	}
	return nil
}

func isOpen(order *alpaca.Order) bool {
	switch order.Status {
	case alpaca.OrderStatusFilled,
		alpaca.OrderStatusCanceled,
		alpaca.OrderStatusExpired,
		alpaca.OrderStatusRejected,
		alpaca.OrderStatusReplaced,
		alpaca.OrderStatusDoneForDay,
		alpaca.OrderStatusCalculated:
		return false
	}
	return true
}

func cancel(order *alpaca.Order, now time.Time) {
	order.Status = alpaca.OrderStatusCanceled
	order.CanceledAt = &now
	order.UpdatedAt = &now
	for i := range order.Legs {
		cancel(&order.Legs[i], now)
	}
}

// validate the prices each order type needs, which the client leaves to the
// service.
func validate(request alpaca.OrderRequest) *alpaca.Error {
	if !request.Qty.IsPositive() {
		return ErrQtyRequired
	}
	switch request.Type {
	case alpaca.OrderTypeLimit:
		if request.LimitPrice == nil {
			return ErrLimitRequired
		}
	case alpaca.OrderTypeStop:
		if request.StopPrice == nil {
			return ErrStopRequired
		}
	case alpaca.OrderTypeStopLimit:
		if request.LimitPrice == nil {
			return ErrLimitRequired
		}
		if request.StopPrice == nil {
			return ErrStopRequired
		}
	}
	return nil
}

// legs returns the take profit and stop loss children of the parent.
func legs(parent *alpaca.Order, request alpaca.OrderRequest, now time.Time) []alpaca.Order {

	if request.TakeProfit == nil && request.StopLoss == nil {
		return nil
	}

	exit := alpaca.SideSell
	if parent.Side == alpaca.SideSell {
		exit = alpaca.SideBuy
	}
	leg := alpaca.Order{
		ClientOrderID: uuid.NewString(),
		CreatedAt:     now,
		UpdatedAt:     &now,
		AssetID:       parent.AssetID,
		Symbol:        parent.Symbol,
		AssetClass:    parent.AssetClass,
		Qty:           parent.Qty,
		FilledQty:     decimal.Zero,
		Side:          exit,
		TimeInForce:   parent.TimeInForce,
		Status:        alpaca.OrderStatusNew,
	}

	var out []alpaca.Order
	if request.TakeProfit != nil {
		tp := leg
		tp.ID = uuid.New()
		tp.ClientOrderID = uuid.NewString()
		tp.Type = alpaca.OrderTypeLimit
		price := request.TakeProfit.LimitPrice
		tp.LimitPrice = &price
		out = append(out, tp)
	}
	if request.StopLoss != nil {
		sl := leg
		sl.ID = uuid.New()
		sl.ClientOrderID = uuid.NewString()
		sl.Type = alpaca.OrderTypeStop
		price := request.StopLoss.StopPrice
		sl.StopPrice = &price
		if request.StopLoss.LimitPrice != nil {
			sl.Type = alpaca.OrderTypeStopLimit
			sl.LimitPrice = request.StopLoss.LimitPrice
		}
		out = append(out, sl)
	}
	return out
}
