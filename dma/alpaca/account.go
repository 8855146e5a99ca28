package alpaca

import (
	"encoding/json"
	"time"

	"github.com/gbkr-com/alpaca/dma"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// An Account is a snapshot of the brokerage account, replaced wholesale on
// each fetch. An account may be blocked for trades only (TradingBlocked) or
// for trades and transfers (AccountBlocked). The pattern day trader flag
// inhibits further day trades.
type Account struct {
	ID                    uuid.UUID
	AccountNumber         string
	Status                AccountStatus
	Currency              string // For example "USD".
	Cash                  decimal.Decimal
	PatternDayTrader      bool
	TradeSuspendedByUser  bool
	TradingBlocked        bool
	TransfersBlocked      bool
	AccountBlocked        bool
	CreatedAt             time.Time
	ShortingEnabled       bool
	LongMarketValue       decimal.Decimal
	ShortMarketValue      decimal.Decimal
	Equity                decimal.Decimal // Cash + LongMarketValue + ShortMarketValue.
	LastEquity            decimal.Decimal // Equity at the previous close.
	Multiplier            decimal.Decimal // Buying power multiplier: 1, 2 or 4.
	BuyingPower           decimal.Decimal
	InitialMargin         decimal.Decimal
	MaintenanceMargin     decimal.Decimal
	SMA                   decimal.Decimal // Special memorandum account.
	DaytradeCount         int64           // Day trades in the last 5 trading days.
	LastMaintenanceMargin decimal.Decimal
	DaytradingBuyingPower decimal.Decimal
	RegTBuyingPower       decimal.Decimal
}

type accountWire struct {
	ID                    uuid.UUID     `json:"id"`
	AccountNumber         string        `json:"account_number"`
	Status                AccountStatus `json:"status"`
	Currency              string        `json:"currency"`
	Cash                  string        `json:"cash"`
	PatternDayTrader      bool          `json:"pattern_day_trader"`
	TradeSuspendedByUser  bool          `json:"trade_suspended_by_user"`
	TradingBlocked        bool          `json:"trading_blocked"`
	TransfersBlocked      bool          `json:"transfers_blocked"`
	AccountBlocked        bool          `json:"account_blocked"`
	CreatedAt             time.Time     `json:"created_at"`
	ShortingEnabled       bool          `json:"shorting_enabled"`
	LongMarketValue       string        `json:"long_market_value"`
	ShortMarketValue      string        `json:"short_market_value"`
	Equity                string        `json:"equity"`
	LastEquity            string        `json:"last_equity"`
	Multiplier            string        `json:"multiplier"`
	BuyingPower           string        `json:"buying_power"`
	InitialMargin         string        `json:"initial_margin"`
	MaintenanceMargin     string        `json:"maintenance_margin"`
	SMA                   string        `json:"sma"`
	DaytradeCount         int64         `json:"daytrade_count"`
	LastMaintenanceMargin string        `json:"last_maintenance_margin"`
	DaytradingBuyingPower string        `json:"daytrading_buying_power"`
	RegTBuyingPower       string        `json:"regt_buying_power"`
}

// MarshalJSON implements [json.Marshaler].
func (x Account) MarshalJSON() ([]byte, error) {
	return json.Marshal(&accountWire{
		ID:                    x.ID,
		AccountNumber:         x.AccountNumber,
		Status:                x.Status,
		Currency:              x.Currency,
		Cash:                  dma.EncodeDecimal(x.Cash),
		PatternDayTrader:      x.PatternDayTrader,
		TradeSuspendedByUser:  x.TradeSuspendedByUser,
		TradingBlocked:        x.TradingBlocked,
		TransfersBlocked:      x.TransfersBlocked,
		AccountBlocked:        x.AccountBlocked,
		CreatedAt:             x.CreatedAt,
		ShortingEnabled:       x.ShortingEnabled,
		LongMarketValue:       dma.EncodeDecimal(x.LongMarketValue),
		ShortMarketValue:      dma.EncodeDecimal(x.ShortMarketValue),
		Equity:                dma.EncodeDecimal(x.Equity),
		LastEquity:            dma.EncodeDecimal(x.LastEquity),
		Multiplier:            dma.EncodeDecimal(x.Multiplier),
		BuyingPower:           dma.EncodeDecimal(x.BuyingPower),
		InitialMargin:         dma.EncodeDecimal(x.InitialMargin),
		MaintenanceMargin:     dma.EncodeDecimal(x.MaintenanceMargin),
		SMA:                   dma.EncodeDecimal(x.SMA),
		DaytradeCount:         x.DaytradeCount,
		LastMaintenanceMargin: dma.EncodeDecimal(x.LastMaintenanceMargin),
		DaytradingBuyingPower: dma.EncodeDecimal(x.DaytradingBuyingPower),
		RegTBuyingPower:       dma.EncodeDecimal(x.RegTBuyingPower),
	})
}

// UnmarshalJSON implements [json.Unmarshaler].
func (x *Account) UnmarshalJSON(b []byte) error {

	var w accountWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	var dec wireDecoder
	account := Account{
		ID:                    w.ID,
		AccountNumber:         w.AccountNumber,
		Status:                w.Status,
		Currency:              w.Currency,
		Cash:                  dec.decimal("cash", w.Cash),
		PatternDayTrader:      w.PatternDayTrader,
		TradeSuspendedByUser:  w.TradeSuspendedByUser,
		TradingBlocked:        w.TradingBlocked,
		TransfersBlocked:      w.TransfersBlocked,
		AccountBlocked:        w.AccountBlocked,
		CreatedAt:             w.CreatedAt,
		ShortingEnabled:       w.ShortingEnabled,
		LongMarketValue:       dec.decimal("long_market_value", w.LongMarketValue),
		ShortMarketValue:      dec.decimal("short_market_value", w.ShortMarketValue),
		Equity:                dec.decimal("equity", w.Equity),
		LastEquity:            dec.decimal("last_equity", w.LastEquity),
		Multiplier:            dec.decimal("multiplier", w.Multiplier),
		BuyingPower:           dec.decimal("buying_power", w.BuyingPower),
		InitialMargin:         dec.decimal("initial_margin", w.InitialMargin),
		MaintenanceMargin:     dec.decimal("maintenance_margin", w.MaintenanceMargin),
		SMA:                   dec.decimal("sma", w.SMA),
		DaytradeCount:         w.DaytradeCount,
		LastMaintenanceMargin: dec.decimal("last_maintenance_margin", w.LastMaintenanceMargin),
		DaytradingBuyingPower: dec.decimal("daytrading_buying_power", w.DaytradingBuyingPower),
		RegTBuyingPower:       dec.decimal("regt_buying_power", w.RegTBuyingPower),
	}
	if dec.err != nil {
		return dec.err
	}

	*x = account
	return nil
}
