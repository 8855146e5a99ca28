package alpaca

import (
	"github.com/gbkr-com/alpaca/dma"
)

// AccountStatus is the lifecycle state of an [Account] as reported by the
// service. Most accounts are [AccountStatusActive].
type AccountStatus string

// Account states.
const (
	AccountStatusOnboarding       AccountStatus = "ONBOARDING"
	AccountStatusSubmissionFailed AccountStatus = "SUBMISSION_FAILED"
	AccountStatusSubmitted        AccountStatus = "SUBMITTED"
	AccountStatusAccountUpdated   AccountStatus = "ACCOUNT_UPDATED" // Trading may pause until approved.
	AccountStatusApprovalPending  AccountStatus = "APPROVAL_PENDING"
	AccountStatusActive           AccountStatus = "ACTIVE"
	AccountStatusRejected         AccountStatus = "REJECTED"
)

// AccountStatuses lists every [AccountStatus].
var AccountStatuses = []AccountStatus{
	AccountStatusOnboarding,
	AccountStatusSubmissionFailed,
	AccountStatusSubmitted,
	AccountStatusAccountUpdated,
	AccountStatusApprovalPending,
	AccountStatusActive,
	AccountStatusRejected,
}

// MarshalText implements [encoding.TextMarshaler].
func (x AccountStatus) MarshalText() ([]byte, error) {
	return marshalTag(x, AccountStatuses)
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (x *AccountStatus) UnmarshalText(b []byte) error {
	return unmarshalTag(x, b, AccountStatuses)
}

// Side of an order.
type Side string

// Sides.
const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Sides lists every [Side].
var Sides = []Side{SideBuy, SideSell}

// MarshalText implements [encoding.TextMarshaler].
func (x Side) MarshalText() ([]byte, error) {
	return marshalTag(x, Sides)
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (x *Side) UnmarshalText(b []byte) error {
	return unmarshalTag(x, b, Sides)
}

// OrderType determines the prices an order needs: limit orders need a limit
// price, stop orders a stop price and stop limit orders both.
type OrderType string

// Order types.
const (
	OrderTypeMarket    OrderType = "market"
	OrderTypeLimit     OrderType = "limit"
	OrderTypeStop      OrderType = "stop"
	OrderTypeStopLimit OrderType = "stop_limit"
)

// OrderTypes lists every [OrderType].
var OrderTypes = []OrderType{OrderTypeMarket, OrderTypeLimit, OrderTypeStop, OrderTypeStopLimit}

// MarshalText implements [encoding.TextMarshaler].
func (x OrderType) MarshalText() ([]byte, error) {
	return marshalTag(x, OrderTypes)
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (x *OrderType) UnmarshalText(b []byte) error {
	return unmarshalTag(x, b, OrderTypes)
}

// TimeInForce controls how long an order stays eligible for execution.
type TimeInForce string

// Time in force values. OPG and CLS orders execute only in the opening and
// closing auctions respectively.
const (
	TimeInForceDay TimeInForce = "day"
	TimeInForceGTC TimeInForce = "gtc"
	TimeInForceOPG TimeInForce = "opg"
	TimeInForceCLS TimeInForce = "cls"
	TimeInForceIOC TimeInForce = "ioc"
	TimeInForceFOK TimeInForce = "fok"
)

// TimesInForce lists every [TimeInForce].
var TimesInForce = []TimeInForce{
	TimeInForceDay,
	TimeInForceGTC,
	TimeInForceOPG,
	TimeInForceCLS,
	TimeInForceIOC,
	TimeInForceFOK,
}

// MarshalText implements [encoding.TextMarshaler].
func (x TimeInForce) MarshalText() ([]byte, error) {
	return marshalTag(x, TimesInForce)
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (x *TimeInForce) UnmarshalText(b []byte) error {
	return unmarshalTag(x, b, TimesInForce)
}

// OrderStatus is the state of an [Order] as reported by the venue. It is
// carried as is; the client does not drive any transitions.
type OrderStatus string

// Order states. New is the usual initial state.
const (
	OrderStatusNew                OrderStatus = "new"
	OrderStatusPartiallyFilled    OrderStatus = "partially_filled"
	OrderStatusFilled             OrderStatus = "filled"
	OrderStatusDoneForDay         OrderStatus = "done_for_day"
	OrderStatusCanceled           OrderStatus = "canceled"
	OrderStatusExpired            OrderStatus = "expired"
	OrderStatusReplaced           OrderStatus = "replaced"
	OrderStatusPendingCancel      OrderStatus = "pending_cancel"
	OrderStatusPendingReplace     OrderStatus = "pending_replace"
	OrderStatusAccepted           OrderStatus = "accepted"
	OrderStatusPendingNew         OrderStatus = "pending_new"
	OrderStatusAcceptedForBidding OrderStatus = "accepted_for_bidding"
	OrderStatusStopped            OrderStatus = "stopped"
	OrderStatusRejected           OrderStatus = "rejected"
	OrderStatusSuspended          OrderStatus = "suspended"
	OrderStatusCalculated         OrderStatus = "calculated"
)

// OrderStatuses lists every [OrderStatus].
var OrderStatuses = []OrderStatus{
	OrderStatusNew,
	OrderStatusPartiallyFilled,
	OrderStatusFilled,
	OrderStatusDoneForDay,
	OrderStatusCanceled,
	OrderStatusExpired,
	OrderStatusReplaced,
	OrderStatusPendingCancel,
	OrderStatusPendingReplace,
	OrderStatusAccepted,
	OrderStatusPendingNew,
	OrderStatusAcceptedForBidding,
	OrderStatusStopped,
	OrderStatusRejected,
	OrderStatusSuspended,
	OrderStatusCalculated,
}

// MarshalText implements [encoding.TextMarshaler].
func (x OrderStatus) MarshalText() ([]byte, error) {
	return marshalTag(x, OrderStatuses)
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (x *OrderStatus) UnmarshalText(b []byte) error {
	return unmarshalTag(x, b, OrderStatuses)
}

// OrderClass groups orders into multi-leg strategies.
type OrderClass string

// Order classes.
const (
	OrderClassSimple  OrderClass = "simple"
	OrderClassBracket OrderClass = "bracket"
	OrderClassOCO     OrderClass = "oco" // One cancels other.
	OrderClassOTO     OrderClass = "oto" // One triggers other.
)

// OrderClasses lists every [OrderClass].
var OrderClasses = []OrderClass{OrderClassSimple, OrderClassBracket, OrderClassOCO, OrderClassOTO}

// MarshalText implements [encoding.TextMarshaler].
func (x OrderClass) MarshalText() ([]byte, error) {
	return marshalTag(x, OrderClasses)
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (x *OrderClass) UnmarshalText(b []byte) error {
	return unmarshalTag(x, b, OrderClasses)
}

func marshalTag[T ~string](x T, known []T) ([]byte, error) {
	if _, err := dma.ParseTag(string(x), known...); err != nil {
		return nil, err
	}
	return []byte(x), nil
}

func unmarshalTag[T ~string](x *T, b []byte, known []T) error {
	v, err := dma.ParseTag(string(b), known...)
	if err != nil {
		return err
	}
	*x = v
	return nil
}
