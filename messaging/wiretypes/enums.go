package wiretypes

import "strings"

// Side is the direction of an order.
type Side string

const (
	SideBuy       Side = "buy"
	SideSell      Side = "sell"
	SideUndefined Side = "undefined"
)

func ParseSide(s string) Side {
	switch strings.ToLower(s) {
	case "buy":
		return SideBuy
	case "sell":
		return SideSell
	default:
		return SideUndefined
	}
}

// OrderType enumerates the order types Omega accepts.
type OrderType string

const (
	OrderTypeMarket     OrderType = "market"
	OrderTypeLimit      OrderType = "limit"
	OrderTypeStop       OrderType = "stop"
	OrderTypeStopLimit  OrderType = "stopLimit"
	OrderTypeUndefined  OrderType = "undefined"
)

func ParseOrderType(s string) OrderType {
	switch strings.ToLower(s) {
	case "market":
		return OrderTypeMarket
	case "limit":
		return OrderTypeLimit
	case "stop":
		return OrderTypeStop
	case "stoplimit":
		return OrderTypeStopLimit
	default:
		return OrderTypeUndefined
	}
}

// TimeInForce enumerates order lifetime policies.
type TimeInForce string

const (
	TimeInForceGTC       TimeInForce = "gtc"
	TimeInForceGTD       TimeInForce = "gtd"
	TimeInForceFOK       TimeInForce = "fok"
	TimeInForceIOC       TimeInForce = "ioc"
	TimeInForceUndefined TimeInForce = "undefined"
)

func ParseTimeInForce(s string) TimeInForce {
	switch strings.ToLower(s) {
	case "gtc":
		return TimeInForceGTC
	case "gtd":
		return TimeInForceGTD
	case "fok":
		return TimeInForceFOK
	case "ioc":
		return TimeInForceIOC
	default:
		return TimeInForceUndefined
	}
}

// LeverageType distinguishes unleveraged, exchange-default-margin, and
// custom-margin orders.
type LeverageType string

const (
	LeverageTypeNone            LeverageType = "none"
	LeverageTypeExchangeDefault LeverageType = "exchangeDefault"
	LeverageTypeCustom          LeverageType = "custom"
	LeverageTypeUndefined       LeverageType = "undefined"
)

func ParseLeverageType(s string) LeverageType {
	switch strings.ToLower(s) {
	case "none":
		return LeverageTypeNone
	case "exchangedefault":
		return LeverageTypeExchangeDefault
	case "custom":
		return LeverageTypeCustom
	default:
		return LeverageTypeUndefined
	}
}

// Exchange enumerates the exchanges Omega can report properties for.
// Matches the original test suite's "gemini" resolves, "gdax" does not.
type Exchange string

const (
	ExchangeGemini      Exchange = "gemini"
	ExchangeBitstamp    Exchange = "bitstamp"
	ExchangeCoinbase    Exchange = "coinbase"
	ExchangeKraken      Exchange = "kraken"
	ExchangeBitfinex    Exchange = "bitfinex"
	ExchangeUndefined   Exchange = "undefined"
)

func ParseExchange(s string) Exchange {
	switch strings.ToLower(s) {
	case "gemini":
		return ExchangeGemini
	case "bitstamp":
		return ExchangeBitstamp
	case "coinbase":
		return ExchangeCoinbase
	case "kraken":
		return ExchangeKraken
	case "bitfinex":
		return ExchangeBitfinex
	default:
		return ExchangeUndefined
	}
}

// MessageKind tags the variant carried in an Envelope's Body.
type MessageKind uint8

const (
	KindUnknown MessageKind = iota
	// Outbound
	KindLogon
	KindLogoff
	KindHeartbeat
	KindServerTimeRequest
	KindPlaceOrder
	KindReplaceOrder
	KindCancelOrder
	KindCancelAllOrders
	KindAuthorizationRefresh
	KindPlaceContingentOrder
	KindTestMessage
	KindAccountDataRequest
	KindAccountBalancesRequest
	KindOpenPositionsRequest
	KindWorkingOrdersRequest
	KindOrderStatusRequest
	KindCompletedOrdersRequest
	KindExchangePropertiesRequest
	// Inbound
	KindExecutionReport
	KindAccountDataReport
	KindAccountBalancesReport
	KindOpenPositionsReport
	KindWorkingOrdersReport
	KindCompletedOrdersReport
	KindOrderStatusReport
	KindExchangePropertiesReport
	KindLogonAck
	KindLogoffAck
	KindAuthorizationGrant
	KindSystemNotification
	KindTestReply
)

func (k MessageKind) String() string {
	switch k {
	case KindLogon:
		return "logon"
	case KindLogoff:
		return "logoff"
	case KindHeartbeat:
		return "heartbeat"
	case KindServerTimeRequest:
		return "getServerTime"
	case KindPlaceOrder:
		return "placeOrder"
	case KindReplaceOrder:
		return "replaceOrder"
	case KindCancelOrder:
		return "cancelOrder"
	case KindCancelAllOrders:
		return "cancelAllOrders"
	case KindAuthorizationRefresh:
		return "authorizationRefresh"
	case KindPlaceContingentOrder:
		return "placeContingentOrder"
	case KindTestMessage:
		return "test"
	case KindAccountDataRequest:
		return "requestAccountData"
	case KindAccountBalancesRequest:
		return "requestAccountBalances"
	case KindOpenPositionsRequest:
		return "requestOpenPositions"
	case KindWorkingOrdersRequest:
		return "requestWorkingOrders"
	case KindOrderStatusRequest:
		return "requestOrderStatus"
	case KindCompletedOrdersRequest:
		return "requestCompletedOrders"
	case KindExchangePropertiesRequest:
		return "requestExchangeProperties"
	case KindExecutionReport:
		return "executionReport"
	case KindAccountDataReport:
		return "accountDataReport"
	case KindAccountBalancesReport:
		return "accountBalancesReport"
	case KindOpenPositionsReport:
		return "openPositionsReport"
	case KindWorkingOrdersReport:
		return "workingOrdersReport"
	case KindCompletedOrdersReport:
		return "completedOrdersReport"
	case KindOrderStatusReport:
		return "orderStatusReport"
	case KindExchangePropertiesReport:
		return "exchangePropertiesReport"
	case KindLogonAck:
		return "logonAck"
	case KindLogoffAck:
		return "logoffAck"
	case KindAuthorizationGrant:
		return "authorizationGrant"
	case KindSystemNotification:
		return "systemNotification"
	case KindTestReply:
		return "testReply"
	default:
		return "unknown"
	}
}
