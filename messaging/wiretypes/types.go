// Package wiretypes holds the in-memory Go representations of every Omega
// message variant: the typed algebra that messaging/codec builds onto and
// parses off of the wire. These mirror the fields the original capnp schema
// exposed (see original_source/tests/communication/test_request_sender.py)
// without depending on capnp itself.
package wiretypes

// RequestHeader is stamped on every outbound message. Invariant: after logon
// succeeds, every non-logon outbound message carries a non-empty
// AccessToken (enforced by messaging/sender, not here).
type RequestHeader struct {
	ClientID      int64
	SenderCompID  string
	AccessToken   string
	RequestID     int64
}

// AccountInfo identifies one exchange account.
type AccountInfo struct {
	AccountID int64
}

// AccountCredentials pairs exchange API credentials with the account they
// authenticate. Passphrase's zero value means "absent"; the wire cannot
// distinguish an absent passphrase from an explicitly empty one, matching
// the original capnp schema's default-string behavior.
type AccountCredentials struct {
	AccountInfo AccountInfo
	APIKey      string
	SecretKey   string
	Passphrase  string
}

// Order is the full parameterization of a single order, shared by
// PlaceOrder and every leaf of the contingent order algebra.
//
// Invariants (enforced by messaging/codec at build time, never by rejecting
// the caller's input — see §4.3 validation policy):
//   - Leverage is meaningful only when LeverageType == LeverageTypeCustom;
//     any other LeverageType forces Leverage to 0 on the wire.
//   - ExpireAt is meaningful only when TimeInForce == TimeInForceGTD; any
//     other TimeInForce forces ExpireAt to 0 on the wire.
type Order struct {
	AccountInfo        AccountInfo
	ClientOrderID      string
	ClientOrderLinkID  string
	Symbol             string
	Side               Side
	OrderType          OrderType
	Quantity           float64
	Price              float64
	StopPrice          float64
	TimeInForce        TimeInForce
	ExpireAt           float64
	LeverageType       LeverageType
	Leverage           float64
}

// ContingentOrder is the sum type Batch | OCO | OPO. Implementations are
// BatchOrder, OCOOrder, and OPOOrder below.
type ContingentOrder interface {
	isContingentOrder()
}

// BatchOrder fires every order together, no contingency between them.
type BatchOrder struct {
	Orders []Order
}

func (BatchOrder) isContingentOrder() {}

// OCOOrder cancels the remaining orders once one fills.
type OCOOrder struct {
	Orders []Order
}

func (OCOOrder) isContingentOrder() {}

// OPOSecondary is the restricted sum type Batch | OCO used as an OPO's
// secondary leg (recursion depth fixed at 2, per spec §3).
type OPOSecondary interface {
	isOPOSecondary()
}

func (BatchOrder) isOPOSecondary() {}
func (OCOOrder) isOPOSecondary()   {}

// OPOOrder fires Secondary once Primary fills.
type OPOOrder struct {
	Primary   Order
	Secondary OPOSecondary
}

func (OPOOrder) isContingentOrder() {}

// AuthorizationRefresh carries the refresh token used to obtain a new
// access token once the prior one is nearing expiry.
type AuthorizationRefresh struct {
	RefreshToken string
}

// AuthorizationGrant is the inbound counterpart: a freshly issued access
// token plus its lifetime, and (optionally) a new refresh token to use for
// the following refresh.
type AuthorizationGrant struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    float64 // seconds
}

// LogonAck acknowledges a logon attempt.
type LogonAck struct {
	Success bool
	Message string
	Grant   *AuthorizationGrant
}

// LogoffAck acknowledges a logoff request.
type LogoffAck struct {
	Message string
}

// SystemNotification is an out-of-band server message: rejected order,
// degraded service, aged-out token, etc. Treated as ordinary inbound
// traffic, never raised as a Go error (see spec.md §7 ServerError policy).
type SystemNotification struct {
	Message  string
	Severity string
}

// TestReply echoes a test message's payload back to the caller.
type TestReply struct {
	Payload string
}

// ExecutionReport reports a fill, partial fill, rejection, or order state
// change for a previously placed order.
type ExecutionReport struct {
	AccountInfo   AccountInfo
	OrderID       string
	ClientOrderID string
	Symbol        string
	Side          Side
	OrderType     OrderType
	Status        OrderStatus
	Quantity      float64
	Price         float64
	FilledQty     float64
	AvgFillPrice  float64
}

// OrderStatus enumerates the lifecycle state an order is reported in.
type OrderStatus string

const (
	OrderStatusNew             OrderStatus = "new"
	OrderStatusPartiallyFilled OrderStatus = "partiallyFilled"
	OrderStatusFilled          OrderStatus = "filled"
	OrderStatusCanceled        OrderStatus = "canceled"
	OrderStatusRejected        OrderStatus = "rejected"
	OrderStatusUndefined       OrderStatus = "undefined"
)

func ParseOrderStatus(s string) OrderStatus {
	switch s {
	case string(OrderStatusNew), string(OrderStatusPartiallyFilled),
		string(OrderStatusFilled), string(OrderStatusCanceled),
		string(OrderStatusRejected):
		return OrderStatus(s)
	default:
		return OrderStatusUndefined
	}
}

// OpenPosition is one row of an OpenPositionsReport.
type OpenPosition struct {
	AccountInfo  AccountInfo
	Symbol       string
	Side         Side
	Quantity     float64
	EntryPrice   float64
}

// SymbolProperties describes one tradable symbol on an exchange.
type SymbolProperties struct {
	Symbol        string
	PricePrecision int32
	QtyPrecision   int32
	MinQty         float64
	MaxQty         float64
}

// AccountDataReport, AccountBalancesReport, OpenPositionsReport,
// WorkingOrdersReport, CompletedOrdersReport, OrderStatusReport, and
// ExchangePropertiesReport are the remaining inbound report variants. Their
// payloads are intentionally loose (map/slice-of-struct) since this spec
// does not constrain their full field lists beyond AccountInfo/Exchange
// correlation — C4 routes on the envelope kind, not on report contents.
type AccountDataReport struct {
	AccountInfo AccountInfo
	Fields      map[string]string
}

type AccountBalancesReport struct {
	AccountInfo AccountInfo
	Balances    map[string]float64
}

type OpenPositionsReport struct {
	AccountInfo AccountInfo
	Positions   []OpenPosition
}

type WorkingOrdersReport struct {
	AccountInfo AccountInfo
	Orders      []ExecutionReport
}

type CompletedOrdersReport struct {
	AccountInfo AccountInfo
	Orders      []ExecutionReport
}

type OrderStatusReport struct {
	AccountInfo AccountInfo
	Order       ExecutionReport
}

type ExchangePropertiesReport struct {
	Exchange Exchange
	Symbols  []SymbolProperties
}

// Envelope is the outermost tagged union: header + kind + the variant body.
// It is returned synchronously by every messaging/sender method as the
// structural echo described in spec.md §4.3 and §9 (a typed replacement for
// the source's dynamically-typed capnp builder return value). Returning it
// does not imply any reply has arrived from Omega.
type Envelope struct {
	Header RequestHeader
	Kind   MessageKind
	Body   any
}
