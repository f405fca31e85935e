package wiretypes

// LogonBody is the payload of a KindLogon envelope. ClientSecret and
// Credentials are carried verbatim; the header's AccessToken is stamped
// unchanged (including empty) per spec.md's "logon bypass" invariant.
type LogonBody struct {
	ClientSecret string
	Credentials  []AccountCredentials
}

// LogoffBody is empty; logoff carries no payload beyond the header.
type LogoffBody struct{}

// HeartbeatBody is empty.
type HeartbeatBody struct{}

// ServerTimeRequestBody is empty.
type ServerTimeRequestBody struct{}

// PlaceOrderBody wraps a single Order for submission.
type PlaceOrderBody struct {
	Order Order
}

// ReplaceOrderBody amends an existing working order.
type ReplaceOrderBody struct {
	AccountInfo AccountInfo
	OrderID     string
	OrderType   OrderType
	Quantity    float64
	Price       float64
	StopPrice   float64
	TimeInForce TimeInForce
	ExpireAt    float64
}

// CancelOrderBody cancels one working order by ID.
type CancelOrderBody struct {
	AccountInfo AccountInfo
	OrderID     string
}

// CancelAllOrdersBody cancels every working order for an account, optionally
// restricted to one symbol and/or one side. Symbol and Side empty means
// "unrestricted" (absent), matching the four original test combinations.
type CancelAllOrdersBody struct {
	AccountInfo AccountInfo
	Symbol      string
	Side        Side
}

// AccountDataRequestBody, AccountBalancesRequestBody, OpenPositionsRequestBody,
// and WorkingOrdersRequestBody all share the same shape: just AccountInfo.
type AccountDataRequestBody struct{ AccountInfo AccountInfo }
type AccountBalancesRequestBody struct{ AccountInfo AccountInfo }
type OpenPositionsRequestBody struct{ AccountInfo AccountInfo }
type WorkingOrdersRequestBody struct{ AccountInfo AccountInfo }

// OrderStatusRequestBody asks for the status of one order.
type OrderStatusRequestBody struct {
	AccountInfo AccountInfo
	OrderID     string
}

// CompletedOrdersRequestBody asks for completed orders, optionally bounded
// by count and/or since (unix seconds). A zero value means "unset" for
// both: Count == 0 means unbounded count, Since == 0 means no lower bound.
// Use CountSet/SinceSet for the rare case 0/0.0 is an intentional bound.
type CompletedOrdersRequestBody struct {
	AccountInfo AccountInfo
	Count       int32
	CountSet    bool
	Since       float64
	SinceSet    bool
}

// ExchangePropertiesRequestBody asks for one exchange's tradable symbol
// properties; unknown names resolve to ExchangeUndefined, never an error.
type ExchangePropertiesRequestBody struct {
	Exchange Exchange
}

// AuthorizationRefreshRequestBody carries the refresh token on the wire.
type AuthorizationRefreshRequestBody struct {
	AuthorizationRefresh AuthorizationRefresh
}

// PlaceContingentOrderBody flattens the in-memory ContingentOrder algebra
// into the schema's recursive tagged union: exactly one of Batch/OCO/OPO is
// non-nil.
type PlaceContingentOrderBody struct {
	Batch *BatchBody
	OCO   *OCOBody
	OPO   *OPOBody
}

// BatchBody is the wire shape of a Batch contingent order.
type BatchBody struct {
	Orders []Order
}

// OCOBody is the wire shape of an OCO contingent order.
type OCOBody struct {
	Orders []Order
}

// OPOSecondaryBody is the wire shape of an OPO's secondary leg: exactly one
// of Batch/OCO is non-nil (recursion depth fixed at 2).
type OPOSecondaryBody struct {
	Batch *BatchBody
	OCO   *OCOBody
}

// OPOBody is the wire shape of an OPO contingent order.
type OPOBody struct {
	Primary   Order
	Secondary OPOSecondaryBody
}

// TestMessageBody carries an arbitrary diagnostic payload.
type TestMessageBody struct {
	Payload string
}
