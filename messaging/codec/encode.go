package codec

import (
	"github.com/fund3/omega-client/internal/wire"
	"github.com/fund3/omega-client/messaging/wiretypes"
)

// Each Build* function serializes one outbound message kind and returns both
// the wire bytes (handed to messaging/sender for enqueueing) and the
// Envelope describing what was built, per spec.md §4.3/§9.

func BuildLogon(header wiretypes.RequestHeader, clientSecret string, credentials []wiretypes.AccountCredentials) ([]byte, wiretypes.Envelope) {
	body := wiretypes.LogonBody{ClientSecret: clientSecret, Credentials: credentials}
	raw := frame(wiretypes.KindLogon, header, func(w *wire.Writer) {
		w.String(body.ClientSecret)
		writeCredentials(w, body.Credentials)
	})
	return raw, wiretypes.Envelope{Header: header, Kind: wiretypes.KindLogon, Body: body}
}

func BuildLogoff(header wiretypes.RequestHeader) ([]byte, wiretypes.Envelope) {
	raw := frame(wiretypes.KindLogoff, header, func(w *wire.Writer) {})
	return raw, wiretypes.Envelope{Header: header, Kind: wiretypes.KindLogoff, Body: wiretypes.LogoffBody{}}
}

func BuildHeartbeat(header wiretypes.RequestHeader) ([]byte, wiretypes.Envelope) {
	raw := frame(wiretypes.KindHeartbeat, header, func(w *wire.Writer) {})
	return raw, wiretypes.Envelope{Header: header, Kind: wiretypes.KindHeartbeat, Body: wiretypes.HeartbeatBody{}}
}

func BuildServerTimeRequest(header wiretypes.RequestHeader) ([]byte, wiretypes.Envelope) {
	raw := frame(wiretypes.KindServerTimeRequest, header, func(w *wire.Writer) {})
	return raw, wiretypes.Envelope{Header: header, Kind: wiretypes.KindServerTimeRequest, Body: wiretypes.ServerTimeRequestBody{}}
}

func BuildPlaceOrder(header wiretypes.RequestHeader, order wiretypes.Order) ([]byte, wiretypes.Envelope) {
	body := wiretypes.PlaceOrderBody{Order: order}
	raw := frame(wiretypes.KindPlaceOrder, header, func(w *wire.Writer) {
		writeOrder(w, order)
	})
	return raw, wiretypes.Envelope{Header: header, Kind: wiretypes.KindPlaceOrder, Body: body}
}

func BuildReplaceOrder(header wiretypes.RequestHeader, body wiretypes.ReplaceOrderBody) ([]byte, wiretypes.Envelope) {
	raw := frame(wiretypes.KindReplaceOrder, header, func(w *wire.Writer) {
		w.Int64(body.AccountInfo.AccountID)
		w.String(body.OrderID)
		w.String(string(wiretypes.ParseOrderType(string(body.OrderType))))
		w.Float64(body.Quantity)
		w.Float64(body.Price)
		w.Float64(body.StopPrice)
		w.String(string(wiretypes.ParseTimeInForce(string(body.TimeInForce))))
		w.Float64(body.ExpireAt)
	})
	return raw, wiretypes.Envelope{Header: header, Kind: wiretypes.KindReplaceOrder, Body: body}
}

func BuildCancelOrder(header wiretypes.RequestHeader, accountInfo wiretypes.AccountInfo, orderID string) ([]byte, wiretypes.Envelope) {
	body := wiretypes.CancelOrderBody{AccountInfo: accountInfo, OrderID: orderID}
	raw := frame(wiretypes.KindCancelOrder, header, func(w *wire.Writer) {
		w.Int64(body.AccountInfo.AccountID)
		w.String(body.OrderID)
	})
	return raw, wiretypes.Envelope{Header: header, Kind: wiretypes.KindCancelOrder, Body: body}
}

func BuildCancelAllOrders(header wiretypes.RequestHeader, accountInfo wiretypes.AccountInfo, symbol string, side wiretypes.Side) ([]byte, wiretypes.Envelope) {
	body := wiretypes.CancelAllOrdersBody{AccountInfo: accountInfo, Symbol: symbol, Side: normalizeOptionalSide(side)}
	raw := frame(wiretypes.KindCancelAllOrders, header, func(w *wire.Writer) {
		w.Int64(body.AccountInfo.AccountID)
		w.String(body.Symbol)
		w.String(string(body.Side))
	})
	return raw, wiretypes.Envelope{Header: header, Kind: wiretypes.KindCancelAllOrders, Body: body}
}

// normalizeOptionalSide applies the usual case-insensitive enum resolution
// (spec.md §4.1/§8) while preserving "" as "unrestricted" rather than
// coercing it to SideUndefined: CancelAllOrders treats an absent side as
// "don't filter by side," a distinct meaning from "side present but
// unrecognized."
func normalizeOptionalSide(s wiretypes.Side) wiretypes.Side {
	if s == "" {
		return ""
	}
	return wiretypes.ParseSide(string(s))
}

func BuildAccountDataRequest(header wiretypes.RequestHeader, accountInfo wiretypes.AccountInfo) ([]byte, wiretypes.Envelope) {
	body := wiretypes.AccountDataRequestBody{AccountInfo: accountInfo}
	raw := frame(wiretypes.KindAccountDataRequest, header, func(w *wire.Writer) {
		w.Int64(body.AccountInfo.AccountID)
	})
	return raw, wiretypes.Envelope{Header: header, Kind: wiretypes.KindAccountDataRequest, Body: body}
}

func BuildAccountBalancesRequest(header wiretypes.RequestHeader, accountInfo wiretypes.AccountInfo) ([]byte, wiretypes.Envelope) {
	body := wiretypes.AccountBalancesRequestBody{AccountInfo: accountInfo}
	raw := frame(wiretypes.KindAccountBalancesRequest, header, func(w *wire.Writer) {
		w.Int64(body.AccountInfo.AccountID)
	})
	return raw, wiretypes.Envelope{Header: header, Kind: wiretypes.KindAccountBalancesRequest, Body: body}
}

func BuildOpenPositionsRequest(header wiretypes.RequestHeader, accountInfo wiretypes.AccountInfo) ([]byte, wiretypes.Envelope) {
	body := wiretypes.OpenPositionsRequestBody{AccountInfo: accountInfo}
	raw := frame(wiretypes.KindOpenPositionsRequest, header, func(w *wire.Writer) {
		w.Int64(body.AccountInfo.AccountID)
	})
	return raw, wiretypes.Envelope{Header: header, Kind: wiretypes.KindOpenPositionsRequest, Body: body}
}

func BuildWorkingOrdersRequest(header wiretypes.RequestHeader, accountInfo wiretypes.AccountInfo) ([]byte, wiretypes.Envelope) {
	body := wiretypes.WorkingOrdersRequestBody{AccountInfo: accountInfo}
	raw := frame(wiretypes.KindWorkingOrdersRequest, header, func(w *wire.Writer) {
		w.Int64(body.AccountInfo.AccountID)
	})
	return raw, wiretypes.Envelope{Header: header, Kind: wiretypes.KindWorkingOrdersRequest, Body: body}
}

func BuildOrderStatusRequest(header wiretypes.RequestHeader, accountInfo wiretypes.AccountInfo, orderID string) ([]byte, wiretypes.Envelope) {
	body := wiretypes.OrderStatusRequestBody{AccountInfo: accountInfo, OrderID: orderID}
	raw := frame(wiretypes.KindOrderStatusRequest, header, func(w *wire.Writer) {
		w.Int64(body.AccountInfo.AccountID)
		w.String(body.OrderID)
	})
	return raw, wiretypes.Envelope{Header: header, Kind: wiretypes.KindOrderStatusRequest, Body: body}
}

// BuildCompletedOrdersRequest takes count/since as pointers: nil means
// unset. This mirrors the original schema's optional-field semantics
// without forcing callers to juggle the CountSet/SinceSet flags directly.
func BuildCompletedOrdersRequest(header wiretypes.RequestHeader, accountInfo wiretypes.AccountInfo, count *int32, since *float64) ([]byte, wiretypes.Envelope) {
	body := wiretypes.CompletedOrdersRequestBody{AccountInfo: accountInfo}
	if count != nil {
		body.Count = *count
		body.CountSet = true
	}
	if since != nil {
		body.Since = *since
		body.SinceSet = true
	}
	raw := frame(wiretypes.KindCompletedOrdersRequest, header, func(w *wire.Writer) {
		w.Int64(body.AccountInfo.AccountID)
		w.Bool(body.CountSet)
		w.Int32(body.Count)
		w.Bool(body.SinceSet)
		w.Float64(body.Since)
	})
	return raw, wiretypes.Envelope{Header: header, Kind: wiretypes.KindCompletedOrdersRequest, Body: body}
}

func BuildExchangePropertiesRequest(header wiretypes.RequestHeader, exchange wiretypes.Exchange) ([]byte, wiretypes.Envelope) {
	body := wiretypes.ExchangePropertiesRequestBody{Exchange: exchange}
	raw := frame(wiretypes.KindExchangePropertiesRequest, header, func(w *wire.Writer) {
		w.String(string(body.Exchange))
	})
	return raw, wiretypes.Envelope{Header: header, Kind: wiretypes.KindExchangePropertiesRequest, Body: body}
}

func BuildAuthorizationRefresh(header wiretypes.RequestHeader, refreshToken string) ([]byte, wiretypes.Envelope) {
	body := wiretypes.AuthorizationRefreshRequestBody{AuthorizationRefresh: wiretypes.AuthorizationRefresh{RefreshToken: refreshToken}}
	raw := frame(wiretypes.KindAuthorizationRefresh, header, func(w *wire.Writer) {
		w.String(body.AuthorizationRefresh.RefreshToken)
	})
	return raw, wiretypes.Envelope{Header: header, Kind: wiretypes.KindAuthorizationRefresh, Body: body}
}

// BuildPlaceContingentOrder flattens co (Batch | OCO | OPO) onto the wire.
func BuildPlaceContingentOrder(header wiretypes.RequestHeader, co wiretypes.ContingentOrder) ([]byte, wiretypes.Envelope, error) {
	var buildErr error
	raw := frame(wiretypes.KindPlaceContingentOrder, header, func(w *wire.Writer) {
		buildErr = writeContingentOrder(w, co)
	})
	if buildErr != nil {
		return nil, wiretypes.Envelope{}, buildErr
	}
	body := contingentOrderToBody(co)
	return raw, wiretypes.Envelope{Header: header, Kind: wiretypes.KindPlaceContingentOrder, Body: body}, nil
}

func contingentOrderToBody(co wiretypes.ContingentOrder) wiretypes.PlaceContingentOrderBody {
	switch v := co.(type) {
	case wiretypes.BatchOrder:
		return wiretypes.PlaceContingentOrderBody{Batch: &wiretypes.BatchBody{Orders: v.Orders}}
	case wiretypes.OCOOrder:
		return wiretypes.PlaceContingentOrderBody{OCO: &wiretypes.OCOBody{Orders: v.Orders}}
	case wiretypes.OPOOrder:
		return wiretypes.PlaceContingentOrderBody{OPO: &wiretypes.OPOBody{
			Primary:   v.Primary,
			Secondary: opoSecondaryToBody(v.Secondary),
		}}
	default:
		return wiretypes.PlaceContingentOrderBody{}
	}
}

func opoSecondaryToBody(s wiretypes.OPOSecondary) wiretypes.OPOSecondaryBody {
	switch v := s.(type) {
	case wiretypes.BatchOrder:
		return wiretypes.OPOSecondaryBody{Batch: &wiretypes.BatchBody{Orders: v.Orders}}
	case wiretypes.OCOOrder:
		return wiretypes.OPOSecondaryBody{OCO: &wiretypes.OCOBody{Orders: v.Orders}}
	default:
		return wiretypes.OPOSecondaryBody{}
	}
}

func BuildTestMessage(header wiretypes.RequestHeader, payload string) ([]byte, wiretypes.Envelope) {
	body := wiretypes.TestMessageBody{Payload: payload}
	raw := frame(wiretypes.KindTestMessage, header, func(w *wire.Writer) {
		w.String(body.Payload)
	})
	return raw, wiretypes.Envelope{Header: header, Kind: wiretypes.KindTestMessage, Body: body}
}
