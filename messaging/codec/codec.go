// Package codec builds outgoing Envelopes into wire bytes and parses
// incoming wire bytes back into Envelopes. It is the concrete realization
// of spec.md's C1 Message Codec: every Build* function returns both the
// serialized bytes (for messaging/sender to enqueue on the transport) and
// the structural Envelope (returned to the caller for inspection, per
// spec.md §4.3/§9 — a typed replacement for the source's dynamically typed
// capnp builder).
package codec

import (
	"fmt"

	omegaerrors "github.com/fund3/omega-client/errors"
	"github.com/fund3/omega-client/internal/wire"
	"github.com/fund3/omega-client/messaging/wiretypes"
)

func writeHeader(w *wire.Writer, h wiretypes.RequestHeader) {
	w.Int64(h.ClientID)
	w.String(h.SenderCompID)
	w.String(h.AccessToken)
	w.Int64(h.RequestID)
}

func readHeader(r *wire.Reader) wiretypes.RequestHeader {
	var h wiretypes.RequestHeader
	h.ClientID = r.Int64()
	h.SenderCompID = r.String()
	h.AccessToken = r.String()
	h.RequestID = r.Int64()
	return h
}

func writeOrder(w *wire.Writer, o wiretypes.Order) {
	w.Int64(o.AccountInfo.AccountID)
	w.String(o.ClientOrderID)
	w.String(o.ClientOrderLinkID)
	w.String(o.Symbol)
	w.String(string(wiretypes.ParseSide(string(o.Side))))
	w.String(string(wiretypes.ParseOrderType(string(o.OrderType))))
	w.Float64(o.Quantity)
	w.Float64(o.Price)
	w.Float64(o.StopPrice)
	tif := wiretypes.ParseTimeInForce(string(o.TimeInForce))
	w.String(string(tif))
	// ExpireAt is meaningful only for gtd; force 0 otherwise (spec.md §3 invariant).
	expireAt := o.ExpireAt
	if tif != wiretypes.TimeInForceGTD {
		expireAt = 0
	}
	w.Float64(expireAt)
	lt := wiretypes.ParseLeverageType(string(o.LeverageType))
	w.String(string(lt))
	// Leverage is meaningful only for custom; force 0 otherwise.
	leverage := o.Leverage
	if lt != wiretypes.LeverageTypeCustom {
		leverage = 0
	}
	w.Float64(leverage)
}

func readOrder(r *wire.Reader) wiretypes.Order {
	var o wiretypes.Order
	o.AccountInfo.AccountID = r.Int64()
	o.ClientOrderID = r.String()
	o.ClientOrderLinkID = r.String()
	o.Symbol = r.String()
	o.Side = wiretypes.ParseSide(r.String())
	o.OrderType = wiretypes.ParseOrderType(r.String())
	o.Quantity = r.Float64()
	o.Price = r.Float64()
	o.StopPrice = r.Float64()
	o.TimeInForce = wiretypes.ParseTimeInForce(r.String())
	o.ExpireAt = r.Float64()
	o.LeverageType = wiretypes.ParseLeverageType(r.String())
	o.Leverage = r.Float64()
	return o
}

func writeOrders(w *wire.Writer, orders []wiretypes.Order) {
	w.Int32(int32(len(orders)))
	for _, o := range orders {
		writeOrder(w, o)
	}
}

func readOrders(r *wire.Reader) []wiretypes.Order {
	n := r.Int32()
	orders := make([]wiretypes.Order, 0, n)
	for i := int32(0); i < n; i++ {
		orders = append(orders, readOrder(r))
	}
	return orders
}

func writeCredentials(w *wire.Writer, creds []wiretypes.AccountCredentials) {
	w.Int32(int32(len(creds)))
	for _, c := range creds {
		w.Int64(c.AccountInfo.AccountID)
		w.String(c.APIKey)
		w.String(c.SecretKey)
		w.String(c.Passphrase)
	}
}

func readCredentials(r *wire.Reader) []wiretypes.AccountCredentials {
	n := r.Int32()
	creds := make([]wiretypes.AccountCredentials, 0, n)
	for i := int32(0); i < n; i++ {
		var c wiretypes.AccountCredentials
		c.AccountInfo.AccountID = r.Int64()
		c.APIKey = r.String()
		c.SecretKey = r.String()
		c.Passphrase = r.String()
		creds = append(creds, c)
	}
	return creds
}

// frame writes the kind tag and header, then lets fn append the body, and
// returns the completed bytes.
func frame(kind wiretypes.MessageKind, header wiretypes.RequestHeader, fn func(*wire.Writer)) []byte {
	w := wire.NewWriter(128)
	w.Byte(byte(kind))
	writeHeader(w, header)
	fn(w)
	return w.Bytes()
}

// Parse decodes a raw wire frame into an Envelope. It never panics or
// returns a partially-valid Envelope: on any decode error it returns a
// non-nil error and the caller (messaging/dispatch) routes that to
// OnProtocolError without aborting the receive loop, per spec.md §4.4/§7.
func Parse(raw []byte) (wiretypes.Envelope, error) {
	if len(raw) < 1 {
		return wiretypes.Envelope{}, &omegaerrors.ProtocolError{Raw: raw, Cause: fmt.Errorf("empty frame")}
	}
	kind := wiretypes.MessageKind(raw[0])
	r := wire.NewReader(raw[1:])
	header := readHeader(r)
	if err := r.Err(); err != nil {
		return wiretypes.Envelope{}, &omegaerrors.ProtocolError{Raw: raw, Cause: err}
	}

	env := wiretypes.Envelope{Header: header, Kind: kind}

	switch kind {
	case wiretypes.KindLogon:
		env.Body = wiretypes.LogonBody{
			ClientSecret: r.String(),
			Credentials:  readCredentials(r),
		}
	case wiretypes.KindLogoff:
		env.Body = wiretypes.LogoffBody{}
	case wiretypes.KindHeartbeat:
		env.Body = wiretypes.HeartbeatBody{}
	case wiretypes.KindServerTimeRequest:
		env.Body = wiretypes.ServerTimeRequestBody{}
	case wiretypes.KindPlaceOrder:
		env.Body = wiretypes.PlaceOrderBody{Order: readOrder(r)}
	case wiretypes.KindReplaceOrder:
		var b wiretypes.ReplaceOrderBody
		b.AccountInfo.AccountID = r.Int64()
		b.OrderID = r.String()
		b.OrderType = wiretypes.ParseOrderType(r.String())
		b.Quantity = r.Float64()
		b.Price = r.Float64()
		b.StopPrice = r.Float64()
		b.TimeInForce = wiretypes.ParseTimeInForce(r.String())
		b.ExpireAt = r.Float64()
		env.Body = b
	case wiretypes.KindCancelOrder:
		var b wiretypes.CancelOrderBody
		b.AccountInfo.AccountID = r.Int64()
		b.OrderID = r.String()
		env.Body = b
	case wiretypes.KindCancelAllOrders:
		var b wiretypes.CancelAllOrdersBody
		b.AccountInfo.AccountID = r.Int64()
		b.Symbol = r.String()
		b.Side = normalizeOptionalSide(wiretypes.Side(r.String()))
		env.Body = b
	case wiretypes.KindAccountDataRequest:
		var b wiretypes.AccountDataRequestBody
		b.AccountInfo.AccountID = r.Int64()
		env.Body = b
	case wiretypes.KindAccountBalancesRequest:
		var b wiretypes.AccountBalancesRequestBody
		b.AccountInfo.AccountID = r.Int64()
		env.Body = b
	case wiretypes.KindOpenPositionsRequest:
		var b wiretypes.OpenPositionsRequestBody
		b.AccountInfo.AccountID = r.Int64()
		env.Body = b
	case wiretypes.KindWorkingOrdersRequest:
		var b wiretypes.WorkingOrdersRequestBody
		b.AccountInfo.AccountID = r.Int64()
		env.Body = b
	case wiretypes.KindOrderStatusRequest:
		var b wiretypes.OrderStatusRequestBody
		b.AccountInfo.AccountID = r.Int64()
		b.OrderID = r.String()
		env.Body = b
	case wiretypes.KindCompletedOrdersRequest:
		var b wiretypes.CompletedOrdersRequestBody
		b.AccountInfo.AccountID = r.Int64()
		b.CountSet = r.Bool()
		b.Count = r.Int32()
		b.SinceSet = r.Bool()
		b.Since = r.Float64()
		env.Body = b
	case wiretypes.KindExchangePropertiesRequest:
		env.Body = wiretypes.ExchangePropertiesRequestBody{Exchange: wiretypes.ParseExchange(r.String())}
	case wiretypes.KindAuthorizationRefresh:
		env.Body = wiretypes.AuthorizationRefreshRequestBody{
			AuthorizationRefresh: wiretypes.AuthorizationRefresh{RefreshToken: r.String()},
		}
	case wiretypes.KindPlaceContingentOrder:
		env.Body = readContingentBody(r)
	case wiretypes.KindTestMessage:
		env.Body = wiretypes.TestMessageBody{Payload: r.String()}
	case wiretypes.KindLogonAck:
		var b wiretypes.LogonAck
		b.Success = r.Bool()
		b.Message = r.String()
		if r.Bool() {
			b.Grant = &wiretypes.AuthorizationGrant{
				AccessToken:  r.String(),
				RefreshToken: r.String(),
				ExpiresIn:    r.Float64(),
			}
		}
		env.Body = b
	case wiretypes.KindLogoffAck:
		env.Body = wiretypes.LogoffAck{Message: r.String()}
	case wiretypes.KindAuthorizationGrant:
		env.Body = wiretypes.AuthorizationGrant{
			AccessToken:  r.String(),
			RefreshToken: r.String(),
			ExpiresIn:    r.Float64(),
		}
	case wiretypes.KindSystemNotification:
		env.Body = wiretypes.SystemNotification{Message: r.String(), Severity: r.String()}
	case wiretypes.KindTestReply:
		env.Body = wiretypes.TestReply{Payload: r.String()}
	case wiretypes.KindExecutionReport:
		env.Body = readExecutionReport(r)
	case wiretypes.KindOrderStatusReport:
		env.Body = wiretypes.OrderStatusReport{
			AccountInfo: wiretypes.AccountInfo{AccountID: r.Int64()},
			Order:       readExecutionReport(r),
		}
	case wiretypes.KindWorkingOrdersReport:
		env.Body = wiretypes.WorkingOrdersReport{
			AccountInfo: wiretypes.AccountInfo{AccountID: r.Int64()},
			Orders:      readExecutionReports(r),
		}
	case wiretypes.KindCompletedOrdersReport:
		env.Body = wiretypes.CompletedOrdersReport{
			AccountInfo: wiretypes.AccountInfo{AccountID: r.Int64()},
			Orders:      readExecutionReports(r),
		}
	case wiretypes.KindOpenPositionsReport:
		n := r.Int32()
		positions := make([]wiretypes.OpenPosition, 0, n)
		for i := int32(0); i < n; i++ {
			positions = append(positions, wiretypes.OpenPosition{
				AccountInfo: wiretypes.AccountInfo{AccountID: r.Int64()},
				Symbol:      r.String(),
				Side:        wiretypes.ParseSide(r.String()),
				Quantity:    r.Float64(),
				EntryPrice:  r.Float64(),
			})
		}
		env.Body = wiretypes.OpenPositionsReport{
			AccountInfo: wiretypes.AccountInfo{AccountID: r.Int64()},
			Positions:   positions,
		}
	case wiretypes.KindAccountBalancesReport:
		n := r.Int32()
		balances := make(map[string]float64, n)
		for i := int32(0); i < n; i++ {
			k := r.String()
			balances[k] = r.Float64()
		}
		env.Body = wiretypes.AccountBalancesReport{
			AccountInfo: wiretypes.AccountInfo{AccountID: r.Int64()},
			Balances:    balances,
		}
	case wiretypes.KindAccountDataReport:
		n := r.Int32()
		fields := make(map[string]string, n)
		for i := int32(0); i < n; i++ {
			k := r.String()
			fields[k] = r.String()
		}
		env.Body = wiretypes.AccountDataReport{
			AccountInfo: wiretypes.AccountInfo{AccountID: r.Int64()},
			Fields:      fields,
		}
	case wiretypes.KindExchangePropertiesReport:
		exch := wiretypes.ParseExchange(r.String())
		n := r.Int32()
		symbols := make([]wiretypes.SymbolProperties, 0, n)
		for i := int32(0); i < n; i++ {
			symbols = append(symbols, wiretypes.SymbolProperties{
				Symbol:         r.String(),
				PricePrecision: r.Int32(),
				QtyPrecision:   r.Int32(),
				MinQty:         r.Float64(),
				MaxQty:         r.Float64(),
			})
		}
		env.Body = wiretypes.ExchangePropertiesReport{Exchange: exch, Symbols: symbols}
	default:
		// Unrecognized variant tag, not a decode failure: the header parsed
		// fine, we just don't have a schema for this kind's body. Per
		// spec.md §4.4, this is routed to on_unknown_message(header), not
		// on_protocol_error, so we return the header-only envelope as-is
		// rather than trying (and failing) to validate trailing bytes we
		// never attempted to parse.
		return env, nil
	}

	if err := r.Complete(); err != nil {
		return wiretypes.Envelope{}, &omegaerrors.ProtocolError{Raw: raw, Cause: err}
	}
	return env, nil
}

func readExecutionReport(r *wire.Reader) wiretypes.ExecutionReport {
	return wiretypes.ExecutionReport{
		AccountInfo:  wiretypes.AccountInfo{AccountID: r.Int64()},
		OrderID:      r.String(),
		ClientOrderID: r.String(),
		Symbol:       r.String(),
		Side:         wiretypes.ParseSide(r.String()),
		OrderType:    wiretypes.ParseOrderType(r.String()),
		Status:       wiretypes.ParseOrderStatus(r.String()),
		Quantity:     r.Float64(),
		Price:        r.Float64(),
		FilledQty:    r.Float64(),
		AvgFillPrice: r.Float64(),
	}
}

func readExecutionReports(r *wire.Reader) []wiretypes.ExecutionReport {
	n := r.Int32()
	reports := make([]wiretypes.ExecutionReport, 0, n)
	for i := int32(0); i < n; i++ {
		reports = append(reports, readExecutionReport(r))
	}
	return reports
}

func readContingentBody(r *wire.Reader) wiretypes.PlaceContingentOrderBody {
	switch r.Byte() {
	case contingentTagBatch:
		return wiretypes.PlaceContingentOrderBody{Batch: &wiretypes.BatchBody{Orders: readOrders(r)}}
	case contingentTagOCO:
		return wiretypes.PlaceContingentOrderBody{OCO: &wiretypes.OCOBody{Orders: readOrders(r)}}
	case contingentTagOPO:
		primary := readOrder(r)
		var secondary wiretypes.OPOSecondaryBody
		switch r.Byte() {
		case contingentTagBatch:
			secondary.Batch = &wiretypes.BatchBody{Orders: readOrders(r)}
		case contingentTagOCO:
			secondary.OCO = &wiretypes.OCOBody{Orders: readOrders(r)}
		}
		return wiretypes.PlaceContingentOrderBody{OPO: &wiretypes.OPOBody{Primary: primary, Secondary: secondary}}
	default:
		return wiretypes.PlaceContingentOrderBody{}
	}
}
