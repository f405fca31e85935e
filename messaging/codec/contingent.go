package codec

import (
	"fmt"

	"github.com/fund3/omega-client/internal/wire"
	"github.com/fund3/omega-client/messaging/wiretypes"
)

const (
	contingentTagBatch byte = iota + 1
	contingentTagOCO
	contingentTagOPO
)

// writeContingentOrder flattens the ContingentOrder sum type onto the wire.
// Recursion depth is fixed at 2: an OPO's secondary leg is itself written
// with writeOPOSecondary, which cannot recurse into another OPO.
func writeContingentOrder(w *wire.Writer, co wiretypes.ContingentOrder) error {
	switch v := co.(type) {
	case wiretypes.BatchOrder:
		w.Byte(contingentTagBatch)
		writeOrders(w, v.Orders)
	case wiretypes.OCOOrder:
		w.Byte(contingentTagOCO)
		writeOrders(w, v.Orders)
	case wiretypes.OPOOrder:
		w.Byte(contingentTagOPO)
		writeOrder(w, v.Primary)
		if err := writeOPOSecondary(w, v.Secondary); err != nil {
			return err
		}
	default:
		return fmt.Errorf("codec: unknown ContingentOrder implementation %T", co)
	}
	return nil
}

func writeOPOSecondary(w *wire.Writer, s wiretypes.OPOSecondary) error {
	switch v := s.(type) {
	case wiretypes.BatchOrder:
		w.Byte(contingentTagBatch)
		writeOrders(w, v.Orders)
	case wiretypes.OCOOrder:
		w.Byte(contingentTagOCO)
		writeOrders(w, v.Orders)
	default:
		return fmt.Errorf("codec: unknown OPOSecondary implementation %T", s)
	}
	return nil
}
