package store

import (
	"encoding/json"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"papertrade/types"
)

// Serialized records keep the field names of the app's historical save files
// ("qty", "avg_price", "ticker", "action", "target_price"), shared by every
// backend so snapshots survive switching stores.

type positionRecord struct {
	Qty      int64           `json:"qty"`
	AvgPrice decimal.Decimal `json:"avg_price"`
}

type orderRecord struct {
	ID          int64           `json:"id"`
	Ticker      string          `json:"ticker"`
	Action      string          `json:"action"`
	Qty         int64           `json:"qty"`
	TargetPrice decimal.Decimal `json:"target_price"`
	PlacedAt    time.Time       `json:"placed_at"`
}

func sideToAction(s types.Side) string {
	if s == types.SideTypeSell {
		return "sell"
	}
	return "buy"
}

func actionToSide(a string) types.Side {
	if a == "sell" {
		return types.SideTypeSell
	}
	return types.SideTypeBuy
}

func encodeHoldings(holdings map[string]types.Position) ([]byte, error) {
	records := make(map[string]positionRecord, len(holdings))
	for sym, pos := range holdings {
		records[sym] = positionRecord{Qty: pos.Quantity, AvgPrice: pos.AvgCost}
	}
	return json.Marshal(records)
}

func decodeHoldings(data []byte) (map[string]types.Position, error) {
	records := make(map[string]positionRecord)
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	holdings := make(map[string]types.Position, len(records))
	for sym, rec := range records {
		holdings[sym] = types.Position{Symbol: sym, Quantity: rec.Qty, AvgCost: rec.AvgPrice}
	}
	return holdings, nil
}

func encodeOrders(orders []types.PendingOrder) ([]byte, error) {
	records := lo.Map(orders, func(o types.PendingOrder, _ int) orderRecord {
		return orderRecord{
			ID:          o.ID,
			Ticker:      o.Symbol,
			Action:      sideToAction(o.Side),
			Qty:         o.Quantity,
			TargetPrice: o.LimitPrice,
			PlacedAt:    o.PlacedAt,
		}
	})
	return json.Marshal(records)
}

func decodeOrders(data []byte) ([]types.PendingOrder, error) {
	var records []orderRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return lo.Map(records, func(r orderRecord, _ int) types.PendingOrder {
		return types.PendingOrder{
			ID:         r.ID,
			Symbol:     r.Ticker,
			Side:       actionToSide(r.Action),
			Quantity:   r.Qty,
			LimitPrice: r.TargetPrice,
			PlacedAt:   r.PlacedAt,
		}
	}), nil
}
