package quote

import (
	"context"

	"github.com/shopspring/decimal"

	"papertrade/types"
)

// Index pairs a display name with its quote symbol.
type Index struct {
	Name   string
	Symbol string
}

// DefaultIndices are the BSE market summary tickers.
var DefaultIndices = []Index{
	{Name: "Sensex", Symbol: "^BSESN"},
	{Name: "Sensex 50", Symbol: "^NSEI"},
	{Name: "BSE Bankex", Symbol: "^BSEBANK"},
}

var hundred = decimal.NewFromInt(100)

// MarketSummary quotes each index and computes its change against the
// previous close. An index whose quote fails is reported unavailable; one
// failure never hides the others.
func MarketSummary(ctx context.Context, src Source, indices []Index) []types.IndexSummary {
	out := make([]types.IndexSummary, 0, len(indices))
	for _, idx := range indices {
		summary := types.IndexSummary{Name: idx.Name, Symbol: idx.Symbol}
		q, err := src.Quote(ctx, idx.Symbol)
		if err == nil && q.HasPrice() && q.PreviousClose.IsPositive() {
			change := q.LastPrice.Sub(q.PreviousClose)
			summary.Price = q.LastPrice.Round(2)
			summary.Change = change.Round(2)
			summary.ChangePct = change.Div(q.PreviousClose).Mul(hundred).Round(2)
			summary.Available = true
		}
		out = append(out, summary)
	}
	return out
}
