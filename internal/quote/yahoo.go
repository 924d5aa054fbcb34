package quote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"

	"papertrade/types"
)

// DefaultEndpoint is the Yahoo Finance quote API host.
const DefaultEndpoint = "https://query1.finance.yahoo.com"

// YahooSource fetches quote snapshots from the Yahoo Finance v7 quote API.
type YahooSource struct {
	base   string
	client *http.Client
}

func NewYahooSource(base string, timeout time.Duration) *YahooSource {
	if base == "" {
		base = DefaultEndpoint
	}
	return &YahooSource{
		base:   base,
		client: &http.Client{Timeout: timeout},
	}
}

func (y *YahooSource) Quote(ctx context.Context, symbol string) (types.Quote, error) {
	addr := fmt.Sprintf("%s/v7/finance/quote?symbols=%s", y.base, url.QueryEscape(symbol))

	var jobj interface{}
	if err := jwget(ctx, y.client, addr, &jobj); err != nil {
		return types.Quote{}, fmt.Errorf("%w: %s: %v", UnavailableErr, symbol, err)
	}
	if _, err := jsonpath.Get("$.quoteResponse.result[0]", jobj); err != nil {
		return types.Quote{}, fmt.Errorf("%w: %s: no result", UnavailableErr, symbol)
	}

	q := types.Quote{
		Symbol:        symbol,
		Name:          jstring(jobj, "shortName"),
		LastPrice:     jdecimal(jobj, "regularMarketPrice"),
		PreviousClose: jdecimal(jobj, "regularMarketPreviousClose"),
		DayHigh:       jdecimal(jobj, "regularMarketDayHigh"),
		DayLow:        jdecimal(jobj, "regularMarketDayLow"),
		Week52High:    jdecimal(jobj, "fiftyTwoWeekHigh"),
		Week52Low:     jdecimal(jobj, "fiftyTwoWeekLow"),
	}
	if q.Name == "" {
		q.Name = types.DisplayCode(symbol)
	}
	if !q.HasPrice() {
		return types.Quote{}, fmt.Errorf("%w: %s: no market price", UnavailableErr, symbol)
	}
	return q, nil
}

func jget(jobj interface{}, field string) (interface{}, bool) {
	path := "$.quoteResponse.result[0]." + field
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, false
	}
	// jsonpath is never clear about whether it returns a list of 1 answer or
	// a single answer; keep the first one if any.
	if jlist, ok := jval.([]interface{}); ok {
		if len(jlist) == 0 {
			return nil, false
		}
		jval = jlist[0]
	}
	return jval, true
}

func jdecimal(jobj interface{}, field string) decimal.Decimal {
	jval, ok := jget(jobj, field)
	if !ok {
		return decimal.Zero
	}
	val, ok := jval.(float64)
	if !ok {
		return decimal.Zero
	}
	return decimal.NewFromFloat(val)
}

func jstring(jobj interface{}, field string) string {
	jval, ok := jget(jobj, field)
	if !ok {
		return ""
	}
	val, _ := jval.(string)
	return val
}

var _ Source = (*YahooSource)(nil)
