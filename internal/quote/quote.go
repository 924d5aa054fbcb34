// Package quote fetches live market data. The ledger core only ever sees the
// Source interface; unavailability is an error value, never a panic or a
// swallowed failure.
package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"papertrade/types"
)

var UnavailableErr = errors.New("quote unavailable")

type Source interface {
	Quote(ctx context.Context, symbol string) (types.Quote, error)
}

// Static serves quotes from a fixed map. Symbols not in the map are
// unavailable. Used in tests and offline runs.
type Static map[string]types.Quote

func (s Static) Quote(_ context.Context, symbol string) (types.Quote, error) {
	q, ok := s[symbol]
	if !ok {
		return types.Quote{}, fmt.Errorf("%w: %s", UnavailableErr, symbol)
	}
	return q, nil
}

// jwget performs an HTTP GET and unmarshals the JSON response into data.
func jwget(ctx context.Context, client *http.Client, addr string, data interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return fmt.Errorf("cannot http GET %v/%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, data)
}
