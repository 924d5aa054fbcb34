package relay

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"papertrade/internal/quote"
)

func dialLTP(t *testing.T, src quote.Source) *websocket.Conn {
	t.Helper()
	s := NewServer(src, 20*time.Millisecond, zap.NewNop())
	srv := httptest.NewServer(s.Router())
	t.Cleanup(srv.Close)

	addr := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/ltp"
	conn, _, err := websocket.DefaultDialer.Dial(addr, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readText(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	return string(raw)
}

func TestStreamPushesLastPrice(t *testing.T) {
	src := quote.Static{
		"TCS.BO": {Symbol: "TCS.BO", LastPrice: decimal.RequireFromString("3145.5")},
	}
	conn := dialLTP(t, src)

	// bare ticker, the server appends the exchange suffix
	if err := conn.WriteMessage(websocket.TextMessage, []byte("tcs")); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if got := readText(t, conn); got != "3145.50" {
			t.Fatalf("push %d = %q, want 3145.50", i, got)
		}
	}
}

func TestStreamPushesNAWithoutPrice(t *testing.T) {
	src := quote.Static{
		"HALTED.BO": {Symbol: "HALTED.BO", Name: "Halted Co"},
	}
	conn := dialLTP(t, src)

	if err := conn.WriteMessage(websocket.TextMessage, []byte("HALTED.BO")); err != nil {
		t.Fatal(err)
	}

	if got := readText(t, conn); got != "N/A" {
		t.Fatalf("push = %q, want N/A", got)
	}
	// the stream stays open
	if got := readText(t, conn); got != "N/A" {
		t.Fatalf("second push = %q, want N/A", got)
	}
}

func TestStreamErrorCloses(t *testing.T) {
	conn := dialLTP(t, quote.Static{})

	if err := conn.WriteMessage(websocket.TextMessage, []byte("MISSING.BO")); err != nil {
		t.Fatal(err)
	}

	if got := readText(t, conn); got != "Error" {
		t.Fatalf("push = %q, want Error", got)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("connection should be closed after the error marker")
	}
}

func TestHealth(t *testing.T) {
	s := NewServer(quote.Static{}, time.Second, zap.NewNop())
	srv := httptest.NewServer(s.Router())
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}
