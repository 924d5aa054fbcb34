// Package relay is the streaming price endpoint: a websocket where the
// client sends a symbol once and the server pushes the latest last-traded
// price as text on a fixed interval until error or disconnect. It holds no
// ledger state and performs no writes, so it needs no locking.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"papertrade/internal/quote"
	"papertrade/types"
)

const writeWait = 10 * time.Second

// Server serves /ws/ltp and a health check.
type Server struct {
	quotes   quote.Source
	interval time.Duration
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func NewServer(src quote.Source, interval time.Duration, log *zap.Logger) *Server {
	return &Server{
		quotes:   src,
		interval: interval,
		log:      log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// CORS is handled by the outer handler
				return true
			},
		},
	}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/ws/ltp", s.handleLTP)
	r.HandleFunc("/health", s.handleHealth).Methods("GET")
	return r
}

// Start runs the relay until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET"},
	})
	srv := &http.Server{Addr: addr, Handler: c.Handler(s.Router())}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("relay listening", zap.String("addr", addr))
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// handleLTP runs one per-connection push loop: read the symbol, then emit
// the last price every interval. A lookup failure sends a single "Error"
// marker and closes; a quote with no price is pushed as "N/A" and the loop
// continues.
func (s *Server) handleLTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	_, raw, err := conn.ReadMessage()
	if err != nil {
		return
	}
	symbol := types.NormalizeSymbol(string(raw))
	s.log.Info("stream opened", zap.String("symbol", symbol))

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Drain reads so a client close cancels the push loop.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if !s.push(ctx, conn, symbol) {
			return
		}
		select {
		case <-ctx.Done():
			s.log.Info("stream closed", zap.String("symbol", symbol))
			return
		case <-ticker.C:
		}
	}
}

// push writes one tick and reports whether the loop should continue.
func (s *Server) push(ctx context.Context, conn *websocket.Conn, symbol string) bool {
	q, err := s.quotes.Quote(ctx, symbol)

	text := "N/A"
	switch {
	case err != nil:
		text = "Error"
	case q.HasPrice():
		text = q.LastPrice.StringFixed(2)
	}

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if werr := conn.WriteMessage(websocket.TextMessage, []byte(text)); werr != nil {
		return false
	}
	if err != nil {
		s.log.Warn("lookup failed, closing stream", zap.String("symbol", symbol), zap.Error(err))
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
