package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"

	"github.com/opencustody/vault"
)

// streamMsg is one price update on the wire.
type streamMsg struct {
	Price float64 `json:"price"`
	Ts    int64   `json:"ts"`
}

// Stream maintains the latest price sample over a websocket subscription.
// It implements vault.PriceFeed: Latest never touches the network, it reads
// the sample the read loop last stored, so the staleness check still applies
// when the stream silently stops updating.
type Stream struct {
	url    string
	logger *slog.Logger

	conn *websocket.Conn
	done chan struct{}

	mu        sync.RWMutex
	last      vault.Sample
	hasSample bool
	connected bool
	closed    bool
}

// NewStream creates a streaming price feed for url. A nil logger uses
// slog.Default.
func NewStream(url string, logger *slog.Logger) *Stream {
	if logger == nil {
		logger = slog.Default()
	}
	return &Stream{
		url:    url,
		logger: logger,
		done:   make(chan struct{}),
	}
}

// Connect dials the endpoint and starts the read loop.
func (s *Stream) Connect(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return fmt.Errorf("stream already closed")
	}
	if s.connected {
		s.mu.Unlock()
		return fmt.Errorf("stream already connected")
	}
	s.mu.Unlock()

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.url, err)
	}

	s.mu.Lock()
	s.conn = conn
	s.connected = true
	s.mu.Unlock()

	s.logger.Info("price stream connected", "url", s.url)
	go s.readLoop()
	return nil
}

// Close tears the connection down. It is safe to call more than once.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	close(s.done)
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// IsConnected returns current connection state.
func (s *Stream) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

// Latest returns the sample the stream most recently received.
func (s *Stream) Latest(ctx context.Context) (vault.Sample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasSample {
		return vault.Sample{}, fmt.Errorf("no price received yet on %s", s.url)
	}
	return s.last, nil
}

func (s *Stream) readLoop() {
	defer func() {
		s.mu.Lock()
		s.connected = false
		s.mu.Unlock()
	}()

	for {
		select {
		case <-s.done:
			return
		default:
		}

		_, data, err := s.conn.ReadMessage()
		if err != nil {
			select {
			case <-s.done:
				// closing, the read error is expected
			default:
				s.logger.Error("price stream read failed", "err", err)
			}
			return
		}

		var msg streamMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Warn("skipping malformed price message", "err", err)
			continue
		}

		sample := vault.Sample{
			Value:     vault.A(decimal.NewFromFloat(msg.Price).Shift(vault.PriceDecimals).Floor()),
			UpdatedAt: time.Unix(msg.Ts, 0),
		}
		s.mu.Lock()
		s.last = sample
		s.hasSample = true
		s.mu.Unlock()
	}
}
