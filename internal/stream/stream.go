package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"

	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/model"
)

// Source tag carried by quotes written from the live feed.
const TickSource = "binance-ws"

const handshakeTimeout = 10 * time.Second

// QuoteWriter receives decoded ticks. Satisfied by the cache.
type QuoteWriter interface {
	PutQuote(ctx context.Context, category model.Category, q model.Quote) error
}

// Config holds stream settings.
type Config struct {
	URL                string
	Symbols            []string
	ReconnectBaseDelay time.Duration
	ReconnectMaxDelay  time.Duration
	ReadTimeout        time.Duration
}

// DefaultConfig returns sensible defaults for the public Binance feed.
func DefaultConfig(symbols []string) Config {
	return Config{
		URL:                "wss://stream.binance.com:9443",
		Symbols:            symbols,
		ReconnectBaseDelay: time.Second,
		ReconnectMaxDelay:  60 * time.Second,
		ReadTimeout:        30 * time.Second,
	}
}

// Stats is a point-in-time view of stream activity.
type Stats struct {
	Connected  bool  `json:"connected"`
	Ticks      int64 `json:"ticks"`
	Reconnects int64 `json:"reconnects"`
}

// Stream owns one combined-stream connection and its reconnect loop.
type Stream struct {
	cfg    Config
	sink   QuoteWriter
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	connected  atomic.Bool
	ticks      atomic.Int64
	reconnects atomic.Int64
}

// New creates a Stream writing ticks to sink.
func New(cfg Config, sink QuoteWriter, logger *slog.Logger) *Stream {
	if logger == nil {
		logger = slog.Default()
	}
	return &Stream{
		cfg:    cfg,
		sink:   sink,
		logger: logger.With("component", "stream"),
	}
}

// streamURL builds the combined-stream endpoint for the configured
// symbols, e.g. /stream?streams=btcusdt@miniTicker/ethusdt@miniTicker.
func streamURL(base string, symbols []string) string {
	parts := make([]string, len(symbols))
	for i, sym := range symbols {
		parts[i] = strings.ToLower(sym) + "usdt@miniTicker"
	}
	return base + "/stream?streams=" + strings.Join(parts, "/")
}

// decodeTick parses one combined-stream frame into a quote.
func decodeTick(data []byte) (model.Quote, error) {
	var frame struct {
		Data struct {
			Symbol string `json:"s"`
			Close  string `json:"c"`
		} `json:"data"`
	}
	if err := json.Unmarshal(data, &frame); err != nil {
		return model.Quote{}, fmt.Errorf("decode frame: %w", err)
	}
	if frame.Data.Symbol == "" {
		return model.Quote{}, fmt.Errorf("frame without symbol")
	}

	price, err := decimal.NewFromString(frame.Data.Close)
	if err != nil {
		return model.Quote{}, fmt.Errorf("parse close %q: %w", frame.Data.Close, err)
	}

	symbol := strings.TrimSuffix(frame.Data.Symbol, "USDT")
	return model.NewQuote(symbol, TickSource, price)
}

// Start begins the connect/read/reconnect loop.
func (s *Stream) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.run()

	s.logger.Info("stream started",
		"url", s.cfg.URL,
		"symbols", len(s.cfg.Symbols),
	)
	return nil
}

// Stop closes the connection and waits for the loop to exit.
func (s *Stream) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("stream stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("stream stop timed out")
		return ctx.Err()
	}
}

// Stats returns current counters.
func (s *Stream) Stats() Stats {
	return Stats{
		Connected:  s.connected.Load(),
		Ticks:      s.ticks.Load(),
		Reconnects: s.reconnects.Load(),
	}
}

// run dials, reads until failure, and reconnects with capped
// exponential backoff.
func (s *Stream) run() {
	defer s.wg.Done()

	wait := s.cfg.ReconnectBaseDelay
	for {
		if s.ctx.Err() != nil {
			return
		}

		conn, err := s.dial()
		if err != nil {
			s.logger.Warn("dial failed", "error", err, "retry_in", wait)
			s.reconnects.Add(1)
			select {
			case <-s.ctx.Done():
				return
			case <-time.After(wait):
			}
			wait *= 2
			if wait > s.cfg.ReconnectMaxDelay {
				wait = s.cfg.ReconnectMaxDelay
			}
			continue
		}
		wait = s.cfg.ReconnectBaseDelay

		s.connected.Store(true)
		s.logger.Info("stream connected", "symbols", len(s.cfg.Symbols))

		// Unblock the read when the context ends.
		watch := make(chan struct{})
		go func() {
			select {
			case <-s.ctx.Done():
				conn.Close()
			case <-watch:
			}
		}()

		s.readLoop(conn)

		close(watch)
		s.connected.Store(false)
		conn.Close()

		if s.ctx.Err() != nil {
			return
		}

		s.reconnects.Add(1)
		s.logger.Warn("stream disconnected, reconnecting", "in", wait)
		select {
		case <-s.ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

func (s *Stream) dial() (*websocket.Conn, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: handshakeTimeout,
	}

	conn, _, err := dialer.DialContext(s.ctx, streamURL(s.cfg.URL, s.cfg.Symbols), nil)
	if err != nil {
		return nil, err
	}

	// Binance pings periodically; answer and extend the deadline.
	conn.SetPingHandler(func(data string) error {
		conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
		return conn.WriteControl(
			websocket.PongMessage,
			[]byte(data),
			time.Now().Add(time.Second),
		)
	})
	conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))

	return conn, nil
}

// readLoop consumes frames until the connection fails.
func (s *Stream) readLoop(conn *websocket.Conn) {
	for {
		select {
		case <-s.ctx.Done():
			return
		default:
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			if s.ctx.Err() == nil {
				s.logger.Warn("read failed", "error", err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))

		s.handleTick(data)
	}
}

func (s *Stream) handleTick(data []byte) {
	q, err := decodeTick(data)
	if err != nil {
		s.logger.Debug("skipping frame", "error", err)
		return
	}

	s.ticks.Add(1)
	if err := s.sink.PutQuote(s.ctx, model.CategoryCrypto, q); err != nil {
		s.logger.Warn("tick write failed", "symbol", q.Symbol, "error", err)
	}
}
