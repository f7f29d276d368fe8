package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"coinbar/internal/domain"
	"coinbar/internal/infra"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
)

const (
	handshakeTimeout = 10 * time.Second
	readTimeout      = 120 * time.Second
)

// Dialer opens one trade stream per symbol at <ws_url>/ws/<symbol>@trade
type Dialer struct {
	wsURL string
}

// NewDialer creates a stream dialer for the given WebSocket base URL
func NewDialer(wsURL string) *Dialer {
	return &Dialer{wsURL: wsURL}
}

// Dial opens the trade stream for a single symbol
func (d *Dialer) Dial(ctx context.Context, symbol string) (domain.TradeStream, error) {
	endpoint := fmt.Sprintf("%s/ws/%s@trade", d.wsURL, symbol)

	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	header := make(http.Header)
	header.Add("User-Agent", infra.DefaultUserAgent)

	conn, _, err := dialer.DialContext(ctx, endpoint, header)
	if err != nil {
		return nil, domain.NewNetworkError("dial", err)
	}

	return &Stream{symbol: symbol, conn: conn}, nil
}

// Stream is one open trade subscription. The server pings periodically;
// gorilla's default ping handler answers with pongs during reads.
type Stream struct {
	symbol    string
	conn      *websocket.Conn
	closeOnce sync.Once
}

// ReadPrice blocks until the next well-formed trade frame and returns its
// price. Malformed frames are dropped silently and reading continues.
func (s *Stream) ReadPrice(ctx context.Context) (decimal.Decimal, error) {
	for {
		select {
		case <-ctx.Done():
			return decimal.Zero, ctx.Err()
		default:
		}

		s.conn.SetReadDeadline(time.Now().Add(readTimeout))

		_, message, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return decimal.Zero, domain.ErrStreamClosed
			}
			return decimal.Zero, domain.NewNetworkError("read", err)
		}

		var ev tradeEvent
		if err := json.Unmarshal(message, &ev); err != nil {
			slog.Debug("Trade frame parse error", slog.String("symbol", s.symbol), slog.Any("error", err))
			infra.GlobalMetrics.RecordFrameDropped()
			continue
		}
		if ev.Price == "" {
			slog.Debug("Trade frame missing price", slog.String("symbol", s.symbol))
			infra.GlobalMetrics.RecordFrameDropped()
			continue
		}

		price, err := decimal.NewFromString(ev.Price)
		if err != nil {
			slog.Debug("Trade frame price not numeric", slog.String("symbol", s.symbol), slog.String("price", ev.Price))
			infra.GlobalMetrics.RecordFrameDropped()
			continue
		}

		infra.GlobalMetrics.RecordFrame()
		return price, nil
	}
}

// Close performs a graceful close of the underlying connection.
// Safe to call more than once and concurrently with ReadPrice; a blocked
// read unblocks with an error.
func (s *Stream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		deadline := time.Now().Add(time.Second)
		s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		err = s.conn.Close()
	})
	return err
}
