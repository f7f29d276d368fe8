package binance

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"coinbar/internal/domain"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
)

// newStreamServer serves the given frames on the trade-stream path and then
// closes the connection normally.
func newStreamServer(t *testing.T, frames []string) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "@trade") {
			t.Errorf("unexpected stream path: %s", r.URL.Path)
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		for _, frame := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
				return
			}
		}

		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))

		// Keep the connection up until the client closes it
		conn.ReadMessage()
	}))
}

func wsBase(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestStream_ReadPrice(t *testing.T) {
	server := newStreamServer(t, []string{
		`{"e":"trade","s":"ETHUSDT","p":"3500.12","q":"0.5","T":1700000000000}`,
	})
	defer server.Close()

	stream, err := NewDialer(wsBase(server)).Dial(context.Background(), "ethusdt")
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer stream.Close()

	price, err := stream.ReadPrice(context.Background())
	if err != nil {
		t.Fatalf("ReadPrice failed: %v", err)
	}
	if !price.Equal(decimal.RequireFromString("3500.12")) {
		t.Errorf("expected price 3500.12, got %v", price)
	}
}

func TestStream_SkipsMalformedFrames(t *testing.T) {
	server := newStreamServer(t, []string{
		`this is not json`,
		`{"e":"trade","s":"BTCUSDT","q":"0.1"}`, // missing p
		`{"e":"trade","s":"BTCUSDT","p":"not-a-number"}`,
		`{"e":"trade","s":"BTCUSDT","p":"67250.5"}`,
	})
	defer server.Close()

	stream, err := NewDialer(wsBase(server)).Dial(context.Background(), "btcusdt")
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer stream.Close()

	// The three malformed frames must be skipped without error
	price, err := stream.ReadPrice(context.Background())
	if err != nil {
		t.Fatalf("ReadPrice failed: %v", err)
	}
	if !price.Equal(decimal.RequireFromString("67250.5")) {
		t.Errorf("expected price 67250.5, got %v", price)
	}
}

func TestStream_RemoteClose(t *testing.T) {
	server := newStreamServer(t, nil)
	defer server.Close()

	stream, err := NewDialer(wsBase(server)).Dial(context.Background(), "btcusdt")
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer stream.Close()

	_, err = stream.ReadPrice(context.Background())
	if !errors.Is(err, domain.ErrStreamClosed) {
		t.Errorf("expected ErrStreamClosed, got %v", err)
	}
}

func TestStream_CloseUnblocksRead(t *testing.T) {
	// Server sends nothing, so the read blocks until the client closes
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		conn.ReadMessage()
	}))
	defer server.Close()

	stream, err := NewDialer(wsBase(server)).Dial(context.Background(), "btcusdt")
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := stream.ReadPrice(context.Background())
		done <- err
	}()

	time.Sleep(50 * time.Millisecond)
	stream.Close()

	select {
	case err := <-done:
		if err == nil {
			t.Error("expected error after close")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("ReadPrice did not unblock after Close")
	}
}

func TestDialer_DialFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := NewDialer(wsBase(server)).Dial(context.Background(), "btcusdt")
	if err == nil {
		t.Fatal("expected dial error")
	}
	if !domain.IsRetriable(err) {
		t.Error("dial failures should be retriable")
	}
}
