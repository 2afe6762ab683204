package sink

import (
	"context"
	"net"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/vshulcz/Carbonaut/internal/domain"
	"github.com/vshulcz/Carbonaut/internal/graphite"
)

func startSink(t *testing.T, serveFn func(net.Listener, *Store, *zap.Logger)) (string, *Store) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	st := NewStore()
	go serveFn(ln, st, zap.NewNop())
	return ln.Addr().String(), st
}

func waitReceived(t *testing.T, st *Store, want int64) {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for st.Received() < want {
		select {
		case <-deadline:
			t.Fatalf("received %d samples, want %d", st.Received(), want)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestServeLine_EndToEnd(t *testing.T) {
	addr, st := startSink(t, ServeLine)

	s, err := graphite.Dial(context.Background(), addr, graphite.WithProtocol(domain.Plaintext))
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer s.Close()

	batch := []domain.Sample{
		{Metric: "app.requests", Value: 12, Timestamp: 100},
		{Metric: "app.errors", Value: 1, Timestamp: 100},
	}
	if err := s.SendBatch(context.Background(), batch); err != nil {
		t.Fatalf("SendBatch: %v", err)
	}

	waitReceived(t, st, 2)
	got, ok := st.Get("app.requests")
	if !ok || got.Value != 12 || got.Timestamp != 100 {
		t.Fatalf("app.requests=%+v ok=%v", got, ok)
	}
}

func TestServePickle_EndToEnd(t *testing.T) {
	addr, st := startSink(t, ServePickle)

	s, err := graphite.Dial(context.Background(), addr, graphite.WithProtocol(domain.Pickle))
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer s.Close()

	if err := s.SendSingle(context.Background(), "app.latency", 7.5, 200); err != nil {
		t.Fatalf("SendSingle: %v", err)
	}
	// A second frame on the same connection.
	if err := s.SendSingle(context.Background(), "app.latency", 9.5, 260); err != nil {
		t.Fatalf("SendSingle: %v", err)
	}

	waitReceived(t, st, 2)
	got, ok := st.Get("app.latency")
	if !ok || got.Value != 9.5 || got.Timestamp != 260 {
		t.Fatalf("app.latency=%+v ok=%v", got, ok)
	}
}

func TestServeLine_SkipsMalformed(t *testing.T) {
	addr, st := startSink(t, ServeLine)

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if _, err := conn.Write([]byte("garbage line\nok 1 100\n\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	conn.Close()

	waitReceived(t, st, 1)
	if _, ok := st.Get("ok"); !ok {
		t.Fatal("valid record dropped alongside malformed one")
	}
	if _, ok := st.Get("garbage"); ok {
		t.Fatal("malformed record stored")
	}
}
