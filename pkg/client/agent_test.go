package client

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/secureCryptoConfig/stockserver/pkg/crypto"
	"github.com/secureCryptoConfig/stockserver/pkg/server"
	"github.com/secureCryptoConfig/stockserver/pkg/wire"
)

func newTestServer(t *testing.T) *server.Server {
	t.Helper()
	srv, err := server.New(zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("server: %v", err)
	}
	return srv
}

func TestNewAgentRegisters(t *testing.T) {
	srv := newTestServer(t)

	a, err := NewAgent(srv, crypto.MinKeyBits, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("agent: %v", err)
	}
	if a.ID() != 0 {
		t.Errorf("first agent id = %d, want 0", a.ID())
	}

	b, err := NewAgent(srv, crypto.MinKeyBits, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("second agent: %v", err)
	}
	if b.ID() != 1 {
		t.Errorf("second agent id = %d, want 1", b.ID())
	}
}

func TestNewAgentRejectsWeakKey(t *testing.T) {
	srv := newTestServer(t)
	if _, err := NewAgent(srv, 512, zap.NewNop().Sugar()); err == nil {
		t.Error("expected key generation failure for 512-bit key")
	}
}

func TestSubmitOrderRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	a, err := NewAgent(srv, crypto.MinKeyBits, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("agent: %v", err)
	}

	resp, err := a.BuyStock("ABC123", "042")
	if err != nil {
		t.Fatalf("buy: %v", err)
	}
	if !strings.Contains(resp, `"signatureValid":true`) {
		t.Errorf("buy response = %s", resp)
	}

	resp, err = a.SellStock("ABC123", "7")
	if err != nil {
		t.Fatalf("sell: %v", err)
	}
	if !strings.Contains(resp, `"signatureValid":true`) {
		t.Errorf("sell response = %s", resp)
	}

	listing, err := a.GetOrders()
	if err != nil {
		t.Fatalf("get orders: %v", err)
	}
	if !strings.Contains(listing, "BuyStock") || !strings.Contains(listing, "SellStock") {
		t.Errorf("listing missing orders: %s", listing)
	}
}

func TestSubmitOrderRejectsInvalidOrder(t *testing.T) {
	srv := newTestServer(t)
	a, _ := NewAgent(srv, crypto.MinKeyBits, zap.NewNop().Sugar())

	if _, err := a.SubmitOrder(wire.NewBuyStockOrder("ABC", "not-digits")); err == nil {
		t.Error("expected encode error for non-decimal amount")
	}
}

func TestStartTrafficDrivesServer(t *testing.T) {
	srv := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := TrafficConfig{
		NumClients:    2,
		SendFrequency: 5 * time.Millisecond,
		KeyBits:       crypto.MinKeyBits,
	}
	stop, err := StartTraffic(ctx, srv, cfg, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("traffic: %v", err)
	}

	// Give the fleet a few rounds, then stop it.
	deadline := time.After(2 * time.Second)
	for srv.HistorySize(0) == 0 || srv.HistorySize(1) == 0 {
		select {
		case <-deadline:
			stop()
			t.Fatalf("fleet produced no orders: sizes %d/%d", srv.HistorySize(0), srv.HistorySize(1))
		case <-time.After(10 * time.Millisecond):
		}
	}
	stop()

	if srv.ClientCount() != 2 {
		t.Errorf("client count = %d, want 2", srv.ClientCount())
	}
}

func TestRandomOrderShapes(t *testing.T) {
	buy := randomBuyOrder()
	if len(buy.StockID) != 12 || len(buy.Amount) != 3 {
		t.Errorf("buy order shape: stockId=%q amount=%q", buy.StockID, buy.Amount)
	}

	sell := randomSellOrder()
	if len(sell.StockID) != 12 || len(sell.Amount) != 10 {
		t.Errorf("sell order shape: stockId=%q amount=%q", sell.StockID, sell.Amount)
	}

	if _, err := sell.Encode(); err != nil {
		t.Errorf("random sell order does not encode: %v", err)
	}
}
