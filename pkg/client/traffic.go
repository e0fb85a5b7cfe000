package client

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/secureCryptoConfig/stockserver/pkg/crypto"
	"github.com/secureCryptoConfig/stockserver/pkg/server"
	"github.com/secureCryptoConfig/stockserver/pkg/wire"
)

// TrafficConfig controls the simulated client fleet
type TrafficConfig struct {
	NumClients int
	// SendFrequency bounds the randomized sleep before each send.
	SendFrequency time.Duration
	KeyBits       int
}

// DefaultTrafficConfig returns reasonable defaults for a demo run
func DefaultTrafficConfig() TrafficConfig {
	return TrafficConfig{
		NumClients:    5,
		SendFrequency: 5 * time.Second,
		KeyBits:       crypto.DefaultKeyBits,
	}
}

// StartTraffic registers cfg.NumClients agents and starts one goroutine per
// agent, each repeatedly sending a jittered buy / sell / get-orders round.
// Returns a cancel function that stops the fleet.
func StartTraffic(ctx context.Context, srv *server.Server, cfg TrafficConfig, logger *zap.SugaredLogger) (context.CancelFunc, error) {
	if cfg.KeyBits == 0 {
		cfg.KeyBits = crypto.DefaultKeyBits
	}

	agents := make([]*Agent, 0, cfg.NumClients)
	for i := 0; i < cfg.NumClients; i++ {
		agent, err := NewAgent(srv, cfg.KeyBits, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to start client %d: %w", i, err)
		}
		agents = append(agents, agent)
	}

	trafficCtx, cancel := context.WithCancel(ctx)
	for _, agent := range agents {
		go agent.run(trafficCtx, cfg.SendFrequency)
	}

	logger.Infow("traffic_started", "clients", len(agents), "send_frequency", cfg.SendFrequency)
	return cancel, nil
}

// run is one client's traffic loop: sleep a random fraction of maxWait, then
// send, until the context is cancelled. Submission errors are logged and the
// loop continues; a driver failure never takes the fleet down.
func (a *Agent) run(ctx context.Context, maxWait time.Duration) {
	for {
		orders := []wire.Order{
			randomBuyOrder(),
			randomSellOrder(),
			wire.NewGetOrdersOrder(),
		}
		for _, order := range orders {
			if !sleepJitter(ctx, maxWait) {
				return
			}
			if _, err := a.SubmitOrder(order); err != nil {
				a.log.Errorw("submit_failed", "client_id", a.id, "err", err)
			}
		}
	}
}

// sleepJitter sleeps a random duration in (0, maxWait]; false on cancellation
func sleepJitter(ctx context.Context, maxWait time.Duration) bool {
	wait := time.Duration(rand.Int63n(int64(maxWait))) + 1
	select {
	case <-ctx.Done():
		return false
	case <-time.After(wait):
		return true
	}
}

func randomBuyOrder() wire.Order {
	return wire.NewBuyStockOrder(randomStockID(12), randomAmount(3))
}

func randomSellOrder() wire.Order {
	return wire.NewSellStockOrder(randomStockID(12), randomAmount(10))
}

const stockIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// randomStockID simulates the id of the stock being traded
func randomStockID(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = stockIDAlphabet[rand.Intn(len(stockIDAlphabet))]
	}
	return string(b)
}

// randomAmount simulates the amount of stock as a decimal-digit string
func randomAmount(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = byte('0' + rand.Intn(10))
	}
	return string(b)
}
