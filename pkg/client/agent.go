// Package client implements the simulated trading clients: each agent owns a
// fresh RSA key pair, registers it with the server, and signs every order it
// submits.
package client

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/secureCryptoConfig/stockserver/pkg/crypto"
	"github.com/secureCryptoConfig/stockserver/pkg/server"
	"github.com/secureCryptoConfig/stockserver/pkg/wire"
)

// ErrRegistrationRejected means the server returned the -1 rejection
// sentinel; the agent cannot be constructed without an assigned id.
var ErrRegistrationRejected = errors.New("server rejected client registration")

// Agent is one client: a key pair and the id the registry bound it to
type Agent struct {
	id     int
	signer *crypto.Signer
	server *server.Server
	log    *zap.SugaredLogger
}

// NewAgent generates a key pair and registers it with the server.
// A key-generation failure or a -1 registration is fatal to construction.
func NewAgent(srv *server.Server, keyBits int, logger *zap.SugaredLogger) (*Agent, error) {
	signer, err := crypto.GenerateKey(keyBits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate client key pair: %w", err)
	}

	id := srv.RegisterClient(signer.PublicKeyDER())
	if id == -1 {
		return nil, ErrRegistrationRejected
	}

	return &Agent{
		id:     id,
		signer: signer,
		server: srv,
		log:    logger,
	}, nil
}

// ID returns the client id assigned at registration
func (a *Agent) ID() int {
	return a.id
}

// SubmitOrder serializes and signs the order, wraps it in a signed envelope,
// and submits it synchronously. The server's response is returned unchanged.
func (a *Agent) SubmitOrder(order wire.Order) (string, error) {
	content, err := order.Encode()
	if err != nil {
		return "", fmt.Errorf("failed to encode order: %w", err)
	}

	signature, err := a.signer.Sign(content)
	if err != nil {
		return "", fmt.Errorf("failed to sign order: %w", err)
	}

	env := wire.SignedEnvelope{
		ClientID:  a.id,
		Content:   string(content),
		Signature: signature,
	}
	raw, err := env.Encode()
	if err != nil {
		return "", fmt.Errorf("failed to encode envelope: %w", err)
	}

	a.log.Infow("sending_order", "client_id", a.id, "type", order.MessageType)
	resp := a.server.AcceptMessage(string(raw))
	a.log.Infow("server_response", "client_id", a.id, "response", resp)
	return resp, nil
}

// BuyStock submits a signed buy order
func (a *Agent) BuyStock(stockID, amount string) (string, error) {
	return a.SubmitOrder(wire.NewBuyStockOrder(stockID, amount))
}

// SellStock submits a signed sell order
func (a *Agent) SellStock(stockID, amount string) (string, error) {
	return a.SubmitOrder(wire.NewSellStockOrder(stockID, amount))
}

// GetOrders asks the server for this client's stored orders
func (a *Agent) GetOrders() (string, error) {
	return a.SubmitOrder(wire.NewGetOrdersOrder())
}
