package server

import (
	"errors"
	"strings"

	"github.com/secureCryptoConfig/stockserver/pkg/crypto"
	"github.com/secureCryptoConfig/stockserver/pkg/registry"
	"github.com/secureCryptoConfig/stockserver/pkg/wire"
)

// AcceptMessage processes one signed envelope to completion and returns the
// textual response. Every request runs the same path:
//
//	envelope received -> signature checked -> dispatched -> response ready
//
// An unknown client or unparsable envelope fails the request immediately; an
// invalid signature short-circuits before the order is parsed, so nothing
// unauthenticated ever reaches the vault. All failures resolve at this
// boundary; none escapes as a panic or terminates the process.
func (s *Server) AcceptMessage(message string) string {
	env, err := wire.ParseSignedEnvelope([]byte(message))
	if err != nil {
		s.log.Warnw("envelope_rejected", "err", err)
		return wire.FailureResponse
	}

	publicKey, err := s.registry.Lookup(env.ClientID)
	if err != nil {
		if errors.Is(err, registry.ErrUnknownClient) {
			s.log.Warnw("unknown_client", "client_id", env.ClientID)
		} else {
			s.log.Errorw("registry_lookup_failed", "client_id", env.ClientID, "err", err)
		}
		return wire.FailureResponse
	}

	valid := crypto.VerifySignature(publicKey, []byte(env.Content), env.Signature)
	s.log.Infow("signature_checked", "client_id", env.ClientID, "valid", valid)
	if !valid {
		return wire.RenderAck(false, false)
	}

	order, err := wire.ParseOrder([]byte(env.Content))
	if err != nil {
		s.log.Warnw("malformed_order", "client_id", env.ClientID, "err", err)
		return wire.FailureResponse
	}

	return s.dispatch(env.ClientID, order, env.Content)
}

// dispatch routes a verified order to the vault or the history listing
func (s *Server) dispatch(clientID int, order wire.Order, content string) string {
	switch order.MessageType {
	case wire.BuyStock, wire.SellStock:
		return s.storeOrder(clientID, order, content)
	case wire.GetOrders:
		return s.listOrders(clientID)
	default:
		return wire.FailureResponse
	}
}

func (s *Server) storeOrder(clientID int, order wire.Order, content string) string {
	ciphertext, err := s.vault.EncryptAndStore(clientID, []byte(content))
	if err != nil {
		s.log.Errorw("encryption_failed", "client_id", clientID, "err", err)
		return wire.EncryptionFailureResponse
	}

	if s.Archive != nil {
		// Archive lag must not fail the accepted request.
		if err := s.Archive.Append(clientID, ciphertext); err != nil {
			s.log.Errorw("archive_append_failed", "client_id", clientID, "err", err)
		}
	}

	if s.OnOrderAccepted != nil {
		s.OnOrderAccepted(clientID, ciphertext)
	}

	s.log.Infow("order_stored",
		"client_id", clientID,
		"type", order.MessageType,
		"stock_id", order.StockID,
		"history_size", s.vault.Size(clientID))
	return wire.RenderAck(true, true)
}

func (s *Server) listOrders(clientID int) string {
	it := s.vault.ListDecrypted(clientID)

	var b strings.Builder
	n := 0
	for it.Next() {
		b.WriteString(wire.RenderAnnouncement(it.Order()))
		b.WriteByte('\n')
		n++
	}
	if err := it.Err(); err != nil {
		s.log.Errorw("decryption_failed", "client_id", clientID, "err", err)
		return wire.FailureResponse
	}
	if n == 0 {
		return wire.NoOrdersSentinel
	}

	s.log.Infow("orders_listed", "client_id", clientID, "count", n)
	return b.String()
}
