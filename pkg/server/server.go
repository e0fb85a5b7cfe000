// Package server hosts the trust boundary between untrusted clients and the
// stored order history: it binds clients to registered public keys, verifies
// every incoming envelope, and keeps accepted orders encrypted at rest.
package server

import (
	"go.uber.org/zap"

	"github.com/secureCryptoConfig/stockserver/pkg/crypto"
	"github.com/secureCryptoConfig/stockserver/pkg/registry"
	"github.com/secureCryptoConfig/stockserver/pkg/storage"
	"github.com/secureCryptoConfig/stockserver/pkg/vault"
)

// Server is the explicit server context: registry, vault, and the master key
// sealed inside the vault's cipher. Constructed once at startup and passed by
// handle into every component; there are no package-level globals.
type Server struct {
	registry *registry.Registry
	vault    *vault.Vault
	log      *zap.SugaredLogger

	// Archive, when set, receives every accepted ciphertext as an audit
	// trail. Assign before serving traffic.
	Archive *storage.Archive

	// OnOrderAccepted, when set, is invoked after a buy/sell order has been
	// stored. Used to push notifications to API subscribers.
	OnOrderAccepted func(clientID int, ciphertext []byte)
}

// New constructs the server context. The symmetric master key is generated
// here, once per process; a generation failure is fatal to startup.
func New(logger *zap.SugaredLogger) (*Server, error) {
	masterKey, err := crypto.GenerateMasterKey()
	if err != nil {
		return nil, err
	}

	v, err := vault.New(masterKey)
	if err != nil {
		return nil, err
	}

	return &Server{
		registry: registry.New(),
		vault:    v,
		log:      logger,
	}, nil
}

// RegisterClient registers a client public key and returns its id, or -1 if
// the registration is rejected. The same key always maps to the same id; the
// client's order history is created lazily at first registration.
func (s *Server) RegisterClient(publicKey []byte) int {
	id, err := s.registry.Register(publicKey)
	if err != nil {
		s.log.Warnw("registration_rejected", "err", err)
		return -1
	}

	s.vault.Ensure(id)
	s.log.Infow("client_registered", "client_id", id, "key_bytes", len(publicKey))
	return id
}

// HistorySize returns the number of stored orders for a client
func (s *Server) HistorySize(clientID int) int {
	return s.vault.Size(clientID)
}

// ClientCount returns the number of registered clients
func (s *Server) ClientCount() int {
	return s.registry.Count()
}

// ArchivedCiphertexts returns up to limit archived ciphertexts for a client,
// newest first. Returns nil when no archive is attached.
func (s *Server) ArchivedCiphertexts(clientID, limit int) ([][]byte, error) {
	if s.Archive == nil {
		return nil, nil
	}
	return s.Archive.Recent(clientID, limit)
}
