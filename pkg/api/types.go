package api

// API request/response types for REST endpoints and WebSocket messages

// RegisterRequest carries a client public key (PKIX DER, base64 in JSON)
type RegisterRequest struct {
	PublicKey []byte `json:"publicKey"`
}

// RegisterResponse returns the id the registry bound the key to
type RegisterResponse struct {
	ClientID int `json:"clientId"`
}

// SubmitResponse wraps the protocol's textual response
type SubmitResponse struct {
	Response string `json:"response"`
}

// ArchiveResponse lists archived ciphertexts for a client, newest first.
// Blobs stay sealed; the API never decrypts.
type ArchiveResponse struct {
	ClientID    int      `json:"clientId"`
	Ciphertexts [][]byte `json:"ciphertexts"`
}

// ErrorResponse is returned for all errors
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// OrderAcceptedEvent is broadcast to WebSocket subscribers when a signed
// order passes verification and is stored
type OrderAcceptedEvent struct {
	Type      string `json:"type"` // "order_accepted"
	ClientID  int    `json:"clientId"`
	Bytes     int    `json:"bytes"` // ciphertext size
	Timestamp int64  `json:"timestamp"`
}
