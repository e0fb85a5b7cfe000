// Package wire defines the JSON message shapes exchanged between clients and
// the server: orders, signed envelopes, and the server's textual responses.
package wire

import (
	"encoding/json"
	"fmt"
)

// MessageType tags the order variants and server message kinds
type MessageType string

const (
	BuyStock       MessageType = "BuyStock"
	SellStock      MessageType = "SellStock"
	GetOrders      MessageType = "GetOrders"
	ServerResponse MessageType = "ServerResponse"
	SendOrders     MessageType = "SendOrders"
)

// Fixed response literals. NoOrdersSentinel replaces an empty listing;
// the failure literals are returned for request-scoped errors.
const (
	NoOrdersSentinel          = "no orders in queue"
	FailureResponse           = `{"Failure"}`
	EncryptionFailureResponse = `{"Failure during encryption"}`
)

// Order is the client-side order payload. StockID and Amount are empty for
// GetOrders. Amount is a decimal-digit string simulating a stock amount.
type Order struct {
	MessageType MessageType `json:"messageType"`
	StockID     string      `json:"stockId,omitempty"`
	Amount      string      `json:"amount,omitempty"`
}

func NewBuyStockOrder(stockID, amount string) Order {
	return Order{MessageType: BuyStock, StockID: stockID, Amount: amount}
}

func NewSellStockOrder(stockID, amount string) Order {
	return Order{MessageType: SellStock, StockID: stockID, Amount: amount}
}

func NewGetOrdersOrder() Order {
	return Order{MessageType: GetOrders}
}

// Encode serializes the order to its JSON wire form
func (o Order) Encode() ([]byte, error) {
	if err := o.validate(); err != nil {
		return nil, err
	}
	return json.Marshal(o)
}

func (o Order) validate() error {
	switch o.MessageType {
	case GetOrders:
		return nil
	case BuyStock, SellStock:
		if o.StockID == "" {
			return fmt.Errorf("missing stock id")
		}
		if o.Amount == "" {
			return fmt.Errorf("missing amount")
		}
		for _, r := range o.Amount {
			if r < '0' || r > '9' {
				return fmt.Errorf("amount %q is not a decimal-digit string", o.Amount)
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown message type: %q", o.MessageType)
	}
}

// ParseOrder deserializes and validates an order payload
func ParseOrder(data []byte) (Order, error) {
	var o Order
	if err := json.Unmarshal(data, &o); err != nil {
		return Order{}, fmt.Errorf("failed to unmarshal order: %w", err)
	}
	if err := o.validate(); err != nil {
		return Order{}, fmt.Errorf("invalid order: %w", err)
	}
	return o, nil
}

// SignedEnvelope wraps a serialized order with the sender's id and signature.
// Signature bytes travel base64-encoded in JSON.
type SignedEnvelope struct {
	ClientID  int    `json:"clientId"`
	Content   string `json:"content"`
	Signature []byte `json:"signature"`
}

// Encode serializes the envelope to its JSON wire form
func (e SignedEnvelope) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// ParseSignedEnvelope deserializes an incoming envelope
func ParseSignedEnvelope(data []byte) (SignedEnvelope, error) {
	var e SignedEnvelope
	if err := json.Unmarshal(data, &e); err != nil {
		return SignedEnvelope{}, fmt.Errorf("failed to unmarshal envelope: %w", err)
	}
	return e, nil
}

// Ack is the server acknowledgment for buy/sell requests: the signature
// verdict and, distinctly, the storage outcome.
type Ack struct {
	MessageType    MessageType `json:"messageType"`
	SignatureValid bool        `json:"signatureValid"`
	Stored         bool        `json:"stored"`
}

// RenderAck renders the acknowledgment line for a buy/sell request
func RenderAck(signatureValid, stored bool) string {
	return mustRender(Ack{MessageType: ServerResponse, SignatureValid: signatureValid, Stored: stored})
}

// Announcement carries one decrypted order in a GetOrders listing
type Announcement struct {
	MessageType MessageType `json:"messageType"`
	Order       string      `json:"order"`
}

// RenderAnnouncement renders one listing line for a decrypted order
func RenderAnnouncement(orderPlaintext []byte) string {
	return mustRender(Announcement{MessageType: SendOrders, Order: string(orderPlaintext)})
}

// mustRender marshals fixed response structures; these contain only strings
// and bools, so marshaling cannot fail.
func mustRender(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return FailureResponse
	}
	return string(b)
}
