package wire

import (
	"strings"
	"testing"
)

func TestOrderEncodeParseRoundTrip(t *testing.T) {
	cases := []Order{
		NewBuyStockOrder("ABC123XYZ000", "012"),
		NewSellStockOrder("DEF", "9876543210"),
		NewGetOrdersOrder(),
	}

	for _, want := range cases {
		data, err := want.Encode()
		if err != nil {
			t.Fatalf("encode %v: %v", want.MessageType, err)
		}
		got, err := ParseOrder(data)
		if err != nil {
			t.Fatalf("parse %v: %v", want.MessageType, err)
		}
		if got != want {
			t.Errorf("round trip: got %+v, want %+v", got, want)
		}
	}
}

func TestParseOrderRejectsMalformed(t *testing.T) {
	cases := []string{
		"not json",
		`{"messageType":"StealStock","stockId":"A","amount":"1"}`,
		`{"messageType":"BuyStock","stockId":"A","amount":"12a"}`,
		`{"messageType":"BuyStock","amount":"12"}`,
		`{"messageType":"SellStock","stockId":"A"}`,
	}
	for _, c := range cases {
		if _, err := ParseOrder([]byte(c)); err == nil {
			t.Errorf("ParseOrder(%q) succeeded, want error", c)
		}
	}
}

func TestSignedEnvelopeRoundTrip(t *testing.T) {
	env := SignedEnvelope{
		ClientID:  7,
		Content:   `{"messageType":"GetOrders"}`,
		Signature: []byte{0xde, 0xad, 0xbe, 0xef},
	}

	data, err := env.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	got, err := ParseSignedEnvelope(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.ClientID != env.ClientID || got.Content != env.Content {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if string(got.Signature) != string(env.Signature) {
		t.Errorf("signature bytes mismatch: %x", got.Signature)
	}
}

func TestRenderAck(t *testing.T) {
	ack := RenderAck(true, true)
	if !strings.Contains(ack, `"signatureValid":true`) || !strings.Contains(ack, `"stored":true`) {
		t.Errorf("ack missing fields: %s", ack)
	}

	nack := RenderAck(false, false)
	if !strings.Contains(nack, `"signatureValid":false`) {
		t.Errorf("nack missing verdict: %s", nack)
	}
}

func TestRenderAnnouncement(t *testing.T) {
	line := RenderAnnouncement([]byte(`{"messageType":"BuyStock","stockId":"A","amount":"1"}`))
	if !strings.Contains(line, `"messageType":"SendOrders"`) {
		t.Errorf("announcement missing type: %s", line)
	}
	if !strings.Contains(line, "BuyStock") {
		t.Errorf("announcement missing order body: %s", line)
	}
}
