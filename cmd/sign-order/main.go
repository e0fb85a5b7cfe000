package main

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/secureCryptoConfig/stockserver/pkg/crypto"
	"github.com/secureCryptoConfig/stockserver/pkg/wire"
)

func main() {
	// Step 1: Generate a key pair
	fmt.Println("Generating new RSA keypair (4096 bits)...")
	signer, err := crypto.GenerateKey(crypto.DefaultKeyBits)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	privDER, err := signer.PrivateKeyDER()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Public key (base64): %s\n", base64.StdEncoding.EncodeToString(signer.PublicKeyDER()))
	fmt.Printf("Private key (base64): %s (KEEP SECRET!)\n\n", base64.StdEncoding.EncodeToString(privDER))

	// Step 2: Create an order
	order := wire.NewBuyStockOrder("ABC123XYZ000", "042")
	fmt.Println("Order details:")
	fmt.Printf("  Type: %s\n", order.MessageType)
	fmt.Printf("  Stock: %s\n", order.StockID)
	fmt.Printf("  Amount: %s\n\n", order.Amount)

	content, err := order.Encode()
	if err != nil {
		fmt.Printf("Error encoding order: %v\n", err)
		os.Exit(1)
	}

	// Step 3: Sign it
	signature, err := signer.Sign(content)
	if err != nil {
		fmt.Printf("Error signing: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Signature (base64): %s\n\n", base64.StdEncoding.EncodeToString(signature))

	// Step 4: Build the signed envelope (clientId 0 assumed; the server
	// assigns the real id at registration)
	env := wire.SignedEnvelope{ClientID: 0, Content: string(content), Signature: signature}
	raw, err := env.Encode()
	if err != nil {
		fmt.Printf("Error encoding envelope: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Signed envelope (JSON):")
	fmt.Println(string(raw))
	fmt.Println()

	// Step 5: Verify the signature locally
	fmt.Println("Verifying signature...")
	if !crypto.VerifySignature(signer.PublicKeyDER(), content, signature) {
		fmt.Println("Signature INVALID")
		os.Exit(1)
	}
	fmt.Println("Signature VALID")
	fmt.Println()

	// Step 6: Show how to submit
	fmt.Println("To submit this order:")
	fmt.Println("  POST http://localhost:8080/api/v1/orders")
	fmt.Println("  Content-Type: application/json")
	fmt.Println("  Body: the envelope above (register the public key first)")
}
