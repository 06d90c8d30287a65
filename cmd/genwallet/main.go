package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mr-tron/base58"
)

// Generates a creator wallet keypair in the solana-keygen JSON format
// (an array of 64 byte values) so the file works with the standard
// Solana tooling as well as with this service.
func main() {
	out := flag.String("out", "creator-keypair.json", "output file path")
	flag.Parse()

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		log.Fatalf("[genwallet] generate key: %v", err)
	}

	ints := make([]int, len(priv))
	for i, b := range priv {
		ints[i] = int(b)
	}
	data, err := json.Marshal(ints)
	if err != nil {
		log.Fatalf("[genwallet] marshal keypair: %v", err)
	}

	if err := os.WriteFile(*out, data, 0o600); err != nil {
		log.Fatalf("[genwallet] write %s: %v", *out, err)
	}

	pub := priv.Public().(ed25519.PublicKey)
	fmt.Printf("wrote %s\n", *out)
	fmt.Printf("address: %s\n", base58.Encode(pub))
	fmt.Println("fund it on devnet: solana airdrop 2 --url devnet", base58.Encode(pub))
}
