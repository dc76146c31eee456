package nostr

import (
	"fmt"

	gonostr "github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/go-nostr/nip19"

	channelentities "github.com/Conte777/newsrelay/internal/domain/channel/entities"
)

// KeyGenerator mints bech32-encoded keypairs
type KeyGenerator struct{}

// NewKeyGenerator creates a new key generator
func NewKeyGenerator() *KeyGenerator {
	return &KeyGenerator{}
}

// Generate creates a fresh keypair from a cryptographically secure source
func (g *KeyGenerator) Generate() (*channelentities.KeyPair, error) {
	sk := gonostr.GeneratePrivateKey()

	pk, err := gonostr.GetPublicKey(sk)
	if err != nil {
		return nil, fmt.Errorf("failed to derive public key: %w", err)
	}

	nsec, err := nip19.EncodePrivateKey(sk)
	if err != nil {
		return nil, fmt.Errorf("failed to encode private key: %w", err)
	}

	npub, err := nip19.EncodePublicKey(pk)
	if err != nil {
		return nil, fmt.Errorf("failed to encode public key: %w", err)
	}

	return &channelentities.KeyPair{
		PublicKey:  npub,
		PrivateKey: nsec,
	}, nil
}

// DecodePrivateKey turns an nsec string into its hex form
func DecodePrivateKey(nsec string) (string, error) {
	return decode(nsec, "nsec")
}

// DecodePublicKey turns an npub string into its hex form
func DecodePublicKey(npub string) (string, error) {
	return decode(npub, "npub")
}

func decode(encoded, wantPrefix string) (string, error) {
	prefix, value, err := nip19.Decode(encoded)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", wantPrefix, err)
	}
	if prefix != wantPrefix {
		return "", fmt.Errorf("expected %s, got %s", wantPrefix, prefix)
	}

	hexKey, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("unexpected %s payload %T", wantPrefix, value)
	}
	return hexKey, nil
}
