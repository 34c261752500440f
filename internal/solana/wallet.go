package solana

import (
	"bytes"
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	solana "github.com/gagliardetto/solana-go"
)

var (
	// ErrKeypairLength is returned when a secret key is not 64 bytes long.
	ErrKeypairLength = errors.New("keypair must hold 64 bytes")
	// ErrKeypairMismatch is returned when the public half does not belong to the seed.
	ErrKeypairMismatch = errors.New("keypair public key does not match its seed")
)

// LoadSigner resolves the signing key. A non-empty base58 secret wins over the keypair file.
func LoadSigner(keypairPath, base58Secret string) (solana.PrivateKey, error) {
	if base58Secret != "" {
		key, err := solana.PrivateKeyFromBase58(base58Secret)
		if err != nil {
			return nil, fmt.Errorf("decode base58 key: %w", err)
		}
		if err := validateKey(key); err != nil {
			return nil, err
		}
		return key, nil
	}
	if keypairPath == "" {
		return nil, errors.New("no keypair path or base58 key configured")
	}
	return LoadKeypairFile(keypairPath)
}

// LoadKeypairFile parses a solana-keygen JSON file (an array of 64 byte values).
func LoadKeypairFile(path string) (solana.PrivateKey, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keypair: %w", err)
	}
	return ParseKeypair(raw)
}

// ParseKeypair decodes the JSON byte array form of a secret key.
func ParseKeypair(raw []byte) (solana.PrivateKey, error) {
	var values []byte
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("decode keypair: %w", err)
	}
	key := solana.PrivateKey(values)
	if err := validateKey(key); err != nil {
		return nil, err
	}
	return key, nil
}

// EncodeKeypair renders a key in the solana-keygen JSON form.
func EncodeKeypair(key solana.PrivateKey) ([]byte, error) {
	ints := make([]int, len(key))
	for i, b := range key {
		ints[i] = int(b)
	}
	return json.Marshal(ints)
}

func validateKey(key solana.PrivateKey) error {
	if len(key) != ed25519.PrivateKeySize {
		return fmt.Errorf("%w: got %d", ErrKeypairLength, len(key))
	}
	derived := ed25519.NewKeyFromSeed(key[:ed25519.SeedSize])
	if !bytes.Equal(derived[ed25519.SeedSize:], key[ed25519.SeedSize:]) {
		return ErrKeypairMismatch
	}
	return nil
}
