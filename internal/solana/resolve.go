package solana

import (
	"fmt"

	solana "github.com/gagliardetto/solana-go"
)

// Identity is everything resolved once at startup: the signer, the program and its PDAs.
type Identity struct {
	Signer    solana.PrivateKey
	Program   solana.PublicKey
	Addresses Addresses
}

// Owner is the signer's public key.
func (i *Identity) Owner() solana.PublicKey { return i.Signer.PublicKey() }

// Resolve loads the signer and derives both PDAs. An empty programID means ProgramID.
func Resolve(keypairPath, base58Secret, programID string) (*Identity, error) {
	signer, err := LoadSigner(keypairPath, base58Secret)
	if err != nil {
		return nil, fmt.Errorf("load signer: %w", err)
	}
	program := ProgramID
	if programID != "" {
		if program, err = solana.PublicKeyFromBase58(programID); err != nil {
			return nil, fmt.Errorf("parse program id: %w", err)
		}
	}
	addrs, err := DeriveAddresses(signer.PublicKey(), program)
	if err != nil {
		return nil, err
	}
	return &Identity{Signer: signer, Program: program, Addresses: addrs}, nil
}
