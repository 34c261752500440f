// Package solana wraps the solana-go primitives the compounder needs: signer
// loading, PDA derivation, the compound_hash instruction and its submission.
package solana

import (
	"fmt"

	solana "github.com/gagliardetto/solana-go"
)

// ProgramID is the mining-tycoon program on mainnet.
var ProgramID = solana.MustPublicKeyFromBase58("t6YG88Q2wCsimhQ5gqSeRC8Wm5qVksw62urHAezPGPU")

const (
	GlobalStateSeed = "global_state"
	UserStateSeed   = "user_state"
)

// CompoundHashDiscriminator is sha256("global:compound_hash")[:8].
var CompoundHashDiscriminator = [8]byte{2, 19, 201, 206, 143, 188, 100, 120}

// DerivedAddress is a program derived address with the bump that produced it.
type DerivedAddress struct {
	Address solana.PublicKey
	Bump    uint8
}

// Addresses holds the two PDAs the compound instruction touches.
type Addresses struct {
	Global DerivedAddress
	User   DerivedAddress
}

// DeriveAddresses computes the global and per-owner state PDAs for program.
func DeriveAddresses(owner, program solana.PublicKey) (Addresses, error) {
	global, globalBump, err := solana.FindProgramAddress([][]byte{[]byte(GlobalStateSeed)}, program)
	if err != nil {
		return Addresses{}, fmt.Errorf("derive global state: %w", err)
	}
	user, userBump, err := solana.FindProgramAddress([][]byte{[]byte(UserStateSeed), owner.Bytes()}, program)
	if err != nil {
		return Addresses{}, fmt.Errorf("derive user state: %w", err)
	}
	return Addresses{
		Global: DerivedAddress{Address: global, Bump: globalBump},
		User:   DerivedAddress{Address: user, Bump: userBump},
	}, nil
}

// NewCompoundInstruction builds compound_hash: global and user state writable, owner signs.
func NewCompoundInstruction(program solana.PublicKey, addrs Addresses, owner solana.PublicKey) solana.Instruction {
	data := make([]byte, len(CompoundHashDiscriminator))
	copy(data, CompoundHashDiscriminator[:])
	return solana.NewInstruction(
		program,
		solana.AccountMetaSlice{
			solana.NewAccountMeta(addrs.Global.Address, true, false),
			solana.NewAccountMeta(addrs.User.Address, true, false),
			solana.NewAccountMeta(owner, true, true),
		},
		data,
	)
}
