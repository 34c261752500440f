package solana

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/bits"
	"time"

	bin "github.com/gagliardetto/binary"
	solana "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// UserStateDiscriminator is sha256("account:UserState")[:8].
var UserStateDiscriminator = [8]byte{72, 177, 85, 249, 76, 167, 186, 126}

// ErrNotUserState is returned when account data does not carry the UserState discriminator.
var ErrNotUserState = errors.New("account is not a user_state")

// UserState mirrors the on-chain per-wallet mining account.
type UserState struct {
	Owner             solana.PublicKey
	MiningPower       uint64
	UnclaimedEarnings uint64
	LastClaim         int64
	Referrer          *solana.PublicKey
}

// UnmarshalWithDecoder reads the Anchor account layout, discriminator included.
func (s *UserState) UnmarshalWithDecoder(dec *bin.Decoder) error {
	disc, err := dec.ReadNBytes(8)
	if err != nil {
		return fmt.Errorf("read discriminator: %w", err)
	}
	if [8]byte(disc) != UserStateDiscriminator {
		return ErrNotUserState
	}
	owner, err := dec.ReadNBytes(solana.PublicKeyLength)
	if err != nil {
		return fmt.Errorf("read owner: %w", err)
	}
	s.Owner = solana.PublicKeyFromBytes(owner)
	if s.MiningPower, err = dec.ReadUint64(bin.LE); err != nil {
		return fmt.Errorf("read mining_power: %w", err)
	}
	if s.UnclaimedEarnings, err = dec.ReadUint64(bin.LE); err != nil {
		return fmt.Errorf("read unclaimed_earnings: %w", err)
	}
	if s.LastClaim, err = dec.ReadInt64(bin.LE); err != nil {
		return fmt.Errorf("read last_claim: %w", err)
	}
	tag, err := dec.ReadUint8()
	if err != nil {
		return fmt.Errorf("read referrer tag: %w", err)
	}
	s.Referrer = nil
	if tag == 1 {
		ref, err := dec.ReadNBytes(solana.PublicKeyLength)
		if err != nil {
			return fmt.Errorf("read referrer: %w", err)
		}
		key := solana.PublicKeyFromBytes(ref)
		s.Referrer = &key
	}
	return nil
}

// MarshalWithEncoder writes the same layout UnmarshalWithDecoder reads.
func (s UserState) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := enc.WriteBytes(UserStateDiscriminator[:], false); err != nil {
		return err
	}
	if err := enc.WriteBytes(s.Owner.Bytes(), false); err != nil {
		return err
	}
	if err := enc.WriteUint64(s.MiningPower, bin.LE); err != nil {
		return err
	}
	if err := enc.WriteUint64(s.UnclaimedEarnings, bin.LE); err != nil {
		return err
	}
	if err := enc.WriteInt64(s.LastClaim, bin.LE); err != nil {
		return err
	}
	if s.Referrer == nil {
		return enc.WriteUint8(0)
	}
	if err := enc.WriteUint8(1); err != nil {
		return err
	}
	return enc.WriteBytes(s.Referrer.Bytes(), false)
}

// DecodeUserState parses raw account data.
func DecodeUserState(data []byte) (*UserState, error) {
	var state UserState
	if err := bin.NewBorshDecoder(data).Decode(&state); err != nil {
		return nil, err
	}
	return &state, nil
}

// AccruedHash is the hash compound_hash would convert at now: stored plus generated since last claim.
// It saturates instead of overflowing.
func (s *UserState) AccruedHash(now time.Time) uint64 {
	elapsed := now.Unix() - s.LastClaim
	if elapsed < 0 {
		elapsed = 0
	}
	hi, generated := bits.Mul64(uint64(elapsed), s.MiningPower)
	if hi != 0 {
		return math.MaxUint64
	}
	total, carry := bits.Add64(s.UnclaimedEarnings, generated, 0)
	if carry != 0 {
		return math.MaxUint64
	}
	return total
}

// FetchUserState loads and decodes the user_state account at addr.
func FetchUserState(ctx context.Context, client RPC, addr solana.PublicKey, program solana.PublicKey) (*UserState, error) {
	out, err := client.GetAccountInfoWithOpts(ctx, addr, &rpc.GetAccountInfoOpts{
		Commitment: rpc.CommitmentConfirmed,
		Encoding:   solana.EncodingBase64,
	})
	if err != nil {
		return nil, fmt.Errorf("get user state %s: %w", addr, err)
	}
	if out == nil || out.Value == nil || out.Value.Data == nil {
		return nil, fmt.Errorf("get user state %s: %w", addr, rpc.ErrNotFound)
	}
	if !out.Value.Owner.Equals(program) {
		return nil, fmt.Errorf("user state %s owned by %s, want %s", addr, out.Value.Owner, program)
	}
	state, err := DecodeUserState(out.Value.Data.GetBinary())
	if err != nil {
		return nil, fmt.Errorf("decode user state: %w", err)
	}
	return state, nil
}
