package solana

import (
	"context"
	"errors"
	"fmt"
	"time"

	solana "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

var (
	// ErrTransactionFailed is returned when the cluster confirms a transaction carrying an error.
	ErrTransactionFailed = errors.New("transaction failed")
	// ErrBlockhashExpired is returned when the blockhash ages out before confirmation.
	ErrBlockhashExpired = errors.New("blockhash expired before confirmation")
)

// RPC is the subset of *rpc.Client the compounder calls.
type RPC interface {
	GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error)
	SendTransactionWithOpts(ctx context.Context, tx *solana.Transaction, opts rpc.TransactionOpts) (solana.Signature, error)
	GetSignatureStatuses(ctx context.Context, searchTransactionHistory bool, sigs ...solana.Signature) (*rpc.GetSignatureStatusesResult, error)
	GetBlockHeight(ctx context.Context, commitment rpc.CommitmentType) (uint64, error)
	GetAccountInfoWithOpts(ctx context.Context, account solana.PublicKey, opts *rpc.GetAccountInfoOpts) (*rpc.GetAccountInfoResult, error)
}

var _ RPC = (*rpc.Client)(nil)

const defaultPollInterval = time.Second

// Client signs with Owner and submits through RPC, waiting for Commit.
type Client struct {
	RPC          RPC
	Owner        solana.PrivateKey
	Commit       rpc.CommitmentType
	PollInterval time.Duration
}

// ParseCommitment maps processed|confirmed|finalized, defaulting to confirmed.
func ParseCommitment(commit string) rpc.CommitmentType {
	switch commit {
	case "processed":
		return rpc.CommitmentProcessed
	case "finalized":
		return rpc.CommitmentFinalized
	}
	return rpc.CommitmentConfirmed
}

func NewClient(rpcURL string, owner solana.PrivateKey, commit string) *Client {
	return &Client{
		RPC:          rpc.New(rpcURL),
		Owner:        owner,
		Commit:       ParseCommitment(commit),
		PollInterval: defaultPollInterval,
	}
}

// SendAndConfirm builds a transaction paid by Owner, signs it, submits it and
// blocks until the cluster reports it at Commit. ctx bounds the whole call.
func (c *Client) SendAndConfirm(ctx context.Context, instructions ...solana.Instruction) (solana.Signature, error) {
	var sig solana.Signature

	latest, err := c.RPC.GetLatestBlockhash(ctx, c.Commit)
	if err != nil {
		return sig, fmt.Errorf("latest blockhash: %w", err)
	}
	if latest == nil || latest.Value == nil {
		return sig, errors.New("latest blockhash: empty response")
	}

	tx, err := solana.NewTransaction(instructions, latest.Value.Blockhash, solana.TransactionPayer(c.Owner.PublicKey()))
	if err != nil {
		return sig, fmt.Errorf("build tx: %w", err)
	}
	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(c.Owner.PublicKey()) {
			return &c.Owner
		}
		return nil
	})
	if err != nil {
		return sig, fmt.Errorf("sign: %w", err)
	}

	sig, err = c.RPC.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: c.Commit,
	})
	if err != nil {
		return sig, fmt.Errorf("send: %w", err)
	}
	return sig, c.confirm(ctx, sig, latest.Value.LastValidBlockHeight)
}

func (c *Client) confirm(ctx context.Context, sig solana.Signature, lastValid uint64) error {
	interval := c.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		done, err := c.checkStatus(ctx, sig)
		if done || err != nil {
			return err
		}
		height, err := c.RPC.GetBlockHeight(ctx, c.Commit)
		if err == nil && height > lastValid {
			// the status read above may predate the height read
			if done, err := c.checkStatus(ctx, sig); done || err != nil {
				return err
			}
			return fmt.Errorf("%w: %s", ErrBlockhashExpired, sig)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("confirm %s: %w", sig, ctx.Err())
		case <-ticker.C:
		}
	}
}

// checkStatus reports whether sig reached Commit. Transient RPC errors are not fatal.
func (c *Client) checkStatus(ctx context.Context, sig solana.Signature) (bool, error) {
	out, err := c.RPC.GetSignatureStatuses(ctx, false, sig)
	if err != nil || out == nil || len(out.Value) == 0 || out.Value[0] == nil {
		return false, nil
	}
	status := out.Value[0]
	if status.Err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrTransactionFailed, sig, status.Err)
	}
	return reached(status.ConfirmationStatus, c.Commit), nil
}

func reached(status rpc.ConfirmationStatusType, want rpc.CommitmentType) bool {
	rank := map[rpc.ConfirmationStatusType]int{
		rpc.ConfirmationStatusProcessed: 1,
		rpc.ConfirmationStatusConfirmed: 2,
		rpc.ConfirmationStatusFinalized: 3,
	}
	need := 2
	switch want {
	case rpc.CommitmentProcessed:
		need = 1
	case rpc.CommitmentFinalized:
		need = 3
	}
	return rank[status] >= need
}
