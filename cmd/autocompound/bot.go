package main

import (
	"github.com/rs/zerolog"

	"autocompound-go/internal/compound"
	"autocompound-go/internal/config"
	chain "autocompound-go/internal/solana"
)

// bot is the process state built once at startup and shared by every tick.
type bot struct {
	identity  *chain.Identity
	client    *chain.Client
	submitter *compound.Submitter
	scheduler *compound.Scheduler
	journal   *compound.Journal
}

// newBot resolves the wallet and wires the submit loop. Any error is fatal.
func newBot(cfg *config.Config, log zerolog.Logger) (*bot, error) {
	id, err := chain.Resolve(cfg.Wallet.KeypairPath, cfg.Wallet.PrivateKeyBase58, cfg.Chain.ProgramID)
	if err != nil {
		return nil, err
	}
	client := chain.NewClient(cfg.Chain.RpcURL, id.Signer, cfg.Chain.Commitment)

	opts := []compound.Option{compound.WithTimeout(cfg.Compound.ConfirmTimeout)}
	if cfg.Compound.GateOnMinHash {
		opts = append(opts, compound.WithGate(&compound.MinHashGate{
			RPC:       client.RPC,
			UserState: id.Addresses.User.Address,
			Program:   id.Program,
			Min:       compound.MinHashToCompound,
		}))
	}

	b := &bot{identity: id, client: client}
	if cfg.Compound.JournalPath != "" {
		if b.journal, err = compound.OpenJournal(cfg.Compound.JournalPath); err != nil {
			return nil, err
		}
		opts = append(opts, compound.WithRecorder(b.journal))
	}

	b.submitter = compound.NewSubmitter(log, client, id.Program, id.Owner(), id.Addresses, opts...)
	b.scheduler = &compound.Scheduler{
		Job:        b.submitter,
		Interval:   compound.Interval,
		SkipIfBusy: cfg.Compound.SkipIfBusy,
		Log:        log,
	}

	log.Info().
		Str("wallet", id.Owner().String()).
		Str("rpc", cfg.Chain.RpcURL).
		Str("program", id.Program.String()).
		Str("global_state", id.Addresses.Global.Address.String()).
		Str("user_state", id.Addresses.User.Address.String()).
		Dur("interval", compound.Interval).
		Uint64("min_hash", compound.MinHashToCompound).
		Bool("min_hash_gate", cfg.Compound.GateOnMinHash).
		Msg("auto-compound bot started")
	return b, nil
}

func (b *bot) Close() error {
	if b.journal == nil {
		return nil
	}
	return b.journal.Close()
}
