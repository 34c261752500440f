// Binary addresses prints the wallet, its PDAs and the decoded user_state, without submitting anything.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"autocompound-go/internal/compound"
	"autocompound-go/internal/config"
	chain "autocompound-go/internal/solana"
)

func main() {
	_ = godotenv.Load()
	os.Exit(run(os.Args[1:], os.Getenv, os.Stdout, os.Stderr))
}

func run(args []string, getenv func(string) string, stdout, stderr io.Writer) int {
	flags := pflag.NewFlagSet("addresses", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.StringP("config", "c", getenv("CONFIG"), "optional YAML config file")
	offline := flags.Bool("offline", false, "skip the user_state lookup")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Resolve(*configPath, getenv)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return 1
	}
	id, err := chain.Resolve(cfg.Wallet.KeypairPath, cfg.Wallet.PrivateKeyBase58, cfg.Chain.ProgramID)
	if err != nil {
		fmt.Fprintf(stderr, "resolve wallet: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "wallet:       %s\n", id.Owner())
	fmt.Fprintf(stdout, "program:      %s\n", id.Program)
	fmt.Fprintf(stdout, "global_state: %s (bump %d)\n", id.Addresses.Global.Address, id.Addresses.Global.Bump)
	fmt.Fprintf(stdout, "user_state:   %s (bump %d)\n", id.Addresses.User.Address, id.Addresses.User.Bump)
	if *offline {
		return 0
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := chain.NewClient(cfg.Chain.RpcURL, id.Signer, cfg.Chain.Commitment)
	state, err := chain.FetchUserState(ctx, client.RPC, id.Addresses.User.Address, id.Program)
	if err != nil {
		fmt.Fprintf(stderr, "user_state: %v\n", err)
		return 1
	}
	accrued := state.AccruedHash(time.Now())
	fmt.Fprintf(stdout, "mining power: %d MH/s\n", state.MiningPower)
	fmt.Fprintf(stdout, "unclaimed:    %d\n", state.UnclaimedEarnings)
	fmt.Fprintf(stdout, "last claim:   %s\n", time.Unix(state.LastClaim, 0).UTC().Format(time.RFC3339))
	fmt.Fprintf(stdout, "accrued hash: %d (compoundable: %t)\n", accrued, accrued >= compound.MinHashToCompound)
	if state.Referrer != nil {
		fmt.Fprintf(stdout, "referrer:     %s\n", state.Referrer)
	}
	return 0
}
