package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	solana "github.com/gagliardetto/solana-go"

	chain "autocompound-go/internal/solana"
)

func env(values map[string]string) func(string) string {
	return func(k string) string { return values[k] }
}

func TestRunOffline(t *testing.T) {
	wallet := solana.NewWallet()
	data, err := chain.EncodeKeypair(wallet.PrivateKey)
	if err != nil {
		t.Fatalf("encode keypair: %v", err)
	}
	path := filepath.Join(t.TempDir(), "id.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write keypair: %v", err)
	}

	var stdout, stderr bytes.Buffer
	code := run([]string{"--offline"}, env(map[string]string{"KEYPAIR": path}), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr.String())
	}

	want, err := chain.DeriveAddresses(wallet.PublicKey(), chain.ProgramID)
	if err != nil {
		t.Fatalf("DeriveAddresses: %v", err)
	}
	out := stdout.String()
	for _, s := range []string{
		wallet.PublicKey().String(),
		chain.ProgramID.String(),
		want.Global.Address.String(),
		want.User.Address.String(),
	} {
		if !strings.Contains(out, s) {
			t.Fatalf("output missing %s:\n%s", s, out)
		}
	}
	if strings.Contains(out, "mining power") {
		t.Fatalf("offline run must not look up user_state:\n%s", out)
	}
}

func TestRunBadKeypair(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"--offline"}, env(map[string]string{"KEYPAIR": filepath.Join(t.TempDir(), "missing.json")}), &stdout, &stderr)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if stdout.Len() != 0 || !strings.Contains(stderr.String(), "resolve wallet") {
		t.Fatalf("unexpected output: stdout=%q stderr=%q", stdout.String(), stderr.String())
	}
}
