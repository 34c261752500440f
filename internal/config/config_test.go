package config

import (
	"path/filepath"
	"testing"
	"time"
)

func env(values map[string]string) func(string) string {
	return func(k string) string { return values[k] }
}

func TestLoad(t *testing.T) {
	path := filepath.Join("testdata", "config.yaml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.App.Name != "autocompound-test" {
		t.Fatalf("unexpected App.Name: %s", cfg.App.Name)
	}
	if cfg.App.LogLevel != "debug" {
		t.Fatalf("unexpected App.LogLevel: %s", cfg.App.LogLevel)
	}
	if cfg.App.LogFormat != "console" {
		t.Fatalf("expected default log format to survive, got %s", cfg.App.LogFormat)
	}
	if cfg.Chain.RpcURL != "https://api.devnet.solana.com" {
		t.Fatalf("unexpected Chain.RpcURL: %s", cfg.Chain.RpcURL)
	}
	if cfg.Chain.Commitment != "finalized" {
		t.Fatalf("expected finalized commitment, got %s", cfg.Chain.Commitment)
	}
	if cfg.Wallet.KeypairPath != "/etc/autocompound/id.json" {
		t.Fatalf("unexpected keypair path: %s", cfg.Wallet.KeypairPath)
	}
	if cfg.Compound.ConfirmTimeout != 45*time.Second {
		t.Fatalf("unexpected confirm timeout: %s", cfg.Compound.ConfirmTimeout)
	}
	if !cfg.Compound.GateOnMinHash || !cfg.Compound.SkipIfBusy {
		t.Fatalf("expected gate and skip flags enabled")
	}
	if cfg.Compound.JournalPath != "data/compound.jsonl" {
		t.Fatalf("unexpected journal path: %s", cfg.Compound.JournalPath)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestResolveDefaults(t *testing.T) {
	cfg, err := Resolve("", env(nil))
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if cfg.Chain.RpcURL != DefaultRpcURL {
		t.Fatalf("unexpected default rpc: %s", cfg.Chain.RpcURL)
	}
	if cfg.Wallet.KeypairPath != DefaultKeypairPath {
		t.Fatalf("unexpected default keypair: %s", cfg.Wallet.KeypairPath)
	}
	if cfg.Compound.GateOnMinHash || cfg.Compound.SkipIfBusy {
		t.Fatalf("gate and skip must default off")
	}
}

func TestResolveEnvOverrides(t *testing.T) {
	cfg, err := Resolve(filepath.Join("testdata", "config.yaml"), env(map[string]string{
		"RPC_URL":      "http://localhost:8899",
		"KEYPAIR":      "./id.json",
		"LOG_LEVEL":    "warn",
		"METRICS_ADDR": ":9999",
	}))
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if cfg.Chain.RpcURL != "http://localhost:8899" {
		t.Fatalf("RPC_URL not applied: %s", cfg.Chain.RpcURL)
	}
	if cfg.Wallet.KeypairPath != "./id.json" {
		t.Fatalf("KEYPAIR not applied: %s", cfg.Wallet.KeypairPath)
	}
	if cfg.App.LogLevel != "warn" || cfg.App.MetricsAddr != ":9999" {
		t.Fatalf("logging/metrics overrides not applied: %+v", cfg.App)
	}
	if cfg.Chain.Commitment != "finalized" {
		t.Fatalf("file value lost: %s", cfg.Chain.Commitment)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := Default()
	cfg.Compound.ConfirmTimeout = 30 * time.Second
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.Compound.ConfirmTimeout != 30*time.Second {
		t.Fatalf("unexpected timeout after reload: %s", loaded.Compound.ConfirmTimeout)
	}
	if err := Save(path, nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}
