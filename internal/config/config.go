// Package config exposes the typed bot configuration, loaded from optional YAML and the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultRpcURL      = "https://api.mainnet-beta.solana.com"
	DefaultKeypairPath = "deploy-keypair.json"
)

// App captures process-wide runtime settings such as name, metrics and logging.
type App struct {
	Name        string `yaml:"name"`
	Env         string `yaml:"env"`
	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"` // console|json
}

// Chain describes the cluster endpoint and the program the bot talks to.
type Chain struct {
	RpcURL     string `yaml:"rpc_url"`
	Commitment string `yaml:"commitment"` // processed|confirmed|finalized
	ProgramID  string `yaml:"program_id"`
}

// Wallet points at the signing key. PrivateKeyBase58 overrides KeypairPath when set.
type Wallet struct {
	KeypairPath      string `yaml:"keypair_path"`
	PrivateKeyBase58 string `yaml:"private_key_base58"`
}

// Compound tunes the submit loop. The 60s interval itself is fixed.
type Compound struct {
	ConfirmTimeout time.Duration `yaml:"confirm_timeout"`
	GateOnMinHash  bool          `yaml:"gate_on_min_hash"`
	SkipIfBusy     bool          `yaml:"skip_if_busy"`
	JournalPath    string        `yaml:"journal_path"`
}

// Config collects every configuration leaf for easy marshaling from YAML.
type Config struct {
	App      App      `yaml:"app"`
	Chain    Chain    `yaml:"chain"`
	Wallet   Wallet   `yaml:"wallet"`
	Compound Compound `yaml:"compound"`
}

// Default returns the settings the bot runs with when nothing is configured.
func Default() *Config {
	return &Config{
		App: App{
			Name:      "autocompound",
			Env:       "mainnet",
			LogLevel:  "info",
			LogFormat: "console",
		},
		Chain: Chain{
			RpcURL:     DefaultRpcURL,
			Commitment: "confirmed",
		},
		Wallet: Wallet{KeypairPath: DefaultKeypairPath},
		Compound: Compound{
			ConfirmTimeout: 90 * time.Second,
		},
	}
}

// Load reads a YAML file from disk on top of Default.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	config := Default()
	if err := yaml.NewDecoder(file).Decode(config); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return config, nil
}

// Resolve loads path when non-empty, otherwise defaults, then applies environment overrides.
func Resolve(path string, getenv func(string) string) (*Config, error) {
	cfg := Default()
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv(getenv)
	return cfg, nil
}

// ApplyEnv overrides fields from RPC_URL, KEYPAIR, SOLANA_PRIVATE_KEY_BASE58, LOG_LEVEL and METRICS_ADDR.
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Chain.RpcURL, "RPC_URL")
	set(&c.Wallet.KeypairPath, "KEYPAIR")
	set(&c.Wallet.PrivateKeyBase58, "SOLANA_PRIVATE_KEY_BASE58")
	set(&c.App.LogLevel, "LOG_LEVEL")
	set(&c.App.MetricsAddr, "METRICS_ADDR")
}

// Save persists a Config struct to disk as YAML.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
