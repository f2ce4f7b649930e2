// Package config loads the node-level settings the demo binary needs:
// data directory, network selection, log level, and the consensus
// Settings values blockchain.Check/Accept/Connect consult. It is consumed
// only by cmd/blockvalidate-cli — the validation packages themselves never
// import it, since Settings is defined as a plain external-collaborator
// value in package blockchain.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jessevdk/go-flags"

	"github.com/coreledger/blockvalidate/blockchain"
)

// Config is the full set of flags/environment variables the demo binary
// accepts.
type Config struct {
	Network  string `long:"network" env:"BLOCKVALIDATE_NETWORK" description:"network parameter set to validate against (mainnet, testnet, devnet)" default:"devnet"`
	DataDir  string `long:"datadir" env:"BLOCKVALIDATE_DATADIR" description:"directory for flush-lock and scratch files"`
	LogLevel string `long:"loglevel" env:"BLOCKVALIDATE_LOGLEVEL" description:"debug, info, warn or error" default:"info"`

	UseScrypt bool `long:"scrypt" description:"validate proof-of-work using scrypt instead of SHA256d"`
}

var allowedLogLevels = map[string]struct{}{
	"debug": {}, "info": {}, "warn": {}, "error": {},
}

// DefaultDataDir returns the per-user default data directory.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".blockvalidate"
	}
	return filepath.Join(home, ".blockvalidate")
}

// Default returns a Config populated with the same defaults Parse would
// apply if handed no arguments.
func Default() Config {
	return Config{
		Network:  "devnet",
		DataDir:  DefaultDataDir(),
		LogLevel: "info",
	}
}

// Parse parses args (typically os.Args[1:]) into a validated Config.
func Parse(args []string) (Config, error) {
	cfg := Default()
	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		return Config{}, err
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects a Config with structurally invalid fields.
func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.Network) == "" {
		return errors.New("network is required")
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		return errors.New("datadir is required")
	}
	level := strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if _, ok := allowedLogLevels[level]; !ok {
		return fmt.Errorf("invalid loglevel %q", cfg.LogLevel)
	}
	return nil
}

// NetworkSettings returns the consensus Settings for the Config's selected
// network. Only a small built-in set is known; a production deployment
// would load these from a network-parameter table instead.
func NetworkSettings(cfg Config) (blockchain.Settings, error) {
	var s blockchain.Settings
	switch strings.ToLower(cfg.Network) {
	case "mainnet":
		s = blockchain.Settings{
			MaxMoney:                   21_000_000 * 100_000_000,
			SubsidyInterval:            210_000,
			InitialBlockSubsidySatoshi: 50 * 100_000_000,
			TimestampLimitSeconds:      7200,
			ProofOfWorkLimit:           0x1d00ffff,
		}
	case "testnet", "devnet":
		s = blockchain.Settings{
			MaxMoney:                   21_000_000 * 100_000_000,
			SubsidyInterval:            210_000,
			InitialBlockSubsidySatoshi: 50 * 100_000_000,
			TimestampLimitSeconds:      7200,
			ProofOfWorkLimit:           0x1e0ffff0,
		}
	default:
		return blockchain.Settings{}, fmt.Errorf("unknown network %q", cfg.Network)
	}
	s.UseScrypt = cfg.UseScrypt
	return s, nil
}
