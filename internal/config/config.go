package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/screa/v4-address-miner/internal/crypto"
)

// Uniswap v4 address challenge constants. Each can be overridden by flag.
const (
	DefaultDeployer     = "0x48E516B34A1274f49457b9C6182097796D0498Cb"
	DefaultInitCodeHash = "0x94d114296a5af85c1fd2dc039cdaa32f1ed4b0fe0868f02d888bfc91feb645d9"
	DefaultSubmitter    = "0xb46B370a1A16B959bFF7d47010E256C50Db8330F"
)

// Errors
var (
	ErrNoCodeHash = errors.New("must specify --init-code-hash, --init-code, or --init-code-file")
)

// Config holds the application configuration
type Config struct {
	Workers      int    // 0 means one per CPU
	Deployer     string // deployer address (hex)
	InitCodeHash string // keccak256 of the init code (hex)
	InitCode     string // raw init code (hex), hashed if set
	InitCodeFile string // file containing init code (hex), hashed if set
	Submitter    string // submitter address embedded in every salt (hex)
	Limit        int64  // total attempt budget, 0 for unlimited
	Verbose      bool
	LogFile      string
	LogInterval  int // logging interval in seconds
}

// NewConfig creates a new configuration with the challenge defaults.
func NewConfig() *Config {
	return &Config{
		Deployer:     DefaultDeployer,
		InitCodeHash: DefaultInitCodeHash,
		Submitter:    DefaultSubmitter,
		LogInterval:  5,
	}
}

// Validate decodes every constant once so malformed values fail before any
// worker starts.
func (c *Config) Validate() error {
	if _, err := c.DeployerAddress(); err != nil {
		return fmt.Errorf("deployer: %w", err)
	}
	if _, err := c.CodeHash(); err != nil {
		return fmt.Errorf("init code hash: %w", err)
	}
	if _, err := c.SubmitterAddress(); err != nil {
		return fmt.Errorf("submitter: %w", err)
	}
	return nil
}

// DeployerAddress returns the decoded deployer address.
func (c *Config) DeployerAddress() (common.Address, error) {
	return parseAddress(c.Deployer)
}

// SubmitterAddress returns the decoded submitter address.
func (c *Config) SubmitterAddress() (common.Address, error) {
	return parseAddress(c.Submitter)
}

// CodeHash returns the init code hash to mine against. Raw init code, if
// supplied directly or via file, takes precedence and is hashed here.
func (c *Config) CodeHash() (common.Hash, error) {
	if c.InitCodeFile != "" {
		code, err := readInitCodeFromFile(c.InitCodeFile)
		if err != nil {
			return common.Hash{}, err
		}
		return common.BytesToHash(crypto.Keccak256(code)), nil
	}

	if c.InitCode != "" {
		code, err := hex.DecodeString(stripHexPrefix(c.InitCode))
		if err != nil {
			return common.Hash{}, err
		}
		return common.BytesToHash(crypto.Keccak256(code)), nil
	}

	if c.InitCodeHash != "" {
		h := stripHexPrefix(c.InitCodeHash)
		if len(h) != 2*common.HashLength {
			return common.Hash{}, fmt.Errorf("invalid hash length: got %d hex chars, want %d", len(h), 2*common.HashLength)
		}
		b, err := hex.DecodeString(h)
		if err != nil {
			return common.Hash{}, fmt.Errorf("invalid hash hex: %w", err)
		}
		return common.BytesToHash(b), nil
	}

	return common.Hash{}, ErrNoCodeHash
}

// parseAddress decodes a 20-byte hex address, rejecting wrong lengths rather
// than silently padding the way common.HexToAddress does.
func parseAddress(addr string) (common.Address, error) {
	h := stripHexPrefix(strings.TrimSpace(addr))
	if len(h) != 2*common.AddressLength {
		return common.Address{}, fmt.Errorf("invalid address length: got %d hex chars, want %d", len(h), 2*common.AddressLength)
	}
	b, err := hex.DecodeString(h)
	if err != nil {
		return common.Address{}, fmt.Errorf("invalid address hex: %w", err)
	}
	return common.BytesToAddress(b), nil
}

func stripHexPrefix(s string) string {
	if len(s) >= 2 && (s[0:2] == "0x" || s[0:2] == "0X") {
		return s[2:]
	}
	return s
}

// readInitCodeFromFile reads hex-encoded init code from a file.
func readInitCodeFromFile(filename string) ([]byte, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	code := stripHexPrefix(strings.TrimSpace(string(content)))

	// Ensure even length by padding with 0 if necessary
	if len(code)%2 != 0 {
		code = code + "0"
	}

	return hex.DecodeString(code)
}
