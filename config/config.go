package config

import (
	"fmt"
	"math/big"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all wingman configuration, loaded from the environment (with an
// optional .env file for local development).
type Config struct {
	Port string

	NodeURL    string
	SignerKey  string // hex ECDSA private key, no "0x" prefix required
	ChainID    *big.Int
	MarketAddr string
	ExecAddr   string

	AdminToken string // empty disables admin auth
}

// LoadConfig loads configuration from the environment. AIRO_SURI,
// AIRO_MARKET_ADDR and AIRO_EXECUTION_ADDR are required and have no default —
// the absence of any of them is a fatal startup error.
func LoadConfig() (*Config, error) {
	if os.Getenv("ENVIRONMENT") != "production" {
		if err := godotenv.Load(); err != nil {
			_ = godotenv.Load("../.env")
		}
	}

	port := getEnv("AW_PORT", "9090")

	nodeURL := getEnv("AIRO_NODE", "ws://127.0.0.1:8546")

	signerKey := os.Getenv("AIRO_SURI")
	if signerKey == "" {
		return nil, fmt.Errorf("AIRO_SURI is required")
	}

	chainIDStr := getEnv("AIRO_CHAIN_ID", "1337")
	chainID, ok := new(big.Int).SetString(chainIDStr, 10)
	if !ok {
		return nil, fmt.Errorf("AIRO_CHAIN_ID %q is not a valid integer", chainIDStr)
	}

	marketAddr := os.Getenv("AIRO_MARKET_ADDR")
	if marketAddr == "" {
		return nil, fmt.Errorf("AIRO_MARKET_ADDR is required")
	}
	execAddr := os.Getenv("AIRO_EXECUTION_ADDR")
	if execAddr == "" {
		return nil, fmt.Errorf("AIRO_EXECUTION_ADDR is required")
	}

	return &Config{
		Port:       port,
		NodeURL:    nodeURL,
		SignerKey:  signerKey,
		ChainID:    chainID,
		MarketAddr: marketAddr,
		ExecAddr:   execAddr,
		AdminToken: os.Getenv("AW_ADMIN_TOKEN"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
