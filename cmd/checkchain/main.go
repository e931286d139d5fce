// Command checkchain is a standalone diagnostic: it connects to the
// configured chain node and contracts and reports whether the wingman
// would be able to start cleanly, without running the full agent.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/aimosphere-network/airo-wingman/config"
	"github.com/aimosphere-network/airo-wingman/protocol"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	log.Printf("connecting to %s ...", cfg.NodeURL)
	adapter, err := protocol.New(ctx, cfg.NodeURL, cfg.SignerKey, cfg.ChainID, common.HexToAddress(cfg.MarketAddr), common.HexToAddress(cfg.ExecAddr))
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}

	log.Printf("connected. provider account: %s", adapter.Provider().Hex())

	blockNumber, err := adapter.Client().BlockNumber(ctx)
	if err != nil {
		log.Fatalf("failed to read latest block number: %v", err)
	}
	log.Printf("latest block: %d", blockNumber)

	chainID, err := adapter.Client().ChainID(ctx)
	if err != nil {
		log.Fatalf("failed to read chain id from node: %v", err)
	}
	if chainID.Cmp(cfg.ChainID) != 0 {
		log.Fatalf("configured AIRO_CHAIN_ID=%s does not match node-reported chain id %s", cfg.ChainID, chainID)
	}
	log.Printf("chain id matches configuration: %s", chainID)

	if _, _, err := adapter.GetAgreement(ctx, 0); err != nil {
		log.Fatalf("agreements(0) view call failed, execution contract may be misconfigured: %v", err)
	}
	log.Println("execution contract responds to agreements() view calls")

	fmt.Println("OK: chain node and contracts reachable")
}
