package main

import (
	"context"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/aimosphere-network/airo-wingman/config"
	"github.com/aimosphere-network/airo-wingman/engine"
	"github.com/aimosphere-network/airo-wingman/listener"
	"github.com/aimosphere-network/airo-wingman/protocol"
	"github.com/aimosphere-network/airo-wingman/routes"
	"github.com/aimosphere-network/airo-wingman/services"
	"github.com/aimosphere-network/airo-wingman/stats"
	"github.com/aimosphere-network/airo-wingman/supervisor"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.NewConsoleWriter())

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	sup := supervisor.New(context.Background())

	adapter, err := protocol.New(
		sup.Context(),
		cfg.NodeURL,
		cfg.SignerKey,
		cfg.ChainID,
		common.HexToAddress(cfg.MarketAddr),
		common.HexToAddress(cfg.ExecAddr),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to chain node")
	}

	repo := services.NewModelRepository()
	metrics := stats.New()

	chainListener := listener.New(adapter)
	bidEngine := engine.NewBidEngine(repo, adapter, metrics)
	execEngine := engine.NewExecutionEngine(repo, adapter, adapter, adapter, newConnector, metrics)

	sup.Go("chain-listener", chainListener.Run)
	sup.Go("bid-engine", func(ctx context.Context) error {
		return bidEngine.Run(ctx, chainListener.BidEvents())
	})
	sup.Go("execution-engine", func(ctx context.Context) error {
		return execEngine.Run(ctx, chainListener.ExecEvents())
	})

	router := routes.SetupRouter(repo, metrics, cfg.AdminToken)
	server := &http.Server{Addr: ":" + cfg.Port, Handler: router}

	sup.Go("admin-http", func(ctx context.Context) error {
		errCh := make(chan error, 1)
		go func() {
			log.Info().Str("port", cfg.Port).Msg("admin HTTP server listening")
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errCh <- err
				return
			}
			errCh <- nil
		}()

		select {
		case <-ctx.Done():
			return server.Shutdown(context.Background())
		case err := <-errCh:
			return err
		}
	})

	if err := sup.Wait(); err != nil {
		metrics.SetLastError(err)
		log.Error().Err(err).Msg("wingman shutting down after a critical task failure")
	} else {
		log.Info().Msg("wingman shut down cleanly")
	}
}

// newConnector builds a fresh Inference Connector bound to a served
// model's inference_url. Passed to the Execution Engine as a factory so
// each request gets its own client bound to the model that serves it.
func newConnector(baseURL string) engine.Predictor {
	return services.NewConnector(baseURL)
}
