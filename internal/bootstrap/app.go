package bootstrap

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/gin-gonic/gin"

	"collablearn/internal/chain"
	"collablearn/internal/collab"
	"collablearn/internal/convert"
	"collablearn/internal/ipfs"
	"collablearn/internal/shared/config"
	"collablearn/internal/shared/server"
	"collablearn/internal/shared/telemetry"
)

// App holds shared dependencies for the backend service and any embedded
// headless clients.
type App struct {
	Config config.Config
	Router *gin.Engine

	Collab  *collab.Service
	Convert *convert.Handler
	Storage *ipfs.Client

	// Gateway is nil unless RPC_URL and CONTRACT_ADDRESS are configured.
	// The HTTP surface does not require it; embedded clients do.
	Gateway *chain.Gateway
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}

	collabSvc := collab.NewService(cfg.LiveblocksAPIURL, cfg.LiveblocksSecret, cfg.HTTPTimeout)
	if cfg.LiveblocksSecret == "" {
		if !isDevLike(cfg.Env) {
			return nil, fmt.Errorf("LIVEBLOCKS_SECRET_KEY is required outside dev")
		}
		telemetry.Warn("bootstrap.collab_dev_mode", map[string]any{
			"reason": "LIVEBLOCKS_SECRET_KEY empty; minting local session tokens",
		})
	}

	app := &App{
		Config:  cfg,
		Collab:  collabSvc,
		Convert: convert.NewHandler(cfg.MaxUploadBytes),
		Storage: ipfs.NewClient(cfg.PinataUploadURL, cfg.PinataGateway, cfg.PinataJWT, cfg.HTTPTimeout),
	}

	gateway, err := buildGateway(cfg)
	if err != nil {
		return nil, err
	}
	app.Gateway = gateway

	app.Router = server.NewRouter(server.RouterDeps{
		Config:         cfg,
		ConvertHandler: app.Convert,
		CollabHandler:  collab.NewHandler(collabSvc),
	})
	return app, nil
}

func buildGateway(cfg config.Config) (*chain.Gateway, error) {
	if strings.TrimSpace(cfg.RPCURL) == "" {
		return nil, nil
	}
	if !common.IsHexAddress(cfg.ContractAddress) {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.registry_unconfigured", map[string]any{
				"reason": "CONTRACT_ADDRESS missing or invalid; registry access disabled",
			})
			return nil, nil
		}
		return nil, fmt.Errorf("CONTRACT_ADDRESS is required when RPC_URL is set")
	}

	client, err := ethclient.Dial(cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc: %w", err)
	}
	return chain.NewGateway(common.HexToAddress(cfg.ContractAddress), client), nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
