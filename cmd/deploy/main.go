package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"collablearn/internal/chain"
	"collablearn/internal/shared/telemetry"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy the research registry contract and record the deployment",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile, _ := cmd.Flags().GetString("config"); cfgFile != "" {
				v.SetConfigFile(cfgFile)
				if err := v.ReadInConfig(); err != nil {
					return fmt.Errorf("read config: %w", err)
				}
			}
			return runDeploy(cmd.Context(), v)
		},
	}

	cmd.Flags().String("config", "", "path to a YAML deployment config")
	cmd.Flags().String("rpc-url", "", "JSON-RPC endpoint")
	cmd.Flags().String("private-key", "", "hex-encoded deployer key")
	cmd.Flags().String("artifact", "artifacts/ResearchRegistry.json", "compiled contract artifact")
	cmd.Flags().String("admin", "", "registry admin address (defaults to the deployer)")
	cmd.Flags().String("out", "deployment.json", "where to write the deployment record")
	cmd.Flags().Duration("timeout", 2*time.Minute, "overall deployment timeout")

	for _, key := range []string{"rpc-url", "private-key", "artifact", "admin", "out", "timeout"} {
		_ = v.BindPFlag(key, cmd.Flags().Lookup(key))
	}
	v.SetEnvPrefix("DEPLOY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return cmd
}

func runDeploy(ctx context.Context, v *viper.Viper) error {
	rpcURL := v.GetString("rpc-url")
	if rpcURL == "" {
		return fmt.Errorf("rpc-url is required")
	}
	keyHex := strings.TrimPrefix(v.GetString("private-key"), "0x")
	if keyHex == "" {
		return fmt.Errorf("private-key is required")
	}

	artifact, err := chain.LoadArtifact(v.GetString("artifact"))
	if err != nil {
		return err
	}

	key, err := crypto.HexToECDSA(keyHex)
	if err != nil {
		return fmt.Errorf("parse private key: %w", err)
	}
	deployer := crypto.PubkeyToAddress(key.PublicKey)

	admin := deployer
	if raw := v.GetString("admin"); raw != "" {
		if !common.IsHexAddress(raw) {
			return fmt.Errorf("invalid admin address %q", raw)
		}
		admin = common.HexToAddress(raw)
	}

	ctx, cancel := context.WithTimeout(ctx, v.GetDuration("timeout"))
	defer cancel()

	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return fmt.Errorf("dial rpc: %w", err)
	}
	defer client.Close()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("chain id: %w", err)
	}

	opts, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		return fmt.Errorf("build transactor: %w", err)
	}
	opts.Context = ctx

	telemetry.Info("deploy.start", map[string]any{
		"rpc":      rpcURL,
		"chain_id": chainID.String(),
		"deployer": deployer.Hex(),
		"admin":    admin.Hex(),
	})

	address, tx, err := chain.Deploy(opts, client, artifact, admin)
	if err != nil {
		return fmt.Errorf("deploy: %w", err)
	}

	receipt, err := client.TransactionReceipt(ctx, tx.Hash())
	if err != nil {
		return fmt.Errorf("deployment receipt: %w", err)
	}

	record := chain.DeploymentRecord{
		ID:          uuid.NewString(),
		Address:     address,
		TxHash:      tx.Hash(),
		BlockNumber: receipt.BlockNumber.Uint64(),
		ChainID:     chainID.Int64(),
		DeployedAt:  time.Now().UTC(),
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}
	out := v.GetString("out")
	if err := os.WriteFile(out, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write deployment record: %w", err)
	}

	telemetry.Info("deploy.complete", map[string]any{
		"address": address.Hex(),
		"tx":      tx.Hash().Hex(),
		"record":  out,
	})
	fmt.Printf("registry deployed at %s (tx %s)\n", address.Hex(), tx.Hash().Hex())
	return nil
}
