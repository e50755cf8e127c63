package chain

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Artifact is a compiled-contract artifact in the hardhat layout: the ABI
// plus creation bytecode.
type Artifact struct {
	ABI      json.RawMessage `json:"abi"`
	Bytecode string          `json:"bytecode"`
}

// LoadArtifact reads a compiled artifact from disk.
func LoadArtifact(path string) (Artifact, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Artifact{}, fmt.Errorf("read artifact: %w", err)
	}
	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return Artifact{}, fmt.Errorf("parse artifact: %w", err)
	}
	if len(artifact.ABI) == 0 || strings.TrimSpace(artifact.Bytecode) == "" {
		return Artifact{}, fmt.Errorf("artifact %s missing abi or bytecode", path)
	}
	return artifact, nil
}

// Deploy pushes the registry contract to the chain and waits for it to be
// mined. The admin address is the registry's constructor argument.
func Deploy(opts *bind.TransactOpts, backend Backend, artifact Artifact, admin common.Address) (common.Address, *types.Transaction, error) {
	parsed, err := abi.JSON(strings.NewReader(string(artifact.ABI)))
	if err != nil {
		return common.Address{}, nil, fmt.Errorf("parse artifact abi: %w", err)
	}

	bytecode := common.FromHex(strings.TrimSpace(artifact.Bytecode))
	if len(bytecode) == 0 {
		return common.Address{}, nil, fmt.Errorf("artifact bytecode empty after decoding")
	}

	address, tx, _, err := bind.DeployContract(opts, parsed, bytecode, backend, admin)
	if err != nil {
		return common.Address{}, nil, classifyWriteError(err)
	}

	if opts.Context != nil {
		if _, err := bind.WaitDeployed(opts.Context, backend, tx); err != nil {
			return common.Address{}, nil, classifyWriteError(err)
		}
	}
	return address, tx, nil
}
