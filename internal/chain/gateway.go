package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"collablearn/internal/shared/retry"
	"collablearn/internal/shared/telemetry"
)

// Backend is the RPC surface the gateway needs: calls, transactions, logs
// and receipt lookups. *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// Gateway is a typed wrapper around the on-chain research registry.
type Gateway struct {
	address  common.Address
	backend  Backend
	contract *bind.BoundContract
	policy   retry.Policy
}

// NewGateway binds the registry contract at address over backend.
func NewGateway(address common.Address, backend Backend) *Gateway {
	return &Gateway{
		address:  address,
		backend:  backend,
		contract: bind.NewBoundContract(address, RegistryABI, backend, backend, backend),
		policy:   retry.DefaultPolicy,
	}
}

// Address returns the bound contract address.
func (g *Gateway) Address() common.Address {
	return g.address
}

// GetProject reads one registry entry. Read-only and safely retryable.
func (g *Gateway) GetProject(ctx context.Context, id uint64) (Project, error) {
	var out []interface{}
	err := retry.Do(ctx, g.policy, func(ctx context.Context) error {
		out = out[:0]
		return g.contract.Call(&bind.CallOpts{Context: ctx}, &out, "researches", new(big.Int).SetUint64(id))
	})
	if err != nil {
		return Project{}, classifyReadError(err)
	}

	project, err := decodeProject(out)
	if err != nil {
		return Project{}, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	if project.Owner == (common.Address{}) {
		return Project{}, ErrProjectNotFound
	}
	return project, nil
}

// ListProjectsByOwner returns every project owned by addr, in registry order.
// Read-only and safely retryable.
func (g *Gateway) ListProjectsByOwner(ctx context.Context, owner common.Address) ([]Project, error) {
	var out []interface{}
	err := retry.Do(ctx, g.policy, func(ctx context.Context) error {
		out = out[:0]
		return g.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getUserResearches", owner)
	})
	if err != nil {
		return nil, classifyReadError(err)
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("%w: unexpected getUserResearches output", ErrNetwork)
	}
	ids, ok := out[0].([]*big.Int)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected getUserResearches output type", ErrNetwork)
	}

	projects := make([]Project, 0, len(ids))
	for _, id := range ids {
		project, err := g.GetProject(ctx, id.Uint64())
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, nil
}

// CreateProject submits the creation transaction, waits for confirmation and
// returns the confirmed project id parsed from the receipt.
func (g *Gateway) CreateProject(opts *bind.TransactOpts, title, metadataCID, description string, requiredStake *big.Int, owner common.Address) (uint64, error) {
	receipt, err := g.transact(opts, "createResearch", title, metadataCID, description, requiredStake, owner)
	if err != nil {
		return 0, err
	}

	for _, logEntry := range receipt.Logs {
		event, err := g.decodeCreated(*logEntry)
		if err != nil {
			continue
		}
		telemetry.Info("chain.project_created", map[string]any{
			"project_id": event.ID,
			"owner":      event.Owner.Hex(),
			"tx_hash":    receipt.TxHash.Hex(),
		})
		return event.ID, nil
	}
	return 0, fmt.Errorf("%w: creation event missing from receipt", ErrNetwork)
}

// UpdateProjectVersion advances a project's metadata pointer, bumping its
// version on chain. Editing a document produces a new content identifier, so
// every saved edit must come through here or readers keep fetching the old
// content.
func (g *Gateway) UpdateProjectVersion(opts *bind.TransactOpts, id uint64, newMetadataCID string) error {
	_, err := g.transact(opts, "updateResearchVersion", new(big.Int).SetUint64(id), newMetadataCID)
	return err
}

// Contribute stakes value on a project.
func (g *Gateway) Contribute(opts *bind.TransactOpts, id uint64) error {
	_, err := g.transact(opts, "contribute", new(big.Int).SetUint64(id))
	return err
}

// Cite records a citation of a project.
func (g *Gateway) Cite(opts *bind.TransactOpts, id uint64) error {
	_, err := g.transact(opts, "citeResearch", new(big.Int).SetUint64(id))
	return err
}

func (g *Gateway) transact(opts *bind.TransactOpts, method string, args ...interface{}) (*types.Receipt, error) {
	if opts == nil || opts.Context == nil {
		return nil, fmt.Errorf("%w: transact opts with context required", ErrNetwork)
	}

	tx, err := g.contract.Transact(opts, method, args...)
	if err != nil {
		return nil, classifyWriteError(err)
	}

	receipt, err := bind.WaitMined(opts.Context, g.backend, tx)
	if err != nil {
		return nil, classifyWriteError(err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%w: transaction %s reverted on chain", ErrTransactionReverted, tx.Hash().Hex())
	}
	return receipt, nil
}

func decodeProject(out []interface{}) (Project, error) {
	if len(out) != 10 {
		return Project{}, fmt.Errorf("expected 10 output values, got %d", len(out))
	}
	id, ok0 := out[0].(*big.Int)
	title, ok1 := out[1].(string)
	metadataCID, ok2 := out[2].(string)
	description, ok3 := out[3].(string)
	owner, ok4 := out[4].(common.Address)
	isActive, ok5 := out[5].(bool)
	contributors, ok6 := out[6].(*big.Int)
	citations, ok7 := out[7].(*big.Int)
	requiredStake, ok8 := out[8].(*big.Int)
	version, ok9 := out[9].(*big.Int)
	if !(ok0 && ok1 && ok2 && ok3 && ok4 && ok5 && ok6 && ok7 && ok8 && ok9) {
		return Project{}, fmt.Errorf("unexpected output types")
	}

	return Project{
		ID:               id.Uint64(),
		Title:            title,
		MetadataCID:      metadataCID,
		Description:      description,
		Owner:            owner,
		IsActive:         isActive,
		ContributorCount: contributors.Uint64(),
		CitationCount:    citations.Uint64(),
		RequiredStake:    requiredStake,
		CurrentVersion:   version.Uint64(),
	}, nil
}
