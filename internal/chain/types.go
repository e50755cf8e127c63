package chain

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Project mirrors one research entry in the on-chain registry.
type Project struct {
	ID               uint64         `json:"id"`
	Title            string         `json:"title"`
	MetadataCID      string         `json:"ipfsHash"`
	Description      string         `json:"description"`
	Owner            common.Address `json:"owner"`
	IsActive         bool           `json:"isActive"`
	ContributorCount uint64         `json:"contributorCount"`
	CitationCount    uint64         `json:"citationCount"`
	RequiredStake    *big.Int       `json:"requiredStake"`
	CurrentVersion   uint64         `json:"currentVersion"`
}

// ProjectCreated is the decoded registry creation event.
type ProjectCreated struct {
	ID          uint64
	Owner       common.Address
	MetadataCID string
}

// DeploymentRecord captures where and when the registry contract was deployed.
type DeploymentRecord struct {
	ID          string         `json:"id"`
	Address     common.Address `json:"address"`
	TxHash      common.Hash    `json:"tx_hash"`
	BlockNumber uint64         `json:"block_number"`
	ChainID     int64          `json:"chain_id"`
	DeployedAt  time.Time      `json:"deployed_at" format:"date-time"`
}
