package screens

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"collablearn/internal/chain"
	"collablearn/internal/collab"
	"collablearn/internal/ipfs"
)

// ProjectReader is the read side of the registry the screens depend on.
type ProjectReader interface {
	GetProject(ctx context.Context, id uint64) (chain.Project, error)
	ListProjectsByOwner(ctx context.Context, owner common.Address) ([]chain.Project, error)
}

// ProjectWriter covers the registry writes the flows issue. The transaction
// context travels in opts.Context.
type ProjectWriter interface {
	CreateProject(opts *bind.TransactOpts, title, metadataCID, description string, requiredStake *big.Int, owner common.Address) (uint64, error)
	UpdateProjectVersion(opts *bind.TransactOpts, id uint64, newMetadataCID string) error
}

// ProjectWatcher streams newly created projects.
type ProjectWatcher interface {
	WatchProjectCreated(ctx context.Context, sink chan<- chain.ProjectCreated) (<-chan error, error)
}

// Storage is the content-addressed store the screens read and write through.
type Storage interface {
	UploadFile(ctx context.Context, name string, data []byte) (string, error)
	UploadJSON(ctx context.Context, v any) (string, error)
	ResolveURL(cid string) (string, error)
	FetchBytes(ctx context.Context, cid string) ([]byte, error)
	FetchMetadata(ctx context.Context, cid string) (ipfs.ProjectMetadata, error)
}

// Converter turns a word-processing document into sanitized HTML.
type Converter interface {
	Convert(ctx context.Context, fileName string, data []byte) (string, error)
}

// Authorizer mints a collaboration session for a wallet identity.
type Authorizer interface {
	Authorize(ctx context.Context, walletAddress string) (collab.SessionResult, error)
}

var (
	_ ProjectReader = (*chain.Gateway)(nil)
	_ ProjectWriter = (*chain.Gateway)(nil)
	_ Storage       = (*ipfs.Client)(nil)
	_ Authorizer    = (*collab.Service)(nil)
)
