package wallet

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrProviderUnavailable means no wallet provider was injected.
	ErrProviderUnavailable = errors.New("wallet provider unavailable")
	// ErrUserRejected means the user declined the account-access prompt
	// or refused to sign.
	ErrUserRejected = errors.New("user rejected request")
	// ErrNotConnected means an operation requires an authenticated session.
	ErrNotConnected = errors.New("wallet not connected")
	// ErrNoAccounts means the provider granted access but holds no accounts.
	ErrNoAccounts = errors.New("no accounts available")
)

// Provider is the injected wallet capability. It is passed to the session
// manager at construction rather than read from ambient globals, so tests
// and alternative wallets can supply their own implementation.
type Provider interface {
	// RequestAccounts prompts for account access and returns the granted
	// accounts. Implementations return ErrUserRejected when declined.
	RequestAccounts(ctx context.Context) ([]common.Address, error)

	// ChainID returns the chain the provider is currently on.
	ChainID(ctx context.Context) (*big.Int, error)

	// Signer signs transactions for a granted account.
	Signer() bind.SignerFn

	// AccountsChanged streams account-list updates for the provider's
	// lifetime. An empty slice means access was revoked.
	AccountsChanged() <-chan []common.Address

	// ChainChanged streams network switches.
	ChainChanged() <-chan *big.Int
}
