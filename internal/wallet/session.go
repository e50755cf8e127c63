package wallet

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"collablearn/internal/shared/telemetry"
)

// State is a snapshot of the wallet session.
type State struct {
	Address       common.Address
	ChainID       *big.Int
	Authenticated bool
}

// Session tracks wallet connection state and reacts to provider events.
// All methods are safe for concurrent use.
type Session struct {
	provider Provider

	mu    sync.Mutex
	state State

	loopCancel context.CancelFunc
	loopDone   chan struct{}
}

// NewSession constructs a Session over an injected provider. The provider
// may be nil, in which case Connect fails with ErrProviderUnavailable.
func NewSession(provider Provider) *Session {
	return &Session{provider: provider}
}

// Connect requests account access, records the primary address and chain id,
// and starts listening for provider events. Reconnecting replaces all prior
// session state.
func (s *Session) Connect(ctx context.Context) (State, error) {
	if s.provider == nil {
		return State{}, ErrProviderUnavailable
	}

	accounts, err := s.provider.RequestAccounts(ctx)
	if err != nil {
		return State{}, err
	}
	if len(accounts) == 0 {
		return State{}, ErrNoAccounts
	}

	chainID, err := s.provider.ChainID(ctx)
	if err != nil {
		return State{}, err
	}

	s.mu.Lock()
	s.state = State{
		Address:       accounts[0],
		ChainID:       new(big.Int).Set(chainID),
		Authenticated: true,
	}
	snapshot := s.state
	s.mu.Unlock()

	s.startEventLoop()

	telemetry.Info("wallet.connected", map[string]any{
		"address":  snapshot.Address.Hex(),
		"chain_id": snapshot.ChainID.String(),
	})
	return snapshot, nil
}

// Disconnect clears session state unconditionally. It is idempotent.
func (s *Session) Disconnect() {
	s.mu.Lock()
	wasAuthenticated := s.state.Authenticated
	s.state = State{}
	s.mu.Unlock()

	if wasAuthenticated {
		telemetry.Info("wallet.disconnected", nil)
	}
}

// Close stops the provider event loop. The session may be reconnected after.
func (s *Session) Close() {
	s.mu.Lock()
	cancel := s.loopCancel
	done := s.loopDone
	s.loopCancel = nil
	s.loopDone = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// Snapshot returns the current session state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// TransactOpts builds signing options for contract writes from the session.
func (s *Session) TransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()

	if s.provider == nil {
		return nil, ErrProviderUnavailable
	}
	if !state.Authenticated {
		return nil, ErrNotConnected
	}
	return &bind.TransactOpts{
		From:    state.Address,
		Signer:  s.provider.Signer(),
		Context: ctx,
	}, nil
}

func (s *Session) startEventLoop() {
	s.mu.Lock()
	if s.loopCancel != nil {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.loopCancel = cancel
	s.loopDone = done
	s.mu.Unlock()

	go s.eventLoop(ctx, done)
}

func (s *Session) eventLoop(ctx context.Context, done chan struct{}) {
	defer close(done)
	accountEvents := s.provider.AccountsChanged()
	chainEvents := s.provider.ChainChanged()

	for {
		select {
		case <-ctx.Done():
			return
		case accounts, ok := <-accountEvents:
			if !ok {
				return
			}
			s.onAccountsChanged(accounts)
		case chainID, ok := <-chainEvents:
			if !ok {
				return
			}
			s.onChainChanged(chainID)
		}
	}
}

// onAccountsChanged updates the tracked address in place, or auto-disconnects
// when the account list becomes empty.
func (s *Session) onAccountsChanged(accounts []common.Address) {
	if len(accounts) == 0 {
		s.Disconnect()
		return
	}

	s.mu.Lock()
	if s.state.Authenticated {
		s.state.Address = accounts[0]
	}
	s.mu.Unlock()
}

// onChainChanged updates the tracked chain id without disrupting
// authentication.
func (s *Session) onChainChanged(chainID *big.Int) {
	if chainID == nil {
		return
	}
	s.mu.Lock()
	s.state.ChainID = new(big.Int).Set(chainID)
	s.mu.Unlock()
}
