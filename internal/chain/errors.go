package chain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"collablearn/internal/wallet"
)

var (
	// ErrNetwork means an RPC transport failure; the call is safely retryable.
	ErrNetwork = errors.New("network error")
	// ErrTransactionRejected means the user declined signing.
	ErrTransactionRejected = errors.New("transaction rejected")
	// ErrTransactionReverted means a contract precondition failed.
	ErrTransactionReverted = errors.New("transaction reverted")
	// ErrProjectNotFound means the requested project id does not exist.
	ErrProjectNotFound = errors.New("project not found")
)

// classifyReadError maps read-path failures onto the gateway taxonomy.
func classifyReadError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrNetwork, err)
}

// classifyWriteError maps write-path failures onto the gateway taxonomy.
func classifyWriteError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, wallet.ErrUserRejected) {
		return fmt.Errorf("%w: %v", ErrTransactionRejected, err)
	}
	if isRevert(err) {
		return fmt.Errorf("%w: %v", ErrTransactionReverted, err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrNetwork, err)
}

func isRevert(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "execution reverted") ||
		strings.Contains(msg, "always failing transaction") ||
		strings.Contains(msg, "out of gas")
}
