/**
 * @description
 * This file defines the `ChainAdapter` interface, the boundary contract
 * between the wallet session state machine and whatever actually talks to a
 * wallet provider and the donation contract. The production implementation
 * lives in pkg/ethchain; tests substitute a stub.
 *
 * @notes
 * - Provider notifications (account changes, chain changes) are delivered as
 *   typed events on a channel rather than callbacks, so the session's event
 *   loop consumes them one at a time in order.
 */

package wallet

import (
	"context"
	"errors"

	"github.com/givechain/donation-service/internal/domain"
)

// Failure taxonomy for wallet and donation operations. Every failure returns
// the session to a well-defined prior state; none of these are fatal.
var (
	ErrProviderUnavailable = errors.New("wallet provider unavailable")
	ErrUserRejected        = errors.New("connection request rejected")
	ErrNetworkSwitchFailed = errors.New("network switch failed")
	ErrUnrecognizedChain   = errors.New("chain not recognized by provider")
	ErrNotConnected        = errors.New("no wallet connected")
	ErrWrongNetwork        = errors.New("connected to the wrong network")
	ErrInvalidAmount       = errors.New("invalid donation amount")
	ErrTransactionFailed   = errors.New("donation transaction failed")
)

// EventKind discriminates provider notifications.
type EventKind int

const (
	// AccountsChanged reports the current authorized accounts. An empty list
	// means the user revoked access.
	AccountsChanged EventKind = iota
	// ChainChanged reports the provider's new active chain id.
	ChainChanged
)

// ProviderEvent is one asynchronous notification from the wallet provider.
type ProviderEvent struct {
	Kind     EventKind
	Accounts []string
	ChainID  int64
}

// ChainAdapter is the external collaborator wrapping the wallet provider and
// the donation contract endpoint.
type ChainAdapter interface {
	// RequestAccounts asks the provider for account access. Fails with
	// ErrProviderUnavailable when no provider is reachable and
	// ErrUserRejected when the user declines.
	RequestAccounts(ctx context.Context) ([]string, error)

	// Accounts returns the already-authorized accounts without prompting.
	// Used for the silent reconnect on startup.
	Accounts(ctx context.Context) ([]string, error)

	// GetBalance returns the address's native-token balance in the smallest
	// unit, as a decimal string to avoid precision loss.
	GetBalance(ctx context.Context, address string) (string, error)

	// GetChainID returns the provider's active chain id.
	GetChainID(ctx context.Context) (int64, error)

	// SwitchChain asks the provider to switch its active chain. Returns
	// ErrUnrecognizedChain when the provider does not know the chain, in
	// which case the caller may AddChain and retry once.
	SwitchChain(ctx context.Context, chainID int64) error

	// AddChain registers a full chain descriptor with the provider.
	AddChain(ctx context.Context, desc domain.ChainDescriptor) error

	// SendDonation submits a value-bearing donate call for the given charity
	// address and native-token decimal amount, waits for the transaction to
	// be mined and returns its receipt. Not cancellable once dispatched.
	SendDonation(ctx context.Context, charityAddress string, amount string) (domain.TransactionReceipt, error)

	// Events is the provider's notification stream. The channel is closed
	// when the adapter shuts down.
	Events() <-chan ProviderEvent
}
