/**
 * @description
 * This file contains the wallet session state machine. A single Session is
 * owned by the application root and shared by reference with every component
 * that needs wallet state; change propagation happens through an explicit
 * subscribe/notify mechanism instead of module-level globals.
 *
 * Key features:
 * - Guarded connect/disconnect/switch-network operations with a busy flag and
 *   last-error message tracked orthogonally to the connection state.
 * - Provider events (accountsChanged, chainChanged) consumed one at a time by
 *   a single event loop, preserving ordering.
 * - Automatic add-then-retry-once when switching to a chain the provider does
 *   not recognize.
 * - Re-read discipline: a balance fetched for an address is only applied if
 *   the session still holds that address, so a slow fetch cannot clobber a
 *   concurrent account switch.
 *
 * @dependencies
 * - context, errors, fmt, log, sync: Standard Go libraries.
 * - internal/domain: Chain descriptor model.
 */

package wallet

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/givechain/donation-service/internal/domain"
)

// Snapshot is an immutable view of the session handed to subscribers and the
// API layer. Nullable fields use their zero values when absent.
type Snapshot struct {
	Address      string `json:"address"`
	Balance      string `json:"balance"` // smallest unit, decimal string
	ChainID      int64  `json:"chain_id"`
	Connected    bool   `json:"connected"`
	WrongNetwork bool   `json:"wrong_network"`
	Busy         bool   `json:"busy"`
	LastError    string `json:"last_error"`
}

// Session is the wallet connection state machine. Exactly one Session exists
// per running service instance; it is created empty and lives for the process
// lifetime.
type Session struct {
	adapter ChainAdapter
	target  domain.ChainDescriptor

	mu        sync.Mutex
	address   string
	balance   string
	chainID   int64
	connected bool
	busy      bool
	lastErr   string

	subMu   sync.Mutex
	subs    map[int]chan Snapshot
	nextSub int
}

// NewSession creates an empty, disconnected session targeting the given chain.
func NewSession(adapter ChainAdapter, target domain.ChainDescriptor) *Session {
	return &Session{
		adapter: adapter,
		target:  target,
		subs:    make(map[int]chan Snapshot),
	}
}

// TargetChainID returns the chain id donations must be submitted on.
func (s *Session) TargetChainID() int64 {
	return s.target.ChainID
}

// Snapshot returns the current session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		Address:      s.address,
		Balance:      s.balance,
		ChainID:      s.chainID,
		Connected:    s.connected,
		WrongNetwork: s.connected && s.chainID != 0 && s.chainID != s.target.ChainID,
		Busy:         s.busy,
		LastError:    s.lastErr,
	}
}

// Subscribe registers a listener for session changes. The returned cancel
// function must be called when the listener goes away. Slow listeners miss
// intermediate snapshots rather than blocking the session.
func (s *Session) Subscribe() (<-chan Snapshot, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan Snapshot, 8)
	s.subs[id] = ch

	return ch, func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if existing, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(existing)
		}
	}
}

func (s *Session) notify() {
	snap := s.Snapshot()

	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}

// Run consumes provider events until the context is cancelled or the adapter
// closes its event channel. It must be started once, on its own goroutine.
func (s *Session) Run(ctx context.Context) {
	events := s.adapter.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			s.handleProviderEvent(ctx, ev)
		}
	}
}

// Restore silently adopts an already-authorized account on startup, without
// prompting the user or forcing a network switch.
func (s *Session) Restore(ctx context.Context) {
	accounts, err := s.adapter.Accounts(ctx)
	if err != nil || len(accounts) == 0 {
		return
	}

	s.mu.Lock()
	s.connected = true
	s.address = accounts[0]
	s.mu.Unlock()
	s.notify()

	s.refreshAccount(ctx, accounts[0])
	log.Printf("level=info component=wallet msg=\"restored existing wallet session\" address=%s", FormatAddress(accounts[0]))
}

// Connect requests account access from the provider, then fetches balance and
// chain id and attempts an automatic switch to the target chain. A failed
// auto-switch leaves the session connected on the wrong network rather than
// failing the connect. A call arriving while another operation is in flight
// returns immediately without touching session state.
func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		log.Println("level=warn component=wallet msg=\"connect ignored; session busy\"")
		return nil
	}
	s.busy = true
	s.lastErr = ""
	s.mu.Unlock()
	s.notify()

	accounts, err := s.adapter.RequestAccounts(ctx)
	if err != nil {
		return s.fail(fmt.Errorf("request accounts: %w", err))
	}
	if len(accounts) == 0 {
		return s.fail(ErrUserRejected)
	}

	s.mu.Lock()
	s.connected = true
	s.address = accounts[0]
	s.mu.Unlock()
	s.notify()

	s.refreshAccount(ctx, accounts[0])

	if !s.switchChain(ctx, s.target.ChainID) {
		log.Printf("level=warn component=wallet msg=\"auto network switch failed; connected on wrong network\" target_chain_id=%d", s.target.ChainID)
	}

	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
	s.notify()
	return nil
}

// Disconnect clears every session field to its empty value. It always
// succeeds; wallet-side permissions cannot be revoked from here.
func (s *Session) Disconnect() {
	s.mu.Lock()
	s.address = ""
	s.balance = ""
	s.chainID = 0
	s.connected = false
	s.busy = false
	s.lastErr = ""
	s.mu.Unlock()
	s.notify()
}

// SwitchNetwork asks the provider to switch to targetChainID. It returns a
// boolean success indicator instead of an error so callers can branch without
// exception handling; failures are recorded on the session's error channel
// and leave the previous chain in place.
func (s *Session) SwitchNetwork(ctx context.Context, targetChainID int64) bool {
	s.mu.Lock()
	if !s.connected {
		s.mu.Unlock()
		s.recordError(ErrNotConnected)
		return false
	}
	if s.busy {
		s.mu.Unlock()
		return false
	}
	s.busy = true
	s.lastErr = ""
	s.mu.Unlock()
	s.notify()

	ok := s.switchChain(ctx, targetChainID)

	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
	s.notify()
	return ok
}

// switchChain performs the provider switch, registering the target chain's
// descriptor and retrying exactly once when the provider reports the chain as
// unrecognized. It does not manage the busy flag.
func (s *Session) switchChain(ctx context.Context, targetChainID int64) bool {
	err := s.adapter.SwitchChain(ctx, targetChainID)
	if errors.Is(err, ErrUnrecognizedChain) {
		if addErr := s.adapter.AddChain(ctx, s.target); addErr != nil {
			s.recordError(fmt.Errorf("%w: add chain: %v", ErrNetworkSwitchFailed, addErr))
			return false
		}
		err = s.adapter.SwitchChain(ctx, targetChainID)
	}
	if err != nil {
		s.recordError(fmt.Errorf("%w: %v", ErrNetworkSwitchFailed, err))
		return false
	}

	chainID, err := s.adapter.GetChainID(ctx)
	if err != nil {
		// The provider switch itself went through; the session just could
		// not confirm the new chain id and keeps its previous one.
		s.recordError(fmt.Errorf("fetch chain id: %w", err))
		return true
	}

	s.mu.Lock()
	if s.connected {
		s.chainID = chainID
	}
	addr := s.address
	s.mu.Unlock()
	s.notify()
	if addr != "" {
		s.refreshBalance(ctx, addr)
	}
	return true
}

// handleProviderEvent applies one provider notification. Zero accounts means
// the user revoked access and is treated as a disconnect.
func (s *Session) handleProviderEvent(ctx context.Context, ev ProviderEvent) {
	switch ev.Kind {
	case AccountsChanged:
		if len(ev.Accounts) == 0 {
			s.Disconnect()
			return
		}
		addr := ev.Accounts[0]
		s.mu.Lock()
		if !s.connected {
			s.mu.Unlock()
			return
		}
		s.address = addr
		s.mu.Unlock()
		s.notify()
		s.refreshBalance(ctx, addr)

	case ChainChanged:
		s.mu.Lock()
		if !s.connected {
			s.mu.Unlock()
			return
		}
		s.chainID = ev.ChainID
		addr := s.address
		s.mu.Unlock()
		s.notify()
		if addr != "" {
			s.refreshBalance(ctx, addr)
		}
	}
}

// refreshAccount fetches balance and chain id for the given address.
func (s *Session) refreshAccount(ctx context.Context, address string) {
	s.refreshBalance(ctx, address)

	chainID, err := s.adapter.GetChainID(ctx)
	if err != nil {
		s.recordError(fmt.Errorf("fetch chain id: %w", err))
		return
	}
	s.mu.Lock()
	if s.connected && s.address == address {
		s.chainID = chainID
	}
	s.mu.Unlock()
	s.notify()
}

// refreshBalance fetches the balance for address and applies it only if the
// session still holds that address when the fetch resolves.
func (s *Session) refreshBalance(ctx context.Context, address string) {
	balance, err := s.adapter.GetBalance(ctx, address)
	if err != nil {
		s.recordError(fmt.Errorf("fetch balance: %w", err))
		return
	}

	s.mu.Lock()
	if s.connected && s.address == address {
		s.balance = balance
	}
	s.mu.Unlock()
	s.notify()
}

// fail records the error, clears the busy flag and leaves the session in its
// prior connection state.
func (s *Session) fail(err error) error {
	s.mu.Lock()
	s.busy = false
	s.lastErr = err.Error()
	s.mu.Unlock()
	s.notify()
	log.Printf("level=error component=wallet msg=\"wallet operation failed\" err=%v", err)
	return err
}

func (s *Session) recordError(err error) {
	s.mu.Lock()
	s.lastErr = err.Error()
	s.mu.Unlock()
	s.notify()
	log.Printf("level=error component=wallet msg=\"wallet operation failed\" err=%v", err)
}
