package wallet

import (
	"context"
	"errors"
	"testing"

	"github.com/givechain/donation-service/internal/domain"
)

var testChain = domain.ChainDescriptor{
	ChainID: 50312,
	Name:    "Somnia Shannon Testnet",
	NativeCurrency: domain.NativeCurrency{
		Name: "Somnia Test Token", Symbol: "STT", Decimals: 18,
	},
	RPCURLs:      []string{"https://dream-rpc.somnia.network"},
	ExplorerURLs: []string{"https://shannon-explorer.somnia.network"},
}

type adapterStub struct {
	ChainAdapter

	accounts        []string
	requestErr      error
	balances        map[string]string
	balanceErr      error
	chainID         int64
	chainIDErr      error
	switchErrs      []error // consumed per SwitchChain call
	switchCalls     int
	addChainCalls   int
	addChainErr     error
	switchedTo      []int64
	requestedPrompt int
}

func (a *adapterStub) RequestAccounts(ctx context.Context) ([]string, error) {
	a.requestedPrompt++
	if a.requestErr != nil {
		return nil, a.requestErr
	}
	return a.accounts, nil
}

func (a *adapterStub) Accounts(ctx context.Context) ([]string, error) {
	return a.accounts, nil
}

func (a *adapterStub) GetBalance(ctx context.Context, address string) (string, error) {
	if a.balanceErr != nil {
		return "", a.balanceErr
	}
	if b, ok := a.balances[address]; ok {
		return b, nil
	}
	return "0", nil
}

func (a *adapterStub) GetChainID(ctx context.Context) (int64, error) {
	if a.chainIDErr != nil {
		return 0, a.chainIDErr
	}
	return a.chainID, nil
}

func (a *adapterStub) SwitchChain(ctx context.Context, chainID int64) error {
	call := a.switchCalls
	a.switchCalls++
	a.switchedTo = append(a.switchedTo, chainID)
	if call < len(a.switchErrs) {
		if err := a.switchErrs[call]; err != nil {
			return err
		}
	}
	a.chainID = chainID
	return nil
}

func (a *adapterStub) AddChain(ctx context.Context, desc domain.ChainDescriptor) error {
	a.addChainCalls++
	return a.addChainErr
}

const (
	addrAlice = "0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B"
	addrBob   = "0x4bbeEB066eD09B7AEd07bF39EEe0460DFa261520"
)

func connectedSession(t *testing.T, stub *adapterStub) *Session {
	t.Helper()
	sess := NewSession(stub, testChain)
	if err := sess.Connect(context.Background()); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	return sess
}

func TestConnect_Success(t *testing.T) {
	stub := &adapterStub{
		accounts: []string{addrAlice},
		balances: map[string]string{addrAlice: "1500000000000000000"},
		chainID:  testChain.ChainID,
	}
	sess := connectedSession(t, stub)

	snap := sess.Snapshot()
	if !snap.Connected || snap.Address != addrAlice {
		t.Fatalf("expected connected session for %s, got %+v", addrAlice, snap)
	}
	if snap.Balance != "1500000000000000000" {
		t.Fatalf("expected balance fetched, got %q", snap.Balance)
	}
	if snap.ChainID != testChain.ChainID || snap.WrongNetwork {
		t.Fatalf("expected target chain, got %+v", snap)
	}
	if snap.Busy || snap.LastError != "" {
		t.Fatalf("expected idle error-free session, got %+v", snap)
	}
}

func TestConnect_ProviderUnavailableStaysDisconnected(t *testing.T) {
	stub := &adapterStub{requestErr: ErrProviderUnavailable}
	sess := NewSession(stub, testChain)

	err := sess.Connect(context.Background())
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}

	snap := sess.Snapshot()
	if snap.Connected || snap.Address != "" {
		t.Fatalf("expected disconnected session, got %+v", snap)
	}
	if snap.Busy {
		t.Fatal("expected busy flag cleared after failure")
	}
	if snap.LastError == "" {
		t.Fatal("expected failure recorded on the error channel")
	}
}

func TestConnect_UserRejectedReturnsToDisconnected(t *testing.T) {
	stub := &adapterStub{requestErr: ErrUserRejected}
	sess := NewSession(stub, testChain)

	if err := sess.Connect(context.Background()); !errors.Is(err, ErrUserRejected) {
		t.Fatalf("expected ErrUserRejected, got %v", err)
	}
	if snap := sess.Snapshot(); snap.Connected {
		t.Fatalf("expected disconnected session, got %+v", snap)
	}
}

func TestConnect_FailedAutoSwitchLeavesWrongNetworkSession(t *testing.T) {
	stub := &adapterStub{
		accounts:   []string{addrAlice},
		chainID:    1,
		switchErrs: []error{errors.New("switch rejected"), errors.New("switch rejected")},
	}
	sess := NewSession(stub, testChain)

	// The connect itself must not fail when the auto-switch does.
	if err := sess.Connect(context.Background()); err != nil {
		t.Fatalf("expected connect to succeed despite switch failure, got %v", err)
	}

	snap := sess.Snapshot()
	if !snap.Connected {
		t.Fatal("expected session to remain connected")
	}
	if !snap.WrongNetwork {
		t.Fatalf("expected wrong-network session, got chain %d", snap.ChainID)
	}
}

func TestSwitchNetwork_UnrecognizedChainAddsThenRetriesExactlyOnce(t *testing.T) {
	stub := &adapterStub{
		accounts:   []string{addrAlice},
		chainID:    1,
		switchErrs: []error{ErrUnrecognizedChain, ErrUnrecognizedChain}, // connect's auto-switch burns the first
	}
	sess := connectedSession(t, stub)
	stub.switchCalls, stub.switchedTo, stub.addChainCalls, stub.switchErrs = 0, nil, 0, []error{ErrUnrecognizedChain}

	if ok := sess.SwitchNetwork(context.Background(), testChain.ChainID); !ok {
		t.Fatal("expected switch to succeed after add-chain retry")
	}
	if stub.addChainCalls != 1 {
		t.Fatalf("expected exactly one add-chain attempt, got %d", stub.addChainCalls)
	}
	if stub.switchCalls != 2 {
		t.Fatalf("expected exactly one retry (2 switch calls), got %d", stub.switchCalls)
	}
	if snap := sess.Snapshot(); snap.ChainID != testChain.ChainID {
		t.Fatalf("expected chain updated to %d, got %d", testChain.ChainID, snap.ChainID)
	}
}

func TestSwitchNetwork_AddChainFailureReportsSwitchFailed(t *testing.T) {
	stub := &adapterStub{
		accounts:    []string{addrAlice},
		chainID:     1,
		switchErrs:  []error{nil, ErrUnrecognizedChain},
		addChainErr: errors.New("user declined add"),
	}
	sess := connectedSession(t, stub)

	if ok := sess.SwitchNetwork(context.Background(), 99999); ok {
		t.Fatal("expected switch to fail")
	}
	snap := sess.Snapshot()
	if snap.ChainID != testChain.ChainID {
		t.Fatalf("expected session to keep its previous chain, got %d", snap.ChainID)
	}
	if snap.LastError == "" {
		t.Fatal("expected NetworkSwitchFailed recorded")
	}
}

func TestSwitchNetwork_ChainIDRefreshFailureRecordsError(t *testing.T) {
	stub := &adapterStub{
		accounts: []string{addrAlice},
		chainID:  testChain.ChainID,
	}
	sess := connectedSession(t, stub)

	// The provider switch succeeds but confirming the new chain id does not.
	stub.chainIDErr = errors.New("rpc timeout")

	if ok := sess.SwitchNetwork(context.Background(), 1); !ok {
		t.Fatal("expected provider switch itself to succeed")
	}
	snap := sess.Snapshot()
	if snap.ChainID != testChain.ChainID {
		t.Fatalf("expected session to keep its previous chain id, got %d", snap.ChainID)
	}
	if snap.LastError == "" {
		t.Fatal("expected chain id fetch failure recorded")
	}
}

func TestSwitchNetwork_WhileDisconnectedFails(t *testing.T) {
	sess := NewSession(&adapterStub{}, testChain)
	if ok := sess.SwitchNetwork(context.Background(), testChain.ChainID); ok {
		t.Fatal("expected switch to fail while disconnected")
	}
}

func TestDisconnect_ClearsEveryField(t *testing.T) {
	stub := &adapterStub{
		accounts: []string{addrAlice},
		balances: map[string]string{addrAlice: "42"},
		chainID:  testChain.ChainID,
	}
	sess := connectedSession(t, stub)

	sess.Disconnect()

	snap := sess.Snapshot()
	if snap.Address != "" || snap.Balance != "" || snap.ChainID != 0 {
		t.Fatalf("expected all fields cleared, got %+v", snap)
	}
	if snap.Connected || snap.Busy || snap.LastError != "" {
		t.Fatalf("expected clean disconnected state, got %+v", snap)
	}
}

func TestHandleProviderEvent_ZeroAccountsDisconnects(t *testing.T) {
	stub := &adapterStub{accounts: []string{addrAlice}, chainID: testChain.ChainID}
	sess := connectedSession(t, stub)

	sess.handleProviderEvent(context.Background(), ProviderEvent{Kind: AccountsChanged})

	if snap := sess.Snapshot(); snap.Connected || snap.Address != "" {
		t.Fatalf("expected disconnect on zero accounts, got %+v", snap)
	}
}

func TestHandleProviderEvent_NewAccountUpdatesAddressAndBalance(t *testing.T) {
	stub := &adapterStub{
		accounts: []string{addrAlice},
		balances: map[string]string{addrAlice: "100", addrBob: "250"},
		chainID:  testChain.ChainID,
	}
	sess := connectedSession(t, stub)

	sess.handleProviderEvent(context.Background(), ProviderEvent{
		Kind:     AccountsChanged,
		Accounts: []string{addrBob},
	})

	snap := sess.Snapshot()
	if snap.Address != addrBob {
		t.Fatalf("expected address switched to %s, got %s", addrBob, snap.Address)
	}
	if snap.Balance != "250" {
		t.Fatalf("expected balance refetched for new account, got %q", snap.Balance)
	}
}

func TestHandleProviderEvent_ChainChangedUpdatesChainAndBalance(t *testing.T) {
	stub := &adapterStub{
		accounts: []string{addrAlice},
		balances: map[string]string{addrAlice: "777"},
		chainID:  testChain.ChainID,
	}
	sess := connectedSession(t, stub)

	sess.handleProviderEvent(context.Background(), ProviderEvent{Kind: ChainChanged, ChainID: 1})

	snap := sess.Snapshot()
	if snap.ChainID != 1 || !snap.WrongNetwork {
		t.Fatalf("expected wrong-network after chain change, got %+v", snap)
	}
}

func TestRefreshBalance_StaleFetchDoesNotClobberNewAccount(t *testing.T) {
	stub := &adapterStub{
		accounts: []string{addrAlice},
		balances: map[string]string{addrAlice: "100", addrBob: "250"},
		chainID:  testChain.ChainID,
	}
	sess := connectedSession(t, stub)

	// Account switches while a balance fetch for the old address resolves.
	sess.handleProviderEvent(context.Background(), ProviderEvent{
		Kind:     AccountsChanged,
		Accounts: []string{addrBob},
	})
	sess.refreshBalance(context.Background(), addrAlice)

	if snap := sess.Snapshot(); snap.Balance != "250" {
		t.Fatalf("expected stale balance discarded, got %q", snap.Balance)
	}
}

func TestConnect_ShortCircuitsWhileBusy(t *testing.T) {
	stub := &adapterStub{accounts: []string{addrAlice}, chainID: testChain.ChainID}
	sess := NewSession(stub, testChain)

	sess.mu.Lock()
	sess.busy = true
	sess.mu.Unlock()

	if err := sess.Connect(context.Background()); err != nil {
		t.Fatalf("expected busy connect to short-circuit cleanly, got %v", err)
	}
	if stub.requestedPrompt != 0 {
		t.Fatal("expected no provider prompt while busy")
	}
}

func TestSubscribe_NotifiesOnDisconnect(t *testing.T) {
	stub := &adapterStub{accounts: []string{addrAlice}, chainID: testChain.ChainID}
	sess := connectedSession(t, stub)

	updates, cancel := sess.Subscribe()
	defer cancel()

	sess.Disconnect()

	select {
	case snap := <-updates:
		if snap.Connected {
			t.Fatalf("expected disconnected snapshot, got %+v", snap)
		}
	default:
		t.Fatal("expected a snapshot delivered to the subscriber")
	}
}

func TestFormatHelpers(t *testing.T) {
	if got := FormatAddress(addrAlice); got != "0xAb58...eC9B" {
		t.Fatalf("unexpected short address: %q", got)
	}
	if got := FormatAddress(""); got != "N/A" {
		t.Fatalf("expected N/A for empty address, got %q", got)
	}
	if got := FormatBalance("1500000000000000000"); got != "1.5000" {
		t.Fatalf("unexpected formatted balance: %q", got)
	}
	if got := FormatBalance("not-a-number"); got != "0.0000" {
		t.Fatalf("expected zero for unparseable balance, got %q", got)
	}
	if got := ChainName(11155111); got != "Sepolia Testnet" {
		t.Fatalf("unexpected chain name: %q", got)
	}
}
