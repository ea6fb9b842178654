/**
 * @description
 * This package is the production chain adapter: it wraps a go-ethereum RPC
 * client and a configured signing key to satisfy the wallet.ChainAdapter
 * contract. Accounts come from the configured key, balances and chain ids
 * from the RPC node, and donations are submitted as value-bearing calls to
 * the donation contract's `donate(address)` function.
 *
 * Key features:
 * - Chain registry: switching to a chain requires a registered descriptor
 *   with an RPC endpoint; unknown chains surface ErrUnrecognizedChain so the
 *   session can AddChain and retry, mirroring wallet-provider semantics.
 * - Provider notifications are emitted on a channel consumed by the wallet
 *   session's event loop.
 *
 * @dependencies
 * - github.com/ethereum/go-ethereum: RPC client, ABI packing, transaction
 *   signing.
 * - internal/domain, internal/wallet: Models and the adapter contract.
 */

package ethchain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/givechain/donation-service/internal/domain"
	"github.com/givechain/donation-service/internal/wallet"
)

// donationABI covers the single contract function this service calls.
const donationABI = `[{"inputs":[{"internalType":"address","name":"charity","type":"address"}],"name":"donate","outputs":[],"stateMutability":"payable","type":"function"}]`

var weiPerToken = new(big.Rat).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))

// Config carries what the adapter needs to reach a chain and sign donations.
type Config struct {
	// PrivateKeyHex is the hex-encoded signing key. Without it the adapter
	// has no account and connect attempts fail with ProviderUnavailable.
	PrivateKeyHex string
	// ContractAddress is the deployed donation contract.
	ContractAddress string
	// InitialChain is dialed at startup and pre-registered.
	InitialChain domain.ChainDescriptor
}

// Adapter implements wallet.ChainAdapter on top of go-ethereum.
type Adapter struct {
	contract common.Address
	abi      abi.ABI
	key      *ecdsa.PrivateKey
	account  common.Address

	mu      sync.Mutex
	client  *ethclient.Client
	chainID int64
	chains  map[int64]domain.ChainDescriptor

	events chan wallet.ProviderEvent
}

// New dials the initial chain's RPC endpoint and returns a ready adapter.
func New(cfg Config) (*Adapter, error) {
	parsedABI, err := abi.JSON(strings.NewReader(donationABI))
	if err != nil {
		return nil, fmt.Errorf("parse donation ABI: %w", err)
	}

	if len(cfg.InitialChain.RPCURLs) == 0 {
		return nil, fmt.Errorf("initial chain %d has no RPC endpoints", cfg.InitialChain.ChainID)
	}
	client, err := ethclient.Dial(cfg.InitialChain.RPCURLs[0])
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", cfg.InitialChain.RPCURLs[0], err)
	}

	a := &Adapter{
		contract: common.HexToAddress(cfg.ContractAddress),
		abi:      parsedABI,
		client:   client,
		chainID:  cfg.InitialChain.ChainID,
		chains:   map[int64]domain.ChainDescriptor{cfg.InitialChain.ChainID: cfg.InitialChain},
		events:   make(chan wallet.ProviderEvent, 16),
	}

	if trimmed := strings.TrimSpace(cfg.PrivateKeyHex); trimmed != "" {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(trimmed, "0x"))
		if err != nil {
			return nil, fmt.Errorf("parse signing key: %w", err)
		}
		a.key = key
		a.account = crypto.PubkeyToAddress(key.PublicKey)
	}

	return a, nil
}

// RequestAccounts returns the configured signing account. With no key there
// is no wallet to connect, which maps to ProviderUnavailable.
func (a *Adapter) RequestAccounts(ctx context.Context) ([]string, error) {
	if a.key == nil {
		return nil, wallet.ErrProviderUnavailable
	}
	return []string{a.account.Hex()}, nil
}

// Accounts returns the already-authorized accounts without prompting.
func (a *Adapter) Accounts(ctx context.Context) ([]string, error) {
	if a.key == nil {
		return nil, nil
	}
	return []string{a.account.Hex()}, nil
}

// GetBalance returns the address's balance in wei as a decimal string.
func (a *Adapter) GetBalance(ctx context.Context, address string) (string, error) {
	a.mu.Lock()
	client := a.client
	a.mu.Unlock()

	balance, err := client.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return "", fmt.Errorf("balance for %s: %w", address, err)
	}
	return balance.String(), nil
}

// GetChainID returns the active chain id as reported by the node.
func (a *Adapter) GetChainID(ctx context.Context) (int64, error) {
	a.mu.Lock()
	client := a.client
	a.mu.Unlock()

	id, err := client.ChainID(ctx)
	if err != nil {
		return 0, fmt.Errorf("chain id: %w", err)
	}
	return id.Int64(), nil
}

// SwitchChain re-dials against the registered endpoint for chainID and emits
// a ChainChanged event. An unregistered chain reports ErrUnrecognizedChain so
// the caller can register a descriptor and retry.
func (a *Adapter) SwitchChain(ctx context.Context, chainID int64) error {
	a.mu.Lock()
	desc, ok := a.chains[chainID]
	current := a.chainID
	a.mu.Unlock()

	if !ok {
		return wallet.ErrUnrecognizedChain
	}
	if current == chainID {
		return nil
	}

	client, err := ethclient.Dial(desc.RPCURLs[0])
	if err != nil {
		return fmt.Errorf("dial %s: %w", desc.RPCURLs[0], err)
	}
	reported, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return fmt.Errorf("verify chain id: %w", err)
	}
	if reported.Int64() != chainID {
		client.Close()
		return fmt.Errorf("endpoint %s serves chain %d, want %d", desc.RPCURLs[0], reported.Int64(), chainID)
	}

	a.mu.Lock()
	old := a.client
	a.client = client
	a.chainID = chainID
	a.mu.Unlock()
	old.Close()

	a.emit(wallet.ProviderEvent{Kind: wallet.ChainChanged, ChainID: chainID})
	return nil
}

// AddChain registers a chain descriptor so later switches can reach it.
func (a *Adapter) AddChain(ctx context.Context, desc domain.ChainDescriptor) error {
	if desc.ChainID == 0 || len(desc.RPCURLs) == 0 {
		return fmt.Errorf("chain descriptor must carry a chain id and an RPC endpoint")
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.chains[desc.ChainID] = desc
	return nil
}

// SendDonation submits a value-bearing donate(charity) call and waits for the
// transaction to be mined. Once dispatched the transaction cannot be aborted;
// the context only bounds the wait for inclusion.
func (a *Adapter) SendDonation(ctx context.Context, charityAddress string, amount string) (domain.TransactionReceipt, error) {
	if a.key == nil {
		return domain.TransactionReceipt{}, wallet.ErrNotConnected
	}

	value, err := tokenToWei(amount)
	if err != nil {
		return domain.TransactionReceipt{}, fmt.Errorf("%w: %v", wallet.ErrInvalidAmount, err)
	}

	callData, err := a.abi.Pack("donate", common.HexToAddress(charityAddress))
	if err != nil {
		return domain.TransactionReceipt{}, fmt.Errorf("pack donate call: %w", err)
	}

	a.mu.Lock()
	client := a.client
	chainID := a.chainID
	a.mu.Unlock()

	nonce, err := client.PendingNonceAt(ctx, a.account)
	if err != nil {
		return domain.TransactionReceipt{}, fmt.Errorf("fetch nonce: %w", err)
	}
	gasPrice, err := client.SuggestGasPrice(ctx)
	if err != nil {
		return domain.TransactionReceipt{}, fmt.Errorf("suggest gas price: %w", err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &a.contract,
		Value:    value,
		Gas:      200_000,
		GasPrice: gasPrice,
		Data:     callData,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(big.NewInt(chainID)), a.key)
	if err != nil {
		return domain.TransactionReceipt{}, fmt.Errorf("sign donation: %w", err)
	}

	if err := client.SendTransaction(ctx, signed); err != nil {
		return domain.TransactionReceipt{}, fmt.Errorf("%w: %v", wallet.ErrTransactionFailed, err)
	}

	receipt, err := bind.WaitMined(ctx, client, signed)
	if err != nil {
		return domain.TransactionReceipt{}, fmt.Errorf("wait for donation receipt: %w", err)
	}

	return domain.TransactionReceipt{Status: receipt.Status, Hash: signed.Hash().Hex()}, nil
}

// Events is the provider notification stream.
func (a *Adapter) Events() <-chan wallet.ProviderEvent {
	return a.events
}

// Close shuts the adapter down and closes the event stream.
func (a *Adapter) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.client.Close()
	close(a.events)
}

func (a *Adapter) emit(ev wallet.ProviderEvent) {
	select {
	case a.events <- ev:
	default:
		// Drop rather than block the RPC path; the session refetches state
		// on its next operation anyway.
	}
}

// tokenToWei converts a decimal native-token amount to wei. The donation
// guard has already validated the amount as a finite positive number; this
// conversion additionally rejects sub-wei precision.
func tokenToWei(amount string) (*big.Int, error) {
	r, ok := new(big.Rat).SetString(strings.TrimSpace(amount))
	if !ok {
		return nil, fmt.Errorf("not a decimal number: %q", amount)
	}
	if r.Sign() <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}
	r.Mul(r, weiPerToken)
	if !r.IsInt() {
		return nil, fmt.Errorf("amount is below 1 wei precision")
	}
	return r.Num(), nil
}
