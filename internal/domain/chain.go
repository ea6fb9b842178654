package domain

// NativeCurrency describes the native token of a chain, as required when
// registering an unrecognized chain with the wallet provider.
type NativeCurrency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

// ChainDescriptor is the full descriptor of a chain: enough for the provider
// to register it when a switch reports the chain as unknown.
type ChainDescriptor struct {
	ChainID        int64          `json:"chain_id"`
	Name           string         `json:"name"`
	NativeCurrency NativeCurrency `json:"native_currency"`
	RPCURLs        []string       `json:"rpc_urls"`
	ExplorerURLs   []string       `json:"explorer_urls"`
}
