// Package network describes the supported EVM networks and manages the
// JSON-RPC clients used to reach them.
package network

// Network IDs in display order.
const (
	Ethereum = "ethereum"
	Polygon  = "polygon"
	Arbitrum = "arbitrum"
	Optimism = "optimism"
)

// Currency describes a network's native coin.
type Currency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

// Network is a supported EVM chain. RPCURL is filled in by the Registry.
type Network struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	ChainID        uint64   `json:"chainId"`
	RPCURL         string   `json:"-"`
	ExplorerURL    string   `json:"explorerUrl"`
	NativeCurrency Currency `json:"nativeCurrency"`
}

var ether = Currency{Name: "Ether", Symbol: "ETH", Decimals: 18}

var supported = []Network{
	{
		ID:             Ethereum,
		Name:           "Ethereum",
		ChainID:        1,
		ExplorerURL:    "https://etherscan.io",
		NativeCurrency: ether,
	},
	{
		ID:             Polygon,
		Name:           "Polygon",
		ChainID:        137,
		ExplorerURL:    "https://polygonscan.com",
		NativeCurrency: Currency{Name: "Matic", Symbol: "MATIC", Decimals: 18},
	},
	{
		ID:             Arbitrum,
		Name:           "Arbitrum One",
		ChainID:        42161,
		ExplorerURL:    "https://arbiscan.io",
		NativeCurrency: ether,
	},
	{
		ID:             Optimism,
		Name:           "Optimism",
		ChainID:        10,
		ExplorerURL:    "https://optimistic.etherscan.io",
		NativeCurrency: ether,
	},
}

// Supported returns the supported networks in display order.
func Supported() []Network {
	out := make([]Network, len(supported))
	copy(out, supported)
	return out
}

// IDs returns the supported network IDs in display order.
func IDs() []string {
	ids := make([]string, len(supported))
	for i, n := range supported {
		ids[i] = n.ID
	}
	return ids
}

// Lookup returns the network with the given ID.
func Lookup(id string) (Network, bool) {
	for _, n := range supported {
		if n.ID == id {
			return n, true
		}
	}
	return Network{}, false
}

// ExplorerAddressURL links to addr on the network's block explorer.
func (n Network) ExplorerAddressURL(addr string) string {
	return n.ExplorerURL + "/address/" + addr
}
