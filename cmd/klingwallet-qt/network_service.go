package main

import (
	"context"

	"github.com/Klingon-tech/klingwallet/internal/network"
)

// NetworkService exposes the supported networks and the user's selection.
type NetworkService struct {
	app *App
}

// NetworkEntry describes a network for the selection screen.
type NetworkEntry struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ChainID    uint64 `json:"chain_id"`
	Symbol     string `json:"symbol"`
	Explorer   string `json:"explorer"`
	Selected   bool   `json:"selected"`
	Configured bool   `json:"configured"`
}

// GetNetworks returns every supported network with its selection state.
func (n *NetworkService) GetNetworks() ([]NetworkEntry, error) {
	selected, err := n.app.prefs.SelectedNetworks(network.IDs())
	if err != nil {
		return nil, uiError(err)
	}
	on := make(map[string]bool, len(selected))
	for _, id := range selected {
		on[id] = true
	}

	reg := n.app.networks()
	supported := network.Supported()
	entries := make([]NetworkEntry, len(supported))
	for i, net := range supported {
		entries[i] = NetworkEntry{
			ID:         net.ID,
			Name:       net.Name,
			ChainID:    net.ChainID,
			Symbol:     net.NativeCurrency.Symbol,
			Explorer:   net.ExplorerURL,
			Selected:   on[net.ID],
			Configured: reg.Configured(net.ID),
		}
	}
	return entries, nil
}

// SetSelectedNetworks stores which networks the user wants to see.
func (n *NetworkService) SetSelectedNetworks(ids []string) error {
	for _, id := range ids {
		if _, ok := network.Lookup(id); !ok {
			return uiError(network.ErrUnknownNetwork)
		}
	}
	if err := n.app.prefs.SetSelectedNetworks(ids); err != nil {
		return uiError(err)
	}
	return nil
}

// GetExplorerURL returns the block explorer page for addr on a network.
func (n *NetworkService) GetExplorerURL(id, addr string) (string, error) {
	net, ok := network.Lookup(id)
	if !ok {
		return "", uiError(network.ErrUnknownNetwork)
	}
	return net.ExplorerAddressURL(addr), nil
}

// TestConnection checks that a network's RPC endpoint answers and serves
// the expected chain.
func (n *NetworkService) TestConnection(id string) (bool, error) {
	ctx := n.app.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, n.app.cfg.RPC.Timeout)
	defer cancel()

	if err := n.app.networks().VerifyChainID(ctx, id); err != nil {
		return false, uiError(err)
	}
	return true, nil
}
