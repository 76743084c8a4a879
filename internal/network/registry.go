package network

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	klog "github.com/Klingon-tech/klingwallet/internal/log"
	"github.com/Klingon-tech/klingwallet/internal/rpcclient"
	"golang.org/x/sync/errgroup"
)

// Registry errors.
var (
	ErrUnknownNetwork   = errors.New("unknown network")
	ErrRPCNotConfigured = errors.New("rpc url not configured")
)

// Registry resolves networks to RPC endpoints and caches one client per
// network. Safe for concurrent use.
type Registry struct {
	networks map[string]Network
	timeout  time.Duration

	mu      sync.Mutex
	clients map[string]*rpcclient.Client
}

// NewRegistry builds a registry from per-network base URLs. The RPC URL of
// each network is its base URL with apiKey appended, so a base URL ending
// in "/" and an empty key leaves the network unconfigured.
func NewRegistry(baseURLs map[string]string, apiKey string, timeout time.Duration) *Registry {
	nets := make(map[string]Network, len(supported))
	for _, n := range supported {
		if base := baseURLs[n.ID]; base != "" {
			n.RPCURL = base + apiKey
		}
		nets[n.ID] = n
	}
	return &Registry{
		networks: nets,
		timeout:  timeout,
		clients:  make(map[string]*rpcclient.Client),
	}
}

// Network returns the network with the given ID, including its RPC URL.
func (r *Registry) Network(id string) (Network, error) {
	n, ok := r.networks[id]
	if !ok {
		return Network{}, fmt.Errorf("%w: %q", ErrUnknownNetwork, id)
	}
	return n, nil
}

// ChainIDs maps network ID to EIP-155 chain ID.
func (r *Registry) ChainIDs() map[string]uint64 {
	out := make(map[string]uint64, len(r.networks))
	for id, n := range r.networks {
		out[id] = n.ChainID
	}
	return out
}

// Configured reports whether the network has a usable RPC URL.
func (r *Registry) Configured(id string) bool {
	n, ok := r.networks[id]
	return ok && rpcConfigured(n.RPCURL)
}

func rpcConfigured(url string) bool {
	return url != "" && !strings.HasSuffix(url, "/")
}

// Client returns the cached client for a network, creating it on first use.
func (r *Registry) Client(id string) (*rpcclient.Client, error) {
	n, err := r.Network(id)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.clients[id]; ok {
		return c, nil
	}
	if !rpcConfigured(n.RPCURL) {
		return nil, fmt.Errorf("%w for %s", ErrRPCNotConfigured, id)
	}
	c := rpcclient.NewWithTimeout(n.RPCURL, r.timeout)
	r.clients[id] = c
	klog.Network.Debug().Str("network", id).Msg("RPC client created")
	return c, nil
}

// Ping reports whether the network answers eth_blockNumber with a
// non-zero block. Failures are logged and reported as false.
func (r *Registry) Ping(ctx context.Context, id string) bool {
	logger := klog.WithNetwork(id)

	c, err := r.Client(id)
	if err != nil {
		logger.Warn().Err(err).Msg("Connectivity test failed")
		return false
	}
	n, err := c.BlockNumber(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Connectivity test failed")
		return false
	}
	return n > 0
}

// VerifyChainID checks that the endpoint serves the expected chain.
func (r *Registry) VerifyChainID(ctx context.Context, id string) error {
	n, err := r.Network(id)
	if err != nil {
		return err
	}
	c, err := r.Client(id)
	if err != nil {
		return err
	}
	got, err := c.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("query chain id of %s: %w", id, err)
	}
	if got != n.ChainID {
		return fmt.Errorf("%s endpoint serves chain %d, want %d", id, got, n.ChainID)
	}
	return nil
}

// Status pings every network concurrently. A network that fails or does
// not answer before ctx is done reports false.
func (r *Registry) Status(ctx context.Context) map[string]bool {
	ids := IDs()
	results := make([]bool, len(ids))

	// One network failing must not cancel the others, so no goroutine
	// returns an error and the group carries no derived context.
	var g errgroup.Group
	for i, id := range ids {
		g.Go(func() error {
			results[i] = r.Ping(ctx, id)
			return nil
		})
	}
	_ = g.Wait() // always nil; failures are recorded as false

	status := make(map[string]bool, len(ids))
	for i, id := range ids {
		status[id] = results[i]
	}
	return status
}

// Reset drops every cached client.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients = make(map[string]*rpcclient.Client)
}
