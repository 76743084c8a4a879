package rpcclient

import (
	"context"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// BlockNumber returns the head block number reported by eth_blockNumber.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	var n hexutil.Uint64
	if err := c.CallContext(ctx, "eth_blockNumber", &n); err != nil {
		return 0, err
	}
	return uint64(n), nil
}

// ChainID returns the chain ID reported by eth_chainId.
func (c *Client) ChainID(ctx context.Context) (uint64, error) {
	var id hexutil.Uint64
	if err := c.CallContext(ctx, "eth_chainId", &id); err != nil {
		return 0, err
	}
	return uint64(id), nil
}
