package network

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Klingon-tech/klingwallet/internal/rpcclient"
)

// fakeNode serves eth_blockNumber and eth_chainId.
func fakeNode(t *testing.T, block, chainID string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var req struct {
			ID     uint64 `json:"id"`
			Method string `json:"method"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		result := block
		if req.Method == "eth_chainId" {
			result = chainID
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"jsonrpc": "2.0", "id": req.ID, "result": result})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestSupported(t *testing.T) {
	want := []struct {
		id      string
		chainID uint64
		symbol  string
	}{
		{Ethereum, 1, "ETH"},
		{Polygon, 137, "MATIC"},
		{Arbitrum, 42161, "ETH"},
		{Optimism, 10, "ETH"},
	}
	nets := Supported()
	if len(nets) != len(want) {
		t.Fatalf("Supported() has %d networks, want %d", len(nets), len(want))
	}
	for i, w := range want {
		if nets[i].ID != w.id || nets[i].ChainID != w.chainID || nets[i].NativeCurrency.Symbol != w.symbol {
			t.Errorf("network %d = %+v", i, nets[i])
		}
	}

	if _, ok := Lookup("solana"); ok {
		t.Error("Lookup(solana) should fail")
	}
	n, ok := Lookup(Polygon)
	if !ok {
		t.Fatal("Lookup(polygon) failed")
	}
	if got := n.ExplorerAddressURL("0xabc"); got != "https://polygonscan.com/address/0xabc" {
		t.Errorf("ExplorerAddressURL = %q", got)
	}
}

func TestRegistry_RPCURL(t *testing.T) {
	r := NewRegistry(map[string]string{
		Ethereum: "https://mainnet.infura.io/v3/",
		Polygon:  "https://polygon-rpc.example",
	}, "KEY", time.Second)

	n, err := r.Network(Ethereum)
	if err != nil {
		t.Fatalf("Network: %v", err)
	}
	if n.RPCURL != "https://mainnet.infura.io/v3/KEY" {
		t.Errorf("RPCURL = %q", n.RPCURL)
	}
	if !r.Configured(Ethereum) || !r.Configured(Polygon) {
		t.Error("ethereum and polygon should be configured")
	}
	if r.Configured(Arbitrum) {
		t.Error("arbitrum has no base URL and should not be configured")
	}

	if _, err := r.Network("solana"); !errors.Is(err, ErrUnknownNetwork) {
		t.Errorf("Network(solana) error = %v, want ErrUnknownNetwork", err)
	}
	if got := r.ChainIDs()[Arbitrum]; got != 42161 {
		t.Errorf("ChainIDs()[arbitrum] = %d", got)
	}
}

func TestRegistry_ClientNotConfigured(t *testing.T) {
	r := NewRegistry(map[string]string{Ethereum: "https://mainnet.infura.io/v3/"}, "", time.Second)

	if _, err := r.Client(Ethereum); !errors.Is(err, ErrRPCNotConfigured) {
		t.Errorf("Client(ethereum) error = %v, want ErrRPCNotConfigured", err)
	}
	if _, err := r.Client(Optimism); !errors.Is(err, ErrRPCNotConfigured) {
		t.Errorf("Client(optimism) error = %v, want ErrRPCNotConfigured", err)
	}
	if _, err := r.Client("solana"); !errors.Is(err, ErrUnknownNetwork) {
		t.Errorf("Client(solana) error = %v, want ErrUnknownNetwork", err)
	}
}

func TestRegistry_ClientCached(t *testing.T) {
	r := NewRegistry(map[string]string{Polygon: "http://127.0.0.1:1/"}, "key", time.Second)

	var wg sync.WaitGroup
	clients := make([]*rpcclient.Client, 16)
	for i := range clients {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := r.Client(Polygon)
			if err != nil {
				t.Errorf("Client: %v", err)
				return
			}
			clients[i] = c
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(clients); i++ {
		if clients[i] != clients[0] {
			t.Fatal("concurrent Client calls returned different instances")
		}
	}

	r.Reset()
	c, err := r.Client(Polygon)
	if err != nil {
		t.Fatalf("Client after Reset: %v", err)
	}
	if c == clients[0] {
		t.Error("Reset should drop cached clients")
	}
}

func TestRegistry_Ping(t *testing.T) {
	live, _ := fakeNode(t, "0x10", "0x1")
	genesis, _ := fakeNode(t, "0x0", "0x89")

	r := NewRegistry(map[string]string{
		Ethereum: live.URL,
		Polygon:  genesis.URL,
	}, "", time.Second)

	ctx := context.Background()
	if !r.Ping(ctx, Ethereum) {
		t.Error("Ping(ethereum) = false, want true")
	}
	if r.Ping(ctx, Polygon) {
		t.Error("Ping(polygon) at block 0 = true, want false")
	}
	if r.Ping(ctx, Arbitrum) {
		t.Error("Ping(arbitrum) without RPC = true, want false")
	}
}

func TestRegistry_Status(t *testing.T) {
	live, calls := fakeNode(t, "0x10", "0x1")
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer down.Close()

	r := NewRegistry(map[string]string{
		Ethereum: live.URL,
		Polygon:  live.URL,
		Arbitrum: down.URL,
	}, "", time.Second)

	status := r.Status(context.Background())
	want := map[string]bool{Ethereum: true, Polygon: true, Arbitrum: false, Optimism: false}
	for id, w := range want {
		if status[id] != w {
			t.Errorf("Status()[%s] = %v, want %v", id, status[id], w)
		}
	}
	if len(status) != len(want) {
		t.Errorf("Status() has %d entries, want %d", len(status), len(want))
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("live node calls = %d, want 2", got)
	}
}

func TestRegistry_StatusCanceled(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer slow.Close()

	r := NewRegistry(map[string]string{Ethereum: slow.URL}, "", 10*time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	status := r.Status(ctx)
	if status[Ethereum] {
		t.Error("Status()[ethereum] = true for a node that never answered")
	}
	if time.Since(start) > 2*time.Second {
		t.Error("Status() did not honour context cancellation")
	}
}

func TestRegistry_StatusFailureDoesNotCancelOthers(t *testing.T) {
	live, _ := fakeNode(t, "0x10", "0x1")
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		live.Config.Handler.ServeHTTP(w, r)
	}))
	defer slow.Close()
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer down.Close()

	r := NewRegistry(map[string]string{
		Ethereum: slow.URL,
		Polygon:  down.URL,
	}, "", 5*time.Second)

	status := r.Status(context.Background())
	if !status[Ethereum] {
		t.Error("Status()[ethereum] = false; a failing network cancelled a healthy one")
	}
	if status[Polygon] {
		t.Error("Status()[polygon] = true for a failing node")
	}
}

func TestRegistry_VerifyChainID(t *testing.T) {
	eth, _ := fakeNode(t, "0x10", "0x1")
	wrong, _ := fakeNode(t, "0x10", "0x1")

	r := NewRegistry(map[string]string{Ethereum: eth.URL, Optimism: wrong.URL}, "", time.Second)
	if err := r.VerifyChainID(context.Background(), Ethereum); err != nil {
		t.Errorf("VerifyChainID(ethereum): %v", err)
	}
	if err := r.VerifyChainID(context.Background(), Optimism); err == nil {
		t.Error("VerifyChainID(optimism) should fail against a chain 1 endpoint")
	}
}
