// Package tokens is the curated token-metadata collaborator. The resolver
// emits raw addresses; the HTTP layer uses this registry to fill in symbol
// and decimals best effort after resolution.
package tokens

import (
	"strings"
	"sync"

	"github.com/cantonlink/route-engine/internal/domain"
)

type Token struct {
	ChainID  string `json:"chainId"`
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals uint8  `json:"decimals"`
}

type Registry struct {
	mu      sync.RWMutex
	byChain map[string][]Token
}

// NewRegistry builds the registry from the built-in curated list.
func NewRegistry() *Registry {
	r := &Registry{byChain: make(map[string][]Token)}
	for _, t := range curated {
		key := chainKey(t.ChainID)
		r.byChain[key] = append(r.byChain[key], t)
	}
	return r
}

// Add registers or replaces a token entry. Used by tests and by deployments
// that extend the built-in list from config.
func (r *Registry) Add(t Token) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := chainKey(t.ChainID)
	list := r.byChain[key]
	for i, existing := range list {
		if strings.EqualFold(existing.Address, t.Address) {
			list[i] = t
			return
		}
	}
	r.byChain[key] = append(list, t)
}

// Find returns the token at address on chainID, if curated.
func (r *Registry) Find(chainID, address string) (Token, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.byChain[chainKey(chainID)] {
		if strings.EqualFold(t.Address, address) {
			return t, true
		}
	}
	return Token{}, false
}

// List returns all curated tokens for a chain.
func (r *Registry) List(chainID string) []Token {
	r.mu.RLock()
	defer r.mu.RUnlock()

	src := r.byChain[chainKey(chainID)]
	out := make([]Token, len(src))
	copy(out, src)
	return out
}

// Search matches symbol or name substrings, case-insensitive. An empty
// query lists the whole chain.
func (r *Registry) Search(chainID, query string) []Token {
	if query == "" {
		return r.List(chainID)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(query)
	var out []Token
	for _, t := range r.byChain[chainKey(chainID)] {
		if strings.Contains(strings.ToLower(t.Symbol), q) || strings.Contains(strings.ToLower(t.Name), q) {
			out = append(out, t)
		}
	}
	return out
}

// Enrich fills symbol and decimals on both token descriptors of a route,
// leaving unknown addresses untouched.
func (r *Registry) Enrich(route *domain.Route) {
	if route == nil {
		return
	}
	if t, ok := r.Find(route.FromChain, route.FromToken.Address); ok {
		route.FromToken.Symbol = t.Symbol
		route.FromToken.Decimals = t.Decimals
	}
	if t, ok := r.Find(route.ToChain, route.ToToken.Address); ok {
		route.ToToken.Symbol = t.Symbol
		route.ToToken.Decimals = t.Decimals
	}
}

func chainKey(chainID string) string {
	return strings.ToLower(strings.TrimSpace(chainID))
}

var curated = []Token{
	// Ethereum mainnet
	{ChainID: "1", Address: "0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE", Symbol: "ETH", Name: "Ether", Decimals: 18},
	{ChainID: "1", Address: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", Symbol: "WETH", Name: "Wrapped Ether", Decimals: 18},
	{ChainID: "1", Address: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", Symbol: "USDC", Name: "USD Coin", Decimals: 6},
	{ChainID: "1", Address: "0xdAC17F958D2ee523a2206206994597C13D831ec7", Symbol: "USDT", Name: "Tether USD", Decimals: 6},
	{ChainID: "1", Address: "0x6B175474E89094C44Da98b954EedeAC495271d0F", Symbol: "DAI", Name: "Dai Stablecoin", Decimals: 18},
	{ChainID: "1", Address: "0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599", Symbol: "WBTC", Name: "Wrapped BTC", Decimals: 8},

	// Arbitrum One
	{ChainID: "42161", Address: "0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE", Symbol: "ETH", Name: "Ether", Decimals: 18},
	{ChainID: "42161", Address: "0xaf88d065e77c8cC2239327C5EDb3A432268e5831", Symbol: "USDC", Name: "USD Coin", Decimals: 6},
	{ChainID: "42161", Address: "0xFd086bC7CD5C481DCC9C85ebE478A1C0b69FCbb9", Symbol: "USDT", Name: "Tether USD", Decimals: 6},

	// Base
	{ChainID: "8453", Address: "0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE", Symbol: "ETH", Name: "Ether", Decimals: 18},
	{ChainID: "8453", Address: "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913", Symbol: "USDC", Name: "USD Coin", Decimals: 6},

	// Polygon
	{ChainID: "137", Address: "0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE", Symbol: "POL", Name: "Polygon", Decimals: 18},
	{ChainID: "137", Address: "0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359", Symbol: "USDC", Name: "USD Coin", Decimals: 6},

	// Solana
	{ChainID: "solana", Address: "So11111111111111111111111111111111111111112", Symbol: "SOL", Name: "Wrapped SOL", Decimals: 9},
	{ChainID: "solana", Address: "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", Symbol: "USDC", Name: "USD Coin", Decimals: 6},
	{ChainID: "solana", Address: "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB", Symbol: "USDT", Name: "Tether USD", Decimals: 6},

	// Sui
	{ChainID: "sui", Address: "0x2::sui::SUI", Symbol: "SUI", Name: "Sui", Decimals: 9},
	{ChainID: "sui", Address: "0xdba34672e30cb065b1f93e3ab55318768fd6fef66c15942c9f7cb846e2f900e7::usdc::USDC", Symbol: "USDC", Name: "USD Coin", Decimals: 6},

	// Canton settlement network
	{ChainID: "canton", Address: "canton:native", Symbol: "CC", Name: "Canton Coin", Decimals: 10},
	{ChainID: "canton", Address: "canton:usdc", Symbol: "USDCx", Name: "Circle USDCx", Decimals: 6},
	{ChainID: "canton", Address: "canton:usdt", Symbol: "USDTx", Name: "Tether USDx", Decimals: 6},
}
