// Package canton covers the settlement network. There is no public DEX API:
// swaps are priced at CoinGecko spot rate and executed by the user's wallet
// against the ledger, and the only bridge in or out is Circle xReserve.
package canton

import (
	"context"
	"fmt"
	"math"
	"math/big"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"

	"github.com/cantonlink/route-engine/internal/adapters/httpclient"
	"github.com/cantonlink/route-engine/internal/domain"
	"github.com/cantonlink/route-engine/internal/routing"
)

const (
	NativeToken = "canton:native"
	USDCToken   = "canton:usdc"
	USDTToken   = "canton:usdt"

	// Splice transfer fee tier applied on top of the spot rate.
	spliceFeeBps = 30

	priceCacheTTL = 60 * time.Second

	// Last-resort CC/USD price when CoinGecko is unreachable and no cached
	// value exists.
	fallbackCCPriceUSD = 0.166
)

var tokenDecimals = map[string]int{
	NativeToken: 10,
	USDCToken:   6,
	USDTToken:   6,
}

type SwapAdapter struct {
	baseURL string
	client  *http.Client

	mu        sync.Mutex
	ccPrice   float64
	fetchedAt time.Time
}

func NewSwapAdapter(coingeckoBaseURL string, client *http.Client) *SwapAdapter {
	return &SwapAdapter{baseURL: coingeckoBaseURL, client: client}
}

func (a *SwapAdapter) Name() string {
	return "Canton Network"
}

type transferIntent struct {
	Type        string `json:"type"`
	Version     string `json:"version"`
	FromToken   string `json:"fromToken"`
	ToToken     string `json:"toToken"`
	FromAmount  string `json:"fromAmount"`
	ToAmountMin string `json:"toAmountMin"`
	SlippageBps uint16 `json:"slippageBps"`
	Deadline    int64  `json:"deadline"`
	Sender      string `json:"sender,omitempty"`
	Recipient   string `json:"recipient,omitempty"`
}

func (a *SwapAdapter) GetQuote(ctx context.Context, params routing.QuoteParams) routing.QuoteResult {
	if !strings.HasPrefix(params.FromToken, "canton:") || !strings.HasPrefix(params.ToToken, "canton:") {
		return routing.QuoteFailure(routing.FailUpstream, "Canton swap adapter only handles canton: token addresses")
	}
	if params.FromToken == params.ToToken {
		return routing.QuoteFailure(routing.FailUpstream, "cannot swap a token for itself")
	}

	rate, ok := a.exchangeRate(ctx, params.FromToken, params.ToToken)
	if !ok {
		return routing.QuoteFailure(routing.FailUpstream,
			fmt.Sprintf("no Canton swap route for %s -> %s", params.FromToken, params.ToToken))
	}

	fromDecimals := decimalsFor(params.FromToken)
	toDecimals := decimalsFor(params.ToToken)

	amount, valid := new(big.Float).SetString(params.Amount)
	if !valid || amount.Sign() <= 0 {
		return routing.QuoteFailure(routing.FailUpstream, fmt.Sprintf("invalid amount %q", params.Amount))
	}

	humanFrom := new(big.Float).Quo(amount, pow10(fromDecimals))

	// spot rate minus the Splice fee, then the caller's slippage tolerance
	toHuman := new(big.Float).Mul(humanFrom, big.NewFloat(rate))
	toHuman.Mul(toHuman, big.NewFloat(1-float64(spliceFeeBps)/10000))
	minHuman := new(big.Float).Mul(toHuman, big.NewFloat(1-float64(params.SlippageBps)/10000))

	toAmount := baseUnits(toHuman, toDecimals)
	toAmountMin := baseUnits(minHuman, toDecimals)

	priceImpact := "0.05"
	if f, _ := humanFrom.Float64(); f > 100000 {
		priceImpact = "0.5"
	}

	feeHuman := new(big.Float).Mul(humanFrom, big.NewFloat(float64(spliceFeeBps)/10000))

	intent := transferIntent{
		Type:        "canton:transfer",
		Version:     "1",
		FromToken:   params.FromToken,
		ToToken:     params.ToToken,
		FromAmount:  params.Amount,
		ToAmountMin: toAmountMin,
		SlippageBps: params.SlippageBps,
		Deadline:    time.Now().Add(5 * time.Minute).Unix(),
		Sender:      params.Sender,
		Recipient:   params.Recipient,
	}
	serialized, err := sonic.MarshalString(intent)
	if err != nil {
		return routing.QuoteFailure(routing.FailUpstream, fmt.Sprintf("transfer intent serialization failed: %v", err))
	}

	return routing.QuoteResult{
		Success:      true,
		ToAmount:     toAmount,
		ToAmountMin:  toAmountMin,
		ExchangeRate: strconv.FormatFloat(rate, 'f', 8, 64),
		PriceImpact:  priceImpact,
		EstimatedGas: "0",
		Fees: []domain.FeeInfo{{
			Name:        "Canton Network fee",
			Description: "Splice transfer fee",
			FeeBps:      spliceFeeBps,
			Amount:      baseUnits(feeHuman, fromDecimals),
			Token:       params.FromToken,
		}},
		TransactionData: &domain.TransactionData{SerializedTransaction: serialized},
	}
}

// exchangeRate prices fromToken in units of toToken. Stable pairs are pegged
// 1:1; anything involving CC goes through the live CoinGecko rate.
func (a *SwapAdapter) exchangeRate(ctx context.Context, fromToken, toToken string) (float64, bool) {
	fromStable := isStable(fromToken)
	toStable := isStable(toToken)

	if fromStable && toStable {
		return 1.0, true
	}

	price := a.ccPriceUSD(ctx)
	if fromToken == NativeToken && toStable {
		return price, true
	}
	if fromStable && toToken == NativeToken {
		return 1 / price, true
	}
	return 0, false
}

type coingeckoPriceResponse struct {
	CantonNetwork struct {
		USD float64 `json:"usd"`
	} `json:"canton-network"`
}

// ccPriceUSD returns the CC/USD rate, preferring a fresh cache entry, then a
// live CoinGecko fetch, then the stale cache, then a hardcoded fallback.
func (a *SwapAdapter) ccPriceUSD(ctx context.Context) float64 {
	a.mu.Lock()
	cached, fresh := a.ccPrice, time.Since(a.fetchedAt) < priceCacheTTL
	a.mu.Unlock()
	if cached > 0 && fresh {
		return cached
	}

	priceURL := a.baseURL + "/api/v3/simple/price?ids=canton-network&vs_currencies=usd"
	status, body, err := httpclient.Get(ctx, a.client, priceURL, nil)
	if err == nil && status == http.StatusOK {
		var resp coingeckoPriceResponse
		if derr := httpclient.DecodeJSON(body, &resp); derr == nil && resp.CantonNetwork.USD > 0 {
			a.mu.Lock()
			a.ccPrice = resp.CantonNetwork.USD
			a.fetchedAt = time.Now()
			a.mu.Unlock()
			return resp.CantonNetwork.USD
		}
	}

	if cached > 0 {
		log.Warn().Err(err).Int("status", status).Msg("[cantonSwap] CoinGecko price fetch failed, using cached price")
		return cached
	}
	log.Warn().Err(err).Int("status", status).Msg("[cantonSwap] CoinGecko price fetch failed, using fallback price")
	return fallbackCCPriceUSD
}

func isStable(token string) bool {
	return token == USDCToken || token == USDTToken
}

func decimalsFor(token string) int {
	if d, ok := tokenDecimals[token]; ok {
		return d
	}
	return 10
}

func pow10(decimals int) *big.Float {
	return big.NewFloat(math.Pow10(decimals))
}

// baseUnits converts a human-readable amount to an integer base-unit string,
// truncating any sub-unit remainder.
func baseUnits(human *big.Float, decimals int) string {
	scaled := new(big.Float).Mul(human, pow10(decimals))
	out, _ := scaled.Int(nil)
	if out.Sign() < 0 {
		return "0"
	}
	return out.String()
}
