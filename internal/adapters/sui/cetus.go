// Package sui holds the Sui swap adapter. Cetus is the primary quote source
// with Aftermath as a fallback. Both are quote-only: transaction assembly on
// Sui happens client side with the wallet SDK, so the adapter never returns
// transaction data.
package sui

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/cantonlink/route-engine/internal/adapters/httpclient"
	"github.com/cantonlink/route-engine/internal/routing"
)

type CetusAdapter struct {
	cetusBaseURL     string
	aftermathBaseURL string
	client           *http.Client
}

func NewCetusAdapter(cetusBaseURL, aftermathBaseURL string, client *http.Client) *CetusAdapter {
	return &CetusAdapter{
		cetusBaseURL:     cetusBaseURL,
		aftermathBaseURL: aftermathBaseURL,
		client:           client,
	}
}

func (a *CetusAdapter) Name() string {
	return "Cetus"
}

type cetusRouteResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data struct {
		AmountIn  string `json:"amount_in"`
		AmountOut string `json:"amount_out"`
	} `json:"data"`
}

type aftermathRouteResponse struct {
	CoinOut struct {
		Amount string `json:"amount"`
	} `json:"coinOut"`
}

func (a *CetusAdapter) GetQuote(ctx context.Context, params routing.QuoteParams) routing.QuoteResult {
	result, retriable := a.quoteCetus(ctx, params)
	if result.Success || !retriable {
		return result
	}

	log.Warn().Str("reason", result.Err).Msg("[cetus] primary quote failed, trying Aftermath")
	fallback := a.quoteAftermath(ctx, params)
	if fallback.Success {
		return fallback
	}
	// Report the primary failure; the fallback failing too adds no signal.
	return result
}

func (a *CetusAdapter) quoteCetus(ctx context.Context, params routing.QuoteParams) (routing.QuoteResult, bool) {
	quoteURL := fmt.Sprintf("%s/router_v2/find_routes?%s", a.cetusBaseURL, url.Values{
		"from":         {params.FromToken},
		"target":       {params.ToToken},
		"amount":       {params.Amount},
		"by_amount_in": {"true"},
	}.Encode())

	status, body, err := httpclient.Get(ctx, a.client, quoteURL, nil)
	if err != nil {
		return routing.QuoteFailure(routing.FailTransport, fmt.Sprintf("Cetus quote request failed: %v", err)), true
	}
	if status != http.StatusOK {
		return routing.QuoteFailure(routing.FailUpstream,
			fmt.Sprintf("Cetus quote request failed: HTTP %d: %s", status, httpclient.Snippet(body))), true
	}

	var route cetusRouteResponse
	if err := httpclient.DecodeJSON(body, &route); err != nil {
		return routing.QuoteFailure(routing.FailUpstream, "Cetus returned an unreadable response"), true
	}
	if route.Code != 200 || route.Data.AmountOut == "" {
		msg := route.Msg
		if msg == "" {
			msg = "no route found"
		}
		return routing.QuoteFailure(routing.FailUpstream, fmt.Sprintf("Cetus: %s", msg)), true
	}

	min, err := applySlippage(route.Data.AmountOut, params.SlippageBps)
	if err != nil {
		return routing.QuoteFailure(routing.FailUpstream,
			fmt.Sprintf("Cetus returned a non-numeric amount %q", route.Data.AmountOut)), false
	}
	return routing.QuoteResult{
		Success:     true,
		ToAmount:    route.Data.AmountOut,
		ToAmountMin: min,
	}, false
}

func (a *CetusAdapter) quoteAftermath(ctx context.Context, params routing.QuoteParams) routing.QuoteResult {
	payload := map[string]any{
		"coinInType":   params.FromToken,
		"coinOutType":  params.ToToken,
		"coinInAmount": params.Amount,
	}

	status, body, err := httpclient.Do(ctx, a.client, http.MethodPost, a.aftermathBaseURL+"/router/trade-route", nil, payload)
	if err != nil {
		return routing.QuoteFailure(routing.FailTransport, fmt.Sprintf("Aftermath quote request failed: %v", err))
	}
	if status != http.StatusOK {
		return routing.QuoteFailure(routing.FailUpstream,
			fmt.Sprintf("Aftermath quote request failed: HTTP %d: %s", status, httpclient.Snippet(body)))
	}

	var route aftermathRouteResponse
	if err := httpclient.DecodeJSON(body, &route); err != nil || route.CoinOut.Amount == "" {
		return routing.QuoteFailure(routing.FailUpstream, "Aftermath returned an unreadable response")
	}

	min, err := applySlippage(route.CoinOut.Amount, params.SlippageBps)
	if err != nil {
		return routing.QuoteFailure(routing.FailUpstream,
			fmt.Sprintf("Aftermath returned a non-numeric amount %q", route.CoinOut.Amount))
	}
	return routing.QuoteResult{
		Success:     true,
		ToAmount:    route.CoinOut.Amount,
		ToAmountMin: min,
	}
}
