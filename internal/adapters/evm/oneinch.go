package evm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/cantonlink/route-engine/internal/adapters/httpclient"
	"github.com/cantonlink/route-engine/internal/domain"
	"github.com/cantonlink/route-engine/internal/routing"
)

type OneInchAdapter struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewOneInchAdapter(baseURL, apiKey string, client *http.Client) *OneInchAdapter {
	return &OneInchAdapter{baseURL: baseURL, apiKey: apiKey, client: client}
}

func (a *OneInchAdapter) Name() string {
	return "1inch"
}

type oneInchQuoteResponse struct {
	DstAmount   string `json:"dstAmount"`
	Description string `json:"description"`
	Error       string `json:"error"`
}

type oneInchSwapResponse struct {
	DstAmount string `json:"dstAmount"`
	Tx        struct {
		To    string `json:"to"`
		Data  string `json:"data"`
		Value string `json:"value"`
		Gas   any    `json:"gas"`
	} `json:"tx"`
	Description string `json:"description"`
	Error       string `json:"error"`
}

// GetQuote uses the quote endpoint when no sender is present and the swap
// endpoint (which also builds calldata) when one is. A missing API key is a
// normal failure result, not a different contract shape.
func (a *OneInchAdapter) GetQuote(ctx context.Context, params routing.QuoteParams) routing.QuoteResult {
	if a.apiKey == "" {
		return routing.QuoteFailure(routing.FailUpstream, "1inch adapter not configured: ONEINCH_API_KEY is unset")
	}

	headers := map[string]string{"Authorization": "Bearer " + a.apiKey}

	if params.Sender == "" {
		return a.quoteOnly(ctx, params, headers)
	}
	return a.quoteAndBuild(ctx, params, headers)
}

func (a *OneInchAdapter) quoteOnly(ctx context.Context, params routing.QuoteParams, headers map[string]string) routing.QuoteResult {
	quoteURL := fmt.Sprintf("%s/swap/v6.0/%s/quote?%s", a.baseURL, params.ChainID, url.Values{
		"src":    {params.FromToken},
		"dst":    {params.ToToken},
		"amount": {params.Amount},
	}.Encode())

	status, body, err := httpclient.Get(ctx, a.client, quoteURL, headers)
	if err != nil {
		return routing.QuoteFailure(routing.FailTransport, fmt.Sprintf("1inch quote request failed: %v", err))
	}
	if status != http.StatusOK {
		return routing.QuoteFailure(routing.FailUpstream,
			fmt.Sprintf("1inch quote request failed: HTTP %d: %s", status, httpclient.Snippet(body)))
	}

	var quote oneInchQuoteResponse
	if err := httpclient.DecodeJSON(body, &quote); err != nil || quote.DstAmount == "" {
		return routing.QuoteFailure(routing.FailUpstream, "1inch returned an unreadable quote response")
	}

	toAmountMin, err := applySlippage(quote.DstAmount, params.SlippageBps)
	if err != nil {
		return routing.QuoteFailure(routing.FailUpstream, fmt.Sprintf("1inch returned a non-numeric dstAmount: %v", err))
	}

	return routing.QuoteResult{
		Success:     true,
		ToAmount:    quote.DstAmount,
		ToAmountMin: toAmountMin,
	}
}

func (a *OneInchAdapter) quoteAndBuild(ctx context.Context, params routing.QuoteParams, headers map[string]string) routing.QuoteResult {
	values := url.Values{
		"src":             {params.FromToken},
		"dst":             {params.ToToken},
		"amount":          {params.Amount},
		"from":            {params.Sender},
		"slippage":        {fmt.Sprintf("%g", float64(params.SlippageBps)/100)},
		"disableEstimate": {"true"},
	}
	if params.Recipient != "" {
		values.Set("receiver", params.Recipient)
	}
	swapURL := fmt.Sprintf("%s/swap/v6.0/%s/swap?%s", a.baseURL, params.ChainID, values.Encode())

	status, body, err := httpclient.Get(ctx, a.client, swapURL, headers)
	if err != nil {
		return routing.QuoteFailure(routing.FailTransport, fmt.Sprintf("1inch swap request failed: %v", err))
	}
	if status != http.StatusOK {
		return routing.QuoteFailure(routing.FailUpstream,
			fmt.Sprintf("1inch swap request failed: HTTP %d: %s", status, httpclient.Snippet(body)))
	}

	var swap oneInchSwapResponse
	if err := httpclient.DecodeJSON(body, &swap); err != nil || swap.DstAmount == "" || swap.Tx.To == "" {
		return routing.QuoteFailure(routing.FailUpstream, "1inch returned an unreadable swap response")
	}

	toAmountMin, err := applySlippage(swap.DstAmount, params.SlippageBps)
	if err != nil {
		return routing.QuoteFailure(routing.FailUpstream, fmt.Sprintf("1inch returned a non-numeric dstAmount: %v", err))
	}

	return routing.QuoteResult{
		Success:     true,
		ToAmount:    swap.DstAmount,
		ToAmountMin: toAmountMin,
		// The 1inch v6 router pulls funds itself, so the approval spender
		// is the router the calldata targets.
		ApprovalTarget: swap.Tx.To,
		TransactionData: &domain.TransactionData{
			To:       swap.Tx.To,
			Data:     swap.Tx.Data,
			Value:    swap.Tx.Value,
			GasLimit: gasString(swap.Tx.Gas),
		},
	}
}
