// Package evm holds the SwapAdapters for EVM chains. ParaSwap is the
// default; 1inch can be selected via SWAP_PROVIDER_EVM when a key is set.
package evm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/holiman/uint256"

	"github.com/cantonlink/route-engine/internal/adapters/httpclient"
	"github.com/cantonlink/route-engine/internal/domain"
	"github.com/cantonlink/route-engine/internal/routing"
)

type ParaswapAdapter struct {
	baseURL string
	partner string
	client  *http.Client
}

func NewParaswapAdapter(baseURL, partner string, client *http.Client) *ParaswapAdapter {
	return &ParaswapAdapter{baseURL: baseURL, partner: partner, client: client}
}

func (a *ParaswapAdapter) Name() string {
	return "ParaSwap"
}

type paraswapPriceRoute struct {
	SrcAmount          string          `json:"srcAmount"`
	DestAmount         string          `json:"destAmount"`
	GasCost            string          `json:"gasCost"`
	TokenTransferProxy string          `json:"tokenTransferProxy"`
	Raw                json.RawMessage `json:"-"`
}

type paraswapPricesResponse struct {
	PriceRoute json.RawMessage `json:"priceRoute"`
	Error      string          `json:"error"`
}

type paraswapTxResponse struct {
	To    string `json:"to"`
	Data  string `json:"data"`
	Value string `json:"value"`
	Gas   any    `json:"gas"`
}

func (a *ParaswapAdapter) GetQuote(ctx context.Context, params routing.QuoteParams) routing.QuoteResult {
	prices := fmt.Sprintf("%s/prices/?%s", a.baseURL, url.Values{
		"srcToken":  {params.FromToken},
		"destToken": {params.ToToken},
		"amount":    {params.Amount},
		"side":      {"SELL"},
		"network":   {params.ChainID},
		"partner":   {a.partner},
	}.Encode())

	status, body, err := httpclient.Get(ctx, a.client, prices, nil)
	if err != nil {
		return routing.QuoteFailure(routing.FailTransport, fmt.Sprintf("ParaSwap price request failed: %v", err))
	}
	if status != http.StatusOK {
		return routing.QuoteFailure(routing.FailUpstream,
			fmt.Sprintf("ParaSwap price request failed: HTTP %d: %s", status, httpclient.Snippet(body)))
	}

	var pricesResp paraswapPricesResponse
	if err := httpclient.DecodeJSON(body, &pricesResp); err != nil {
		return routing.QuoteFailure(routing.FailUpstream, fmt.Sprintf("ParaSwap returned an unreadable price response: %v", err))
	}
	if pricesResp.Error != "" {
		return routing.QuoteFailure(routing.FailUpstream, fmt.Sprintf("ParaSwap: %s", pricesResp.Error))
	}

	var route paraswapPriceRoute
	if err := httpclient.DecodeJSON(pricesResp.PriceRoute, &route); err != nil || route.DestAmount == "" {
		return routing.QuoteFailure(routing.FailUpstream, "ParaSwap price response missing priceRoute")
	}
	route.Raw = pricesResp.PriceRoute

	toAmountMin, err := applySlippage(route.DestAmount, params.SlippageBps)
	if err != nil {
		return routing.QuoteFailure(routing.FailUpstream, fmt.Sprintf("ParaSwap returned a non-numeric destAmount: %v", err))
	}

	result := routing.QuoteResult{
		Success:      true,
		ToAmount:     route.DestAmount,
		ToAmountMin:  toAmountMin,
		EstimatedGas: route.GasCost,
	}

	// Quote-only when no sender: price a transfer before a wallet exists.
	if params.Sender == "" {
		return result
	}

	tx, terr := a.buildTransaction(ctx, params, &route, toAmountMin)
	if terr != nil {
		return *terr
	}
	result.TransactionData = tx
	result.ApprovalTarget = route.TokenTransferProxy
	return result
}

func (a *ParaswapAdapter) buildTransaction(ctx context.Context, params routing.QuoteParams, route *paraswapPriceRoute, destAmountMin string) (*domain.TransactionData, *routing.QuoteResult) {
	receiver := params.Recipient
	if receiver == "" {
		receiver = params.Sender
	}

	payload := map[string]any{
		"srcToken":    params.FromToken,
		"destToken":   params.ToToken,
		"srcAmount":   route.SrcAmount,
		"destAmount":  destAmountMin,
		"priceRoute":  route.Raw,
		"userAddress": params.Sender,
		"receiver":    receiver,
		"partner":     a.partner,
	}

	txURL := fmt.Sprintf("%s/transactions/%s?ignoreChecks=true", a.baseURL, params.ChainID)
	status, body, err := httpclient.Do(ctx, a.client, http.MethodPost, txURL, nil, payload)
	if err != nil {
		fail := routing.QuoteFailure(routing.FailTransport, fmt.Sprintf("ParaSwap transaction build failed: %v", err))
		return nil, &fail
	}
	if status != http.StatusOK {
		fail := routing.QuoteFailure(routing.FailUpstream,
			fmt.Sprintf("ParaSwap transaction build failed: HTTP %d: %s", status, httpclient.Snippet(body)))
		return nil, &fail
	}

	var tx paraswapTxResponse
	if err := httpclient.DecodeJSON(body, &tx); err != nil || tx.To == "" {
		fail := routing.QuoteFailure(routing.FailUpstream, "ParaSwap returned an unreadable transaction response")
		return nil, &fail
	}

	return &domain.TransactionData{
		To:       tx.To,
		Data:     tx.Data,
		Value:    tx.Value,
		GasLimit: gasString(tx.Gas),
	}, nil
}

// gasString normalizes the gas field, which ParaSwap serves as either a
// JSON number or a string depending on endpoint version.
func gasString(v any) string {
	switch g := v.(type) {
	case string:
		return g
	case float64:
		return strconv.FormatUint(uint64(g), 10)
	default:
		return ""
	}
}

// applySlippage computes amount * (10000 - bps) / 10000.
func applySlippage(amount string, bps uint16) (string, error) {
	value, err := uint256.FromDecimal(amount)
	if err != nil {
		return "", err
	}
	out := new(uint256.Int).Mul(value, uint256.NewInt(uint64(10000-bps)))
	out.Div(out, uint256.NewInt(10000))
	return out.Dec(), nil
}
