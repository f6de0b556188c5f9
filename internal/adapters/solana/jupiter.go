// Package solana holds the Jupiter SwapAdapter. Transactions come back from
// Jupiter pre-built and base64-serialized; the adapter validates inputs as
// real public keys and best-effort decodes the returned transaction before
// passing it through.
package solana

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	bin "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog/log"

	"github.com/cantonlink/route-engine/internal/adapters/httpclient"
	"github.com/cantonlink/route-engine/internal/domain"
	"github.com/cantonlink/route-engine/internal/routing"
)

type JupiterAdapter struct {
	baseURL string
	client  *http.Client
}

func NewJupiterAdapter(baseURL string, client *http.Client) *JupiterAdapter {
	return &JupiterAdapter{baseURL: baseURL, client: client}
}

func (a *JupiterAdapter) Name() string {
	return "Jupiter"
}

type jupiterQuoteResponse struct {
	OutAmount            string          `json:"outAmount"`
	OtherAmountThreshold string          `json:"otherAmountThreshold"`
	PriceImpactPct       string          `json:"priceImpactPct"`
	TimeTaken            float64         `json:"timeTaken"`
	Raw                  json.RawMessage `json:"-"`
	ErrorMsg             string          `json:"error"`
}

type jupiterSwapResponse struct {
	SwapTransaction string `json:"swapTransaction"`
	Error           string `json:"error"`
}

func (a *JupiterAdapter) GetQuote(ctx context.Context, params routing.QuoteParams) routing.QuoteResult {
	if _, err := solanago.PublicKeyFromBase58(params.FromToken); err != nil {
		return routing.QuoteFailure(routing.FailUpstream, fmt.Sprintf("invalid Solana mint %q", params.FromToken))
	}
	if _, err := solanago.PublicKeyFromBase58(params.ToToken); err != nil {
		return routing.QuoteFailure(routing.FailUpstream, fmt.Sprintf("invalid Solana mint %q", params.ToToken))
	}

	quoteURL := fmt.Sprintf("%s/quote?%s", a.baseURL, url.Values{
		"inputMint":   {params.FromToken},
		"outputMint":  {params.ToToken},
		"amount":      {params.Amount},
		"slippageBps": {strconv.Itoa(int(params.SlippageBps))},
	}.Encode())

	status, body, err := httpclient.Get(ctx, a.client, quoteURL, nil)
	if err != nil {
		return routing.QuoteFailure(routing.FailTransport, fmt.Sprintf("Jupiter quote request failed: %v", err))
	}
	if status != http.StatusOK {
		return routing.QuoteFailure(routing.FailUpstream,
			fmt.Sprintf("Jupiter quote request failed: HTTP %d: %s", status, httpclient.Snippet(body)))
	}

	var quote jupiterQuoteResponse
	if err := httpclient.DecodeJSON(body, &quote); err != nil || quote.OutAmount == "" {
		return routing.QuoteFailure(routing.FailUpstream, "Jupiter returned an unreadable quote response")
	}
	if quote.ErrorMsg != "" {
		return routing.QuoteFailure(routing.FailUpstream, fmt.Sprintf("Jupiter: %s", quote.ErrorMsg))
	}
	quote.Raw = body

	result := routing.QuoteResult{
		Success:     true,
		ToAmount:    quote.OutAmount,
		ToAmountMin: quote.OtherAmountThreshold,
		PriceImpact: quote.PriceImpactPct,
	}

	if params.Sender == "" {
		return result
	}

	sender, err := solanago.PublicKeyFromBase58(params.Sender)
	if err != nil {
		return routing.QuoteFailure(routing.FailUpstream, fmt.Sprintf("invalid Solana sender address %q", params.Sender))
	}

	serialized, terr := a.buildSwapTransaction(ctx, quote.Raw, sender)
	if terr != nil {
		return *terr
	}
	result.TransactionData = &domain.TransactionData{SerializedTransaction: serialized}
	return result
}

func (a *JupiterAdapter) buildSwapTransaction(ctx context.Context, quoteRaw json.RawMessage, sender solanago.PublicKey) (string, *routing.QuoteResult) {
	payload := map[string]any{
		"quoteResponse":    quoteRaw,
		"userPublicKey":    sender.String(),
		"wrapAndUnwrapSol": true,
	}

	status, body, err := httpclient.Do(ctx, a.client, http.MethodPost, a.baseURL+"/swap", nil, payload)
	if err != nil {
		fail := routing.QuoteFailure(routing.FailTransport, fmt.Sprintf("Jupiter swap build failed: %v", err))
		return "", &fail
	}
	if status != http.StatusOK {
		fail := routing.QuoteFailure(routing.FailUpstream,
			fmt.Sprintf("Jupiter swap build failed: HTTP %d: %s", status, httpclient.Snippet(body)))
		return "", &fail
	}

	var swap jupiterSwapResponse
	if err := httpclient.DecodeJSON(body, &swap); err != nil || swap.SwapTransaction == "" {
		fail := routing.QuoteFailure(routing.FailUpstream, "Jupiter returned an unreadable swap response")
		return "", &fail
	}

	a.validateTransaction(swap.SwapTransaction)
	return swap.SwapTransaction, nil
}

// validateTransaction decodes the serialized transaction as a sanity check.
// Versioned transactions may not decode with the legacy decoder; that is
// logged at debug and the payload passed through untouched, since the
// wallet is the final arbiter.
func (a *JupiterAdapter) validateTransaction(serialized string) {
	raw, err := base64.StdEncoding.DecodeString(serialized)
	if err != nil {
		log.Debug().Err(err).Msg("[jupiter] swap transaction is not valid base64")
		return
	}
	if _, err := solanago.TransactionFromDecoder(bin.NewBinDecoder(raw)); err != nil {
		log.Debug().Err(err).Msg("[jupiter] swap transaction did not decode as a legacy transaction")
	}
}
