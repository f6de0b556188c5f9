// Package bridge holds the general-purpose cross-chain transports. LI.FI is
// the primary EVM transport and deBridge DLN the secondary.
package bridge

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/cantonlink/route-engine/internal/adapters/httpclient"
	"github.com/cantonlink/route-engine/internal/domain"
	"github.com/cantonlink/route-engine/internal/routing"
	"github.com/cantonlink/route-engine/internal/status"
)

// LI.FI's numeric id for Solana in its chain namespace.
const lifiSolanaChainID = 1151111081099710

type LifiAdapter struct {
	baseURL      string
	apiKey       string
	integrator   string
	client       *http.Client
	statusClient *http.Client
}

func NewLifiAdapter(baseURL, apiKey, integrator string, client, statusClient *http.Client) *LifiAdapter {
	return &LifiAdapter{
		baseURL:      baseURL,
		apiKey:       apiKey,
		integrator:   integrator,
		client:       client,
		statusClient: statusClient,
	}
}

func (a *LifiAdapter) Name() string {
	return "LI.FI"
}

func (a *LifiAdapter) headers() map[string]string {
	if a.apiKey == "" {
		return nil
	}
	return map[string]string{"x-lifi-api-key": a.apiKey}
}

type lifiToken struct {
	Symbol string `json:"symbol"`
}

type lifiTransactionRequest struct {
	To       string `json:"to"`
	Data     string `json:"data"`
	Value    string `json:"value"`
	GasLimit string `json:"gasLimit"`
}

type lifiAction struct {
	FromChainID int64     `json:"fromChainId"`
	ToChainID   int64     `json:"toChainId"`
	FromToken   lifiToken `json:"fromToken"`
	ToToken     lifiToken `json:"toToken"`
}

type lifiEstimate struct {
	ApprovalAddress   string  `json:"approvalAddress"`
	ExecutionDuration float64 `json:"executionDuration"`
}

type lifiStep struct {
	ID                 string                  `json:"id"`
	Type               string                  `json:"type"`
	Tool               string                  `json:"tool"`
	Action             lifiAction              `json:"action"`
	Estimate           lifiEstimate            `json:"estimate"`
	IncludedSteps      []lifiStep              `json:"includedSteps"`
	TransactionRequest *lifiTransactionRequest `json:"transactionRequest"`
}

type lifiRoute struct {
	ID          string     `json:"id"`
	ToAmount    string     `json:"toAmount"`
	ToAmountMin string     `json:"toAmountMin"`
	GasCostUSD  string     `json:"gasCostUSD"`
	Steps       []lifiStep `json:"steps"`
}

type lifiRoutesResponse struct {
	Routes []lifiRoute `json:"routes"`
}

func (a *LifiAdapter) GetRoute(ctx context.Context, params routing.RouteParams) routing.RouteResult {
	fromChain, err := lifiChainID(params.FromChainID)
	if err != nil {
		return routing.RouteFailure(routing.FailUpstream, err.Error())
	}
	toChain, err := lifiChainID(params.ToChainID)
	if err != nil {
		return routing.RouteFailure(routing.FailUpstream, err.Error())
	}

	recipient := params.Recipient
	if recipient == "" {
		recipient = params.Sender
	}

	payload := map[string]any{
		"fromChainId":      fromChain,
		"toChainId":        toChain,
		"fromTokenAddress": params.FromToken,
		"toTokenAddress":   params.ToToken,
		"fromAmount":       params.Amount,
		"fromAddress":      params.Sender,
		"toAddress":        recipient,
		"integrator":       a.integrator,
		"options": map[string]any{
			"slippage":         float64(params.SlippageBps) / 10000,
			"order":            "RECOMMENDED",
			"allowSwitchChain": true,
		},
	}

	code, body, err := httpclient.Do(ctx, a.client, http.MethodPost, a.baseURL+"/v1/advanced/routes", a.headers(), payload)
	if err != nil {
		return routing.RouteFailure(routing.FailTransport, fmt.Sprintf("LI.FI route request failed: %v", err))
	}
	if code != http.StatusOK {
		return routing.RouteFailure(routing.FailUpstream,
			fmt.Sprintf("LI.FI route request failed: HTTP %d: %s", code, httpclient.Snippet(body)))
	}

	var resp lifiRoutesResponse
	if err := httpclient.DecodeJSON(body, &resp); err != nil {
		return routing.RouteFailure(routing.FailUpstream, "LI.FI returned an unreadable response")
	}
	if len(resp.Routes) == 0 {
		return routing.RouteFailure(routing.FailNoRoute, "No bridge routes found for this token pair.")
	}

	best := resp.Routes[0]
	steps := a.flattenSteps(best.Steps, params)

	var eta int64
	for _, s := range best.Steps {
		eta += int64(s.Estimate.ExecutionDuration)
	}

	var fees []domain.FeeInfo
	if best.GasCostUSD != "" {
		fees = append(fees, domain.FeeInfo{
			Name:   "Gas cost",
			Amount: best.GasCostUSD,
			Token:  "USD",
		})
	}

	return routing.RouteResult{
		Success:     true,
		Provider:    a.Name(),
		ToAmount:    best.ToAmount,
		ToAmountMin: best.ToAmountMin,
		EtaSeconds:  eta,
		Steps:       steps,
		Fees:        fees,
	}
}

// flattenSteps converts LI.FI's nested step plan into the flat step list the
// resolver works with. "cross" expands into a send/receive pair and "lifi"
// steps are unpacked through their includedSteps; a swap whose source chain is
// the destination chain becomes a destinationSwap.
func (a *LifiAdapter) flattenSteps(lifiSteps []lifiStep, params routing.RouteParams) []domain.RouteStep {
	steps := make([]domain.RouteStep, 0, len(lifiSteps)*2)

	for _, ls := range lifiSteps {
		if ls.Estimate.ApprovalAddress != "" {
			steps = append(steps, domain.RouteStep{
				ID:          ls.ID + "-approve",
				Type:        domain.StepApprove,
				Description: fmt.Sprintf("Approve %s for %s", orDefault(ls.Action.FromToken.Symbol, "token"), orDefault(ls.Tool, "bridge")),
				ChainID:     chainOrDefault(ls.Action.FromChainID, params.FromChainID),
				Tool:        orDefault(ls.Tool, "LI.FI"),
			})
		}

		switch ls.Type {
		case "swap":
			steps = append(steps, a.swapStep(ls, params, false))
		case "cross":
			steps = append(steps, a.crossSteps(ls, params)...)
		case "lifi":
			if len(ls.IncludedSteps) == 0 {
				if ls.TransactionRequest != nil {
					steps = append(steps, domain.RouteStep{
						ID:              ls.ID,
						Type:            domain.StepBridgeSend,
						Description:     fmt.Sprintf("Bridge via %s", orDefault(ls.Tool, "LI.FI")),
						ChainID:         params.FromChainID,
						Tool:            orDefault(ls.Tool, "LI.FI"),
						TransactionData: transactionData(ls.TransactionRequest),
					})
				}
				continue
			}
			for _, sub := range ls.IncludedSteps {
				switch sub.Type {
				case "swap":
					destination := strconv.FormatInt(sub.Action.FromChainID, 10) == params.ToChainID
					steps = append(steps, a.swapStep(sub, params, destination))
				case "cross":
					steps = append(steps, a.crossSteps(sub, params)...)
				}
			}
		}
	}
	return steps
}

func (a *LifiAdapter) swapStep(ls lifiStep, params routing.RouteParams, destination bool) domain.RouteStep {
	stepType := domain.StepSwap
	label := "Swap"
	if destination {
		stepType = domain.StepDestinationSwap
		label = "Destination swap"
	}
	return domain.RouteStep{
		ID:   ls.ID,
		Type: stepType,
		Description: fmt.Sprintf("%s %s -> %s via %s", label,
			ls.Action.FromToken.Symbol, ls.Action.ToToken.Symbol, orDefault(ls.Tool, "LI.FI")),
		ChainID:         chainOrDefault(ls.Action.FromChainID, params.FromChainID),
		Tool:            orDefault(ls.Tool, "LI.FI"),
		TransactionData: transactionData(ls.TransactionRequest),
	}
}

func (a *LifiAdapter) crossSteps(ls lifiStep, params routing.RouteParams) []domain.RouteStep {
	tool := fmt.Sprintf("LI.FI/%s", orDefault(ls.Tool, "bridge"))
	return []domain.RouteStep{
		{
			ID:              ls.ID + "-send",
			Type:            domain.StepBridgeSend,
			Description:     fmt.Sprintf("Bridge via %s (%s -> %s)", orDefault(ls.Tool, "bridge"), params.FromChainID, params.ToChainID),
			ChainID:         chainOrDefault(ls.Action.FromChainID, params.FromChainID),
			Tool:            tool,
			TransactionData: transactionData(ls.TransactionRequest),
		},
		{
			ID:          ls.ID + "-receive",
			Type:        domain.StepBridgeReceive,
			Description: fmt.Sprintf("Receive on chain %s", params.ToChainID),
			ChainID:     chainOrDefault(ls.Action.ToChainID, params.ToChainID),
			Tool:        tool,
		},
	}
}

type lifiStatusResponse struct {
	Status    string `json:"status"`
	Substatus string `json:"substatus"`
	Sending   struct {
		TxHash string `json:"txHash"`
	} `json:"sending"`
	Receiving struct {
		TxHash string `json:"txHash"`
	} `json:"receiving"`
	LifiExplorerLink string `json:"lifiExplorerLink"`
}

func (a *LifiAdapter) GetStatus(ctx context.Context, q routing.StatusQuery) (domain.BridgeStatus, error) {
	values := url.Values{
		"txHash":    {q.TxHash},
		"fromChain": {q.FromChain},
		"toChain":   {q.ToChain},
	}
	if q.Tool != "" {
		values.Set("bridge", q.Tool)
	}

	code, body, err := httpclient.Get(ctx, a.statusClient, a.baseURL+"/v1/status?"+values.Encode(), a.headers())
	if err != nil {
		return domain.BridgeStatus{}, fmt.Errorf("LI.FI status request failed: %w", err)
	}
	if code != http.StatusOK {
		return domain.BridgeStatus{}, fmt.Errorf("LI.FI status API returned HTTP %d: %s", code, httpclient.Snippet(body))
	}

	var resp lifiStatusResponse
	if err := httpclient.DecodeJSON(body, &resp); err != nil {
		return domain.BridgeStatus{}, fmt.Errorf("LI.FI status response unreadable: %w", err)
	}

	fromTx := resp.Sending.TxHash
	if fromTx == "" {
		fromTx = q.TxHash
	}
	return domain.BridgeStatus{
		State:        status.Translate(resp.Status),
		Substatus:    resp.Substatus,
		FromTxHash:   fromTx,
		ToTxHash:     resp.Receiving.TxHash,
		ExplorerLink: resp.LifiExplorerLink,
	}, nil
}

func lifiChainID(chainID string) (int64, error) {
	if chainID == "solana" {
		return lifiSolanaChainID, nil
	}
	id, err := strconv.ParseInt(chainID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("LI.FI does not support chain %q", chainID)
	}
	return id, nil
}

func transactionData(tx *lifiTransactionRequest) *domain.TransactionData {
	if tx == nil {
		return nil
	}
	return &domain.TransactionData{
		To:       tx.To,
		Data:     tx.Data,
		Value:    orDefault(tx.Value, "0"),
		GasLimit: tx.GasLimit,
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func chainOrDefault(chainID int64, fallback string) string {
	if chainID == 0 {
		return fallback
	}
	return strconv.FormatInt(chainID, 10)
}
