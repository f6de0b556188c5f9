package bridge

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/bytedance/sonic"
	"github.com/holiman/uint256"

	"github.com/cantonlink/route-engine/internal/adapters/httpclient"
	"github.com/cantonlink/route-engine/internal/chains"
	"github.com/cantonlink/route-engine/internal/domain"
	"github.com/cantonlink/route-engine/internal/routing"
	"github.com/cantonlink/route-engine/internal/status"
)

// deBridge's internal id for Solana. EVM chains keep their native ids.
const debridgeSolanaChainID = "7565164"

var debridgeChainIDs = map[string]string{
	"1":        "1",
	"10":       "10",
	"56":       "56",
	"100":      "100",
	"137":      "137",
	"8453":     "8453",
	"42161":    "42161",
	"43114":    "43114",
	"59144":    "59144",
	"11155111": "11155111",
	"solana":   debridgeSolanaChainID,
}

// DebridgeAdapter routes through deBridge DLN. No API key required; orders
// are filled by solvers on the destination chain, so the receive leg carries
// no transaction data.
type DebridgeAdapter struct {
	baseURL      string
	client       *http.Client
	statusClient *http.Client
}

func NewDebridgeAdapter(baseURL string, client, statusClient *http.Client) *DebridgeAdapter {
	return &DebridgeAdapter{baseURL: baseURL, client: client, statusClient: statusClient}
}

func (a *DebridgeAdapter) Name() string {
	return "deBridge DLN"
}

type debridgeTokenOut struct {
	Amount            string `json:"amount"`
	RecommendedAmount string `json:"recommendedAmount"`
	Decimals          int    `json:"decimals"`
	Symbol            string `json:"symbol"`
}

type debridgeCreateTxResponse struct {
	Estimation struct {
		SrcChainTokenIn struct {
			Amount string `json:"amount"`
			Symbol string `json:"symbol"`
		} `json:"srcChainTokenIn"`
		DstChainTokenOut debridgeTokenOut `json:"dstChainTokenOut"`
	} `json:"estimation"`
	Tx *struct {
		To              string `json:"to"`
		Data            string `json:"data"`
		Value           string `json:"value"`
		AllowanceTarget string `json:"allowanceTarget"`
		AllowanceValue  string `json:"allowanceValue"`
	} `json:"tx"`
	Order *struct {
		ApproximateFulfillmentDelay int64 `json:"approximateFulfillmentDelay"`
	} `json:"order"`
	ErrorMessage string `json:"errorMessage"`
}

func (a *DebridgeAdapter) GetRoute(ctx context.Context, params routing.RouteParams) routing.RouteResult {
	srcChain, ok := debridgeChainIDs[params.FromChainID]
	if !ok {
		return routing.RouteFailure(routing.FailNoRoute,
			fmt.Sprintf("deBridge does not support source chain %s", params.FromChainID))
	}
	dstChain, ok := debridgeChainIDs[params.ToChainID]
	if !ok {
		return routing.RouteFailure(routing.FailNoRoute,
			fmt.Sprintf("deBridge does not support destination chain %s", params.ToChainID))
	}

	recipient := params.Recipient
	if recipient == "" {
		recipient = params.Sender
	}
	if recipient == "" {
		recipient = "0x0000000000000000000000000000000000000001"
	}

	createURL := fmt.Sprintf("%s/v1.0/dln/order/create-tx?%s", a.baseURL, url.Values{
		"srcChainId":                {srcChain},
		"srcChainTokenIn":           {params.FromToken},
		"srcChainTokenInAmount":     {params.Amount},
		"dstChainId":                {dstChain},
		"dstChainTokenOut":          {params.ToToken},
		"dstChainTokenOutRecipient": {recipient},
		"prependOperatingExpenses":  {"true"},
	}.Encode())

	code, body, err := httpclient.Get(ctx, a.client, createURL, nil)
	if err != nil {
		return routing.RouteFailure(routing.FailTransport, fmt.Sprintf("deBridge order request failed: %v", err))
	}
	if code != http.StatusOK {
		return routing.RouteFailure(routing.FailUpstream,
			fmt.Sprintf("deBridge order request failed: HTTP %d: %s", code, httpclient.Snippet(body)))
	}

	var resp debridgeCreateTxResponse
	if err := httpclient.DecodeJSON(body, &resp); err != nil {
		return routing.RouteFailure(routing.FailUpstream, "deBridge returned an unreadable response")
	}
	if resp.ErrorMessage != "" {
		return routing.RouteFailure(routing.FailUpstream, fmt.Sprintf("deBridge: %s", resp.ErrorMessage))
	}

	dstOut := resp.Estimation.DstChainTokenOut
	toAmount := dstOut.RecommendedAmount
	if toAmount == "" {
		toAmount = dstOut.Amount
	}
	if toAmount == "" {
		return routing.RouteFailure(routing.FailUpstream, "deBridge estimation carried no destination amount")
	}
	toAmountMin, err := slippageFloor(toAmount, params.SlippageBps)
	if err != nil {
		return routing.RouteFailure(routing.FailUpstream,
			fmt.Sprintf("deBridge returned a non-numeric amount %q", toAmount))
	}

	etaMinutes := int64(1)
	if resp.Order != nil && resp.Order.ApproximateFulfillmentDelay > 0 {
		etaMinutes = resp.Order.ApproximateFulfillmentDelay
	}

	steps := make([]domain.RouteStep, 0, 3)

	native := chains.IsNativeEVMToken(params.FromToken) ||
		params.FromToken == "0x0000000000000000000000000000000000000000"
	if !native && resp.Tx != nil && resp.Tx.AllowanceTarget != "" {
		intent, _ := sonic.MarshalString(map[string]string{
			"type":    "erc20:approve",
			"token":   params.FromToken,
			"spender": resp.Tx.AllowanceTarget,
			"amount":  params.Amount,
		})
		steps = append(steps, domain.RouteStep{
			Type:        domain.StepApprove,
			Description: fmt.Sprintf("Approve %s for deBridge DLN", resp.Estimation.SrcChainTokenIn.Symbol),
			ChainID:     params.FromChainID,
			Tool:        a.Name(),
			TransactionData: &domain.TransactionData{
				To:                    params.FromToken,
				Data:                  "0x",
				Value:                 "0",
				SerializedTransaction: intent,
			},
		})
	}

	var sendTx *domain.TransactionData
	if resp.Tx != nil {
		sendTx = &domain.TransactionData{
			To:    resp.Tx.To,
			Data:  orDefault(resp.Tx.Data, "0x"),
			Value: orDefault(resp.Tx.Value, "0"),
		}
	}
	steps = append(steps,
		domain.RouteStep{
			Type: domain.StepBridgeSend,
			Description: fmt.Sprintf("deBridge: %s on chain %s -> %s on chain %s",
				resp.Estimation.SrcChainTokenIn.Symbol, params.FromChainID, dstOut.Symbol, params.ToChainID),
			ChainID:         params.FromChainID,
			Tool:            a.Name(),
			TransactionData: sendTx,
			EtaSeconds:      etaMinutes * 60,
		},
		domain.RouteStep{
			Type:        domain.StepBridgeReceive,
			Description: fmt.Sprintf("Receive %s on chain %s once a solver fulfills the order", dstOut.Symbol, params.ToChainID),
			ChainID:     params.ToChainID,
			Tool:        a.Name(),
			EtaSeconds:  etaMinutes * 60,
		},
	)

	return routing.RouteResult{
		Success:     true,
		Provider:    a.Name(),
		ToAmount:    toAmount,
		ToAmountMin: toAmountMin,
		EtaSeconds:  etaMinutes * 60,
		Steps:       steps,
		Fees: []domain.FeeInfo{{
			Name:        "deBridge protocol fee",
			Description: "0.04% of input, charged on chain",
			FeeBps:      4,
			Token:       resp.Estimation.SrcChainTokenIn.Symbol,
		}},
	}
}

type debridgeOrderIDsResponse struct {
	OrderIDs []string `json:"orderIds"`
}

type debridgeOrderStatusResponse struct {
	Status string `json:"status"`
}

// GetStatus resolves the DLN order behind the source tx hash and reads its
// state. Order ids appear a few blocks after the send, so an empty list is
// reported as still bridging.
func (a *DebridgeAdapter) GetStatus(ctx context.Context, q routing.StatusQuery) (domain.BridgeStatus, error) {
	idsURL := fmt.Sprintf("%s/v1.0/dln/tx/%s/order-ids", a.baseURL, url.PathEscape(q.TxHash))
	code, body, err := httpclient.Get(ctx, a.statusClient, idsURL, nil)
	if err != nil {
		return domain.BridgeStatus{}, fmt.Errorf("deBridge order lookup failed: %w", err)
	}
	if code != http.StatusOK {
		return domain.BridgeStatus{}, fmt.Errorf("deBridge order lookup returned HTTP %d: %s", code, httpclient.Snippet(body))
	}

	var ids debridgeOrderIDsResponse
	if err := httpclient.DecodeJSON(body, &ids); err != nil {
		return domain.BridgeStatus{}, fmt.Errorf("deBridge order lookup response unreadable: %w", err)
	}
	if len(ids.OrderIDs) == 0 {
		return domain.BridgeStatus{
			State:      domain.StateBridging,
			Substatus:  "order not yet indexed",
			FromTxHash: q.TxHash,
		}, nil
	}

	statusURL := fmt.Sprintf("%s/v1.0/dln/order/%s/status", a.baseURL, url.PathEscape(ids.OrderIDs[0]))
	code, body, err = httpclient.Get(ctx, a.statusClient, statusURL, nil)
	if err != nil {
		return domain.BridgeStatus{}, fmt.Errorf("deBridge status request failed: %w", err)
	}
	if code != http.StatusOK {
		return domain.BridgeStatus{}, fmt.Errorf("deBridge status API returned HTTP %d: %s", code, httpclient.Snippet(body))
	}

	var orderStatus debridgeOrderStatusResponse
	if err := httpclient.DecodeJSON(body, &orderStatus); err != nil {
		return domain.BridgeStatus{}, fmt.Errorf("deBridge status response unreadable: %w", err)
	}

	return domain.BridgeStatus{
		State:      status.Translate(orderStatus.Status),
		Substatus:  orderStatus.Status,
		FromTxHash: q.TxHash,
	}, nil
}

func slippageFloor(amount string, bps uint16) (string, error) {
	value, err := uint256.FromDecimal(amount)
	if err != nil {
		return "", err
	}
	out := new(uint256.Int).Mul(value, uint256.NewInt(uint64(10000-bps)))
	out.Div(out, uint256.NewInt(10000))
	return out.Dec(), nil
}
