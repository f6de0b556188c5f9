package bridge

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cantonlink/route-engine/internal/domain"
	"github.com/cantonlink/route-engine/internal/routing"
)

func TestLifiGetRouteFlattensCrossSteps(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/advanced/routes" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"routes": [{
				"id": "route-1",
				"toAmount": "995000000",
				"toAmountMin": "990000000",
				"gasCostUSD": "4.20",
				"steps": [{
					"id": "s1",
					"type": "cross",
					"tool": "stargate",
					"action": {"fromChainId": 1, "toChainId": 42161},
					"estimate": {"approvalAddress": "0xa110", "executionDuration": 180},
					"transactionRequest": {"to": "0xrouter", "data": "0xdeadbeef", "value": "0", "gasLimit": "400000"}
				}]
			}]
		}`))
	}))
	defer server.Close()

	adapter := NewLifiAdapter(server.URL, "", "cantonlink", server.Client(), server.Client())
	result := adapter.GetRoute(context.Background(), routing.RouteParams{
		FromChainID: "1",
		ToChainID:   "42161",
		FromToken:   "0xusdc",
		ToToken:     "0xusdc2",
		Amount:      "1000000000",
		SlippageBps: 50,
		Sender:      "0xsender",
	})

	if !result.Success {
		t.Fatalf("GetRoute failed: %s", result.Err)
	}
	if result.ToAmount != "995000000" || result.ToAmountMin != "990000000" {
		t.Errorf("amounts = %s/%s", result.ToAmount, result.ToAmountMin)
	}
	if result.EtaSeconds != 180 {
		t.Errorf("EtaSeconds = %d, want 180", result.EtaSeconds)
	}
	if len(result.Fees) != 1 || result.Fees[0].Amount != "4.20" {
		t.Errorf("fees = %+v", result.Fees)
	}

	wantTypes := []domain.StepType{domain.StepApprove, domain.StepBridgeSend, domain.StepBridgeReceive}
	if len(result.Steps) != len(wantTypes) {
		t.Fatalf("got %d steps, want %d: %+v", len(result.Steps), len(wantTypes), result.Steps)
	}
	for i, want := range wantTypes {
		if result.Steps[i].Type != want {
			t.Errorf("step %d type = %s, want %s", i, result.Steps[i].Type, want)
		}
	}
	if result.Steps[1].Tool != "LI.FI/stargate" {
		t.Errorf("bridgeSend tool = %s, want LI.FI/stargate", result.Steps[1].Tool)
	}
	if result.Steps[1].TransactionData == nil || result.Steps[1].TransactionData.To != "0xrouter" {
		t.Errorf("bridgeSend transaction data = %+v", result.Steps[1].TransactionData)
	}
	if result.Steps[2].TransactionData != nil {
		t.Error("bridgeReceive should carry no transaction data")
	}
}

func TestLifiGetRouteDetectsDestinationSwap(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"routes": [{
				"id": "route-2",
				"toAmount": "500",
				"toAmountMin": "495",
				"steps": [{
					"id": "l1",
					"type": "lifi",
					"tool": "lifi",
					"includedSteps": [
						{"id": "c1", "type": "cross", "tool": "across", "action": {"fromChainId": 1, "toChainId": 8453}},
						{"id": "d1", "type": "swap", "tool": "uniswap", "action": {"fromChainId": 8453, "toChainId": 8453}}
					]
				}]
			}]
		}`))
	}))
	defer server.Close()

	adapter := NewLifiAdapter(server.URL, "", "cantonlink", server.Client(), server.Client())
	result := adapter.GetRoute(context.Background(), routing.RouteParams{
		FromChainID: "1",
		ToChainID:   "8453",
		FromToken:   "0xa",
		ToToken:     "0xb",
		Amount:      "1000",
		SlippageBps: 50,
	})

	if !result.Success {
		t.Fatalf("GetRoute failed: %s", result.Err)
	}
	var sawDestinationSwap bool
	for _, step := range result.Steps {
		if step.Type == domain.StepDestinationSwap {
			sawDestinationSwap = true
		}
	}
	if !sawDestinationSwap {
		t.Errorf("expected a destinationSwap step, got %+v", result.Steps)
	}
}

func TestLifiGetRouteNoRoutes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"routes": []}`))
	}))
	defer server.Close()

	adapter := NewLifiAdapter(server.URL, "", "cantonlink", server.Client(), server.Client())
	result := adapter.GetRoute(context.Background(), routing.RouteParams{
		FromChainID: "1",
		ToChainID:   "137",
		FromToken:   "0xa",
		ToToken:     "0xb",
		Amount:      "1000",
		SlippageBps: 50,
	})

	if result.Success {
		t.Fatal("expected failure for empty route list")
	}
	if result.Kind != routing.FailNoRoute {
		t.Errorf("Kind = %v, want FailNoRoute", result.Kind)
	}
	if result.Err != "No bridge routes found for this token pair." {
		t.Errorf("Err = %q", result.Err)
	}
}

func TestLifiGetStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/status" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("txHash") != "0xabc" || q.Get("bridge") != "stargate" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": "DONE",
			"substatus": "COMPLETED",
			"sending": {"txHash": "0xabc"},
			"receiving": {"txHash": "0xdef"},
			"lifiExplorerLink": "https://scan.li.fi/tx/0xabc"
		}`))
	}))
	defer server.Close()

	adapter := NewLifiAdapter(server.URL, "", "cantonlink", server.Client(), server.Client())
	got, err := adapter.GetStatus(context.Background(), routing.StatusQuery{
		TxHash:    "0xabc",
		FromChain: "1",
		ToChain:   "42161",
		Tool:      "stargate",
	})
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if got.State != domain.StateCompleted {
		t.Errorf("State = %s, want %s", got.State, domain.StateCompleted)
	}
	if got.ToTxHash != "0xdef" || got.ExplorerLink != "https://scan.li.fi/tx/0xabc" {
		t.Errorf("status = %+v", got)
	}
}

func TestLifiChainID(t *testing.T) {
	tests := []struct {
		name    string
		chainID string
		want    int64
		wantErr bool
	}{
		{name: "ethereum", chainID: "1", want: 1},
		{name: "arbitrum", chainID: "42161", want: 42161},
		{name: "solana sentinel", chainID: "solana", want: lifiSolanaChainID},
		{name: "unsupported", chainID: "sui", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := lifiChainID(tt.chainID)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("lifiChainID(%q): %v", tt.chainID, err)
			}
			if got != tt.want {
				t.Errorf("lifiChainID(%q) = %d, want %d", tt.chainID, got, tt.want)
			}
		})
	}
}
