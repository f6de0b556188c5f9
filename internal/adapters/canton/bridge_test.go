package canton

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cantonlink/route-engine/internal/domain"
	"github.com/cantonlink/route-engine/internal/routing"
)

func TestXReserveDepositRoute(t *testing.T) {
	adapter := NewXReserveAdapter("http://unused", http.DefaultClient)

	result := adapter.GetRoute(context.Background(), routing.RouteParams{
		FromChainID: "1",
		ToChainID:   "canton",
		FromToken:   USDCEthereum,
		ToToken:     "canton:usdc",
		Amount:      "25000000",
		Sender:      "0x1111111111111111111111111111111111111111",
		Recipient:   "alice::1220abcdef",
	})
	if !result.Success {
		t.Fatalf("GetRoute failed: %s", result.Err)
	}
	if result.ToAmount != "25000000" || result.ToAmountMin != "25000000" {
		t.Errorf("deposit is not 1:1: toAmount=%s min=%s", result.ToAmount, result.ToAmountMin)
	}

	if len(result.Steps) != 3 {
		t.Fatalf("steps = %d, want approve, send, receive", len(result.Steps))
	}
	approve, send, receive := result.Steps[0], result.Steps[1], result.Steps[2]

	if approve.Type != domain.StepApprove || approve.TransactionData == nil {
		t.Fatal("first step is not a signable approval")
	}
	if approve.TransactionData.To != USDCEthereum {
		t.Errorf("approve target = %s, want the USDC contract", approve.TransactionData.To)
	}
	if !strings.HasPrefix(approve.TransactionData.Data, "0x095ea7b3") {
		t.Errorf("approve calldata %q does not start with the approve selector", approve.TransactionData.Data)
	}

	if send.Type != domain.StepBridgeSend || send.TransactionData == nil {
		t.Fatal("second step is not the signable deposit")
	}
	if send.TransactionData.To != XReserveContract {
		t.Errorf("deposit target = %s, want the xReserve contract", send.TransactionData.To)
	}
	if !strings.HasPrefix(send.TransactionData.Data, depositToRemoteSelector) {
		t.Errorf("deposit calldata does not start with depositToRemote selector")
	}
	// selector + 6 words
	if want := len(depositToRemoteSelector) + 6*64; len(send.TransactionData.Data) != want {
		t.Errorf("deposit calldata length = %d, want %d", len(send.TransactionData.Data), want)
	}

	if receive.Type != domain.StepBridgeReceive || receive.TransactionData != nil {
		t.Error("third step should be a wait-only receive")
	}
	if receive.ChainID != "canton" {
		t.Errorf("receive chain = %s, want canton", receive.ChainID)
	}
}

func TestXReserveDepositRequiresRecipient(t *testing.T) {
	adapter := NewXReserveAdapter("http://unused", http.DefaultClient)

	result := adapter.GetRoute(context.Background(), routing.RouteParams{
		FromChainID: "1",
		ToChainID:   "canton",
		Amount:      "1000000",
	})
	if result.Success || result.Kind != routing.FailUpstream {
		t.Fatalf("result = %+v, want upstream failure without a recipient", result)
	}
}

func TestXReserveBurnRoute(t *testing.T) {
	adapter := NewXReserveAdapter("http://unused", http.DefaultClient)

	result := adapter.GetRoute(context.Background(), routing.RouteParams{
		FromChainID: "canton",
		ToChainID:   "1",
		Amount:      "5000000",
		Recipient:   "0x2222222222222222222222222222222222222222",
	})
	if !result.Success {
		t.Fatalf("GetRoute failed: %s", result.Err)
	}
	if len(result.Steps) != 2 {
		t.Fatalf("steps = %d, want burn then release", len(result.Steps))
	}
	burn := result.Steps[0]
	if burn.Type != domain.StepBridgeSend || burn.TransactionData == nil {
		t.Fatal("burn step is not signable")
	}
	if !strings.Contains(burn.TransactionData.SerializedTransaction, "BridgeUserAgreement_Burn") {
		t.Error("burn command does not name the ledger choice")
	}

	// Burns settle on Ethereum, so the recipient must be a hex address.
	bad := adapter.GetRoute(context.Background(), routing.RouteParams{
		FromChainID: "canton",
		ToChainID:   "1",
		Amount:      "5000000",
		Recipient:   "alice::1220abcdef",
	})
	if bad.Success || bad.Kind != routing.FailUpstream {
		t.Errorf("burn with a party-ID recipient succeeded: %+v", bad)
	}
}

func TestXReserveRejectsOtherCorridors(t *testing.T) {
	adapter := NewXReserveAdapter("http://unused", http.DefaultClient)

	result := adapter.GetRoute(context.Background(), routing.RouteParams{
		FromChainID: "137",
		ToChainID:   "canton",
		Amount:      "1000000",
	})
	if result.Success || result.Kind != routing.FailNoRoute {
		t.Fatalf("result = %+v, want no-route for a non-Ethereum source", result)
	}
}

func TestXReserveGetStatus(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		wantState  string
	}{
		{name: "not yet observed", statusCode: http.StatusNotFound, body: `{}`, wantState: domain.StateBridging},
		{name: "pending attestation", statusCode: http.StatusOK, body: `{"status":"pending_confirmations"}`, wantState: domain.StateBridging},
		{name: "attested completes", statusCode: http.StatusOK, body: `{"status":"attested","attestation":"0xabc"}`, wantState: domain.StateCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if !strings.HasPrefix(r.URL.Path, "/v1/attestations/") {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			adapter := NewXReserveAdapter(srv.URL, srv.Client())
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			got, err := adapter.GetStatus(ctx, routing.StatusQuery{TxHash: "0xdeadbeef"})
			if err != nil {
				t.Fatalf("GetStatus: %v", err)
			}
			if got.State != tt.wantState {
				t.Errorf("state = %s, want %s", got.State, tt.wantState)
			}
			if got.FromTxHash != "0xdeadbeef" {
				t.Errorf("fromTxHash = %s", got.FromTxHash)
			}
		})
	}
}
