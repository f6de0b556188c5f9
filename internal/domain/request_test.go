package domain

import "testing"

func TestTransferRequestNormalize(t *testing.T) {
	req := TransferRequest{FromChain: " 1 ", ToChain: "42161"}
	req.Normalize()

	if req.FromChain != "1" {
		t.Errorf("FromChain = %q, want trimmed", req.FromChain)
	}
	if req.Mode != ModeAuto {
		t.Errorf("Mode = %q, want AUTO default", req.Mode)
	}
	if req.SlippageBps != DefaultSlippageBps {
		t.Errorf("SlippageBps = %d, want %d", req.SlippageBps, DefaultSlippageBps)
	}
}

func TestTransferRequestValidate(t *testing.T) {
	valid := func() TransferRequest {
		return TransferRequest{
			FromChain:   "1",
			ToChain:     "1",
			FromToken:   "0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE",
			ToToken:     "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
			Amount:      "1000000000000000000",
			SlippageBps: 50,
			Mode:        ModeAuto,
		}
	}

	tests := []struct {
		name     string
		mutate   func(*TransferRequest)
		wantCode string
	}{
		{name: "valid", mutate: func(r *TransferRequest) {}, wantCode: ""},
		{name: "missing chain", mutate: func(r *TransferRequest) { r.ToChain = "" }, wantCode: CodeValidation},
		{name: "missing token", mutate: func(r *TransferRequest) { r.FromToken = "" }, wantCode: CodeValidation},
		{name: "empty amount", mutate: func(r *TransferRequest) { r.Amount = "" }, wantCode: CodeValidation},
		{name: "zero amount", mutate: func(r *TransferRequest) { r.Amount = "0" }, wantCode: CodeValidation},
		{name: "decimal amount", mutate: func(r *TransferRequest) { r.Amount = "1.5" }, wantCode: CodeValidation},
		{name: "negative amount", mutate: func(r *TransferRequest) { r.Amount = "-10" }, wantCode: CodeValidation},
		{name: "hex amount", mutate: func(r *TransferRequest) { r.Amount = "0xff" }, wantCode: CodeValidation},
		{name: "slippage too high", mutate: func(r *TransferRequest) { r.SlippageBps = 5001 }, wantCode: CodeValidation},
		{name: "slippage at cap", mutate: func(r *TransferRequest) { r.SlippageBps = 5000 }, wantCode: ""},
		{name: "bad mode", mutate: func(r *TransferRequest) { r.Mode = "FASTEST" }, wantCode: CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || err.Code != tt.wantCode {
				t.Fatalf("Validate() = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestRoutingErrorHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{CodeValidation, 400},
		{CodeModeSwapCrossChain, 400},
		{CodeNoAdapter, 400},
		{CodeQuoteFailed, 400},
		{CodeNoRouteFound, 404},
		{CodeNetworkError, 502},
		{CodeInternalError, 500},
	}
	for _, tt := range tests {
		if got := NewRoutingError(tt.code, "x").HTTPStatus(); got != tt.want {
			t.Errorf("HTTPStatus(%s) = %d, want %d", tt.code, got, tt.want)
		}
	}
}
