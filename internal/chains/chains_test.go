package chains

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		chainID string
		want    Kind
	}{
		{name: "ethereum mainnet decimal", chainID: "1", want: KindEVM},
		{name: "arbitrum decimal", chainID: "42161", want: KindEVM},
		{name: "hex chain id", chainID: "0x1", want: KindEVM},
		{name: "hex chain id uppercase", chainID: "0xA4B1", want: KindEVM},
		{name: "solana sentinel", chainID: "solana", want: KindSolana},
		{name: "solana sentinel mixed case", chainID: "Solana", want: KindSolana},
		{name: "sui sentinel", chainID: "sui", want: KindSui},
		{name: "canton sentinel", chainID: "canton", want: KindCanton},
		{name: "sentinel with whitespace", chainID: "  canton ", want: KindCanton},
		{name: "empty", chainID: "", want: KindUnknown},
		{name: "garbage", chainID: "not-a-chain", want: KindUnknown},
		{name: "negative number", chainID: "-5", want: KindUnknown},
		{name: "hex with invalid digits", chainID: "0xzz", want: KindUnknown},
		{name: "bare hex prefix", chainID: "0x", want: KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.chainID); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.chainID, got, tt.want)
			}
		})
	}
}

func TestIsNativeEVMToken(t *testing.T) {
	if !IsNativeEVMToken("0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE") {
		t.Error("sentinel address not recognized")
	}
	if !IsNativeEVMToken("0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee") {
		t.Error("sentinel comparison must be case-insensitive")
	}
	if IsNativeEVMToken("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48") {
		t.Error("USDC address misclassified as native")
	}
}

func TestLookup(t *testing.T) {
	info, ok := Lookup("1")
	if !ok {
		t.Fatal("expected chain table entry for ethereum")
	}
	if info.Name != "Ethereum" || info.NativeSymbol != "ETH" {
		t.Errorf("unexpected table entry: %+v", info)
	}

	if _, ok := Lookup("999999"); ok {
		t.Error("unlisted chain id should not resolve in the table")
	}

	canton, ok := Lookup("CANTON")
	if !ok || canton.NativeDecimals != 10 {
		t.Errorf("canton entry = %+v, ok=%v", canton, ok)
	}
}
