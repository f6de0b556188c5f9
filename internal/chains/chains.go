// Package chains classifies chain identifiers into ecosystem kinds and
// carries the static chain table used for display enrichment.
package chains

import (
	"strconv"
	"strings"

	ethcommon "github.com/ethereum/go-ethereum/common"
)

// Kind is the ecosystem a chain identifier belongs to. The four supported
// kinds have mutually incompatible account and transaction models, so every
// adapter is bound to exactly one of them.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindEVM
	KindSolana
	KindSui
	KindCanton
)

// Reserved non-numeric chain identifiers.
const (
	ChainSolana = "solana"
	ChainSui    = "sui"
	ChainCanton = "canton"
)

// NativeEVMToken is the conventional sentinel address providers use for the
// chain's native currency (ETH, MATIC, ...) in place of an ERC-20 address.
const NativeEVMToken = "0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE"

func (k Kind) String() string {
	switch k {
	case KindEVM:
		return "evm"
	case KindSolana:
		return "solana"
	case KindSui:
		return "sui"
	case KindCanton:
		return "canton"
	default:
		return "unknown"
	}
}

// Classify maps a chain identifier to its ecosystem kind. The three reserved
// sentinels name the non-EVM ecosystems; any decimal or 0x-hex numeric id is
// treated as an EVM chain id. Everything else is KindUnknown, which the
// resolver rejects as an unsupported chain.
func Classify(chainID string) Kind {
	id := strings.ToLower(strings.TrimSpace(chainID))

	switch id {
	case ChainSolana:
		return KindSolana
	case ChainSui:
		return KindSui
	case ChainCanton:
		return KindCanton
	case "":
		return KindUnknown
	}

	if strings.HasPrefix(id, "0x") {
		if _, err := strconv.ParseUint(id[2:], 16, 64); err == nil {
			return KindEVM
		}
		return KindUnknown
	}

	if _, err := strconv.ParseUint(id, 10, 64); err == nil {
		return KindEVM
	}

	return KindUnknown
}

// IsNativeEVMToken reports whether addr is the native-currency sentinel.
func IsNativeEVMToken(addr string) bool {
	return strings.EqualFold(addr, NativeEVMToken)
}

// IsValidEVMAddress reports whether addr is a well-formed 0x address.
func IsValidEVMAddress(addr string) bool {
	return ethcommon.IsHexAddress(addr)
}

// Info describes a known chain for display purposes. Unknown but valid EVM
// chain ids still resolve; they just have no table entry.
type Info struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Kind           string `json:"kind"`
	NativeSymbol   string `json:"nativeSymbol"`
	NativeDecimals uint8  `json:"nativeDecimals"`
	Explorer       string `json:"explorer,omitempty"`
}

var chainTable = map[string]Info{
	"1":        {ID: "1", Name: "Ethereum", Kind: "evm", NativeSymbol: "ETH", NativeDecimals: 18, Explorer: "https://etherscan.io"},
	"10":       {ID: "10", Name: "Optimism", Kind: "evm", NativeSymbol: "ETH", NativeDecimals: 18, Explorer: "https://optimistic.etherscan.io"},
	"56":       {ID: "56", Name: "BNB Chain", Kind: "evm", NativeSymbol: "BNB", NativeDecimals: 18, Explorer: "https://bscscan.com"},
	"137":      {ID: "137", Name: "Polygon", Kind: "evm", NativeSymbol: "POL", NativeDecimals: 18, Explorer: "https://polygonscan.com"},
	"8453":     {ID: "8453", Name: "Base", Kind: "evm", NativeSymbol: "ETH", NativeDecimals: 18, Explorer: "https://basescan.org"},
	"42161":    {ID: "42161", Name: "Arbitrum One", Kind: "evm", NativeSymbol: "ETH", NativeDecimals: 18, Explorer: "https://arbiscan.io"},
	"43114":    {ID: "43114", Name: "Avalanche", Kind: "evm", NativeSymbol: "AVAX", NativeDecimals: 18, Explorer: "https://snowtrace.io"},
	ChainSolana: {ID: ChainSolana, Name: "Solana", Kind: "solana", NativeSymbol: "SOL", NativeDecimals: 9, Explorer: "https://solscan.io"},
	ChainSui:    {ID: ChainSui, Name: "Sui", Kind: "sui", NativeSymbol: "SUI", NativeDecimals: 9, Explorer: "https://suiscan.xyz"},
	ChainCanton: {ID: ChainCanton, Name: "Canton Network", Kind: "canton", NativeSymbol: "CC", NativeDecimals: 10},
}

// Lookup returns the chain table entry for chainID, if one exists.
func Lookup(chainID string) (Info, bool) {
	info, ok := chainTable[strings.ToLower(strings.TrimSpace(chainID))]
	return info, ok
}

// All returns every chain in the static table.
func All() []Info {
	out := make([]Info, 0, len(chainTable))
	for _, info := range chainTable {
		out = append(out, info)
	}
	return out
}
