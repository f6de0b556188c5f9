package canton

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/cantonlink/route-engine/internal/adapters/httpclient"
	"github.com/cantonlink/route-engine/internal/common"
	"github.com/cantonlink/route-engine/internal/domain"
	"github.com/cantonlink/route-engine/internal/routing"
	"github.com/cantonlink/route-engine/internal/status"
)

// Mainnet contract set, from digital-asset/xreserve-deposits.
const (
	XReserveContract = "0x8888888199b2Df864bf678259607d6D5EBb4e3Ce"
	USDCEthereum     = "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"
	CantonDomainID   = 10001

	// keccak256("depositToRemote(uint256,uint32,bytes32,address,uint256,bytes)")[:4]
	depositToRemoteSelector = "0x2a0d0f97"

	depositEtaSeconds = 300
	burnEtaSeconds    = 600
)

// XReserveAdapter bridges USDC between Ethereum and the settlement network
// through Circle's xReserve contract. Deposits lock USDC on Ethereum and mint
// USDCx 1:1; burns release it back. Attestation status comes from Circle's
// free attestation API.
type XReserveAdapter struct {
	attestationBaseURL string
	statusClient       *http.Client
}

func NewXReserveAdapter(attestationBaseURL string, statusClient *http.Client) *XReserveAdapter {
	return &XReserveAdapter{attestationBaseURL: attestationBaseURL, statusClient: statusClient}
}

func (a *XReserveAdapter) Name() string {
	return "Canton xReserve"
}

func (a *XReserveAdapter) GetRoute(ctx context.Context, params routing.RouteParams) routing.RouteResult {
	from := strings.ToLower(strings.TrimSpace(params.FromChainID))
	to := strings.ToLower(strings.TrimSpace(params.ToChainID))

	isDeposit := (from == "1" || from == "ethereum") && to == "canton"
	isBurn := from == "canton" && (to == "1" || to == "ethereum")

	switch {
	case isDeposit:
		return a.depositRoute(params)
	case isBurn:
		return a.burnRoute(params)
	default:
		return routing.RouteFailure(routing.FailNoRoute,
			fmt.Sprintf("Canton xReserve only bridges between Ethereum and Canton, got %s -> %s", params.FromChainID, params.ToChainID))
	}
}

func (a *XReserveAdapter) depositRoute(params routing.RouteParams) routing.RouteResult {
	recipient := firstNonEmpty(params.Recipient, params.Sender)
	if recipient == "" {
		return routing.RouteFailure(routing.FailUpstream, "Canton recipient party ID required for xReserve deposit")
	}

	amount, err := uint256.FromDecimal(params.Amount)
	if err != nil || amount.IsZero() {
		return routing.RouteFailure(routing.FailUpstream, fmt.Sprintf("invalid amount %q", params.Amount))
	}

	approveData := approveCalldata(XReserveContract, amount)
	depositData := depositCalldata(amount, recipient)

	steps := []domain.RouteStep{
		{
			Type:        domain.StepApprove,
			Description: "Approve USDC for the xReserve contract",
			ChainID:     params.FromChainID,
			Tool:        a.Name(),
			TransactionData: &domain.TransactionData{
				To:    USDCEthereum,
				Data:  approveData,
				Value: "0",
			},
		},
		{
			Type:        domain.StepBridgeSend,
			Description: fmt.Sprintf("Deposit USDC to Canton via xReserve (domain %d)", CantonDomainID),
			ChainID:     params.FromChainID,
			Tool:        a.Name(),
			TransactionData: &domain.TransactionData{
				To:    XReserveContract,
				Data:  depositData,
				Value: "0",
			},
			EtaSeconds: depositEtaSeconds,
		},
		{
			Type:        domain.StepBridgeReceive,
			Description: "Wait for the Circle attestation, then mint USDCx on Canton",
			ChainID:     "canton",
			Tool:        "Circle xReserve API",
			EtaSeconds:  depositEtaSeconds,
		},
	}

	// Locked 1:1, no slippage on a mint.
	return routing.RouteResult{
		Success:      true,
		Provider:     a.Name(),
		ToAmount:     amount.Dec(),
		ToAmountMin:  amount.Dec(),
		ExchangeRate: "1.0",
		PriceImpact:  "0",
		EtaSeconds:   depositEtaSeconds,
		Steps:        steps,
		Fees: []domain.FeeInfo{{
			Name:   "xReserve bridge fee",
			FeeBps: 0,
			Amount: "0",
			Token:  "USDC",
		}},
	}
}

func (a *XReserveAdapter) burnRoute(params routing.RouteParams) routing.RouteResult {
	recipient := firstNonEmpty(params.Recipient, params.Sender)
	if !ethcommon.IsHexAddress(recipient) {
		return routing.RouteFailure(routing.FailUpstream, "Ethereum recipient address required for xReserve burn")
	}

	amount, err := uint256.FromDecimal(params.Amount)
	if err != nil || amount.IsZero() {
		return routing.RouteFailure(routing.FailUpstream, fmt.Sprintf("invalid amount %q", params.Amount))
	}

	burn := map[string]any{
		"type":                 "canton:bridge:burn",
		"choice":               "BridgeUserAgreement_Burn",
		"amount":               amount.Dec(),
		"destinationDomain":    "0",
		"destinationRecipient": recipient,
	}
	serialized, merr := sonic.MarshalString(burn)
	if merr != nil {
		return routing.RouteFailure(routing.FailUpstream, fmt.Sprintf("burn command serialization failed: %v", merr))
	}

	steps := []domain.RouteStep{
		{
			Type:            domain.StepBridgeSend,
			Description:     "Burn USDCx on Canton to release USDC on Ethereum",
			ChainID:         "canton",
			Tool:            "Canton Ledger",
			TransactionData: &domain.TransactionData{SerializedTransaction: serialized},
			EtaSeconds:      burnEtaSeconds,
		},
		{
			Type:        domain.StepBridgeReceive,
			Description: fmt.Sprintf("USDC released to %s on Ethereum", recipient),
			ChainID:     params.ToChainID,
			Tool:        a.Name(),
			EtaSeconds:  burnEtaSeconds,
		},
	}

	return routing.RouteResult{
		Success:      true,
		Provider:     a.Name(),
		ToAmount:     amount.Dec(),
		ToAmountMin:  amount.Dec(),
		ExchangeRate: "1.0",
		PriceImpact:  "0",
		EtaSeconds:   burnEtaSeconds,
		Steps:        steps,
		Fees: []domain.FeeInfo{{
			Name:   "xReserve burn fee",
			FeeBps: 0,
			Amount: "0",
			Token:  "USDCx",
		}},
	}
}

type attestationResponse struct {
	Status      string `json:"status"`
	Attestation string `json:"attestation"`
}

// GetStatus polls the Circle attestation API keyed by the deposit message
// hash. A 404 means the deposit has not been observed yet, which is still an
// in-flight bridge, not an error.
func (a *XReserveAdapter) GetStatus(ctx context.Context, q routing.StatusQuery) (domain.BridgeStatus, error) {
	statusURL := fmt.Sprintf("%s/v1/attestations/%s", a.attestationBaseURL, q.TxHash)
	code, body, err := httpclient.Get(ctx, a.statusClient, statusURL, nil)
	if err != nil {
		return domain.BridgeStatus{}, fmt.Errorf("xReserve attestation request failed: %w", err)
	}
	if code == http.StatusNotFound {
		return domain.BridgeStatus{
			State:      domain.StateBridging,
			Substatus:  "attestation pending",
			FromTxHash: q.TxHash,
		}, nil
	}
	if code != http.StatusOK {
		return domain.BridgeStatus{}, fmt.Errorf("xReserve attestation API returned HTTP %d: %s", code, httpclient.Snippet(body))
	}

	var resp attestationResponse
	if err := httpclient.DecodeJSON(body, &resp); err != nil {
		return domain.BridgeStatus{}, fmt.Errorf("xReserve attestation response unreadable: %w", err)
	}

	state := status.Translate(resp.Status)
	if strings.EqualFold(resp.Status, "attested") {
		state = domain.StateCompleted
	}
	return domain.BridgeStatus{
		State:      state,
		Substatus:  resp.Status,
		FromTxHash: q.TxHash,
	}, nil
}

func approveCalldata(spender string, amount *uint256.Int) string {
	spenderWord := ethcommon.LeftPadBytes(ethcommon.HexToAddress(spender).Bytes(), 32)
	amountWord := amount.Bytes32()
	return common.ERC20ApproveSelector + hex.EncodeToString(spenderWord) + hex.EncodeToString(amountWord[:])
}

// depositCalldata encodes depositToRemote(value, remoteDomain, remoteRecipient,
// localToken, maxFee, hookData) with empty hookData. The recipient party ID is
// UTF-8 encoded, truncated and right-padded to 32 bytes.
func depositCalldata(amount *uint256.Int, cantonRecipient string) string {
	var buf strings.Builder
	buf.WriteString(depositToRemoteSelector)

	amountWord := amount.Bytes32()
	buf.WriteString(hex.EncodeToString(amountWord[:]))

	domainWord := uint256.NewInt(CantonDomainID).Bytes32()
	buf.WriteString(hex.EncodeToString(domainWord[:]))

	buf.WriteString(encodeRecipientWord(cantonRecipient))

	tokenWord := ethcommon.LeftPadBytes(ethcommon.HexToAddress(USDCEthereum).Bytes(), 32)
	buf.WriteString(hex.EncodeToString(tokenWord))

	// maxFee = 0
	buf.WriteString(strings.Repeat("0", 64))
	// hookData: dynamic bytes at offset 0xc0, length 0
	buf.WriteString(hex.EncodeToString(ethcommon.LeftPadBytes([]byte{0xc0}, 32)))
	buf.WriteString(strings.Repeat("0", 64))

	return buf.String()
}

func encodeRecipientWord(partyID string) string {
	raw := []byte(partyID)
	if len(raw) > 32 {
		raw = raw[:32]
	}
	word := make([]byte, 32)
	copy(word, raw)
	return hex.EncodeToString(word)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
