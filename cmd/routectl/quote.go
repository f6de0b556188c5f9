package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cantonlink/route-engine/internal/domain"
)

var (
	quoteFromChain string
	quoteToChain   string
	quoteFromToken string
	quoteToToken   string
	quoteAmount    string
	quoteSlippage  uint16
	quoteMode      string
	quoteSender    string
	quoteRecipient string
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Resolve a transfer into an executable route",
	Long: `Resolve a transfer request into one executable route: a same-chain swap,
a bridge, or a bridge with a destination swap.

Amounts are in smallest token units (wei, lamports, base units).

Examples:
  routectl quote --from-chain 1 --to-chain 1 --from-token 0xeeee...eeee --to-token 0xa0b8...eb48 --amount 1000000000000000000
  routectl quote --from-chain 1 --to-chain canton --from-token 0xa0b8...eb48 --to-token canton:usdc --amount 100000000 --mode BRIDGE_ONLY`,
	Run: runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)

	quoteCmd.Flags().StringVar(&quoteFromChain, "from-chain", "", "Source chain id (required)")
	quoteCmd.Flags().StringVar(&quoteToChain, "to-chain", "", "Destination chain id (required)")
	quoteCmd.Flags().StringVar(&quoteFromToken, "from-token", "", "Source token address (required)")
	quoteCmd.Flags().StringVar(&quoteToToken, "to-token", "", "Destination token address (required)")
	quoteCmd.Flags().StringVar(&quoteAmount, "amount", "", "Amount in smallest token units (required)")
	quoteCmd.Flags().Uint16Var(&quoteSlippage, "slippage", 0, "Slippage tolerance in bps (default 50)")
	quoteCmd.Flags().StringVar(&quoteMode, "mode", "AUTO", "Routing mode: AUTO, SWAP_ONLY or BRIDGE_ONLY")
	quoteCmd.Flags().StringVar(&quoteSender, "sender", "", "Sender address (enables transaction building)")
	quoteCmd.Flags().StringVar(&quoteRecipient, "recipient", "", "Recipient address (defaults to sender)")

	for _, required := range []string{"from-chain", "to-chain", "from-token", "to-token", "amount"} {
		_ = quoteCmd.MarkFlagRequired(required)
	}
}

func runQuote(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	req := domain.TransferRequest{
		FromChain:   quoteFromChain,
		ToChain:     quoteToChain,
		FromToken:   quoteFromToken,
		ToToken:     quoteToToken,
		Amount:      quoteAmount,
		SlippageBps: quoteSlippage,
		Mode:        domain.Mode(quoteMode),
		FromAddress: quoteSender,
		ToAddress:   quoteRecipient,
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Resolving route..."
		s.Start()
	}

	var route domain.Route
	err := apiCall("POST", "/api/v1/quote", req, &route)
	if !jsonOutput {
		s.Stop()
	}
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		printJSON(route)
		return
	}
	displayRoute(&route)
}

func displayRoute(route *domain.Route) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                          RESOLVED ROUTE")
	fmt.Println(strings.Repeat("=", 70))

	fmt.Printf("\n  Route ID:     %s\n", color.CyanString(route.RouteID))
	fmt.Printf("  Type:         %s\n", color.YellowString(string(route.RouteType)))
	fmt.Printf("  Provider:     %s\n", route.Provider)
	fmt.Printf("  Reason:       %s\n", route.RouteReason)
	fmt.Printf("  From:         %v on chain %s\n", route.FromToken, route.FromChain)
	fmt.Printf("  To:           %v on chain %s\n", route.ToToken, route.ToChain)
	fmt.Printf("  Amount In:    %s\n", route.FromAmount)
	fmt.Printf("  Amount Out:   %s (min %s)\n", route.ToAmount, route.ToAmountMin)
	if route.ExchangeRate != "" {
		fmt.Printf("  Rate:         %s\n", route.ExchangeRate)
	}
	if route.EtaSeconds > 0 {
		fmt.Printf("  ETA:          ~%ds\n", route.EtaSeconds)
	}

	if len(route.Steps) > 0 {
		fmt.Println("\n  Steps:")
		for i, step := range route.Steps {
			marker := "tx ready"
			if step.TransactionData == nil {
				marker = "no tx data"
			}
			fmt.Printf("    %d. [%s] %s (%s)\n", i+1, color.YellowString(string(step.Type)), step.Description, color.HiBlackString(marker))
		}
	}

	if len(route.Fees) > 0 {
		fmt.Println("\n  Fees (disclosed, not deducted):")
		for _, fee := range route.Fees {
			fmt.Printf("    - %s: %s %s (%d bps)\n", fee.Name, fee.Amount, fee.Token, fee.FeeBps)
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
}
