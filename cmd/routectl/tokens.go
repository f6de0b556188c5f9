package main

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cantonlink/route-engine/internal/tokens"
)

var (
	tokensChain string
	tokensQuery string
)

var tokensCmd = &cobra.Command{
	Use:     "tokens",
	Aliases: []string{"list-tokens", "ls"},
	Short:   "Search curated tokens for a chain",
	Long: `List the curated tokens the engine knows for a chain, optionally filtered
by a symbol or name substring.

Examples:
  routectl tokens --chain 1
  routectl tokens --chain canton
  routectl tokens --chain 42161 --query usdc`,
	Run: runTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)

	tokensCmd.Flags().StringVar(&tokensChain, "chain", "", "Chain id (required)")
	tokensCmd.Flags().StringVar(&tokensQuery, "query", "", "Symbol or name substring")
	_ = tokensCmd.MarkFlagRequired("chain")
}

func runTokens(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	query := url.Values{"chainId": {tokensChain}}
	if tokensQuery != "" {
		query.Set("query", tokensQuery)
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Fetching tokens..."
		s.Start()
	}

	var list []tokens.Token
	err := apiCall("GET", "/api/v1/tokens?"+query.Encode(), nil, &list)
	if !jsonOutput {
		s.Stop()
	}
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		printJSON(list)
		return
	}
	displayTokens(list)
}

func displayTokens(list []tokens.Token) {
	if len(list) == 0 {
		fmt.Println("\nNo tokens found matching the criteria.")
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 90))
	color.Green("                         TOKENS ON CHAIN %s", tokensChain)
	fmt.Println(strings.Repeat("=", 90))
	fmt.Println()

	for _, t := range list {
		fmt.Printf("  %-8s %-24s %2d decimals  %s\n",
			color.YellowString(t.Symbol), t.Name, t.Decimals, color.HiBlackString(t.Address))
	}

	fmt.Println("\n" + strings.Repeat("=", 90) + "\n")
}
