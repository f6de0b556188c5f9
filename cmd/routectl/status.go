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

	"github.com/cantonlink/route-engine/internal/domain"
)

var (
	statusFromChain string
	statusToChain   string
	statusBridge    string
	watchStatus     bool
	watchInterval   int
)

var statusCmd = &cobra.Command{
	Use:   "status <tx-hash>",
	Short: "Check the status of a bridge transfer",
	Long: `Check the current state of a bridge transfer by its source chain tx hash.

Examples:
  routectl status 0x1234...abcd --from-chain 1 --to-chain 42161
  routectl status 0x1234...abcd --from-chain 1 --to-chain canton --watch`,
	Args: cobra.ExactArgs(1),
	Run:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVar(&statusFromChain, "from-chain", "", "Source chain id")
	statusCmd.Flags().StringVar(&statusToChain, "to-chain", "", "Destination chain id")
	statusCmd.Flags().StringVar(&statusBridge, "bridge", "", "Bridge tool hint, e.g. stargate")
	statusCmd.Flags().BoolVarP(&watchStatus, "watch", "w", false, "Watch status updates until terminal")
	statusCmd.Flags().IntVar(&watchInterval, "interval", 10, "Polling interval in seconds (when watching)")
}

func runStatus(cmd *cobra.Command, args []string) {
	txHash := args[0]
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if watchStatus {
		if jsonOutput {
			fmt.Println(`{"error": "watch mode not supported with JSON output"}`)
			os.Exit(1)
		}
		watchBridgeStatus(txHash)
		return
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Checking bridge status..."
		s.Start()
	}

	bridgeStatus, err := fetchBridgeStatus(txHash)
	if !jsonOutput {
		s.Stop()
	}
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		printJSON(bridgeStatus)
		return
	}
	displayBridgeStatus(bridgeStatus, txHash)
}

func watchBridgeStatus(txHash string) {
	fmt.Printf("\nWatching bridge status (Tx: %s)\n", color.CyanString(txHash))
	fmt.Printf("Checking every %d seconds. Press Ctrl+C to stop.\n", watchInterval)

	ticker := time.NewTicker(time.Duration(watchInterval) * time.Second)
	defer ticker.Stop()

	for {
		bridgeStatus, err := fetchBridgeStatus(txHash)
		if err != nil {
			color.Red("Error: %v", err)
		} else {
			displayBridgeStatus(bridgeStatus, txHash)
			if domain.IsTerminalState(bridgeStatus.State) {
				return
			}
		}
		<-ticker.C
	}
}

func fetchBridgeStatus(txHash string) (*domain.BridgeStatus, error) {
	query := url.Values{"txHash": {txHash}}
	if statusFromChain != "" {
		query.Set("fromChain", statusFromChain)
	}
	if statusToChain != "" {
		query.Set("toChain", statusToChain)
	}
	if statusBridge != "" {
		query.Set("bridge", statusBridge)
	}

	var bridgeStatus domain.BridgeStatus
	if err := apiCall("GET", "/api/v1/status?"+query.Encode(), nil, &bridgeStatus); err != nil {
		return nil, err
	}
	return &bridgeStatus, nil
}

func displayBridgeStatus(bridgeStatus *domain.BridgeStatus, txHash string) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                        BRIDGE STATUS")
	fmt.Println(strings.Repeat("=", 70))

	fmt.Printf("\n  Source Tx:    %s\n", color.CyanString(txHash))
	fmt.Printf("  State:        %s\n", coloredState(bridgeStatus.State))
	if bridgeStatus.Substatus != "" {
		fmt.Printf("  Substatus:    %s\n", bridgeStatus.Substatus)
	}
	if bridgeStatus.ToTxHash != "" {
		fmt.Printf("  Dest Tx:      %s\n", color.HiBlackString(bridgeStatus.ToTxHash))
	}
	if bridgeStatus.ExplorerLink != "" {
		fmt.Printf("  Explorer:     %s\n", bridgeStatus.ExplorerLink)
	}

	fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
}

func coloredState(state string) string {
	switch state {
	case domain.StateCompleted:
		return color.GreenString(state)
	case domain.StateFailed:
		return color.RedString(state)
	default:
		return color.YellowString(state)
	}
}
