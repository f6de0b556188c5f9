package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
)

var serverURL string

var rootCmd = &cobra.Command{
	Use:   "routectl",
	Short: "CLI for the CantonLink route engine",
	Long: `routectl talks to a running route engine and resolves transfers into
executable routes, tracks bridge transfers and searches curated tokens.

Examples:
  routectl quote --from-chain 1 --to-chain 42161 --from-token 0xa0b8...eb48 --to-token 0xaf88...5831 --amount 100000000
  routectl status 0x1234...abcd --from-chain 1 --to-chain 42161
  routectl tokens --chain canton`,
	Version: "1.0.0",
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	defaultServer := os.Getenv("ROUTE_ENGINE_URL")
	if defaultServer == "" {
		defaultServer = "http://localhost:8080"
	}
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServer, "Route engine base URL")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
}

func printError(err error) {
	fmt.Printf("\nError: %v\n\n", err)
}

// envelope mirrors the server's response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Code    string          `json:"code"`
	Error   string          `json:"error"`
}

func apiCall(method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := sonic.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, serverURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return err
	}

	var env envelope
	if err := sonic.Unmarshal(payload, &env); err != nil {
		return fmt.Errorf("unreadable response (HTTP %d)", resp.StatusCode)
	}
	if !env.Success {
		if env.Code != "" {
			return fmt.Errorf("%s: %s", env.Code, env.Error)
		}
		return fmt.Errorf("%s", env.Error)
	}
	if out != nil {
		return sonic.Unmarshal(env.Data, out)
	}
	return nil
}

func printJSON(v any) {
	encoded, _ := sonic.MarshalIndent(v, "", "  ")
	fmt.Println(string(encoded))
}
