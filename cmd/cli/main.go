package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tappay-cli",
		Short: "TapPay CLI tool",
		Long:  `A command line interface for interacting with the TapPay transaction engine API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the TapPay API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(accountCmd(), transferCmd(), alertCmd(), ledgerCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func accountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Account operations",
	}

	var openingBalance string
	createCmd := &cobra.Command{
		Use:   "create <username>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{
				"username":        args[0],
				"opening_balance": openingBalance,
			}
			return postJSON("/api/v1/accounts", "", body)
		},
	}
	createCmd.Flags().StringVar(&openingBalance, "balance", "0", "Opening balance")

	getCmd := &cobra.Command{
		Use:   "get <account-id>",
		Short: "Show an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/accounts/" + args[0])
		},
	}

	cmd.AddCommand(createCmd, getCmd)
	return cmd
}

func transferCmd() *cobra.Command {
	var (
		sender    string
		receiver  string
		deviceTag string
	)

	cmd := &cobra.Command{
		Use:   "transfer <amount>",
		Short: "Send a tap transfer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{
				"receiver_username": receiver,
				"amount":            args[0],
				"device_tag":        deviceTag,
			}
			return postJSON("/api/v1/transfers", sender, body)
		},
	}

	cmd.Flags().StringVar(&sender, "from", "", "Sender account ID")
	cmd.Flags().StringVar(&receiver, "to", "", "Receiver username")
	cmd.Flags().StringVar(&deviceTag, "device", "", "Device tag")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")

	return cmd
}

func alertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alert",
		Short: "Fraud alert triage",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List fraud alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/alerts")
		},
	}

	triageCmd := &cobra.Command{
		Use:   "triage <alert-id> <status>",
		Short: "Move an alert to REVIEWED or RESOLVED",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return patchJSON("/api/v1/alerts/"+args[0]+"/status", map[string]string{"status": args[1]})
		},
	}

	cmd.AddCommand(listCmd, triageCmd)
	return cmd
}

func ledgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	var expectedTotal string
	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check that the balance sum matches the expected total",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/ledger/consistency"
			if expectedTotal != "" {
				path += "?expected_total=" + expectedTotal
			}
			return getJSON(path)
		},
	}
	consistencyCmd.Flags().StringVar(&expectedTotal, "expected", "", "Expected total balance")

	cmd.AddCommand(consistencyCmd)
	return cmd
}

func getJSON(path string) error {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func postJSON(path, accountID string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if accountID != "" {
		req.Header.Set("X-Account-ID", accountID)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func patchJSON(path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPatch, baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		fmt.Println(string(body))
	} else {
		printJSON(decoded)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	return nil
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("failed to render response: %v\n", err)
		return
	}
	fmt.Println(string(out))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
