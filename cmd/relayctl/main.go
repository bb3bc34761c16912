// Package main is the entry point for the relayctl binary.
// It provides a small CLI for operating a running credential relay.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

const (
	defaultRelayURL = "http://127.0.0.1:8080"
	requestTimeout  = 90 * time.Second
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd creates the root command for relayctl.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "relayctl",
		Short: "Operator CLI for the credential relay",
		Long: `relayctl talks to a running credential relay over HTTP.

It checks liveness, probes the SMS vendor connection, reads the SMS
balance, and sends test messages through the relay's convenience
endpoints.

Example:
  relayctl --relay-url http://127.0.0.1:8080 health`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringP("relay-url", "r", defaultRelayURL, "Base URL of the running relay")

	rootCmd.AddCommand(newHealthCmd())
	rootCmd.AddCommand(newBalanceCmd())
	rootCmd.AddCommand(newTestCmd())
	rootCmd.AddCommand(newSendCmd())

	return rootCmd
}

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Report relay liveness and detected credential sources",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return getJSON(cmd, "/health")
		},
	}
}

func newBalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Fetch the SMS account balance through the relay",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return getJSON(cmd, "/api/sms/balance")
		},
	}
}

func newTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Probe the SMS vendor connection through the relay",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return getJSON(cmd, "/api/sms/test")
		},
	}
}

func newSendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send an SMS through the relay",
		RunE:  runSend,
	}
	cmd.Flags().StringP("message", "m", "", "Message body")
	cmd.Flags().StringSliceP("to", "t", nil, "Recipient phone number, repeatable")
	_ = cmd.MarkFlagRequired("message")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func runSend(cmd *cobra.Command, _ []string) error {
	message, err := cmd.Flags().GetString("message")
	if err != nil {
		return err
	}
	recipients, err := cmd.Flags().GetStringSlice("to")
	if err != nil {
		return err
	}

	body, err := json.Marshal(map[string]any{
		"message":    message,
		"recipients": recipients,
	})
	if err != nil {
		return err
	}

	return postJSON(cmd, "/api/sms/send", body)
}

func getJSON(cmd *cobra.Command, path string) error {
	return doRequest(cmd, http.MethodGet, path, nil)
}

func postJSON(cmd *cobra.Command, path string, body []byte) error {
	return doRequest(cmd, http.MethodPost, path, body)
}

// doRequest calls the relay and pretty-prints the JSON reply. Non-2xx relay
// replies are printed too and surfaced as an error exit.
func doRequest(cmd *cobra.Command, method, path string, body []byte) error {
	relayURL, err := cmd.Flags().GetString("relay-url")
	if err != nil {
		return fmt.Errorf("failed to get relay-url flag: %w", err)
	}
	target := strings.TrimRight(relayURL, "/") + path

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(cmd.Context(), method, target, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: requestTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("relay unreachable at %s: %w", relayURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	printJSON(cmd.OutOrStdout(), payload)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("relay returned HTTP %d", resp.StatusCode)
	}
	return nil
}

func printJSON(w io.Writer, payload []byte) {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, payload, "", "  "); err != nil {
		_, _ = w.Write(payload)
		fmt.Fprintln(w)
		return
	}
	_, _ = pretty.WriteTo(w)
	fmt.Fprintln(w)
}
