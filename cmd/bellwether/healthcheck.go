package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

// runHealthcheck issues a single GET against the target instance's /health
// endpoint, exiting non-zero on any failure or non-ok status.
func runHealthcheck(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(addr + "/health")
	if err != nil {
		return fmt.Errorf("healthcheck request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("healthcheck returned status %d", resp.StatusCode)
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("healthcheck response decode failed: %w", err)
	}
	if body.Status != "ok" {
		return fmt.Errorf("healthcheck reported status %q", body.Status)
	}

	fmt.Printf("bellwether at %s is healthy\n", addr)
	return nil
}
