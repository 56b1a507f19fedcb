package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/openclaw-concierge/internal/lifecycle"
)

// lifecycleCmd asks a running server to sweep its conversations; the
// registry lives in the server process.
func lifecycleCmd() *cobra.Command {
	var (
		dryRun bool
		addr   string
	)

	cmd := &cobra.Command{
		Use:   "lifecycle",
		Short: "Expire idle conversations on a running server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = cfg.API.ListenAddr
			}
			if !strings.HasPrefix(addr, "http://") && !strings.HasPrefix(addr, "https://") {
				if strings.HasPrefix(addr, ":") {
					addr = "localhost" + addr
				}
				addr = "http://" + addr
			}

			body, err := json.Marshal(map[string]bool{"dry_run": dryRun})
			if err != nil {
				return fmt.Errorf("lifecycle: encoding request: %w", err)
			}
			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodPost, strings.TrimRight(addr, "/")+"/v1/lifecycle", bytes.NewReader(body))
			if err != nil {
				return fmt.Errorf("lifecycle: building request: %w", err)
			}
			req.Header.Set("Content-Type", "application/json")
			if cfg.API.AuthToken != "" {
				req.Header.Set("Authorization", "Bearer "+cfg.API.AuthToken)
			}

			client := &http.Client{Timeout: 30 * time.Second}
			resp, err := client.Do(req)
			if err != nil {
				return fmt.Errorf("lifecycle: contacting server: %w", err)
			}
			defer func() { _ = resp.Body.Close() }()

			if resp.StatusCode != http.StatusOK {
				var apiErr map[string]string
				_ = json.NewDecoder(resp.Body).Decode(&apiErr)
				return fmt.Errorf("lifecycle: server returned %s: %s", resp.Status, apiErr["error"])
			}

			var report lifecycle.Report
			if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
				return fmt.Errorf("lifecycle: decoding report: %w", err)
			}

			fmt.Printf("Lifecycle report:\n")
			fmt.Printf("  Expired (idle):   %d\n", report.Expired)
			fmt.Printf("  Failures reset:   %d\n", report.Reset)
			if dryRun {
				fmt.Println("  (dry run, no changes applied)")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "preview changes without applying")
	cmd.Flags().StringVar(&addr, "addr", "", "server address (default api.listen_addr)")
	return cmd
}
