package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func newHealthCmd() *cobra.Command {
	var (
		url     string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Probe a running server; exits non-zero unless it is serving",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return err
			}
			client := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
			resp, err := client.Do(req)
			if err != nil {
				return fmt.Errorf("health check failed: %w", err)
			}
			defer resp.Body.Close()

			var body struct {
				Status string `json:"status"`
				Checks []struct {
					Name    string `json:"name"`
					Status  string `json:"status"`
					Message string `json:"message"`
				} `json:"checks"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				return fmt.Errorf("unreadable health response: %w", err)
			}

			cmd.Printf("%s (%d)\n", body.Status, resp.StatusCode)
			for _, c := range body.Checks {
				cmd.Printf("  %-14s %s %s\n", c.Name, c.Status, c.Message)
			}

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("server is %s", body.Status)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", "http://localhost:8080/health", "health endpoint")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "request timeout")
	return cmd
}
