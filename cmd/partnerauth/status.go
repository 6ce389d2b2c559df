// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ceremo Contributors

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

// EndpointStatus holds the probe result for a single service endpoint.
type EndpointStatus struct {
	Endpoint string `json:"endpoint"`
	URL      string `json:"url"`
	Healthy  bool   `json:"healthy"`
	Detail   string `json:"detail,omitempty"`
	Error    string `json:"error,omitempty"`
}

// statusConfig holds configuration for the status command.
type statusConfig struct {
	apiAddr     string
	metricsAddr string
	jsonOutput  bool
}

// NewStatusCmd creates the status subcommand.
func NewStatusCmd() *cobra.Command {
	cfg := &statusConfig{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show health of a running partnerauth service",
		Long:  `Probe the API health endpoint and the observability probes of a running service.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.apiAddr, "addr", "localhost:8080", "API server address")
	cmd.Flags().StringVar(&cfg.metricsAddr, "metrics-addr", "localhost:9090", "observability server address")
	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "output status as JSON")

	return cmd
}

func runStatus(cmd *cobra.Command, cfg *statusConfig) error {
	client := &http.Client{Timeout: 2 * time.Second}

	statuses := []EndpointStatus{
		probeEndpoint(client, "api", "http://"+cfg.apiAddr+"/health"),
		probeEndpoint(client, "liveness", "http://"+cfg.metricsAddr+"/healthz/liveness"),
		probeEndpoint(client, "readiness", "http://"+cfg.metricsAddr+"/healthz/readiness"),
	}

	if cfg.jsonOutput {
		data, err := json.MarshalIndent(statuses, "", "  ")
		if err != nil {
			return oops.With("operation", "marshal status").Wrap(err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(formatStatusTable(statuses))
	return nil
}

// probeEndpoint issues a GET and reports whether the endpoint answered 200.
// Probe failures are reported in the result, not returned as errors, so a
// stopped service still produces readable output.
func probeEndpoint(client *http.Client, name, url string) EndpointStatus {
	status := EndpointStatus{Endpoint: name, URL: url}

	resp, err := client.Get(url) //nolint:noctx // short-lived CLI probe with client timeout
	if err != nil {
		status.Error = fmt.Sprintf("failed to connect: %v", err)
		return status
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		status.Error = fmt.Sprintf("failed to read response: %v", err)
		return status
	}

	status.Healthy = resp.StatusCode == http.StatusOK
	detail := strings.TrimSpace(string(body))
	if line, _, found := strings.Cut(detail, "\n"); found {
		detail = line
	}
	status.Detail = detail
	return status
}

// formatStatusTable formats the probe results as a human-readable table.
func formatStatusTable(statuses []EndpointStatus) string {
	var buf strings.Builder
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintln(w, "ENDPOINT\tSTATUS\tDETAIL")
	_, _ = fmt.Fprintln(w, "--------\t------\t------")

	for _, s := range statuses {
		if s.Error != "" {
			_, _ = fmt.Fprintf(w, "%s\tunreachable\t%s\n", s.Endpoint, s.Error)
			continue
		}
		state := "unhealthy"
		if s.Healthy {
			state = "healthy"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", s.Endpoint, state, s.Detail)
	}

	_ = w.Flush()
	return buf.String()
}
