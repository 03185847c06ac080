package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jonathan/creator-pitch/internal/observability"
	"github.com/jonathan/creator-pitch/internal/server"
	"github.com/jonathan/creator-pitch/internal/types"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich <handle>",
	Short: "Enrich a TikTok creator with audience data and brand matches",
	Long:  "Calls POST /api/enrich on a running server. Asynchronous answers are polled until the provider calls back, unless --wait=false.",
	Args:  cobra.ExactArgs(1),
	RunE:  runEnrich,
}

var (
	enrichNiche string
	enrichSort  string
	enrichWait  bool
	enrichJSON  bool
)

func init() {
	enrichCmd.Flags().StringVar(&enrichNiche, "niche", "", "Optional niche description passed to the provider")
	enrichCmd.Flags().StringVar(&enrichSort, "sort", "", "Brand order: all, best-fit or highest-value")
	enrichCmd.Flags().BoolVar(&enrichWait, "wait", true, "Poll until asynchronous results arrive")
	enrichCmd.Flags().BoolVar(&enrichJSON, "json", false, "Print the raw JSON result")
	rootCmd.AddCommand(enrichCmd)
}

func runEnrich(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	client := newAPIClient(serverURL)
	out := cmd.OutOrStdout()

	result, err := enrichAndWait(ctx, client, out, types.EnrichRequest{Handle: args[0], NicheDescription: enrichNiche}, enrichSort, enrichWait)
	if err != nil {
		return err
	}
	return printResult(out, result, enrichJSON)
}

// enrichAndWait triggers enrichment and, when wait is set, polls pending
// answers to completion.
func enrichAndWait(ctx context.Context, client *apiClient, out io.Writer, req types.EnrichRequest, sort string, wait bool) (*server.ResultResponse, error) {
	resp, err := client.Enrich(ctx, req, sort)
	if err != nil {
		return nil, err
	}
	if resp.Status == string(types.JobComplete) || !wait {
		return resp, nil
	}

	fmt.Fprintf(out, "Request %s pending with %s, waiting for results...\n", resp.RequestID, resp.Tier)
	done, err := client.Wait(ctx, resp.RequestID, sort, func(attempt int) {
		fmt.Fprintf(out, "  still pending (%d/%d)\n", attempt, client.pollAttempts)
	})
	if err != nil {
		return nil, err
	}
	done.Mode = resp.Mode
	done.Tier = resp.Tier
	return done, nil
}

func printResult(out io.Writer, resp *server.ResultResponse, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	if resp.Status != string(types.JobComplete) {
		fmt.Fprintf(out, "Request %s is %s (tier %s)\n", resp.RequestID, resp.Status, resp.Tier)
		return nil
	}

	p := observability.NewPrinter(out)
	p.PrintCreator(&resp.Creator)
	p.PrintBrands(resp.Brands, resp.Creator.Followers)
	if resp.Tier != "" {
		fmt.Fprintf(out, "Source: %s (%s)\n", resp.Tier, resp.Mode)
	}
	return nil
}
