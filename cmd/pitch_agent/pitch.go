package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/creator-pitch/internal/observability"
	"github.com/jonathan/creator-pitch/internal/ranking"
	"github.com/jonathan/creator-pitch/internal/types"
)

var pitchCmd = &cobra.Command{
	Use:   "pitch <handle>",
	Short: "Enrich a creator and draft brand pitch strategies",
	Long:  "Enriches the creator, keeps the top brand matches and asks the server for pitch strategies (and optionally a creator summary).",
	Args:  cobra.ExactArgs(1),
	RunE:  runPitch,
}

var (
	pitchRequest   string
	pitchTop       int
	pitchSort      string
	pitchSummarize bool
)

func init() {
	pitchCmd.Flags().StringVarP(&pitchRequest, "request", "r", "", "What the creator wants from the pitch (required)")
	pitchCmd.Flags().IntVar(&pitchTop, "top", 3, "Number of brands to pitch")
	pitchCmd.Flags().StringVar(&pitchSort, "sort", string(ranking.SortBestFit), "Brand order used to pick the top brands")
	pitchCmd.Flags().BoolVar(&pitchSummarize, "summarize", false, "Also print a creator summary")

	if err := pitchCmd.MarkFlagRequired("request"); err != nil {
		panic(fmt.Sprintf("failed to mark request flag as required: %v", err))
	}

	rootCmd.AddCommand(pitchCmd)
}

// pitchOptions are the pitch command's flags.
type pitchOptions struct {
	Request   string
	Top       int
	Sort      string
	Summarize bool
}

func runPitch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return pitch(ctx, newAPIClient(serverURL), cmd.OutOrStdout(), args[0], pitchOptions{
		Request:   pitchRequest,
		Top:       pitchTop,
		Sort:      pitchSort,
		Summarize: pitchSummarize,
	})
}

// pitch enriches handle, keeps the top brands and prints strategies for them.
func pitch(ctx context.Context, client *apiClient, out io.Writer, handle string, opts pitchOptions) error {
	if opts.Top < 1 {
		return fmt.Errorf("--top must be at least 1")
	}
	if _, err := ranking.ParseSortMode(opts.Sort); err != nil {
		return err
	}

	result, err := enrichAndWait(ctx, client, out, types.EnrichRequest{Handle: handle}, opts.Sort, true)
	if err != nil {
		return err
	}
	if len(result.Brands) == 0 {
		return fmt.Errorf("no brand matches for @%s", result.Creator.Handle)
	}

	brands := result.Brands
	if len(brands) > opts.Top {
		brands = brands[:opts.Top]
	}

	p := observability.NewPrinter(out)
	p.PrintCreator(&result.Creator)
	p.PrintBrands(brands, result.Creator.Followers)

	// The summary and the strategies are independent model calls.
	var (
		summary  *types.CreatorSummary
		strategy *types.StrategyResult
	)
	g, gctx := errgroup.WithContext(ctx)
	if opts.Summarize {
		g.Go(func() error {
			var err error
			if summary, err = client.Summarize(gctx, &result.Creator); err != nil {
				return fmt.Errorf("summary failed: %w", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		var err error
		strategy, err = client.Strategy(gctx, types.StrategyRequest{
			Creator:          &result.Creator,
			Brands:           brands,
			MarketingRequest: opts.Request,
		})
		if err != nil {
			return fmt.Errorf("strategy generation failed: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if summary != nil {
		p.PrintSummary(summary)
	}
	p.PrintStrategy(strategy)
	return nil
}
