package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"

	"github.com/msmeconnect/backend/internal/domain"
	"github.com/spf13/cobra"
)

var (
	flagMatchState   string
	flagMatchProduct string
	flagMatchTopK    int
	flagCatLanguage  string
	flagTaxonomyLvl  int
)

var categorizeCmd = &cobra.Command{
	Use:   "categorize <description>",
	Short: "Categorize a product description against the ONDC taxonomy",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCLIApp(cmd.Context(), func(ctx context.Context, a *app) error {
			result := a.deps.Categorization.Categorize(ctx, strings.Join(args, " "), flagCatLanguage, true)
			return printJSON(result)
		})
	},
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Recommend seller network participants for a state and product",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagMatchState == "" && flagMatchProduct == "" {
			return errors.New("at least one of --state or --product is required")
		}
		return withCLIApp(cmd.Context(), func(ctx context.Context, a *app) error {
			req := &domain.MatchRequest{State: flagMatchState}
			if flagMatchProduct != "" {
				req.Products = domain.ProductList{{Description: flagMatchProduct}}
			}
			return printJSON(a.deps.Matching.Match(ctx, req, flagMatchTopK))
		})
	},
}

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "Print the category tree down to a level",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCLIApp(cmd.Context(), func(ctx context.Context, a *app) error {
			return printJSON(a.deps.Categorization.Taxonomy(flagTaxonomyLvl))
		})
	},
}

func init() {
	categorizeCmd.Flags().StringVar(&flagCatLanguage, "language", "en", "Language of the description")

	matchCmd.Flags().StringVar(&flagMatchState, "state", "", "State the MSE operates in")
	matchCmd.Flags().StringVar(&flagMatchProduct, "product", "", "Product or requirement text")
	matchCmd.Flags().IntVar(&flagMatchTopK, "top-k", 0, "Number of recommendations (0 uses the configured default)")

	taxonomyCmd.Flags().IntVar(&flagTaxonomyLvl, "level", 1, "Depth of the tree (1-5)")

	rootCmd.AddCommand(categorizeCmd, matchCmd, taxonomyCmd)
}

// withCLIApp wires the services for a one-shot command. Logs go to stderr
// so stdout carries only the JSON result.
func withCLIApp(ctx context.Context, run func(context.Context, *app) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a, err := newApp(ctx, os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	return run(ctx, a)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
