package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pkranz/memviz/pkg/diagram"
	"github.com/pkranz/memviz/pkg/pipeline"
)

// layoutCommand creates the layout command for computing positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [diagram.json]",
		Short: "Compute positions for a resolved memory graph",
		Long: `Compute positions for a resolved memory graph.

The layout command takes a diagram JSON file (produced by 'resolve'),
assigns every object to a layer based on pointer targets, orders the
layers to reduce arrow crossings, and writes the same diagram back with
positions attached.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	cmd.Flags().Float64Var(&opts.CharWidth, "char-width", 0, "label character width in pixels")
	cmd.Flags().Float64Var(&opts.Padding, "padding", 0, "box padding in pixels")
	cmd.Flags().Float64Var(&opts.Margin, "margin", 0, "canvas margin in pixels")
	cmd.Flags().Float64Var(&opts.AlignThreshold, "align-threshold", 0, "max vertical nudge for chain alignment")

	return cmd
}

// runLayout loads the diagram, computes positions, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	d, err := diagram.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load diagram %s: %w", input, err)
	}
	g, err := d.ToGraph()
	if err != nil {
		return fmt.Errorf("reconstruct graph: %w", err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	res, cacheHit, err := runner.ComputeLayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}

	if err := diagram.WriteFile(d.WithLayout(res), outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(g.Len(), len(g.Edges()), cacheHit)
	printNextStep("Render", "memviz render "+outputPath)

	return nil
}
