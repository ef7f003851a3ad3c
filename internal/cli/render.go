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

// renderCommand creates the render command for generating diagram files.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		source     string
		formatsStr string
		output     string
		noCache    bool
		refresh    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render declarations as a memory diagram",
		Long: `Render declarations as a memory diagram.

The render command runs the full pipeline: resolve the declarations,
compute a layout, and write the requested output formats. The input is
declaration source from a file, stdin ("-"), or --source. A diagram JSON
file produced by 'resolve' or 'layout' is also accepted; rendering then
reuses its graph (and positions, if present).

Results are cached locally for faster subsequent runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			opts.ApplyDefaults(c.configDefaults())
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if err := pipeline.ValidateVizType(opts.VizType); err != nil {
				return err
			}
			arg := ""
			if len(args) == 1 {
				arg = args[0]
			}
			if isDiagramFile(arg) {
				return c.renderDiagramFile(cmd.Context(), arg, opts, output, noCache)
			}
			src, err := readSource(arg, source)
			if err != nil {
				return err
			}
			opts.Source = src
			opts.Refresh = refresh
			return c.runRender(cmd.Context(), arg, opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", "", "declaration source text (instead of a file)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cache and re-resolve")

	cmd.Flags().StringVarP(&opts.VizType, "type", "t", "", "visualization type: boxes (default), nodelink")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, dot, json (comma-separated)")
	cmd.Flags().Float64Var(&opts.CharWidth, "char-width", 0, "label character width in pixels")
	cmd.Flags().Float64Var(&opts.Padding, "padding", 0, "box padding in pixels")
	cmd.Flags().Float64Var(&opts.Margin, "margin", 0, "canvas margin in pixels")
	cmd.Flags().Float64Var(&opts.AlignThreshold, "align-threshold", 0, "max vertical nudge for chain alignment")

	return cmd
}

// isDiagramFile reports whether the argument looks like a diagram JSON
// file rather than declaration source.
func isDiagramFile(arg string) bool {
	return arg != "" && arg != "-" && strings.EqualFold(filepath.Ext(arg), ".json")
}

// runRender executes the full pipeline for declaration source.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Rendering diagram...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	return writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
		cacheHit:  result.CacheInfo.RenderHit,
		objects:   result.Stats.ObjectCount,
		edges:     result.Stats.EdgeCount,
	})
}

// renderDiagramFile renders from an existing diagram JSON file, reusing
// its attached positions when present.
func (c *CLI) renderDiagramFile(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
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

	res := d.Layout()
	layoutHit := len(res) > 0
	if !layoutHit {
		res, _, err = runner.ComputeLayoutWithCacheInfo(ctx, g, opts)
		if err != nil {
			return fmt.Errorf("compute layout: %w", err)
		}
	}

	spinner := newSpinnerWithContext(ctx, "Rendering diagram...")
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, g, res, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	return writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
		cacheHit:  cacheHit,
		objects:   g.Len(),
		edges:     len(g.Edges()),
	})
}
