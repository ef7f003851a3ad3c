package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pkranz/memviz/pkg/diagram"
	"github.com/pkranz/memviz/pkg/pipeline"
)

// resolveCommand creates the resolve command for parsing declarations.
func (c *CLI) resolveCommand() *cobra.Command {
	var (
		source  string
		output  string
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "resolve [file]",
		Short: "Resolve declarations into a memory-object graph",
		Long: `Resolve declarations into a memory-object graph.

The resolve command parses C++-style declaration statements and builds the
memory-object graph: every variable, pointer, and reference gets a synthetic
address, and pointer/reference targets are bound to earlier declarations.

Input comes from a file argument, stdin ("-"), or --source. The output is a
diagram JSON file that 'layout' and 'render' accept.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := ""
			if len(args) == 1 {
				arg = args[0]
			}
			src, err := readSource(arg, source)
			if err != nil {
				return err
			}
			return c.runResolve(cmd.Context(), src, output, noCache, refresh)
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", "", "declaration source text (instead of a file)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cache and re-resolve")

	return cmd
}

func (c *CLI) runResolve(ctx context.Context, src, output string, noCache, refresh bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	track := newProgress(c.Logger)
	g, cacheHit, err := runner.ResolveWithCacheInfo(ctx, pipeline.Options{
		Source:  src,
		Refresh: refresh,
		Logger:  c.Logger,
	})
	if err != nil {
		return err
	}
	track.done(fmt.Sprintf("Resolved %d objects", g.Len()))

	d := diagram.FromGraph(g)
	out, err := openOutput(output)
	if err != nil {
		return err
	}
	defer out.Close()

	data, err := diagram.Marshal(d)
	if err != nil {
		return err
	}
	if _, err := out.Write(append(data, '\n')); err != nil {
		return err
	}

	if output != "" {
		printSuccess("Resolution complete")
		printFile(output)
		printStats(g.Len(), len(g.Edges()), cacheHit)
		printNextStep("Compute layout", "memviz layout "+output)
	}
	return nil
}
