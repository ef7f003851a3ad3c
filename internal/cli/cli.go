// Package cli implements the memviz command-line interface.
//
// The CLI turns C++-style declaration snippets into memory diagrams. The
// main commands are:
//   - resolve: parse declarations into a memory-object graph (JSON)
//   - layout: compute positions for a resolved graph
//   - render: run the full pipeline and write SVG/PNG/DOT/JSON outputs
//   - serve: expose the pipeline over HTTP
//   - examples: browse built-in declaration snippets
//   - cache: manage the local result cache
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context so subcommands share one configuration.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pkranz/memviz/pkg/buildinfo"
	"github.com/pkranz/memviz/pkg/cache"
	"github.com/pkranz/memviz/pkg/config"
	"github.com/pkranz/memviz/pkg/pipeline"
)

// appName is used for cache/config directories and display.
const appName = "memviz"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// defaults caches the config file's pipeline defaults, loaded once on
	// first use.
	defaults *pipeline.Options
}

// New creates a CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands
// registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "memviz visualizes pointer and reference semantics",
		Long:         `memviz is a teaching tool that turns small C++-style declaration snippets into memory diagrams, showing variables, pointers, and references as boxes and arrows.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.String() + "\n")

	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.examplesCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use. The runner's defaults
// come from the config file, so commands fall back to the configured
// layout tuning and render formats when flags are unset.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	store, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(store, nil, c.Logger)
	runner.Defaults = c.configDefaults()
	return runner, nil
}

// configDefaults loads the config file from its default location and
// converts the layout and render sections into pipeline defaults. An
// unreadable file is logged and ignored.
func (c *CLI) configDefaults() pipeline.Options {
	if c.defaults == nil {
		cfg, err := config.Load(config.Path())
		if err != nil {
			c.Logger.Warn("ignoring config file", "path", config.Path(), "err", err)
			cfg = config.Default()
		}
		d := pipelineDefaults(cfg)
		c.defaults = &d
	}
	return *c.defaults
}

// pipelineDefaults maps the config's layout and render sections onto
// pipeline options.
func pipelineDefaults(cfg config.Config) pipeline.Options {
	lo := cfg.LayoutOptions()
	d := pipeline.Options{
		CharWidth:      lo.CharWidth,
		Padding:        lo.Padding,
		Margin:         lo.Margin,
		AlignThreshold: lo.AlignThreshold,
		VizType:        cfg.Render.VizType,
		Formats:        cfg.Render.Formats,
	}
	if d.VizType == "" {
		d.VizType = pipeline.DefaultVizType
	}
	if len(d.Formats) == 0 {
		d.Formats = []string{pipeline.FormatSVG}
	}
	return d
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using the XDG convention
// (~/.cache/memviz/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// readSource reads declaration source from a file argument, stdin ("-"),
// or the --source flag. Exactly one of arg and inline may be set.
func readSource(arg, inline string) (string, error) {
	if inline != "" {
		if arg != "" {
			return "", fmt.Errorf("cannot combine a file argument with --source")
		}
		return inline, nil
	}
	if arg == "" || arg == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", arg, err)
	}
	return string(data), nil
}

// parseFormats parses a comma-separated format string into a slice. An
// empty string yields nil so configured defaults can apply.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
