package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// nopCloser wraps an io.Writer with a no-op Close method so os.Stdout can
// stand in for a file.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path. An empty path means
// stdout; otherwise the file is created, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

// basePath derives the base output path from the output and input paths.
// If output is empty, the input's extension is stripped. If output carries
// a known format extension, that extension is stripped.
func basePath(output, input string) string {
	if output == "" {
		if input == "" || input == "-" {
			return "diagram"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	switch strings.TrimPrefix(ext, ".") {
	case "svg", "png", "dot", "json":
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// artifactWriteParams bundles the inputs for writeArtifacts.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
	cacheHit  bool
	objects   int
	edges     int
}

// writeArtifacts writes rendered artifacts to disk. With a single format
// and an explicit output path the artifact goes exactly there; otherwise
// file names are derived as base.format.
func writeArtifacts(p artifactWriteParams) error {
	single := len(p.formats) == 1 && p.output != ""

	printSuccess("Render complete")
	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			continue
		}

		path := p.output
		if !single {
			path = fmt.Sprintf("%s.%s", basePath(p.output, p.input), format)
		}
		out, err := openOutput(path)
		if err != nil {
			return err
		}
		if _, err := out.Write(data); err != nil {
			out.Close()
			return err
		}
		if err := out.Close(); err != nil {
			return err
		}
		printFile(path)
	}
	printStats(p.objects, p.edges, p.cacheHit)
	return nil
}
