package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/paulmach/orb/maptile"
	"github.com/spf13/cobra"

	"github.com/tileprobe/tileprobe/pkg/errors"
	"github.com/tileprobe/tileprobe/pkg/fetch"
	"github.com/tileprobe/tileprobe/pkg/pipeline"
)

// analyzeOpts holds the command-line flags for the analyze command.
type analyzeOpts struct {
	layer       string // restrict output to one layer
	format      string // json, csv, or markdown
	sampleLimit int    // sample values per attribute
	showAll     bool   // full histograms in markdown output
	output      string // output path (stdout if empty)
	zoom        int    // tile coordinates for {z}/{x}/{y} templates
	x           int
	y           int
}

// newAnalyzeCmd creates the analyze command. The URL argument may be a
// concrete tile URL or a {z}/{x}/{y} template combined with the coordinate
// flags.
func newAnalyzeCmd() *cobra.Command {
	opts := analyzeOpts{format: pipeline.FormatJSON}

	cmd := &cobra.Command{
		Use:   "analyze <url>",
		Short: "Fetch a vector tile and report per-layer attribute statistics",
		Long: `Fetch a vector tile and report, per layer, the observed property keys with
their value types, occurrence counts, and most frequent values.

Examples:
  tileprobe analyze https://tiles.example.com/12/654/1582.mvt
  tileprobe analyze "https://tiles.example.com/{z}/{x}/{y}.mvt" -z 12 -x 654 -y 1582
  tileprobe analyze https://tiles.example.com/12/654/1582.mvt --format csv --layer roads
  tileprobe analyze https://tiles.example.com/12/654/1582.mvt --format markdown -o report/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd.Context(), &opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.layer, "layer", "l", "", "restrict output to one layer")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: json, csv, or markdown")
	cmd.Flags().IntVar(&opts.sampleLimit, "sample-limit", 0, "sample values per attribute (default 10)")
	cmd.Flags().BoolVar(&opts.showAll, "show-all", false, "render full value histograms (markdown only)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file or directory (stdout if empty)")
	cmd.Flags().IntVarP(&opts.zoom, "zoom", "z", 0, "tile zoom for {z}/{x}/{y} templates")
	cmd.Flags().IntVarP(&opts.x, "x", "x", 0, "tile column for {z}/{x}/{y} templates")
	cmd.Flags().IntVarP(&opts.y, "y", "y", 0, "tile row for {z}/{x}/{y} templates")

	return cmd
}

func runAnalyze(ctx context.Context, opts *analyzeOpts, url string) error {
	logger := loggerFromContext(ctx)

	if fetch.IsTemplate(url) {
		tile := maptile.New(uint32(opts.x), uint32(opts.y), maptile.Zoom(opts.zoom))
		url = fetch.TileURL(url, tile)
		logger.Debug("expanded tile template", "url", url)
	}

	pipelineOpts := pipeline.Options{
		URL:         url,
		Formats:     []string{opts.format},
		SampleLimit: opts.sampleLimit,
		ShowAll:     opts.showAll,
	}
	if opts.layer != "" {
		pipelineOpts.Layers = []string{opts.layer}
	}

	runner := pipeline.NewRunner(fetch.NewClient(0, nil), logger)
	p := newProgress(logger)
	result, err := runner.Execute(ctx, pipelineOpts)
	if err != nil {
		return err
	}
	p.done(fmt.Sprintf("Analyzed %d layers", len(result.Analysis.Layers)))

	return writeArtifacts(result.Artifacts, opts.output)
}

// writeArtifacts writes rendered artifacts to stdout, a single file, or a
// directory, depending on the output path and artifact count.
func writeArtifacts(artifacts map[string][]byte, output string) error {
	names := make([]string, 0, len(artifacts))
	for name := range artifacts {
		names = append(names, name)
	}
	sort.Strings(names)

	if output == "" {
		for _, name := range names {
			os.Stdout.Write(artifacts[name])
		}
		return nil
	}

	if len(names) == 1 && !isDir(output) {
		return os.WriteFile(output, artifacts[names[0]], 0644)
	}

	if err := os.MkdirAll(output, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "creating output directory %s", output)
	}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(output, name), artifacts[name], 0644); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "writing %s", name)
		}
	}
	return nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
