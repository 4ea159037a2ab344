package pipeline

import (
	"context"
	"encoding/json"

	"github.com/charmbracelet/log"

	"github.com/tileprobe/tileprobe/pkg/errors"
	"github.com/tileprobe/tileprobe/pkg/export"
	"github.com/tileprobe/tileprobe/pkg/fetch"
	"github.com/tileprobe/tileprobe/pkg/mvt"
	"github.com/tileprobe/tileprobe/pkg/stats"
)

// Runner encapsulates pipeline execution. It is stateless apart from the
// fetcher and logger - it stores no analysis results, so multiple
// goroutines can safely drive the same Runner with different options.
type Runner struct {
	Fetcher *fetch.Client
	Logger  *log.Logger
}

// NewRunner creates a runner. A nil fetcher gets a default client; a nil
// logger gets the process default.
func NewRunner(fetcher *fetch.Client, logger *log.Logger) *Runner {
	if fetcher == nil {
		fetcher = fetch.NewClient(0, nil)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Fetcher: fetcher, Logger: logger}
}

// FetchAndAnalyze retrieves the tile at url, decodes it, and aggregates
// per-layer attribute statistics. The result is a pure function of the tile
// bytes; fetch and decode errors surface as their typed forms
// ([fetch.TransportError], [fetch.HTTPError], [mvt.FormatError]).
func (r *Runner) FetchAndAnalyze(ctx context.Context, url string) (*stats.TileAnalysis, error) {
	data, err := r.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("fetched tile", "url", url, "bytes", len(data))

	tile, err := mvt.Decode(data)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("decoded tile", "layers", len(tile.Layers))

	return stats.Analyze(tile), nil
}

// Execute runs the complete fetch → decode → aggregate → export pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	analysis, err := r.FetchAndAnalyze(ctx, opts.URL)
	if err != nil {
		return nil, err
	}

	selected, err := selectLayers(analysis, opts.Layers)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Analysis:  analysis,
		Artifacts: make(map[string][]byte),
	}
	for _, format := range opts.Formats {
		if err := r.render(result, selected, format, opts); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func selectLayers(analysis *stats.TileAnalysis, names []string) ([]*stats.LayerAnalysis, error) {
	if len(names) == 0 {
		return analysis.Layers, nil
	}
	selected := make([]*stats.LayerAnalysis, 0, len(names))
	for _, name := range names {
		layer := analysis.Layer(name)
		if layer == nil {
			return nil, errors.New(errors.ErrCodeLayerNotFound, "tile has no layer %q", name)
		}
		selected = append(selected, layer)
	}
	return selected, nil
}

func (r *Runner) render(result *Result, layers []*stats.LayerAnalysis, format string, opts Options) error {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(result.Analysis, "", "  ")
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "encoding analysis")
		}
		result.Artifacts[JSONArtifactName] = append(data, '\n')
	case FormatCSV:
		for _, layer := range layers {
			out := export.CSV(layer, export.WithSampleLimit(opts.SampleLimit))
			result.Artifacts[export.CSVFilename(layer.Name)] = []byte(out)
		}
	case FormatMarkdown:
		exportOpts := []export.Option{export.WithSampleLimit(opts.SampleLimit)}
		if opts.ShowAll {
			exportOpts = append(exportOpts, export.WithShowAll())
		}
		for _, layer := range layers {
			out := export.Markdown(layer, exportOpts...)
			result.Artifacts[export.MarkdownFilename(layer.Name)] = []byte(out)
		}
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", format)
	}
	return nil
}
