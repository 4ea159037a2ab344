// Package pipeline provides the core analysis pipeline for tileprobe.
//
// This package implements the complete fetch → decode → aggregate → export
// pipeline used by both the CLI and the HTTP server. Centralizing it keeps
// behavior identical across entry points.
//
// # Architecture
//
// The pipeline runs four stages, strictly in sequence:
//
//  1. Fetch: retrieve raw tile bytes over HTTP (the only blocking stage)
//  2. Decode: parse the vector-tile wire format into layers and features
//  3. Aggregate: compute per-layer attribute statistics
//  4. Export: render statistics as CSV, Markdown, or JSON artifacts
//
// Once bytes are fetched, the remaining stages are pure, deterministic
// computations that run to completion; cancellation is only observed during
// the fetch.
//
// # Usage
//
//	runner := pipeline.NewRunner(nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    URL:     "https://tiles.example.com/12/654/1582.mvt",
//	    Formats: []string{pipeline.FormatCSV},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	csv := result.Artifacts["roads_attributes.csv"]
//
// For analysis without artifacts, use the narrower entry point:
//
//	analysis, err := runner.FetchAndAnalyze(ctx, url)
package pipeline

import (
	"github.com/tileprobe/tileprobe/pkg/errors"
	"github.com/tileprobe/tileprobe/pkg/export"
	"github.com/tileprobe/tileprobe/pkg/stats"
)

// Output formats for rendered artifacts.
const (
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
)

// JSONArtifactName is the artifact key for the whole-tile JSON analysis.
const JSONArtifactName = "analysis.json"

// Options controls one pipeline execution.
type Options struct {
	// URL of the tile to analyze. Required.
	URL string

	// Layers restricts analysis artifacts to the named layers.
	// Empty means every layer in the tile.
	Layers []string

	// Formats lists the artifact formats to render (json, csv, markdown).
	// Empty means analysis only, no artifacts.
	Formats []string

	// SampleLimit caps sample values per attribute in rendered artifacts.
	// Zero means the export default.
	SampleLimit int

	// ShowAll renders full histograms in Markdown artifacts.
	ShowAll bool
}

// ValidateAndSetDefaults checks the options and normalizes them in place.
func (o *Options) ValidateAndSetDefaults() error {
	if err := errors.ValidateTileURL(o.URL); err != nil {
		return err
	}
	for _, name := range o.Layers {
		if err := errors.ValidateLayerName(name); err != nil {
			return err
		}
	}
	for _, f := range o.Formats {
		switch f {
		case FormatJSON, FormatCSV, FormatMarkdown:
		default:
			return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", f)
		}
	}
	if err := errors.ValidateSampleLimit(o.SampleLimit); err != nil {
		return err
	}
	if o.SampleLimit == 0 {
		o.SampleLimit = export.DefaultSampleLimit
	}
	return nil
}

// Result holds the outcome of one pipeline execution.
type Result struct {
	// Analysis is the complete per-layer statistics of the tile.
	Analysis *stats.TileAnalysis

	// Artifacts maps suggested filenames to rendered artifact bytes.
	Artifacts map[string][]byte
}
