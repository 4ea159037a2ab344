// Package stats aggregates per-layer attribute statistics from decoded
// vector tiles.
//
// For every property key observed across a layer's features, the aggregator
// records the set of value types seen, the total occurrence count, and a
// value-frequency histogram keyed by the value's canonical text form.
// Attribute and histogram ordering is deterministic: descending by count,
// with ties broken by first observation. Aggregation is a pure function of
// the decoded tile - it never mutates its input and carries no state across
// calls, so concurrent analyses of separate tiles are safe.
package stats

import (
	"sort"

	"github.com/tileprobe/tileprobe/pkg/mvt"
)

// ValueCount is one histogram bucket: a value's canonical text form and the
// number of times it was observed.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// AttributeStat aggregates one property key across a layer's features.
// Types lists the observed value types in first-observed order and is never
// empty. Values is sorted descending by count, ties in first-observed order.
type AttributeStat struct {
	Key    string       `json:"key"`
	Types  []mvt.Type   `json:"types"`
	Count  int          `json:"count"`
	Values []ValueCount `json:"values"`
}

// TypeNames returns the attribute's type tags as strings, in first-observed
// order.
func (s *AttributeStat) TypeNames() []string {
	names := make([]string, len(s.Types))
	for i, t := range s.Types {
		names[i] = t.String()
	}
	return names
}

// HasType reports whether the attribute observed a value of the given type.
func (s *AttributeStat) HasType(t mvt.Type) bool {
	for _, obs := range s.Types {
		if obs == t {
			return true
		}
	}
	return false
}

// LayerAnalysis holds the aggregate statistics of one layer. Attributes is
// sorted descending by total count, ties in first-observed order.
type LayerAnalysis struct {
	Name         string           `json:"name"`
	FeatureCount int              `json:"feature_count"`
	Version      uint32           `json:"version"`
	Extent       uint32           `json:"extent"`
	Attributes   []*AttributeStat `json:"attributes"`
}

// TileAnalysis holds the per-layer analyses of one tile, preserving the
// layer encounter order from the decoded tile.
type TileAnalysis struct {
	Layers []*LayerAnalysis `json:"layers"`
}

// Layer returns the analysis for the named layer, or nil.
func (a *TileAnalysis) Layer(name string) *LayerAnalysis {
	for _, l := range a.Layers {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// Analyze aggregates every layer of a decoded tile.
func Analyze(tile *mvt.Tile) *TileAnalysis {
	out := &TileAnalysis{Layers: make([]*LayerAnalysis, 0, len(tile.Layers))}
	for _, layer := range tile.Layers {
		out.Layers = append(out.Layers, AnalyzeLayer(layer))
	}
	return out
}

// AnalyzeLayer aggregates one layer's features into ordered attribute
// statistics. A layer with zero features yields an empty attribute list.
func AnalyzeLayer(layer *mvt.Layer) *LayerAnalysis {
	byKey := make(map[string]*accumulator)
	var accs []*accumulator

	for _, f := range layer.Features {
		for _, p := range f.Properties {
			acc := byKey[p.Key]
			if acc == nil {
				acc = newAccumulator(p.Key)
				byKey[p.Key] = acc
				accs = append(accs, acc)
			}
			acc.add(p.Value)
		}
	}

	attrs := make([]*AttributeStat, len(accs))
	for i, acc := range accs {
		attrs[i] = acc.stat()
	}
	// accs is in first-observed order already; a stable sort on count alone
	// preserves that order for ties.
	sort.SliceStable(attrs, func(i, j int) bool {
		return attrs[i].Count > attrs[j].Count
	})

	return &LayerAnalysis{
		Name:         layer.Name,
		FeatureCount: len(layer.Features),
		Version:      layer.Version,
		Extent:       layer.Extent,
		Attributes:   attrs,
	}
}

// accumulator collects statistics for one property key while features are
// walked in wire order.
type accumulator struct {
	key     string
	count   int
	types   []mvt.Type
	seen    map[mvt.Type]bool
	buckets map[string]*ValueCount
	order   []*ValueCount
}

func newAccumulator(key string) *accumulator {
	return &accumulator{
		key:     key,
		seen:    make(map[mvt.Type]bool),
		buckets: make(map[string]*ValueCount),
	}
}

func (a *accumulator) add(v mvt.Value) {
	a.count++
	if !a.seen[v.Type] {
		a.seen[v.Type] = true
		a.types = append(a.types, v.Type)
	}

	// Buckets are keyed by the value's text form, so values of different
	// types that stringify identically share one bucket.
	text := v.Text()
	b := a.buckets[text]
	if b == nil {
		b = &ValueCount{Value: text}
		a.buckets[text] = b
		a.order = append(a.order, b)
	}
	b.Count++
}

func (a *accumulator) stat() *AttributeStat {
	values := make([]ValueCount, len(a.order))
	for i, b := range a.order {
		values[i] = *b
	}
	sort.SliceStable(values, func(i, j int) bool {
		return values[i].Count > values[j].Count
	})
	return &AttributeStat{
		Key:    a.key,
		Types:  a.types,
		Count:  a.count,
		Values: values,
	}
}
