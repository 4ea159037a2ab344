package export

import (
	"fmt"
	"strings"

	"github.com/tileprobe/tileprobe/pkg/stats"
)

// Markdown renders a layer analysis as a Markdown report: an H1 heading with
// the layer name, a bullet list of layer metadata, and an attribute table.
// Sample values are rendered as `value (count)` pairs joined by ", ",
// truncated at the sample limit unless [WithShowAll] is set. Table cells
// escape literal pipes and collapse embedded newlines to a single space so
// the table grid stays intact.
func Markdown(analysis *stats.LayerAnalysis, opts ...Option) string {
	r := newRenderer(opts)

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", mdCell(analysis.Name))
	fmt.Fprintf(&b, "- Features: %d\n", analysis.FeatureCount)
	fmt.Fprintf(&b, "- Version: %d\n", analysis.Version)
	fmt.Fprintf(&b, "- Extent: %d\n\n", analysis.Extent)
	b.WriteString("## Attributes\n\n")
	b.WriteString("| Key | Types | Count | Sample Values |\n")
	b.WriteString("| --- | --- | --- | --- |\n")

	for _, attr := range analysis.Attributes {
		limit := len(attr.Values)
		if !r.showAll {
			limit = min(r.sampleLimit, limit)
		}
		samples := make([]string, limit)
		for i := 0; i < limit; i++ {
			samples[i] = fmt.Sprintf("%s (%d)", attr.Values[i].Value, attr.Values[i].Count)
		}

		fmt.Fprintf(&b, "| %s | %s | %d | %s |\n",
			mdCell(attr.Key),
			mdCell(strings.Join(attr.TypeNames(), ", ")),
			attr.Count,
			mdCell(strings.Join(samples, ", ")))
	}
	return b.String()
}

// mdCell makes a value safe inside a Markdown table cell.
func mdCell(s string) string {
	return strings.ReplaceAll(newlineCollapser.Replace(s), "|", `\|`)
}
