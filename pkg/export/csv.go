package export

import (
	"strconv"
	"strings"

	"github.com/tileprobe/tileprobe/pkg/stats"
)

// CSV renders a layer analysis as CSV text with the header
// `key,types,count,sample_values`. Types are joined by ";" in first-observed
// order; sample values are the top histogram value strings (counts dropped)
// joined by ";", truncated at the sample limit. Text fields are quoted with
// embedded quotes doubled; embedded newlines are preserved verbatim inside
// the quotes.
func CSV(analysis *stats.LayerAnalysis, opts ...Option) string {
	r := newRenderer(opts)

	var b strings.Builder
	b.WriteString("key,types,count,sample_values\n")

	for _, attr := range analysis.Attributes {
		limit := min(r.sampleLimit, len(attr.Values))
		samples := make([]string, limit)
		for i := 0; i < limit; i++ {
			samples[i] = attr.Values[i].Value
		}

		b.WriteString(csvQuote(attr.Key))
		b.WriteByte(',')
		b.WriteString(csvQuote(strings.Join(attr.TypeNames(), ";")))
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(attr.Count))
		b.WriteByte(',')
		b.WriteString(csvQuote(strings.Join(samples, ";")))
		b.WriteByte('\n')
	}
	return b.String()
}

// csvQuote encloses a field in double quotes, doubling embedded quotes.
func csvQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
