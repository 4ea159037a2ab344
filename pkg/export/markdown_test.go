package export

import (
	"strconv"
	"strings"
	"testing"

	"github.com/tileprobe/tileprobe/pkg/mvt"
	"github.com/tileprobe/tileprobe/pkg/stats"
)

func TestMarkdownRoads(t *testing.T) {
	got := Markdown(roadsAnalysis())
	want := "# roads\n" +
		"\n" +
		"- Features: 3\n" +
		"- Version: 1\n" +
		"- Extent: 4096\n" +
		"\n" +
		"## Attributes\n" +
		"\n" +
		"| Key | Types | Count | Sample Values |\n" +
		"| --- | --- | --- | --- |\n" +
		"| type | string | 3 | primary (2), secondary (1) |\n"
	if got != want {
		t.Errorf("Markdown() = %q, want %q", got, want)
	}
}

func TestMarkdownCellEscaping(t *testing.T) {
	analysis := &stats.LayerAnalysis{
		Name: "tricky",
		Attributes: []*stats.AttributeStat{
			{
				Key:   "a|b",
				Types: []mvt.Type{mvt.TypeString},
				Count: 1,
				Values: []stats.ValueCount{
					{Value: "first\nsecond", Count: 1},
				},
			},
		},
	}

	got := Markdown(analysis)
	if !strings.Contains(got, `a\|b`) {
		t.Errorf("pipe not escaped: %q", got)
	}
	if strings.Contains(got, "first\nsecond") {
		t.Errorf("embedded newline not collapsed: %q", got)
	}
	if !strings.Contains(got, "first second (1)") {
		t.Errorf("newline not replaced with a space: %q", got)
	}
}

func TestMarkdownSampleLimitAndShowAll(t *testing.T) {
	attr := &stats.AttributeStat{Key: "k", Types: []mvt.Type{mvt.TypeNumber}}
	for i := 0; i < 12; i++ {
		attr.Values = append(attr.Values, stats.ValueCount{Value: strconv.Itoa(i), Count: 12 - i})
		attr.Count += 12 - i
	}
	analysis := &stats.LayerAnalysis{Name: "n", Attributes: []*stats.AttributeStat{attr}}

	tests := []struct {
		name string
		opts []Option
		want int
	}{
		{"default limit", nil, DefaultSampleLimit},
		{"explicit limit", []Option{WithSampleLimit(2)}, 2},
		{"show all overrides limit", []Option{WithSampleLimit(2), WithShowAll()}, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Markdown(analysis, tt.opts...)
			row := ""
			for _, line := range strings.Split(out, "\n") {
				if strings.HasPrefix(line, "| k |") {
					row = line
				}
			}
			if row == "" {
				t.Fatalf("attribute row missing in %q", out)
			}
			got := strings.Count(row, "(")
			if got != tt.want {
				t.Errorf("rendered samples = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMarkdownDeterministic(t *testing.T) {
	analysis := roadsAnalysis()
	if Markdown(analysis) != Markdown(analysis) {
		t.Error("repeated rendering differs")
	}
}

func TestFilenames(t *testing.T) {
	if got := CSVFilename("roads"); got != "roads_attributes.csv" {
		t.Errorf("CSVFilename() = %q", got)
	}
	if got := MarkdownFilename("roads"); got != "roads_attributes.md" {
		t.Errorf("MarkdownFilename() = %q", got)
	}
}
