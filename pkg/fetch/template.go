package fetch

import (
	"strconv"
	"strings"

	"github.com/paulmach/orb/maptile"
)

// IsTemplate reports whether a URL contains {z}/{x}/{y} placeholders.
func IsTemplate(url string) bool {
	return strings.Contains(url, "{z}") ||
		strings.Contains(url, "{x}") ||
		strings.Contains(url, "{y}")
}

// TileURL expands the {z}, {x}, and {y} placeholders of a URL template with
// the tile's coordinates.
func TileURL(template string, t maptile.Tile) string {
	r := strings.NewReplacer(
		"{z}", strconv.Itoa(int(t.Z)),
		"{x}", strconv.Itoa(int(t.X)),
		"{y}", strconv.Itoa(int(t.Y)),
	)
	return r.Replace(template)
}
