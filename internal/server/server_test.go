package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tileprobe/tileprobe/pkg/config"
	"github.com/tileprobe/tileprobe/pkg/pipeline"
)

// Minimal wire builders for a test tile with string values only.

func appendVarint(b []byte, v uint64) []byte {
	for v >= 0x80 {
		b = append(b, byte(v)|0x80)
		v >>= 7
	}
	return append(b, byte(v))
}

func appendField(b []byte, field int, payload []byte) []byte {
	b = appendVarint(b, uint64(field)<<3|2)
	b = appendVarint(b, uint64(len(payload)))
	return append(b, payload...)
}

func roadsTile() []byte {
	var layer []byte
	layer = appendField(layer, 1, []byte("roads"))
	feature := func(ki, vi byte) []byte {
		return appendField(nil, 2, []byte{ki, vi})
	}
	layer = appendField(layer, 2, feature(0, 0))
	layer = appendField(layer, 2, feature(0, 0))
	layer = appendField(layer, 2, feature(0, 1))
	layer = appendField(layer, 3, []byte("type"))
	layer = appendField(layer, 4, appendField(nil, 1, []byte("primary")))
	layer = appendField(layer, 4, appendField(nil, 1, []byte("secondary")))
	return appendField(nil, 3, layer)
}

// newTestServer wires a Server against a stub upstream tile endpoint and
// returns the server handler plus the upstream tile URL.
func newTestServer(t *testing.T, upstream http.HandlerFunc) (http.Handler, string) {
	t.Helper()
	tiles := httptest.NewServer(upstream)
	t.Cleanup(tiles.Close)

	s := New(config.Default(), pipeline.NewRunner(nil, nil), nil)
	return s.Handler(), tiles.URL
}

func serveTile(payload []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}
}

func doRequest(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	h, _ := newTestServer(t, serveTile(nil))
	rec := doRequest(t, h, "/healthz")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Error("response is missing a request id")
	}
}

func TestAnalyze(t *testing.T) {
	h, tileURL := newTestServer(t, serveTile(roadsTile()))
	rec := doRequest(t, h, "/v1/analyze?url="+tileURL)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	var body struct {
		Layers []struct {
			Name         string `json:"name"`
			FeatureCount int    `json:"feature_count"`
		} `json:"layers"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(body.Layers) != 1 || body.Layers[0].Name != "roads" || body.Layers[0].FeatureCount != 3 {
		t.Errorf("layers = %+v, want roads with 3 features", body.Layers)
	}
}

func TestAnalyzeMissingURL(t *testing.T) {
	h, _ := newTestServer(t, serveTile(nil))
	rec := doRequest(t, h, "/v1/analyze")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestExportCSV(t *testing.T) {
	h, tileURL := newTestServer(t, serveTile(roadsTile()))
	rec := doRequest(t, h, "/v1/export?layer=roads&format=csv&url="+tileURL)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/csv;charset=utf-8" {
		t.Errorf("Content-Type = %q", got)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "roads_attributes.csv") {
		t.Errorf("Content-Disposition = %q", got)
	}

	body, _ := io.ReadAll(rec.Body)
	want := "key,types,count,sample_values\n\"type\",\"string\",3,\"primary;secondary\"\n"
	if string(body) != want {
		t.Errorf("body = %q, want %q", body, want)
	}
}

func TestExportMarkdown(t *testing.T) {
	h, tileURL := newTestServer(t, serveTile(roadsTile()))
	rec := doRequest(t, h, "/v1/export?layer=roads&format=markdown&url="+tileURL)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/markdown;charset=utf-8" {
		t.Errorf("Content-Type = %q", got)
	}
	if !strings.HasPrefix(rec.Body.String(), "# roads\n") {
		t.Errorf("body does not start with layer heading: %q", rec.Body.String())
	}
}

func TestExportErrors(t *testing.T) {
	tests := []struct {
		name     string
		upstream http.HandlerFunc
		path     func(tileURL string) string
		want     int
	}{
		{
			name:     "missing layer param",
			upstream: serveTile(roadsTile()),
			path:     func(u string) string { return "/v1/export?url=" + u },
			want:     http.StatusBadRequest,
		},
		{
			name:     "unknown layer",
			upstream: serveTile(roadsTile()),
			path:     func(u string) string { return "/v1/export?layer=water&url=" + u },
			want:     http.StatusNotFound,
		},
		{
			name:     "bad limit",
			upstream: serveTile(roadsTile()),
			path:     func(u string) string { return "/v1/export?layer=roads&limit=abc&url=" + u },
			want:     http.StatusBadRequest,
		},
		{
			name:     "upstream failure",
			upstream: func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) },
			path:     func(u string) string { return "/v1/export?layer=roads&url=" + u },
			want:     http.StatusBadGateway,
		},
		{
			name:     "malformed tile",
			upstream: serveTile([]byte{0x80, 0x80}),
			path:     func(u string) string { return "/v1/export?layer=roads&url=" + u },
			want:     http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, tileURL := newTestServer(t, tt.upstream)
			rec := doRequest(t, h, tt.path(tileURL))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body)
			}
			var body errorBody
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("error response is not JSON: %v", err)
			}
			if body.Error == "" {
				t.Error("error response has empty message")
			}
		})
	}
}
