package errors

import (
	"strings"
	"testing"
)

func TestValidateTileURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"valid https", "https://tiles.example.com/12/654/1582.mvt", false},
		{"valid http", "http://localhost:8080/tile.pbf", false},
		{"empty", "", true},
		{"bad scheme", "ftp://example.com/tile.mvt", true},
		{"no host", "https:///tile.mvt", true},
		{"not a url", "://nope", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTileURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTileURL(%q) = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidURL) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidURL)
			}
		})
	}
}

func TestValidateLayerName(t *testing.T) {
	tests := []struct {
		name    string
		layer   string
		wantErr bool
	}{
		{"simple", "roads", false},
		{"with underscore", "road_labels", false},
		{"empty", "", true},
		{"too long", strings.Repeat("a", 300), true},
		{"control character", "roads\x00", true},
		{"path separator", "a/b", true},
		{"traversal", "..", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLayerName(tt.layer)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLayerName(%q) = %v, wantErr %v", tt.layer, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSampleLimit(t *testing.T) {
	if err := ValidateSampleLimit(0); err != nil {
		t.Errorf("ValidateSampleLimit(0) = %v, want nil", err)
	}
	if err := ValidateSampleLimit(10); err != nil {
		t.Errorf("ValidateSampleLimit(10) = %v, want nil", err)
	}
	if err := ValidateSampleLimit(-1); err == nil {
		t.Error("ValidateSampleLimit(-1) = nil, want error")
	}
}
