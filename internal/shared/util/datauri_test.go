package util

import (
	"errors"
	"testing"
)

func TestDecodeDataURI(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		declared string
		wantMime string
		wantData string
		wantErr  bool
	}{
		{name: "data uri", raw: "data:image/png;base64,aGVsbG8=", wantMime: "image/png", wantData: "hello"},
		{name: "uri type wins", raw: "data:Image/PNG;base64,aGVsbG8=", declared: "image/jpeg", wantMime: "image/png", wantData: "hello"},
		{name: "bare base64 uses declared", raw: "aGVsbG8=", declared: "application/pdf", wantMime: "application/pdf", wantData: "hello"},
		{name: "unpadded", raw: "aGVsbG8", declared: "image/jpeg", wantMime: "image/jpeg", wantData: "hello"},
		{name: "not base64 encoded", raw: "data:text/plain,hello", wantErr: true},
		{name: "garbage", raw: "!!!", wantErr: true},
		{name: "empty", raw: "  ", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mime, data, err := DecodeDataURI(tt.raw, tt.declared)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDataURI) {
					t.Fatalf("expected ErrInvalidDataURI, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if mime != tt.wantMime || string(data) != tt.wantData {
				t.Fatalf("got (%q, %q), want (%q, %q)", mime, data, tt.wantMime, tt.wantData)
			}
		})
	}
}
