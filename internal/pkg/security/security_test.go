package security_test

import (
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ferdiebergado/susi/internal/pkg/security"
)

func TestGenerateRandomBytesURLEncoded(t *testing.T) {
	t.Parallel()

	first, err := security.GenerateRandomBytesURLEncoded(32)
	if err != nil {
		t.Fatal(err)
	}

	raw, err := base64.URLEncoding.DecodeString(first)
	if err != nil {
		t.Fatalf("decode %q: %v", first, err)
	}
	if len(raw) != 32 {
		t.Errorf("len(raw) = %d, want: %d", len(raw), 32)
	}

	second, err := security.GenerateRandomBytesURLEncoded(32)
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Error("two draws returned the same bytes")
	}
}

func TestExtractBearerToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, header, want string
		wantErr            error
	}{
		{"valid", "Bearer abc.def", "abc.def", nil},
		{"lowercase scheme", "bearer abc", "abc", nil},
		{"missing header", "", "", security.ErrMissingAuthHeader},
		{"basic scheme", "Basic dXNlcjpwYXNz", "", security.ErrMissingBearer},
		{"empty token", "Bearer   ", "", security.ErrMissingBearer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			got, err := security.ExtractBearerToken(req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ExtractBearerToken() error = %v, want: %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ExtractBearerToken() = %q, want: %q", got, tt.want)
			}
		})
	}
}
