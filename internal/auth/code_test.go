package auth_test

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/ferdiebergado/susi/internal/auth"
)

func TestCodeGenerator_Generate(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	gen := auth.NewCodeGenerator(func() time.Time { return now })

	const draws = 10_000
	for range draws {
		code, err := gen.Generate(4, 3*time.Minute)
		if err != nil {
			t.Fatalf("gen.Generate() error = %v", err)
		}

		if len(code.Value) != 4 {
			t.Fatalf("len(code.Value) = %d, want: %d", len(code.Value), 4)
		}

		n, err := strconv.Atoi(code.Value)
		if err != nil {
			t.Fatalf("strconv.Atoi(%q) error = %v", code.Value, err)
		}
		if n < 1000 || n > 9999 {
			t.Fatalf("code = %d, want: within [1000, 9999]", n)
		}

		if want := now.Add(3 * time.Minute); !code.ExpiresAt.Equal(want) {
			t.Fatalf("code.ExpiresAt = %v, want: %v", code.ExpiresAt, want)
		}
	}
}

func TestCodeGenerator_Lengths(t *testing.T) {
	t.Parallel()

	gen := auth.NewCodeGenerator(nil)

	tests := []struct {
		name    string
		length  int
		wantErr bool
	}{
		{"single digit", 1, false},
		{"six digits", 6, false},
		{"longest", 18, false},
		{"zero", 0, true},
		{"negative", -4, true},
		{"too long", 19, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			code, err := gen.Generate(tt.length, time.Minute)
			if tt.wantErr {
				if !errors.Is(err, auth.ErrConfigurationFault) {
					t.Errorf("gen.Generate(%d) error = %v, want: %v", tt.length, err, auth.ErrConfigurationFault)
				}
				return
			}

			if err != nil {
				t.Fatalf("gen.Generate(%d) error = %v", tt.length, err)
			}
			if len(code.Value) != tt.length {
				t.Errorf("len(code.Value) = %d, want: %d", len(code.Value), tt.length)
			}
			if code.Value[0] == '0' {
				t.Errorf("code.Value = %q, want: non-zero leading digit", code.Value)
			}
		})
	}
}
