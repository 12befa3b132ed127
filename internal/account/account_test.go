package account_test

import (
	"testing"
	"time"

	"github.com/ferdiebergado/susi/internal/account"
)

func TestCode_Matches(t *testing.T) {
	t.Parallel()

	code := &account.Code{Value: "4821", ExpiresAt: time.Now().Add(time.Minute)}

	tests := []struct {
		name  string
		code  *account.Code
		value string
		want  bool
	}{
		{"same value", code, "4821", true},
		{"different value", code, "4822", false},
		{"prefix", code, "482", false},
		{"empty value", code, "", false},
		{"absent code", nil, "4821", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.code.Matches(tt.value); got != tt.want {
				t.Errorf("code.Matches(%q) = %v, want: %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestCode_Expired(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		code *account.Code
		want bool
	}{
		{"future expiry", &account.Code{Value: "1", ExpiresAt: now.Add(time.Second)}, false},
		{"expiry now", &account.Code{Value: "1", ExpiresAt: now}, false},
		{"past expiry", &account.Code{Value: "1", ExpiresAt: now.Add(-time.Second)}, true},
		{"zero expiry", &account.Code{Value: "1"}, true},
		{"absent code", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.code.Expired(now); got != tt.want {
				t.Errorf("code.Expired() = %v, want: %v", got, tt.want)
			}
		})
	}
}

func TestAccount_Transitions(t *testing.T) {
	t.Parallel()

	code := account.Code{Value: "1111", ExpiresAt: time.Now().Add(time.Minute)}
	orig := account.New(" Mixed@Case.ORG", "hash", code)

	if orig.Email != "mixed@case.org" {
		t.Errorf("orig.Email = %q, want: %q", orig.Email, "mixed@case.org")
	}

	verified := orig.MarkVerified()
	if !verified.Verified || verified.VerificationCode != nil {
		t.Errorf("verified = %+v, want verified with no code", verified)
	}
	if orig.Verified || orig.VerificationCode == nil {
		t.Error("MarkVerified modified the original account")
	}

	reset := orig.WithResetCode(account.Code{Value: "2222", ExpiresAt: code.ExpiresAt})
	if reset.ResetCode == nil || reset.ResetCode.Value != "2222" {
		t.Errorf("reset.ResetCode = %+v, want value 2222", reset.ResetCode)
	}
	if orig.ResetCode != nil {
		t.Error("WithResetCode modified the original account")
	}

	changed := reset.WithPassword("newhash")
	if changed.PasswordHash != "newhash" || changed.ResetCode != nil || !changed.Verified {
		t.Errorf("changed = %+v, want new hash, no reset code, verified", changed)
	}
	if changed.VerificationCode != nil {
		t.Errorf("changed.VerificationCode = %v, want: nil", changed.VerificationCode)
	}
}

func TestMaskEmail(t *testing.T) {
	t.Parallel()

	tests := []struct{ in, want string }{
		{"alice@example.com", "a****@example.com"},
		{"@example.com", "****"},
		{"nonsense", "****"},
	}

	for _, tt := range tests {
		if got := account.MaskEmail(tt.in); got != tt.want {
			t.Errorf("MaskEmail(%q) = %q, want: %q", tt.in, got, tt.want)
		}
	}
}
