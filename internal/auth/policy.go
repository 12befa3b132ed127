package auth

import (
	"fmt"

	"github.com/ferdiebergado/susi/internal/platform/validation"
	passwordvalidator "github.com/wagslane/go-password-validator"
)

const (
	fieldEmail    = "email"
	fieldPassword = "password"
	fieldCode     = "code"
)

// policy checks operation inputs before any store access.
type policy struct {
	validator   validation.Validator
	passwordTag string
	minEntropy  float64
}

func newPolicy(v validation.Validator, minLength int, minEntropy float64) *policy {
	return &policy{
		validator:   v,
		passwordTag: fmt.Sprintf("required,min=%d", minLength),
		minEntropy:  minEntropy,
	}
}

type fieldCheck func(errs map[string]string)

func (p *policy) email(value string) fieldCheck {
	return p.tag(fieldEmail, value, "required,email")
}

func (p *policy) required(field, value string) fieldCheck {
	return p.tag(field, value, "required")
}

func (p *policy) newPassword(value string) fieldCheck {
	return func(errs map[string]string) {
		if msg := p.validator.ValidateVar(fieldPassword, value, p.passwordTag); msg != "" {
			errs[fieldPassword] = msg
			return
		}

		if p.minEntropy <= 0 {
			return
		}
		if err := passwordvalidator.Validate(value, p.minEntropy); err != nil {
			errs[fieldPassword] = err.Error()
		}
	}
}

func (p *policy) tag(field, value, tag string) fieldCheck {
	return func(errs map[string]string) {
		if msg := p.validator.ValidateVar(field, value, tag); msg != "" {
			errs[field] = msg
		}
	}
}

// check runs every check and returns a ValidationError listing the failed fields.
func (p *policy) check(checks ...fieldCheck) error {
	errs := make(map[string]string)
	for _, c := range checks {
		c(errs)
	}
	if len(errs) == 0 {
		return nil
	}
	return validationError(errs)
}
