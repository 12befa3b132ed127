package auth

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/ferdiebergado/susi/internal/account"
)

const maxCodeLength = 18

// CodeGenerator mints numeric one-time codes.
type CodeGenerator struct {
	now    func() time.Time
	random io.Reader
}

func NewCodeGenerator(now func() time.Time) *CodeGenerator {
	if now == nil {
		now = time.Now
	}
	return &CodeGenerator{now: now, random: rand.Reader}
}

// Generate returns a code of exactly length digits, drawn uniformly from
// [10^(length-1), 10^length - 1], that expires validity from now.
func (g *CodeGenerator) Generate(length int, validity time.Duration) (account.Code, error) {
	if length < 1 || length > maxCodeLength {
		return account.Code{}, newError(KindConfigurationFault,
			fmt.Errorf("code length must be between 1 and %d, got %d", maxCodeLength, length))
	}

	low := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length-1)), nil)
	span := new(big.Int).Sub(new(big.Int).Mul(low, big.NewInt(10)), low)

	n, err := rand.Int(g.random, span)
	if err != nil {
		return account.Code{}, fmt.Errorf("draw random code: %w", err)
	}

	return account.Code{
		Value:     n.Add(n, low).String(),
		ExpiresAt: g.now().Add(validity),
	}, nil
}
