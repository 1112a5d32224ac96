package auth

import (
	"crypto/rand"
	"math/big"
	"strings"

	"gramosi/internal/domain/service"
	"gramosi/internal/errors"
)

const otpDigits = 6

type digitOTPGenerator struct {
	digits int
}

// NewOTPGenerator returns a generator of six-digit numeric codes drawn from crypto/rand.
func NewOTPGenerator() service.OTPGenerator {
	return &digitOTPGenerator{digits: otpDigits}
}

// Generate returns a zero-padded numeric code.
func (g *digitOTPGenerator) Generate() (string, error) {
	var code strings.Builder
	code.Grow(g.digits)

	for range g.digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", errors.Wrap(err, "failed to generate otp digit")
		}
		code.WriteByte(byte('0' + n.Int64()))
	}

	return code.String(), nil
}
