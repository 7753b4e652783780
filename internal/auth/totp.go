// Package auth implements the time-based one-time-password check that
// guards every inbound route. Callers hold a shared base32 secret and send
// the current code in the Authorization header.
package auth

import (
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	issuer = "rj-project-1"
	period = 30
)

func validateOpts(skew uint) totp.ValidateOpts {
	return totp.ValidateOpts{
		Period:    period,
		Skew:      skew,
		Digits:    otp.DigitsEight,
		Algorithm: otp.AlgorithmSHA1,
	}
}

// NewSecret generates a fresh base32 shared secret for provisioning a
// caller.
func NewSecret() (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: "case-sync",
		Period:      period,
		Digits:      otp.DigitsEight,
	})
	if err != nil {
		return "", err
	}
	return key.Secret(), nil
}

// TokenFromSecret returns the current 8-digit code for the secret.
func TokenFromSecret(secret string) (string, error) {
	return totp.GenerateCodeCustom(secret, time.Now(), validateOpts(0))
}

// ValidateToken checks a presented code against the secret, accepting codes
// up to skew periods away from the current one.
func ValidateToken(secret, token string, skew uint) bool {
	ok, err := totp.ValidateCustom(token, secret, time.Now(), validateOpts(skew))
	return err == nil && ok
}
