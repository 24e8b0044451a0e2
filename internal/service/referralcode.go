package service

import (
	"context"
	"math/rand"
)

const (
	referralCodeLength   = 8
	referralCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// maxCodeAttempts bounds the collision retry loop. With 36^8 possible
	// codes this should never trip; hitting it means the code space is
	// exhausted or the existence check is broken.
	maxCodeAttempts = 100
)

func generateReferralCode() string {
	code := make([]byte, referralCodeLength)
	for i := range code {
		code[i] = referralCodeAlphabet[rand.Intn(len(referralCodeAlphabet))]
	}
	return string(code)
}

// generateUniqueReferralCode draws candidates until the injected existence
// check reports one as free. It performs no writes itself; the caller's
// unique constraint remains the backstop against a concurrent claim.
func generateUniqueReferralCode(ctx context.Context, exists func(ctx context.Context, code string) (bool, error)) (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code := generateReferralCode()

		taken, err := exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}

	return "", ErrCodeGenerationExhausted
}
