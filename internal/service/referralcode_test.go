package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateReferralCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := generateReferralCode()

		assert.Len(t, code, referralCodeLength)
		for _, c := range code {
			assert.True(t, strings.ContainsRune(referralCodeAlphabet, c),
				"unexpected character %q in code %s", c, code)
		}
	}
}

func TestGenerateUniqueReferralCode(t *testing.T) {
	t.Run("First free candidate is returned", func(t *testing.T) {
		calls := 0
		code, err := generateUniqueReferralCode(context.Background(), func(ctx context.Context, code string) (bool, error) {
			calls++
			return false, nil
		})

		assert.NoError(t, err)
		assert.Len(t, code, referralCodeLength)
		assert.Equal(t, 1, calls)
	})

	t.Run("Collisions are retried until a free candidate", func(t *testing.T) {
		calls := 0
		code, err := generateUniqueReferralCode(context.Background(), func(ctx context.Context, code string) (bool, error) {
			calls++
			return calls < 3, nil
		})

		assert.NoError(t, err)
		assert.Len(t, code, referralCodeLength)
		assert.Equal(t, 3, calls)
	})

	t.Run("Exhausted attempts fail closed", func(t *testing.T) {
		calls := 0
		_, err := generateUniqueReferralCode(context.Background(), func(ctx context.Context, code string) (bool, error) {
			calls++
			return true, nil
		})

		assert.ErrorIs(t, err, ErrCodeGenerationExhausted)
		assert.Equal(t, maxCodeAttempts, calls)
	})

	t.Run("Existence check errors propagate", func(t *testing.T) {
		_, err := generateUniqueReferralCode(context.Background(), func(ctx context.Context, code string) (bool, error) {
			return false, assert.AnError
		})

		assert.ErrorIs(t, err, assert.AnError)
	})
}
