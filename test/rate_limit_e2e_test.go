//go:build e2e

package test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginRateLimitE2E(t *testing.T) {
	env := SetupTestEnvironmentWithEnv(t, map[string]string{
		"SIGNIN_RATE_PER_MIN": "3",
	})

	email := "limited@example.com"
	// register consumes one limiter slot: the whole auth group shares the bucket
	register(t, env.Client, env.BaseURL, "Larry Limited", email, testPassword)

	// Burn the rest of the budget with bad credentials
	for i := 0; i < 2; i++ {
		status, err := doJSONPost(t, env.Client, env.BaseURL+loginEndpoint, map[string]string{
			"email":    email,
			"password": "WrongPassword123",
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, status, "attempt %d should fail on credentials, not the limiter", i+1)
	}

	// Next attempt trips the limiter even with the right password
	status, err := doJSONPost(t, env.Client, env.BaseURL+loginEndpoint, map[string]string{
		"email":    email,
		"password": testPassword,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, status)
}
