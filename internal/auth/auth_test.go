package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"healthmini/internal/errors"
)

const testSecret = "unit-test-secret"

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(42, "admin", testSecret, time.Hour)
	require.NoError(t, err)

	userID, role, err := VerifyToken(token, testSecret)
	require.NoError(t, err)
	require.Equal(t, int64(42), userID)
	require.Equal(t, "admin", role)
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken(42, "user", testSecret, time.Hour)
	require.NoError(t, err)

	_, _, err = VerifyToken(token, "a-different-secret")
	require.True(t, errors.HasCode(err, errors.CodeUnauthorized))
}

func TestVerifyTokenExpired(t *testing.T) {
	token, err := GenerateToken(42, "user", testSecret, -time.Minute)
	require.NoError(t, err)

	_, _, err = VerifyToken(token, testSecret)
	require.True(t, errors.HasCode(err, errors.CodeUnauthorized))
}

func TestVerifyTokenGarbage(t *testing.T) {
	for _, bad := range []string{"", "not-a-token", "a.b.c"} {
		_, _, err := VerifyToken(bad, testSecret)
		require.True(t, errors.HasCode(err, errors.CodeUnauthorized), "input %q", bad)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2-but-longer")
	require.NoError(t, err)
	require.NotEqual(t, "hunter2-but-longer", hash)

	require.True(t, CheckPassword(hash, "hunter2-but-longer"))
	require.False(t, CheckPassword(hash, "wrong"))
	require.False(t, CheckPassword("not-a-hash", "hunter2-but-longer"))
}
