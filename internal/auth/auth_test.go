package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "correct horse battery staple"))
	assert.False(t, CheckPassword(hash, "wrong password"))
	assert.False(t, CheckPassword("not a bcrypt hash", "anything"))
}

func TestValidatePassword(t *testing.T) {
	assert.ErrorIs(t, ValidatePassword("short", 8, false), ErrWeakPassword)
	assert.NoError(t, ValidatePassword("longenough", 8, false))

	// Complexity requires three of four character classes.
	assert.ErrorIs(t, ValidatePassword("alllowercase", 8, true), ErrWeakPassword)
	assert.NoError(t, ValidatePassword("Mixed1234", 8, true))
	assert.NoError(t, ValidatePassword("mixed-1234", 8, true))
}

func TestNormalizeUsername(t *testing.T) {
	assert.Equal(t, "alice", NormalizeUsername("  Alice "))
	assert.Equal(t, "bob", NormalizeUsername("BOB"))
}

func TestTokenRoundTrip(t *testing.T) {
	a, err := NewAuth("test-secret", time.Hour)
	require.NoError(t, err)

	userID := uuid.New()
	token, err := a.IssueToken(userID, true)
	require.NoError(t, err)

	claims, err := a.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.True(t, claims.IsAdmin)
}

func TestTokenWrongSecret(t *testing.T) {
	a1, err := NewAuth("secret-one", time.Hour)
	require.NoError(t, err)
	a2, err := NewAuth("secret-two", time.Hour)
	require.NoError(t, err)

	token, err := a1.IssueToken(uuid.New(), false)
	require.NoError(t, err)

	_, err = a2.VerifyToken(token)
	assert.Error(t, err)
}

func TestTokenExpired(t *testing.T) {
	a, err := NewAuth("test-secret", time.Hour)
	require.NoError(t, err)
	a.expiresIn = -time.Minute

	token, err := a.IssueToken(uuid.New(), false)
	require.NoError(t, err)

	_, err = a.VerifyToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestEmptySecretRejected(t *testing.T) {
	_, err := NewAuth("", time.Hour)
	assert.Error(t, err)
}

func TestLoginLimiter(t *testing.T) {
	l := NewLoginLimiter()

	allowed := 0
	for i := 0; i < 20; i++ {
		if l.Allow("10.0.0.1:55555") {
			allowed++
		}
	}
	assert.LessOrEqual(t, allowed, 6)
	assert.GreaterOrEqual(t, allowed, 5)

	// A different address has its own budget.
	assert.True(t, l.Allow("10.0.0.2:55555"))
}
