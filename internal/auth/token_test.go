package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("secret", "bookstore-auth")

	token, expires, err := m.Generate("user-1", RoleAdmin, time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 5*time.Second)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.True(t, claims.IsAdmin())
	assert.Equal(t, "bookstore-auth", claims.Issuer)
}

func TestTokenManager_Parse_Rejects(t *testing.T) {
	m := NewTokenManager("secret", "bookstore-auth")

	expired, _, err := m.Generate("user-1", "", -time.Minute)
	require.NoError(t, err)

	otherSecret, _, err := NewTokenManager("other", "bookstore-auth").Generate("user-1", "", time.Hour)
	require.NoError(t, err)

	otherIssuer, _, err := NewTokenManager("secret", "someone-else").Generate("user-1", "", time.Hour)
	require.NoError(t, err)

	noUser, _, err := m.Generate("", "", time.Hour)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "user-1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"expired", expired},
		{"wrong secret", otherSecret},
		{"wrong issuer", otherIssuer},
		{"missing user", noUser},
		{"alg none", unsigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := m.Parse(tt.token)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

func TestContext(t *testing.T) {
	ctx := context.Background()

	_, ok := FromContext(ctx)
	assert.False(t, ok)
	assert.Empty(t, UserID(ctx))

	ctx = WithClaims(ctx, &Claims{UserID: "user-7"})
	claims, ok := FromContext(ctx)
	require.True(t, ok)
	assert.False(t, claims.IsAdmin())
	assert.Equal(t, "user-7", UserID(ctx))
}
