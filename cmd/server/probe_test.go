package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/go-pkgz/auth/token"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribeToken(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	sign := func(claims token.Claims) string {
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("whatever"))
		require.NoError(t, err)
		return raw
	}

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "live",
			raw: sign(token.Claims{
				User:           &token.User{Name: "alice"},
				StandardClaims: jwt.StandardClaims{ExpiresAt: now.Add(time.Hour).Unix()},
			}),
			want: "token user=alice expires=2024-05-01T13:00:00Z\n",
		},
		{
			name: "expired",
			raw: sign(token.Claims{
				User:           &token.User{Name: "alice"},
				StandardClaims: jwt.StandardClaims{ExpiresAt: now.Add(-time.Hour).Unix()},
			}),
			want: "token user=alice expires=2024-05-01T11:00:00Z (expired)\n",
		},
		{
			name: "no user",
			raw:  sign(token.Claims{}),
			want: "token user=- expires=never\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			describeToken(&buf, tt.raw, now)
			assert.Equal(t, tt.want, buf.String())
		})
	}

	var buf bytes.Buffer
	describeToken(&buf, "not-a-jwt", now)
	assert.Contains(t, buf.String(), "token unreadable")
}
