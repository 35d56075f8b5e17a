// Copyright (C) 2025 l3montree GmbH
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.


package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/l3montree-dev/cvehistory/config"
	"github.com/l3montree-dev/cvehistory/mocks"
	"github.com/l3montree-dev/cvehistory/shared"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(t *testing.T) *AuthService {
	return NewAuthService(config.Config{SecretKey: "test-secret", AccessTokenExpireMinutes: 30}, mocks.NewUserRepository(t))
}

func TestIssueAccessToken(t *testing.T) {
	t.Run("should carry the email as subject and expire after the configured ttl", func(t *testing.T) {
		s := newTestAuthService(t)

		signed, err := s.issueAccessToken("a@b.c")
		require.NoError(t, err)

		claims := &jwt.RegisteredClaims{}
		_, err = jwt.ParseWithClaims(signed, claims, func(*jwt.Token) (any, error) { return []byte("test-secret"), nil })
		require.NoError(t, err)

		assert.Equal(t, "a@b.c", claims.Subject)
		assert.NotEmpty(t, claims.ID)
		assert.WithinDuration(t, time.Now().Add(30*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
	})
}

func TestVerifyToken(t *testing.T) {
	sign := func(t *testing.T, method jwt.SigningMethod, key any, claims jwt.RegisteredClaims) string {
		t.Helper()
		signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return signed
	}

	t.Run("should reject garbage", func(t *testing.T) {
		_, err := newTestAuthService(t).VerifyToken(context.Background(), "not-a-jwt")
		assert.True(t, errors.Is(err, shared.ErrInvalidToken))
	})

	t.Run("should reject a token signed with another secret", func(t *testing.T) {
		token := sign(t, jwt.SigningMethodHS256, []byte("other"), jwt.RegisteredClaims{
			Subject:   "a@b.c",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})
		_, err := newTestAuthService(t).VerifyToken(context.Background(), token)
		assert.True(t, errors.Is(err, shared.ErrInvalidToken))
	})

	t.Run("should reject an expired token", func(t *testing.T) {
		token := sign(t, jwt.SigningMethodHS256, []byte("test-secret"), jwt.RegisteredClaims{
			Subject:   "a@b.c",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		})
		_, err := newTestAuthService(t).VerifyToken(context.Background(), token)
		assert.True(t, errors.Is(err, shared.ErrInvalidToken))
	})

	t.Run("should reject another hmac variant", func(t *testing.T) {
		token := sign(t, jwt.SigningMethodHS512, []byte("test-secret"), jwt.RegisteredClaims{
			Subject:   "a@b.c",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})
		_, err := newTestAuthService(t).VerifyToken(context.Background(), token)
		assert.True(t, errors.Is(err, shared.ErrInvalidToken))
	})

	t.Run("should reject a token without subject", func(t *testing.T) {
		token := sign(t, jwt.SigningMethodHS256, []byte("test-secret"), jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})
		_, err := newTestAuthService(t).VerifyToken(context.Background(), token)
		assert.True(t, errors.Is(err, shared.ErrInvalidToken))
	})
}
