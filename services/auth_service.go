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
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/l3montree-dev/cvehistory/config"
	"github.com/l3montree-dev/cvehistory/database"
	"github.com/l3montree-dev/cvehistory/database/models"
	"github.com/l3montree-dev/cvehistory/shared"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	knownUserCacheSize = 1024
	knownUserCacheTTL  = 5 * time.Minute
)

type authSession struct {
	email string
}

func (s authSession) GetEmail() string {
	return s.email
}

func NewAuthSession(email string) shared.AuthSession {
	return authSession{email: email}
}

type AuthService struct {
	userRepository shared.UserRepository
	secret         []byte
	accessTokenTTL time.Duration

	// users are never deleted, so a positive lookup can be cached
	knownUsers *expirable.LRU[string, models.User]
	lookups    singleflight.Group
}

func NewAuthService(cfg config.Config, userRepository shared.UserRepository) *AuthService {
	return &AuthService{
		userRepository: userRepository,
		secret:         []byte(cfg.SecretKey),
		accessTokenTTL: cfg.AccessTokenTTL(),
		knownUsers:     expirable.NewLRU[string, models.User](knownUserCacheSize, nil, knownUserCacheTTL),
	}
}

func (s *AuthService) db(ctx context.Context) shared.DB {
	return s.userRepository.GetDB(nil).WithContext(ctx)
}

func (s *AuthService) Register(ctx context.Context, email, password string) error {
	_, err := s.userRepository.FindByEmail(s.db(ctx), email)
	if err == nil {
		return shared.ErrUserExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Wrap(err, "could not look up user")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return errors.Wrap(shared.ErrInvalidPassword, err.Error())
		}
		return errors.Wrap(err, "could not hash password")
	}

	user := models.User{
		Email:          email,
		HashedPassword: string(hash),
	}
	err = s.userRepository.Transaction(func(tx shared.DB) error {
		return s.userRepository.Create(tx.WithContext(ctx), &user)
	})
	if err != nil {
		// a concurrent registration won the race
		if database.IsDuplicateKeyError(err) {
			return shared.ErrUserExists
		}
		return errors.Wrap(err, "could not create user")
	}
	return nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepository.FindByEmail(s.db(ctx), email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", shared.ErrInvalidCredentials
		}
		return "", errors.Wrap(err, "could not look up user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return "", shared.ErrInvalidCredentials
	}

	s.knownUsers.Add(user.Email, user)
	return s.issueAccessToken(user.Email)
}

func (s *AuthService) issueAccessToken(email string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
		ID:        uuid.NewString(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "could not sign access token")
	}
	return token, nil
}

// VerifyToken checks the signature and expiry and resolves the sub claim to a registered user.
func (s *AuthService) VerifyToken(ctx context.Context, tokenString string) (shared.AuthSession, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, errors.Wrap(shared.ErrInvalidToken, err.Error())
	}
	if !token.Valid || claims.Subject == "" {
		return nil, shared.ErrInvalidToken
	}

	user, err := s.lookupUser(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrUnknownSubject
		}
		return nil, errors.Wrap(err, "could not look up token subject")
	}

	return NewAuthSession(user.Email), nil
}

func (s *AuthService) lookupUser(ctx context.Context, email string) (models.User, error) {
	if user, ok := s.knownUsers.Get(email); ok {
		return user, nil
	}

	// shared by every waiting request, detached from the cancellation of the first one
	v, err, _ := s.lookups.Do(email, func() (any, error) {
		return s.userRepository.FindByEmail(s.db(context.WithoutCancel(ctx)), email)
	})
	if err != nil {
		return models.User{}, err
	}

	user := v.(models.User)
	s.knownUsers.Add(email, user)
	return user, nil
}
