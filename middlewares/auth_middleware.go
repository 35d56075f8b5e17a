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

package middlewares

import (
	"net/http"
	"strings"

	"github.com/l3montree-dev/cvehistory/shared"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// BearerAuth rejects every request without a valid access token of a registered user.
// All failures end in a 401.
func BearerAuth(authService shared.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx shared.Context) error {
			token, ok := bearerToken(ctx.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				ctx.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
			}

			session, err := authService.VerifyToken(ctx.Request().Context(), token)
			if err != nil {
				ctx.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
				if errors.Is(err, shared.ErrInvalidToken) {
					return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token").WithInternal(err)
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized").WithInternal(err)
			}

			shared.SetSession(ctx, session)
			return next(ctx)
		}
	}
}
