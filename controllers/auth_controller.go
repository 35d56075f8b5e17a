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


package controllers

import (
	"github.com/l3montree-dev/cvehistory/dtos"
	"github.com/l3montree-dev/cvehistory/shared"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type AuthController struct {
	authService shared.AuthService
}

func NewAuthController(authService shared.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

// @Summary Register a user account
// @Tags Auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param email formData string true "Email"
// @Param password formData string true "Password"
// @Success 201 {object} dtos.MessageResponse
// @Failure 400 {object} dtos.ErrorResponse
// @Failure 409 {object} dtos.ErrorResponse
// @Failure 500 {object} dtos.ErrorResponse
// @Router /register [post]
func (c *AuthController) Register(ctx shared.Context) error {
	var req dtos.RegisterRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(400, "could not parse request").WithInternal(err)
	}
	if err := shared.V.Struct(req); err != nil {
		return echo.NewHTTPError(400, "email and password are required").WithInternal(err)
	}

	err := c.authService.Register(ctx.Request().Context(), req.Email, req.Password)
	switch {
	case err == nil:
		return ctx.JSON(201, dtos.MessageResponse{Message: "User registered successfully"})
	case errors.Is(err, shared.ErrUserExists):
		return echo.NewHTTPError(409, "User already exists").WithInternal(err)
	case errors.Is(err, shared.ErrInvalidPassword):
		return echo.NewHTTPError(400, "password is too long").WithInternal(err)
	default:
		return echo.NewHTTPError(500, "could not register user").WithInternal(err)
	}
}

// @Summary Exchange credentials for a bearer token
// @Tags Auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Registered email"
// @Param password formData string true "Password"
// @Success 200 {object} dtos.TokenResponse
// @Failure 401 {object} dtos.ErrorResponse
// @Failure 500 {object} dtos.ErrorResponse
// @Router /login [post]
func (c *AuthController) Login(ctx shared.Context) error {
	var req dtos.LoginRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(400, "could not parse request").WithInternal(err)
	}
	if err := shared.V.Struct(req); err != nil {
		return echo.NewHTTPError(401, "Invalid credentials").WithInternal(err)
	}

	token, err := c.authService.Login(ctx.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidCredentials) {
			return echo.NewHTTPError(401, "Invalid credentials").WithInternal(err)
		}
		return echo.NewHTTPError(500, "could not log in").WithInternal(err)
	}

	return ctx.JSON(200, dtos.TokenResponse{AccessToken: token, TokenType: "bearer"})
}
