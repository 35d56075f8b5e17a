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
	"log/slog"
	"net/http"

	"github.com/l3montree-dev/cvehistory/config"
	"github.com/l3montree-dev/cvehistory/dtos"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func registerMiddlewares(e *echo.Echo, allowedOrigins []string) {
	e.Pre(middleware.AddTrailingSlash())
	e.Use(middleware.CORSWithConfig(
		middleware.CORSConfig{
			AllowOrigins:     allowedOrigins,
			AllowHeaders:     []string{"*"},
			AllowMethods:     middleware.DefaultCORSConfig.AllowMethods,
			AllowCredentials: true,
		},
	))

	e.Use(logger())

	e.Use(recovermiddleware())

	e.HTTPErrorHandler = httpErrorHandler
}

// httpErrorHandler writes every error as {"error": message}.
// Internal errors are logged but never sent to the client.
func httpErrorHandler(err error, ctx echo.Context) {
	// do the logging straight inside the error handler
	// this keeps controller methods clean
	slog.Error(err.Error(), "method", ctx.Request().Method, "path", ctx.Request().URL)

	if ctx.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(http.StatusInternalServerError)

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		switch m := he.Message.(type) {
		case string:
			message = m
		case error:
			message = m.Error()
		default:
			message = http.StatusText(code)
		}
	}

	if ctx.Request().Method == http.MethodHead {
		if err := ctx.NoContent(code); err != nil {
			slog.Error("could not send error response", "error", err)
		}
		return
	}

	if err := ctx.JSON(code, dtos.ErrorResponse{Error: message}); err != nil {
		slog.Error("could not send error response", "error", err)
	}
}

func Server(cfg config.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(99)
	registerMiddlewares(e, cfg.AllowedOrigins)
	return e
}
