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


package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/l3montree-dev/cvehistory/cmd/cvehistory/api"
	"github.com/l3montree-dev/cvehistory/config"
	"github.com/l3montree-dev/cvehistory/controllers"
	"github.com/l3montree-dev/cvehistory/daemons"
	"github.com/l3montree-dev/cvehistory/database"
	"github.com/l3montree-dev/cvehistory/database/repositories"
	"github.com/l3montree-dev/cvehistory/monitoring"
	"github.com/l3montree-dev/cvehistory/router"
	"github.com/l3montree-dev/cvehistory/services"
	"github.com/l3montree-dev/cvehistory/shared"
	"github.com/l3montree-dev/cvehistory/vulndb"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

var release string // Will be filled at build time

//	@title			CVE History API
//	@version		v1
//	@description	Authenticated query interface over the NVD cve change history

//	@license.name	AGPL-3

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization

// @host		localhost:8000
// @BasePath	/
func main() {
	shared.InitLogger()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	if cfg.ErrorTrackingDSN != "" {
		monitoring.InitSentry(cfg.ErrorTrackingDSN, cfg.Environment, release)

		// Catch panics
		defer func() {
			if err := recover(); err != nil {
				sentry.CurrentHub().Recover(err)
				// Wait for events to be send to server
				sentry.Flush(time.Second * 5)
			}
		}()
	}

	fx.New(
		fx.Supply(cfg),
		database.Module,
		fx.Invoke(func(db shared.DB) error {
			return migrate(cfg, db)
		}),
		fx.Provide(api.NewServer),
		repositories.Module,
		services.ServiceModule,
		vulndb.Module,
		controllers.ControllerModule,
		router.RouterModule,
		daemons.Module,
	).Run()
}

func migrate(cfg config.Config, db shared.DB) error {
	if cfg.DisableAutoMigrate {
		slog.Info("automatic migrations disabled via DISABLE_AUTOMIGRATE=true")
		return nil
	}

	slog.Info("running database migrations...")
	if err := database.RunMigrationsWithDB(db); err != nil {
		return errors.Wrap(err, "Failed to run database migrations")
	}
	return nil
}
