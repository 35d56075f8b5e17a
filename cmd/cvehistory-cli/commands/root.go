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


package commands

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/l3montree-dev/cvehistory/config"
	"github.com/l3montree-dev/cvehistory/database"
	"github.com/l3montree-dev/cvehistory/shared"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cvehistory-cli",
	Short: "Management cli",
	Long:  `The cvehistory cli runs maintenance tasks against the cvehistory database without starting the api.`,
}

func GetRootCmd() *cobra.Command {
	return rootCmd
}

// openDatabase loads the configuration and connects. The caller closes the returned pool.
func openDatabase() (config.Config, *pgxpool.Pool, shared.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, nil, errors.Wrap(err, "invalid configuration")
	}

	pool, err := database.NewPgxConnPool(database.GetPoolConfig(cfg))
	if err != nil {
		return config.Config{}, nil, nil, errors.Wrap(err, "could not connect to database")
	}

	db, err := database.NewGormDB(pool)
	if err != nil {
		pool.Close()
		return config.Config{}, nil, nil, errors.Wrap(err, "could not open gorm")
	}
	return cfg, pool, db, nil
}
