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
	"log/slog"
	"time"

	"github.com/l3montree-dev/cvehistory/database/repositories"
	"github.com/l3montree-dev/cvehistory/services"
	"github.com/l3montree-dev/cvehistory/vulndb"
	"github.com/spf13/cobra"
)

func NewIngestCommand() *cobra.Command {
	ingest := &cobra.Command{
		Use:   "ingest",
		Short: "Replaces the stored cve history with a fresh copy of the feed",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, pool, db, err := openDatabase()
			if err != nil {
				return err
			}
			defer pool.Close()

			if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 {
				cfg.FeedEntriesToFetch = limit
			}
			if atomic, _ := cmd.Flags().GetBool("atomic"); atomic {
				cfg.AtomicRefresh = true
			}

			cveChangeRepository := repositories.NewCVEChangeRepository(db)
			configService := services.NewConfigService(repositories.NewConfigRepository(db))
			ingestionService := vulndb.NewIngestionService(cfg, vulndb.NewNVDFeedClient(cfg), cveChangeRepository, configService)

			start := time.Now()
			records, err := ingestionService.RunFullRefresh(cmd.Context())
			if err != nil {
				slog.Error("ingestion failed", "records", records, "err", err)
				return err
			}
			slog.Info("ingestion finished", "records", records, "duration", time.Since(start))
			return nil
		},
	}

	ingest.Flags().Int("limit", 0, "Maximum number of feed entries to fetch (defaults to NVD_ENTRIES_TO_FETCH)")
	ingest.Flags().Bool("atomic", false, "Run the whole refresh inside a single transaction")

	return ingest
}
