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


package daemons

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/l3montree-dev/cvehistory/config"
	"github.com/l3montree-dev/cvehistory/monitoring"
	"github.com/l3montree-dev/cvehistory/shared"
	"github.com/l3montree-dev/cvehistory/vulndb"
	"github.com/pkg/errors"
)

// DaemonRunner runs the startup ingestion in the background so the api serves
// already stored data while the feed is being mirrored.
type DaemonRunner struct {
	ingestionService shared.IngestionService
	disabled         bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewDaemonRunner(cfg config.Config, ingestionService shared.IngestionService) *DaemonRunner {
	return &DaemonRunner{
		ingestionService: ingestionService,
		disabled:         cfg.DisableStartupIngestion,
	}
}

func (runner *DaemonRunner) Start() {
	if runner.disabled {
		slog.Info("startup ingestion disabled")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	runner.cancel = cancel
	runner.wg.Add(1)
	go func() {
		defer runner.wg.Done()
		if err := runner.RunRefresh(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("startup ingestion failed", "err", err)
		}
	}()
}

// Stop cancels a running refresh and waits for it to roll back.
func (runner *DaemonRunner) Stop() {
	if runner.cancel != nil {
		runner.cancel()
	}
	runner.wg.Wait()
}

func (runner *DaemonRunner) RunRefresh(ctx context.Context) error {
	begin := time.Now()
	defer func() {
		monitoring.RefreshDuration.Observe(time.Since(begin).Minutes())
	}()

	slog.Info("refreshing cve history")
	records, err := runner.ingestionService.RunFullRefresh(ctx)
	if err != nil {
		if errors.Is(err, vulndb.ErrRefreshInProgress) {
			slog.Warn("cve history refresh skipped", "err", err)
			return err
		}
		monitoring.RefreshFailures.Inc()
		if !errors.Is(err, context.Canceled) {
			monitoring.Alert("failed to refresh cve history", err)
		}
		return err
	}

	slog.Info("cve history refreshed", "records", records, "duration", time.Since(begin))
	return nil
}

var _ shared.DaemonRunner = (*DaemonRunner)(nil)
