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

package vulndb

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/l3montree-dev/cvehistory/config"
	"github.com/l3montree-dev/cvehistory/database/models"
	"github.com/l3montree-dev/cvehistory/dtos"
	"github.com/l3montree-dev/cvehistory/monitoring"
	"github.com/l3montree-dev/cvehistory/shared"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

const LastRefreshConfigKey = "cvehistory.lastRefresh"

var ErrRefreshInProgress = errors.New("a refresh is already running")

type IngestionService struct {
	feed                FeedClient
	cveChangeRepository shared.CVEChangeRepository
	configService       shared.ConfigService

	pageSize       int
	entriesToFetch int
	atomic         bool
	// nil when no delay between requests is configured
	rateLimiter *rate.Limiter

	lock *sync.Mutex
}

func NewIngestionService(cfg config.Config, feed FeedClient, cveChangeRepository shared.CVEChangeRepository, configService shared.ConfigService) *IngestionService {
	var limiter *rate.Limiter
	if cfg.FeedDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.FeedDelay), 1)
	}

	return &IngestionService{
		feed:                feed,
		cveChangeRepository: cveChangeRepository,
		configService:       configService,
		pageSize:            cfg.FeedPageSize,
		entriesToFetch:      cfg.FeedEntriesToFetch,
		atomic:              cfg.AtomicRefresh,
		rateLimiter:         limiter,
		lock:                &sync.Mutex{},
	}
}

// RunFullRefresh replaces the stored change events with the current feed content.
//
// By default the delete is committed together with the first page and every
// following page is committed on its own. An aborted run therefore leaves the
// pages committed so far. With AtomicRefresh the whole run is one transaction.
func (s *IngestionService) RunFullRefresh(ctx context.Context) (int, error) {
	if !s.lock.TryLock() {
		return 0, ErrRefreshInProgress
	}
	defer s.lock.Unlock()

	record := dtos.RefreshRecord{StartedAt: time.Now()}
	slog.Info("starting cve history refresh", "pageSize", s.pageSize, "entriesToFetch", s.entriesToFetch, "atomic", s.atomic)

	var total int
	var err error
	if s.atomic {
		total, err = s.refreshAtomically(ctx)
	} else {
		total, err = s.refreshPageWise(ctx)
	}

	record.FinishedAt = time.Now()
	record.Records = total
	record.Complete = err == nil
	if err != nil {
		record.Error = err.Error()
	}
	if saveErr := s.configService.SetJSONConfig(LastRefreshConfigKey, record); saveErr != nil {
		slog.Warn("could not store refresh record", "err", saveErr)
	}

	if err != nil {
		return total, err
	}

	slog.Info("finished cve history refresh", "records", total, "duration", record.FinishedAt.Sub(record.StartedAt))
	return total, nil
}

func (s *IngestionService) refreshPageWise(ctx context.Context) (int, error) {
	tx := s.cveChangeRepository.Begin()
	if tx.Error != nil {
		return 0, errors.Wrap(tx.Error, "could not begin transaction")
	}
	defer func() {
		if tx != nil {
			tx.Rollback()
		}
	}()

	if err := s.cveChangeRepository.DeleteAll(tx); err != nil {
		return 0, errors.Wrap(err, "could not delete cve changes")
	}

	total := 0
	for startIndex := 0; startIndex < s.entriesToFetch; startIndex += s.pageSize {
		if tx == nil {
			tx = s.cveChangeRepository.Begin()
			if tx.Error != nil {
				err := tx.Error
				tx = nil
				return total, errors.Wrap(err, "could not begin transaction")
			}
		}

		changes, done, err := s.fetchPage(ctx, startIndex)
		if err != nil {
			return total, err
		}

		if err := s.cveChangeRepository.CreateBatch(tx, changes); err != nil {
			return total, errors.Wrapf(err, "could not store page at start index %d", startIndex)
		}
		err = tx.Commit().Error
		tx = nil
		if err != nil {
			return total, errors.Wrapf(err, "could not commit page at start index %d", startIndex)
		}

		total += len(changes)
		monitoring.RecordsIngested.Add(float64(len(changes)))
		if done {
			break
		}
	}

	// no page was requested, the delete is still pending
	if tx != nil {
		err := tx.Commit().Error
		tx = nil
		if err != nil {
			return 0, errors.Wrap(err, "could not commit delete")
		}
	}

	return total, nil
}

func (s *IngestionService) refreshAtomically(ctx context.Context) (int, error) {
	total := 0
	err := s.cveChangeRepository.Transaction(func(tx shared.DB) error {
		if err := s.cveChangeRepository.DeleteAll(tx); err != nil {
			return errors.Wrap(err, "could not delete cve changes")
		}

		for startIndex := 0; startIndex < s.entriesToFetch; startIndex += s.pageSize {
			changes, done, err := s.fetchPage(ctx, startIndex)
			if err != nil {
				return err
			}
			if err := s.cveChangeRepository.CreateBatch(tx, changes); err != nil {
				return errors.Wrapf(err, "could not store page at start index %d", startIndex)
			}
			total += len(changes)
			if done {
				break
			}
		}
		return nil
	})
	if err != nil {
		// nothing was committed
		return 0, err
	}

	monitoring.RecordsIngested.Add(float64(total))
	return total, nil
}

// fetchPage fetches and maps one page. done reports that the feed has no further pages.
func (s *IngestionService) fetchPage(ctx context.Context, startIndex int) ([]models.CVEChange, bool, error) {
	if s.rateLimiter != nil {
		if err := s.rateLimiter.Wait(ctx); err != nil {
			return nil, false, err
		}
	}

	start := time.Now()
	page, err := s.feed.FetchPage(ctx, startIndex, s.pageSize)
	if err != nil {
		return nil, false, err
	}

	changes, err := fromRawCVEChanges(page.CVEChanges, startIndex)
	if err != nil {
		return nil, false, err
	}

	slog.Info("fetched cve history page", "startIndex", startIndex, "records", len(changes), "totalResults", page.TotalResults, "duration", time.Since(start))

	done := len(changes) == 0 || (page.TotalResults > 0 && startIndex+len(changes) >= page.TotalResults)
	return changes, done, nil
}
