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
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/l3montree-dev/cvehistory/database/models"
	"github.com/l3montree-dev/cvehistory/dtos"
	"github.com/l3montree-dev/cvehistory/shared"
	"github.com/l3montree-dev/cvehistory/utils"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
)

var CSVHeader = []string{"ID", "CVE ID", "Event Name", "Source Identifier", "Created", "Details"}

type CVEChangeService struct {
	cveChangeRepository shared.CVEChangeRepository
}

func NewCVEChangeService(cveChangeRepository shared.CVEChangeRepository) *CVEChangeService {
	return &CVEChangeService{
		cveChangeRepository: cveChangeRepository,
	}
}

func (s *CVEChangeService) db(ctx context.Context) shared.DB {
	return s.cveChangeRepository.GetDB(nil).WithContext(ctx)
}

func (s *CVEChangeService) ListPaged(ctx context.Context, filter shared.CVEChangeFilter, pageInfo shared.PageInfo) (shared.Paged[models.CVEChange], error) {
	return s.cveChangeRepository.ListPaged(s.db(ctx), pageInfo, filter)
}

// ExportCSV streams every matching row. The cve id filter is an exact match here.
func (s *CVEChangeService) ExportCSV(ctx context.Context, filter shared.CVEChangeFilter, w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(CSVHeader); err != nil {
		return errors.Wrap(err, "could not write csv header")
	}

	err := s.cveChangeRepository.StreamForExport(s.db(ctx), filter, func(change models.CVEChange) error {
		return writer.Write([]string{
			strconv.FormatUint(uint64(change.ID), 10),
			change.CVEID,
			change.EventName,
			change.SourceIdentifier,
			dtos.FormatISO(change.Created),
			detailsText(change.Details),
		})
	})
	if err != nil {
		return err
	}

	writer.Flush()
	return writer.Error()
}

func detailsText(details datatypes.JSON) string {
	if len(details) == 0 {
		return ""
	}
	// plain strings are written without their quotes
	var s string
	if err := json.Unmarshal(details, &s); err == nil {
		return s
	}
	return string(details)
}

func (s *CVEChangeService) Stats(ctx context.Context) (dtos.StatsResponse, error) {
	var events []models.EventCount
	var months []models.MonthCount

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		events, err = s.cveChangeRepository.CountByEvent(s.db(gctx))
		return errors.Wrap(err, "could not count cve changes per event")
	})
	g.Go(func() error {
		var err error
		months, err = s.cveChangeRepository.CountByMonth(s.db(gctx))
		return errors.Wrap(err, "could not count cve changes per month")
	})
	if err := g.Wait(); err != nil {
		return dtos.StatsResponse{}, err
	}

	return dtos.StatsResponse{
		CVEsPerEvent: utils.ToMap(events, func(e models.EventCount) (string, int64) {
			return e.EventName, e.Count
		}),
		CVEsOverTime: utils.ToMap(months, func(m models.MonthCount) (string, int64) {
			return m.Month, m.Count
		}),
	}, nil
}
