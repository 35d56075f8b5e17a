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

package repositories

import (
	"context"
	"strings"

	"github.com/l3montree-dev/cvehistory/database/models"
	"github.com/l3montree-dev/cvehistory/shared"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type cveChangeRepository struct {
	*GormRepository[uint, models.CVEChange]
	db shared.DB
}

func NewCVEChangeRepository(db shared.DB) *cveChangeRepository {
	return &cveChangeRepository{
		db:             db,
		GormRepository: newGormRepository[uint, models.CVEChange](db),
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// newest first. id breaks ties so consecutive pages never overlap.
const changeOrder = "created desc, id desc"

func (r *cveChangeRepository) DeleteAll(tx shared.DB) error {
	return r.GetDB(tx).Where("1 = 1").Delete(&models.CVEChange{}).Error
}

func (r *cveChangeRepository) listQuery(tx shared.DB, filter shared.CVEChangeFilter) *gorm.DB {
	q := r.GetDB(tx).Model(&models.CVEChange{})
	if filter.CVEID != "" {
		q = q.Where("cve_id ILIKE ?", containsPattern(filter.CVEID))
	}
	if filter.EventName != "" {
		q = q.Where("event_name ILIKE ?", containsPattern(filter.EventName))
	}
	return q
}

func (r *cveChangeRepository) exportQuery(tx shared.DB, filter shared.CVEChangeFilter) *gorm.DB {
	q := r.GetDB(tx).Model(&models.CVEChange{})
	if filter.CVEID != "" {
		q = q.Where("cve_id = ?", filter.CVEID)
	}
	if filter.EventName != "" {
		q = q.Where("event_name ILIKE ?", containsPattern(filter.EventName))
	}
	return q
}

func (r *cveChangeRepository) ListPaged(tx shared.DB, pageInfo shared.PageInfo, filter shared.CVEChangeFilter) (shared.Paged[models.CVEChange], error) {
	var count int64
	if err := r.listQuery(tx, filter).Count(&count).Error; err != nil {
		return shared.Paged[models.CVEChange]{}, errors.Wrap(err, "could not count cve changes")
	}

	changes := []models.CVEChange{}
	if err := pageInfo.ApplyOnDB(r.listQuery(tx, filter)).Order(changeOrder).Find(&changes).Error; err != nil {
		return shared.Paged[models.CVEChange]{}, errors.Wrap(err, "could not list cve changes")
	}

	return shared.NewPaged(pageInfo, count, changes), nil
}

func (r *cveChangeRepository) StreamForExport(tx shared.DB, filter shared.CVEChangeFilter, fn func(models.CVEChange) error) error {
	db := r.GetDB(tx)
	rows, err := r.exportQuery(tx, filter).Order(changeOrder).Rows()
	if err != nil {
		return errors.Wrap(err, "could not query cve changes for export")
	}
	defer rows.Close()

	for rows.Next() {
		var change models.CVEChange
		if err := db.ScanRows(rows, &change); err != nil {
			return errors.Wrap(err, "could not scan cve change")
		}
		if err := fn(change); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *cveChangeRepository) CountByEvent(tx shared.DB) ([]models.EventCount, error) {
	var counts []models.EventCount
	err := r.GetDB(tx).Model(&models.CVEChange{}).
		Select("event_name, count(*) as count").
		Group("event_name").
		Scan(&counts).Error
	return counts, err
}

func (r *cveChangeRepository) CountByMonth(tx shared.DB) ([]models.MonthCount, error) {
	var counts []models.MonthCount
	err := r.GetDB(tx).Model(&models.CVEChange{}).
		Select("to_char(date_trunc('month', created), 'YYYY-MM') as month, count(*) as count").
		Group("month").
		Order("month asc").
		Scan(&counts).Error
	return counts, err
}

func (r *cveChangeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CVEChange{}).Count(&count).Error
	return count, err
}

// Probe fails if the database is unreachable or the table is missing.
func (r *cveChangeRepository) Probe(ctx context.Context) error {
	var ids []uint
	return r.db.WithContext(ctx).Model(&models.CVEChange{}).Select("id").Limit(1).Find(&ids).Error
}
