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

package shared

import (
	"context"
	"io"

	"github.com/l3montree-dev/cvehistory/database/models"
	"github.com/l3montree-dev/cvehistory/dtos"
)

// CVEChangeFilter is AND-combined. Empty fields do not filter.
type CVEChangeFilter struct {
	CVEID     string
	EventName string
}

type CVEChangeRepository interface {
	Transaction(func(tx DB) error) error
	Begin() DB
	GetDB(tx DB) DB

	DeleteAll(tx DB) error
	CreateBatch(tx DB, changes []models.CVEChange) error
	// ListPaged matches cve id and event name as case insensitive substrings.
	ListPaged(tx DB, pageInfo PageInfo, filter CVEChangeFilter) (Paged[models.CVEChange], error)
	// StreamForExport matches the cve id exactly and the event name as case insensitive substring.
	StreamForExport(tx DB, filter CVEChangeFilter, fn func(models.CVEChange) error) error
	CountByEvent(tx DB) ([]models.EventCount, error)
	CountByMonth(tx DB) ([]models.MonthCount, error)
	Count(ctx context.Context) (int64, error)
	Probe(ctx context.Context) error
}

type UserRepository interface {
	Transaction(func(tx DB) error) error
	GetDB(tx DB) DB
	FindByEmail(tx DB, email string) (models.User, error)
	Create(tx DB, user *models.User) error
}

type ConfigRepository interface {
	GetDB(tx DB) DB
	Save(tx DB, config *models.Config) error
}

type ConfigService interface {
	GetJSONConfig(key string, v any) error
	SetJSONConfig(key string, v any) error
}

type CVEChangeService interface {
	ListPaged(ctx context.Context, filter CVEChangeFilter, pageInfo PageInfo) (Paged[models.CVEChange], error)
	ExportCSV(ctx context.Context, filter CVEChangeFilter, w io.Writer) error
	Stats(ctx context.Context) (dtos.StatsResponse, error)
}

type IngestionService interface {
	RunFullRefresh(ctx context.Context) (int, error)
}

type AuthService interface {
	Register(ctx context.Context, email, password string) error
	Login(ctx context.Context, email, password string) (string, error)
	VerifyToken(ctx context.Context, token string) (AuthSession, error)
}

type AuthSession interface {
	GetEmail() string
}

type DaemonRunner interface {
	Start()
	Stop()
	RunRefresh(ctx context.Context) error
}
