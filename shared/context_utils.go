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
	"math"
	"strconv"

	"github.com/labstack/echo/v4"
)

type PageInfo struct {
	PageSize int `json:"pageSize"`
	Page     int `json:"page"`
}

func (p PageInfo) ApplyOnDB(db DB) DB {
	return db.Offset((p.Page - 1) * p.PageSize).Limit(p.PageSize)
}

type Paged[T any] struct {
	PageInfo
	Total int64 `json:"total"`
	Data  []T   `json:"data"`
}

// TotalPages is ceil(Total / PageSize) and 0 for an empty result.
func (p Paged[T]) TotalPages() int64 {
	if p.PageSize <= 0 || p.Total <= 0 {
		return 0
	}
	size := int64(p.PageSize)
	return (p.Total + size - 1) / size
}

func NewPaged[T any](pageInfo PageInfo, total int64, data []T) Paged[T] {
	return Paged[T]{
		PageInfo: pageInfo,
		Total:    total,
		Data:     data,
	}
}

// GetPageInfo reads the 1-indexed page query parameter. The page size is fixed
// by configuration and cannot be overridden by the caller.
func GetPageInfo(ctx Context, pageSize int) (PageInfo, error) {
	page := 1
	if raw := ctx.QueryParam("page"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil {
			return PageInfo{}, echo.NewHTTPError(400, "page must be an integer").WithInternal(err)
		}
		page = p
	}
	if page < 1 {
		return PageInfo{}, echo.NewHTTPError(400, "page must be greater than or equal to 1")
	}
	// the offset (page-1)*pageSize has to fit into an int
	if pageSize > 0 && page-1 > math.MaxInt/pageSize {
		return PageInfo{}, echo.NewHTTPError(400, "page is out of range")
	}

	return PageInfo{
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func GetCVEChangeFilter(ctx Context) CVEChangeFilter {
	return CVEChangeFilter{
		CVEID:     ctx.QueryParam("cve_id"),
		EventName: ctx.QueryParam("event_name"),
	}
}

func GetSession(ctx Context) AuthSession {
	return ctx.Get("session").(AuthSession)
}

func SetSession(ctx Context, session AuthSession) {
	ctx.Set("session", session)
}
