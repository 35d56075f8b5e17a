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


package controllers

import (
	"github.com/l3montree-dev/cvehistory/config"
	"github.com/l3montree-dev/cvehistory/database/models"
	"github.com/l3montree-dev/cvehistory/dtos"
	"github.com/l3montree-dev/cvehistory/shared"
	"github.com/l3montree-dev/cvehistory/utils"
	"github.com/labstack/echo/v4"
)

type CVEController struct {
	cveChangeService shared.CVEChangeService
	pageSize         int
}

func NewCVEController(cfg config.Config, cveChangeService shared.CVEChangeService) *CVEController {
	return &CVEController{
		cveChangeService: cveChangeService,
		pageSize:         cfg.MaxPageSize,
	}
}

// @Summary List CVE change events
// @Description Paginated listing ordered by creation time, newest first. Both filters are case insensitive substring matches.
// @Tags CVE
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number, starting at 1"
// @Param cve_id query string false "CVE id substring"
// @Param event_name query string false "Event name substring"
// @Success 200 {object} dtos.CVEChangePageResponse
// @Failure 400 {object} dtos.ErrorResponse
// @Failure 401 {object} dtos.ErrorResponse
// @Failure 500 {object} dtos.ErrorResponse
// @Router /cves [get]
func (c *CVEController) ListPaged(ctx shared.Context) error {
	pageInfo, err := shared.GetPageInfo(ctx, c.pageSize)
	if err != nil {
		return err
	}

	paged, err := c.cveChangeService.ListPaged(ctx.Request().Context(), shared.GetCVEChangeFilter(ctx), pageInfo)
	if err != nil {
		return echo.NewHTTPError(500, "could not get CVEs").WithInternal(err)
	}

	return ctx.JSON(200, dtos.CVEChangePageResponse{
		Page:         paged.Page,
		PageSize:     paged.PageSize,
		TotalRecords: paged.Total,
		TotalPages:   paged.TotalPages(),
		CVEs:         utils.Map(paged.Data, func(m models.CVEChange) dtos.CVEChangeDTO { return dtos.CVEChangeToDTO(m) }),
	})
}

// @Summary Export CVE change events as CSV
// @Description Unpaginated. cve_id is an exact match, event_name a case insensitive substring.
// @Tags CVE
// @Security BearerAuth
// @Produce text/csv
// @Param cve_id query string false "Exact CVE id"
// @Param event_name query string false "Event name substring"
// @Success 200 {file} file
// @Failure 401 {object} dtos.ErrorResponse
// @Failure 500 {object} dtos.ErrorResponse
// @Router /export [get]
func (c *CVEController) Export(ctx shared.Context) error {
	resp := ctx.Response()
	resp.Header().Set(echo.HeaderContentType, "text/csv")
	resp.Header().Set(echo.HeaderContentDisposition, "attachment; filename=cve_export.csv")

	// once the first row is flushed the status is committed and the error handler stays silent
	if err := c.cveChangeService.ExportCSV(ctx.Request().Context(), shared.GetCVEChangeFilter(ctx), resp); err != nil {
		if !resp.Committed {
			// the error body is json, not a csv attachment
			resp.Header().Del(echo.HeaderContentType)
			resp.Header().Del(echo.HeaderContentDisposition)
		}
		return echo.NewHTTPError(500, "could not export CVEs").WithInternal(err)
	}
	if !resp.Committed {
		resp.WriteHeader(200)
	}
	return nil
}

// @Summary Aggregate statistics
// @Tags CVE
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dtos.StatsResponse
// @Failure 401 {object} dtos.ErrorResponse
// @Failure 500 {object} dtos.ErrorResponse
// @Router /stats [get]
func (c *CVEController) Stats(ctx shared.Context) error {
	stats, err := c.cveChangeService.Stats(ctx.Request().Context())
	if err != nil {
		return echo.NewHTTPError(500, "could not compute statistics").WithInternal(err)
	}
	return ctx.JSON(200, stats)
}
