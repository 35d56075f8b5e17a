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
	"context"
	"log/slog"
	"time"

	"github.com/l3montree-dev/cvehistory/dtos"
	"github.com/l3montree-dev/cvehistory/shared"
	"github.com/l3montree-dev/cvehistory/vulndb"
)

const probeTimeout = 5 * time.Second

type StatusController struct {
	cveChangeRepository shared.CVEChangeRepository
	configService       shared.ConfigService
}

func NewStatusController(cveChangeRepository shared.CVEChangeRepository, configService shared.ConfigService) *StatusController {
	return &StatusController{
		cveChangeRepository: cveChangeRepository,
		configService:       configService,
	}
}

// @Summary Welcome message
// @Tags Status
// @Produce json
// @Success 200 {object} dtos.MessageResponse
// @Router / [get]
func (c *StatusController) Welcome(ctx shared.Context) error {
	return ctx.JSON(200, dtos.MessageResponse{Message: "Welcome to the CVE History API!"})
}

// @Summary Storage reachability probe
// @Description Always answers 200. The status field is ERROR if the database cannot be reached.
// @Tags Status
// @Produce json
// @Success 200 {object} dtos.StatusResponse
// @Router /status [get]
func (c *StatusController) Status(ctx shared.Context) error {
	probeCtx, cancel := context.WithTimeout(ctx.Request().Context(), probeTimeout)
	defer cancel()

	if err := c.cveChangeRepository.Probe(probeCtx); err != nil {
		slog.Warn("storage probe failed", "err", err)
		return ctx.JSON(200, dtos.StatusResponse{Status: "ERROR", Message: err.Error()})
	}

	resp := dtos.StatusResponse{Status: "OK"}

	if total, err := c.cveChangeRepository.Count(probeCtx); err != nil {
		slog.Warn("could not count cve changes", "err", err)
	} else {
		resp.TotalRecords = &total
	}

	var record dtos.RefreshRecord
	if err := c.configService.GetJSONConfig(vulndb.LastRefreshConfigKey, &record); err == nil {
		resp.LastRefresh = &record
	}

	return ctx.JSON(200, resp)
}
