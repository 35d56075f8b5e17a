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
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/l3montree-dev/cvehistory/config"
	"github.com/l3montree-dev/cvehistory/database/models"
	"github.com/l3montree-dev/cvehistory/dtos"
	"github.com/l3montree-dev/cvehistory/mocks"
	"github.com/l3montree-dev/cvehistory/shared"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/datatypes"
)

func TestListPaged(t *testing.T) {
	cfg := config.Config{MaxPageSize: 10}

	t.Run("should pass page and filters to the service and render the page", func(t *testing.T) {
		svc := mocks.NewCVEChangeService(t)
		filter := shared.CVEChangeFilter{CVEID: "2024", EventName: "analysis"}
		pageInfo := shared.PageInfo{Page: 2, PageSize: 10}
		svc.On("ListPaged", mock.Anything, filter, pageInfo).Return(shared.NewPaged(pageInfo, 11, []models.CVEChange{
			{ID: 1, CVEID: "CVE-2024-0001", EventName: "Initial Analysis", SourceIdentifier: "nvd@nist.gov", Created: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), Details: datatypes.JSON(`[{"type":"x"}]`)},
		}), nil)

		req := httptest.NewRequest(http.MethodGet, "/cves/?page=2&cve_id=2024&event_name=analysis", nil)
		rec := httptest.NewRecorder()
		ctx := echo.New().NewContext(req, rec)

		err := NewCVEController(cfg, svc).ListPaged(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 200, rec.Code)

		var resp dtos.CVEChangePageResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.Page)
		assert.Equal(t, 10, resp.PageSize)
		assert.EqualValues(t, 11, resp.TotalRecords)
		assert.EqualValues(t, 2, resp.TotalPages)
		assert.Len(t, resp.CVEs, 1)
		assert.Equal(t, "2024-03-01T10:00:00", resp.CVEs[0].Created)
		assert.JSONEq(t, `[{"type":"x"}]`, string(resp.CVEs[0].Details))
	})

	t.Run("should reject a page below 1 without calling the service", func(t *testing.T) {
		svc := mocks.NewCVEChangeService(t)
		req := httptest.NewRequest(http.MethodGet, "/cves/?page=0", nil)
		ctx := echo.New().NewContext(req, httptest.NewRecorder())

		err := NewCVEController(cfg, svc).ListPaged(ctx)
		assert.Equal(t, 400, httpCode(t, err))
	})

	t.Run("should answer 500 on storage errors", func(t *testing.T) {
		svc := mocks.NewCVEChangeService(t)
		svc.On("ListPaged", mock.Anything, mock.Anything, mock.Anything).Return(shared.Paged[models.CVEChange]{}, errors.New("boom"))

		req := httptest.NewRequest(http.MethodGet, "/cves/", nil)
		ctx := echo.New().NewContext(req, httptest.NewRecorder())

		err := NewCVEController(cfg, svc).ListPaged(ctx)
		assert.Equal(t, 500, httpCode(t, err))
	})
}

func TestExport(t *testing.T) {
	t.Run("should stream csv as an attachment", func(t *testing.T) {
		svc := mocks.NewCVEChangeService(t)
		svc.On("ExportCSV", mock.Anything, shared.CVEChangeFilter{CVEID: "CVE-2024-0001"}, mock.Anything).Return(
			func(_ context.Context, _ shared.CVEChangeFilter, w io.Writer) error {
				_, err := io.WriteString(w, "ID,CVE ID,Event Name,Source Identifier,Created,Details\n")
				return err
			},
		)

		req := httptest.NewRequest(http.MethodGet, "/export/?cve_id=CVE-2024-0001", nil)
		rec := httptest.NewRecorder()
		ctx := echo.New().NewContext(req, rec)

		err := NewCVEController(config.Config{}, svc).Export(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 200, rec.Code)
		assert.Equal(t, "text/csv", rec.Header().Get(echo.HeaderContentType))
		assert.Equal(t, "attachment; filename=cve_export.csv", rec.Header().Get(echo.HeaderContentDisposition))
		assert.Contains(t, rec.Body.String(), "CVE ID")
	})

	t.Run("should answer a failure before the first row as json", func(t *testing.T) {
		svc := mocks.NewCVEChangeService(t)
		svc.On("ExportCSV", mock.Anything, shared.CVEChangeFilter{}, mock.Anything).Return(errors.New("connection reset"))

		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/export/", nil)
		rec := httptest.NewRecorder()
		ctx := e.NewContext(req, rec)

		err := NewCVEController(config.Config{}, svc).Export(ctx)
		assert.Equal(t, 500, httpCode(t, err))

		e.HTTPErrorHandler(err, ctx)
		assert.Equal(t, 500, rec.Code)
		assert.Empty(t, rec.Header().Get(echo.HeaderContentDisposition))
		assert.Contains(t, rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON)
	})
}

func TestStats(t *testing.T) {
	t.Run("should render both aggregates", func(t *testing.T) {
		svc := mocks.NewCVEChangeService(t)
		svc.On("Stats", mock.Anything).Return(dtos.StatsResponse{
			CVEsPerEvent: map[string]int64{"Initial Analysis": 2},
			CVEsOverTime: map[string]int64{"2024-03": 2},
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/stats/", nil)
		rec := httptest.NewRecorder()
		ctx := echo.New().NewContext(req, rec)

		err := NewCVEController(config.Config{}, svc).Stats(ctx)
		assert.NoError(t, err)
		assert.JSONEq(t, `{"cves_per_event":{"Initial Analysis":2},"cves_over_time":{"2024-03":2}}`, rec.Body.String())
	})
}
