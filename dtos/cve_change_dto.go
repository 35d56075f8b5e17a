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

package dtos

import (
	"encoding/json"
	"time"

	"github.com/l3montree-dev/cvehistory/database/models"
)

type CVEChangeDTO struct {
	ID               uint            `json:"id"`
	CVEID            string          `json:"cve_id"`
	EventName        string          `json:"event_name"`
	SourceIdentifier string          `json:"source_identifier"`
	Created          string          `json:"created"`
	Details          json.RawMessage `json:"details"`
}

type CVEChangePageResponse struct {
	Page         int            `json:"page"`
	PageSize     int            `json:"page_size"`
	TotalRecords int64          `json:"total_records"`
	TotalPages   int64          `json:"total_pages"`
	CVEs         []CVEChangeDTO `json:"cves"`
}

// StatsResponse serializes both maps with sorted keys, so cves_over_time
// is chronological as YYYY-MM sorts lexicographically.
type StatsResponse struct {
	CVEsPerEvent map[string]int64 `json:"cves_per_event"`
	CVEsOverTime map[string]int64 `json:"cves_over_time"`
}

const (
	isoLayout         = "2006-01-02T15:04:05"
	isoLayoutFraction = "2006-01-02T15:04:05.000000"
)

// FormatISO renders a zone-less ISO-8601 timestamp. Microseconds are omitted when zero.
func FormatISO(t time.Time) string {
	if t.Nanosecond()/1000 == 0 {
		return t.Format(isoLayout)
	}
	return t.Format(isoLayoutFraction)
}

func CVEChangeToDTO(m models.CVEChange) CVEChangeDTO {
	details := json.RawMessage(m.Details)
	if len(details) == 0 {
		details = json.RawMessage("null")
	}
	return CVEChangeDTO{
		ID:               m.ID,
		CVEID:            m.CVEID,
		EventName:        m.EventName,
		SourceIdentifier: m.SourceIdentifier,
		Created:          FormatISO(m.Created),
		Details:          details,
	}
}
