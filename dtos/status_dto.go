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

import "time"

type StatusResponse struct {
	Status       string         `json:"status"`
	Message      string         `json:"message,omitempty"`
	TotalRecords *int64         `json:"total_records,omitempty"`
	LastRefresh  *RefreshRecord `json:"last_refresh,omitempty"`
}

// RefreshRecord is stored in the config table after every ingestion run.
type RefreshRecord struct {
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Records    int       `json:"records"`
	Complete   bool      `json:"complete"`
	Error      string    `json:"error,omitempty"`
}
