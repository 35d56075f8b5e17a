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
	"encoding/json"
	"fmt"
)

// CVEHistoryResponse is one page of the NVD cvehistory 2.0 API.
type CVEHistoryResponse struct {
	ResultsPerPage int              `json:"resultsPerPage"`
	StartIndex     int              `json:"startIndex"`
	TotalResults   int              `json:"totalResults"`
	Format         string           `json:"format"`
	Version        string           `json:"version"`
	Timestamp      string           `json:"timestamp"`
	CVEChanges     []CVEChangeEntry `json:"cveChanges"`
}

type CVEChangeEntry struct {
	Change *RawCVEChange `json:"change"`
}

type RawCVEChange struct {
	CVEID            *string         `json:"cveId"`
	EventName        *string         `json:"eventName"`
	CVEChangeID      string          `json:"cveChangeId"`
	SourceIdentifier *string         `json:"sourceIdentifier"`
	Created          *string         `json:"created"`
	Details          json.RawMessage `json:"details"`
}

// FeedFetchError is returned for every non 200 answer of the feed.
type FeedFetchError struct {
	StatusCode int
	StartIndex int
	Body       string
}

func (e *FeedFetchError) Error() string {
	return fmt.Sprintf("failed to fetch data at start index %d. Status: %d, Reason: %s", e.StartIndex, e.StatusCode, e.Body)
}

// MappingError aborts the ingestion run. Index is the absolute position of the entry in the feed.
type MappingError struct {
	Index int
	Field string
	Err   error
}

func (e *MappingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("could not map cve change at index %d: field %s: %s", e.Index, e.Field, e.Err)
	}
	return fmt.Sprintf("could not map cve change at index %d: missing field %s", e.Index, e.Field)
}

func (e *MappingError) Unwrap() error {
	return e.Err
}
