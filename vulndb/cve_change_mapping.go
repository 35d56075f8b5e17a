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
	"regexp"
	"time"

	"github.com/l3montree-dev/cvehistory/database/models"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
)

// the feed publishes naive timestamps with one to six fractional digits
var createdFormat = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{1,6}$`)

const createdLayout = "2006-01-02T15:04:05"

var errCreatedFormat = errors.New("timestamp does not match YYYY-MM-DDTHH:MM:SS.ffffff")

func ParseCreated(raw string) (time.Time, error) {
	if !createdFormat.MatchString(raw) {
		return time.Time{}, errCreatedFormat
	}
	return time.Parse(createdLayout, raw)
}

func fromRawCVEChange(entry CVEChangeEntry, index int) (models.CVEChange, error) {
	change := entry.Change
	if change == nil {
		return models.CVEChange{}, &MappingError{Index: index, Field: "change"}
	}

	switch {
	case change.CVEID == nil:
		return models.CVEChange{}, &MappingError{Index: index, Field: "cveId"}
	case change.EventName == nil:
		return models.CVEChange{}, &MappingError{Index: index, Field: "eventName"}
	case change.SourceIdentifier == nil:
		return models.CVEChange{}, &MappingError{Index: index, Field: "sourceIdentifier"}
	case change.Created == nil:
		return models.CVEChange{}, &MappingError{Index: index, Field: "created"}
	}

	created, err := ParseCreated(*change.Created)
	if err != nil {
		return models.CVEChange{}, &MappingError{Index: index, Field: "created", Err: err}
	}

	var details datatypes.JSON
	if len(change.Details) > 0 && string(change.Details) != "null" {
		details = datatypes.JSON(change.Details)
	}

	return models.CVEChange{
		CVEID:            *change.CVEID,
		EventName:        *change.EventName,
		SourceIdentifier: *change.SourceIdentifier,
		Created:          created,
		Details:          details,
	}, nil
}

// fromRawCVEChanges maps a whole page. A single bad entry fails the page.
func fromRawCVEChanges(entries []CVEChangeEntry, startIndex int) ([]models.CVEChange, error) {
	changes := make([]models.CVEChange, 0, len(entries))
	for i, entry := range entries {
		change, err := fromRawCVEChange(entry, startIndex+i)
		if err != nil {
			return nil, err
		}
		changes = append(changes, change)
	}
	return changes, nil
}
