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

package models

import (
	"time"

	"gorm.io/datatypes"
)

// CVEChange is one change event of a CVE record as published by the NVD
// cvehistory feed. A CVE has many change events, so CVEID is not unique.
type CVEChange struct {
	ID               uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	CVEID            string         `json:"cveId" gorm:"column:cve_id;type:text;index"`
	EventName        string         `json:"eventName" gorm:"type:text;index"`
	SourceIdentifier string         `json:"sourceIdentifier" gorm:"type:text"`
	Created          time.Time      `json:"created" gorm:"type:timestamp"`
	Details          datatypes.JSON `json:"details" gorm:"type:jsonb"`
}

func (CVEChange) TableName() string {
	return "cve_changes"
}

// EventCount is one row of the per event aggregate.
type EventCount struct {
	EventName string
	Count     int64
}

// MonthCount is one row of the per month aggregate. Month is formatted as YYYY-MM.
type MonthCount struct {
	Month string
	Count int64
}
