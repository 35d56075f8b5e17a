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

type User struct {
	ID             uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Email          string `json:"email" gorm:"type:text;uniqueIndex"`
	HashedPassword string `json:"-" gorm:"type:text"`
	// Verified is kept for schema compatibility. No flow reads or writes it.
	Verified bool `json:"verified" gorm:"default:false"`
}

func (User) TableName() string {
	return "nvd_users"
}
