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

package repositories

import (
	"github.com/l3montree-dev/cvehistory/database/models"
	"github.com/l3montree-dev/cvehistory/shared"
)

type userRepository struct {
	*GormRepository[uint, models.User]
	db shared.DB
}

func NewUserRepository(db shared.DB) *userRepository {
	return &userRepository{
		db:             db,
		GormRepository: newGormRepository[uint, models.User](db),
	}
}

func (r *userRepository) FindByEmail(tx shared.DB, email string) (models.User, error) {
	var user models.User
	err := r.GetDB(tx).Where("email = ?", email).First(&user).Error
	return user, err
}
