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


package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper(t *testing.T) {
	t.Run("should apply the defaults", func(t *testing.T) {
		cfg, err := FromViper(viper.New())
		require.NoError(t, err)

		assert.Equal(t, 10, cfg.MaxPageSize)
		assert.Equal(t, DefaultFeedURL, cfg.FeedURL)
		assert.Equal(t, 5000, cfg.FeedPageSize)
		assert.Equal(t, 200000, cfg.FeedEntriesToFetch)
		assert.Equal(t, 60*time.Second, cfg.FeedRequestTimeout)
		assert.Equal(t, "8000", cfg.Port)
		assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
		assert.Equal(t, 120*time.Minute, cfg.AccessTokenTTL())
	})

	t.Run("should read the environment", func(t *testing.T) {
		t.Setenv("SECRET_KEY", "from-env")
		t.Setenv("NVD_RESULTS_PER_PAGE", "100")
		t.Setenv("NVD_DELAY_BETWEEN_REQUESTS", "6s")
		t.Setenv("NVD_ATOMIC_REFRESH", "true")
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

		cfg, err := FromViper(viper.New())
		require.NoError(t, err)

		assert.Equal(t, "from-env", cfg.SecretKey)
		assert.Equal(t, 100, cfg.FeedPageSize)
		assert.Equal(t, 6*time.Second, cfg.FeedDelay)
		assert.True(t, cfg.AtomicRefresh)
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	})

	t.Run("should reject a non positive page size", func(t *testing.T) {
		t.Setenv("MAX_PAGE_SIZE", "0")

		_, err := FromViper(viper.New())
		assert.Error(t, err)
	})
}
