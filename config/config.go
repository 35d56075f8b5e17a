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
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config is built once on startup and handed to every component that needs it.
type Config struct {
	SecretKey                      string `mapstructure:"secret_key"`
	VerificationTokenExpireMinutes int    `mapstructure:"verification_token_expire_minutes"`
	AccessTokenExpireMinutes       int    `mapstructure:"access_token_expire_minutes"`
	RefreshTokenExpireMinutes      int    `mapstructure:"refresh_token_expire_minutes"`
	MaxPageSize                    int    `mapstructure:"max_page_size"`

	PGHost     string `mapstructure:"pg_db_host"`
	PGPort     string `mapstructure:"pg_db_port"`
	PGName     string `mapstructure:"pg_db_name"`
	PGUser     string `mapstructure:"pg_db_user"`
	PGPassword string `mapstructure:"pg_db_password"`

	DBMaxOpenConns    int32         `mapstructure:"db_max_open_conns"`
	DBMinConns        int32         `mapstructure:"db_min_conns"`
	DBConnMaxLifetime time.Duration `mapstructure:"db_conn_max_lifetime"`
	DBConnMaxIdleTime time.Duration `mapstructure:"db_conn_max_idle_time"`

	FeedURL            string        `mapstructure:"nvd_api_url"`
	FeedAPIKey         string        `mapstructure:"nvd_api_key"`
	FeedPageSize       int           `mapstructure:"nvd_results_per_page"`
	FeedEntriesToFetch int           `mapstructure:"nvd_entries_to_fetch"`
	FeedDelay          time.Duration `mapstructure:"nvd_delay_between_requests"`
	FeedRequestTimeout time.Duration `mapstructure:"nvd_request_timeout"`
	// AtomicRefresh folds the delete and every page insert into one transaction.
	AtomicRefresh bool `mapstructure:"nvd_atomic_refresh"`

	DisableStartupIngestion bool `mapstructure:"disable_startup_ingestion"`
	DisableAutoMigrate      bool `mapstructure:"disable_automigrate"`

	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`

	ErrorTrackingDSN string `mapstructure:"error_tracking_dsn"`
	Environment      string `mapstructure:"environment"`
}

const DefaultFeedURL = "https://services.nvd.nist.gov/rest/json/cvehistory/2.0"

var defaults = map[string]any{
	"secret_key":                        "secret",
	"verification_token_expire_minutes": 120,
	"access_token_expire_minutes":       120,
	"refresh_token_expire_minutes":      10080,
	"max_page_size":                     10,

	"pg_db_host":     "localhost",
	"pg_db_port":     "5432",
	"pg_db_name":     "cvehistory",
	"pg_db_user":     "cvehistory",
	"pg_db_password": "",

	"db_max_open_conns":     25,
	"db_min_conns":          5,
	"db_conn_max_lifetime":  4 * time.Hour,
	"db_conn_max_idle_time": 15 * time.Minute,

	"nvd_api_url":                DefaultFeedURL,
	"nvd_api_key":                "",
	"nvd_results_per_page":       5000,
	"nvd_entries_to_fetch":       200000,
	"nvd_delay_between_requests": time.Duration(0),
	"nvd_request_timeout":        60 * time.Second,
	"nvd_atomic_refresh":         false,

	"disable_startup_ingestion": false,
	"disable_automigrate":       false,

	"port":                 "8000",
	"cors_allowed_origins": []string{"http://localhost:3000"},

	"error_tracking_dsn": "",
	"environment":        "dev",
}

// Load reads an optional .env file and the process environment.
func Load() (Config, error) {
	// a missing .env file is fine, the environment might be set already
	_ = godotenv.Load()
	return FromViper(viper.New())
}

// FromViper resolves the configuration using the given viper instance.
// Keys are looked up as upper case environment variables.
func FromViper(v *viper.Viper) (Config, error) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "could not parse configuration")
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.MaxPageSize <= 0 {
		return errors.New("MAX_PAGE_SIZE must be positive")
	}
	if c.FeedPageSize <= 0 {
		return errors.New("NVD_RESULTS_PER_PAGE must be positive")
	}
	if c.FeedEntriesToFetch < 0 {
		return errors.New("NVD_ENTRIES_TO_FETCH must not be negative")
	}
	if c.AccessTokenExpireMinutes <= 0 {
		return errors.New("ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}
	return nil
}

func (c Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}
