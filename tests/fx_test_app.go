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


package tests

import (
	"testing"
	"time"

	"github.com/l3montree-dev/cvehistory/cmd/cvehistory/api"
	"github.com/l3montree-dev/cvehistory/config"
	"github.com/l3montree-dev/cvehistory/controllers"
	"github.com/l3montree-dev/cvehistory/database/repositories"
	"github.com/l3montree-dev/cvehistory/router"
	"github.com/l3montree-dev/cvehistory/services"
	"github.com/l3montree-dev/cvehistory/shared"
	"github.com/l3montree-dev/cvehistory/vulndb"
	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

// TestApp provides access to all services and controllers via FX
type TestApp struct {
	fx.In

	// Core infrastructure
	DB     shared.DB
	Config config.Config
	Server api.Server

	// Services
	ConfigService    shared.ConfigService
	CVEChangeService shared.CVEChangeService
	AuthService      shared.AuthService
	IngestionService shared.IngestionService

	// Controllers
	StatusController *controllers.StatusController
	CVEController    *controllers.CVEController
	AuthController   *controllers.AuthController

	// Repositories
	CVEChangeRepository shared.CVEChangeRepository
	UserRepository      shared.UserRepository
}

// TestAppOptions configures the test application
type TestAppOptions struct {
	// Additional FX options to include
	ExtraOptions []fx.Option
	// Whether to suppress FX logging
	SuppressLogs bool
	// FeedURL points the feed client at a fake feed
	FeedURL string
	// Configure is applied to the default test configuration
	Configure func(cfg *config.Config)
}

// TestConfig returns the default configuration with values suited for tests.
func TestConfig(t *testing.T) config.Config {
	t.Helper()

	cfg, err := config.FromViper(viper.New())
	if err != nil {
		t.Fatalf("could not build test config: %v", err)
	}
	cfg.SecretKey = "test-secret"
	cfg.Port = "0"
	cfg.FeedPageSize = 2
	cfg.FeedEntriesToFetch = 100
	cfg.FeedRequestTimeout = 5 * time.Second
	cfg.DisableStartupIngestion = true
	return cfg
}

// NewTestApp creates a test application with all dependencies wired via FX
// It uses the same FX modules as production for consistency
func NewTestApp(t *testing.T, db shared.DB, opts *TestAppOptions) (*TestApp, *fxtest.App, error) {
	if opts == nil {
		opts = &TestAppOptions{SuppressLogs: true}
	}

	cfg := TestConfig(t)
	if opts.FeedURL != "" {
		cfg.FeedURL = opts.FeedURL
	}
	if opts.Configure != nil {
		opts.Configure(&cfg)
	}

	var app TestApp

	fxOptions := []fx.Option{
		fx.Supply(cfg),
		// Provide the database
		fx.Provide(func() shared.DB { return db }),

		// Use the same modules as production
		fx.Provide(api.NewServer),
		repositories.Module,
		services.ServiceModule,
		vulndb.Module,
		controllers.ControllerModule,
		router.RouterModule,
		fx.Populate(&app),
	}

	// Add extra options if provided
	if len(opts.ExtraOptions) > 0 {
		fxOptions = append(fxOptions, opts.ExtraOptions...)
	}

	// Suppress logs if requested
	if opts.SuppressLogs {
		fxOptions = append(fxOptions, fx.NopLogger)
	}

	fxApp := fxtest.New(t, fxOptions...)

	if err := fxApp.Err(); err != nil {
		return nil, nil, err
	}

	fxApp.RequireStart()

	return &app, fxApp, nil
}

// NewTestAppWithT creates a test application tied to a testing.T
func NewTestAppWithT(t *testing.T, db shared.DB, opts *TestAppOptions) (*TestApp, *fxtest.App) {
	t.Helper()

	app, fxApp, err := NewTestApp(t, db, opts)
	if err != nil {
		t.Fatalf("Failed to create test app: %v", err)
	}

	return app, fxApp
}
