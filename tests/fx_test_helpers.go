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
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/l3montree-dev/cvehistory/database/models"
	"github.com/l3montree-dev/cvehistory/shared"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

// TestFixture provides a complete test environment with database and FX app
type TestFixture struct {
	T   *testing.T
	App *TestApp
	DB  shared.DB
}

// NewTestFixture creates a complete test environment with database container and FX app
func NewTestFixture(t *testing.T, sqlInitFile string, opts TestAppOptions) *TestFixture {
	t.Helper()

	// Initialize database container
	db, _, terminate := InitDatabaseContainer(sqlInitFile)

	opts.SuppressLogs = true
	app, fxApp := NewTestAppWithT(t, db, &opts)

	fixture := &TestFixture{
		T:   t,
		App: app,
		DB:  db,
	}

	// Register cleanup - this will be called in LIFO order
	t.Cleanup(func() {
		// Stop FX app first (with timeout)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = fxApp.Stop(ctx)
		// Then terminate database
		terminate()
	})

	return fixture
}

// CreateChange stores a single change event.
func (f *TestFixture) CreateChange(cveID, eventName string, created time.Time) models.CVEChange {
	f.T.Helper()

	change := models.CVEChange{
		CVEID:            cveID,
		EventName:        eventName,
		SourceIdentifier: "nvd@nist.gov",
		Created:          created,
		Details:          datatypes.JSON(`[{"action":"Added","type":"CVSS V3.1"}]`),
	}
	err := f.DB.Create(&change).Error
	require.NoError(f.T, err)
	return change
}

// RegisterAndLogin creates a user account and returns a valid access token.
func (f *TestFixture) RegisterAndLogin(email, password string) string {
	f.T.Helper()

	ctx := context.Background()
	require.NoError(f.T, f.App.AuthService.Register(ctx, email, password))
	token, err := f.App.AuthService.Login(ctx, email, password)
	require.NoError(f.T, err)
	return token
}

// Do runs a request through the fully wired echo instance.
func (f *TestFixture) Do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.App.Server.Echo.ServeHTTP(rec, req)
	return rec
}

func NewFormRequest(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}

func NewAuthorizedRequest(path, token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	return req
}

// WithTestApp provides a callback-based pattern for tests
func WithTestApp(t *testing.T, sqlInitFile string, testFn func(*TestFixture)) {
	t.Helper()
	fixture := NewTestFixture(t, sqlInitFile, TestAppOptions{})
	testFn(fixture)
}

// WithTestAppOptions is WithTestApp with a customized application.
func WithTestAppOptions(t *testing.T, sqlInitFile string, opts TestAppOptions, testFn func(*TestFixture)) {
	t.Helper()
	fixture := NewTestFixture(t, sqlInitFile, opts)
	testFn(fixture)
}
