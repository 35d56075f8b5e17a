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
	"encoding/json"
	"testing"
	"time"

	"github.com/l3montree-dev/cvehistory/config"
	"github.com/l3montree-dev/cvehistory/database/models"
	"github.com/l3montree-dev/cvehistory/dtos"
	"github.com/l3montree-dev/cvehistory/shared"
	"github.com/l3montree-dev/cvehistory/vulndb"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeEntryFeed() []FakeFeedEntry {
	return []FakeFeedEntry{
		{CVEID: "CVE-2024-0001", EventName: "New CVE Received", CVEChangeID: "a", SourceIdentifier: "nvd@nist.gov", Created: "2024-03-01T10:00:00.000", Details: json.RawMessage(`[{"action":"Added","type":"Description"}]`)},
		{CVEID: "CVE-2024-0002", EventName: "Initial Analysis", CVEChangeID: "b", SourceIdentifier: "nvd@nist.gov", Created: "2024-03-02T11:30:00.123"},
		{CVEID: "CVE-2024-0003", EventName: "CVE Modified", CVEChangeID: "c", SourceIdentifier: "cve@mitre.org", Created: "2024-04-05T08:15:42.5"},
	}
}

func storedChanges(t *testing.T, db shared.DB) []models.CVEChange {
	t.Helper()
	var changes []models.CVEChange
	require.NoError(t, db.Order("created asc").Find(&changes).Error)
	return changes
}

func TestIngestion(t *testing.T) {
	t.Run("should replace the stored history with the feed content", func(t *testing.T) {
		feed := NewFakeFeed(threeEntryFeed())
		defer feed.Close()

		WithTestAppOptions(t, "../initdb.sql", TestAppOptions{FeedURL: feed.URL}, func(f *TestFixture) {
			// stale rows are removed by the refresh
			f.CreateChange("CVE-1999-0001", "Stale", time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC))

			records, err := f.App.IngestionService.RunFullRefresh(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 3, records)

			changes := storedChanges(t, f.DB)
			require.Len(t, changes, 3)
			assert.Equal(t, "CVE-2024-0001", changes[0].CVEID)
			assert.JSONEq(t, `[{"action":"Added","type":"Description"}]`, string(changes[0].Details))
			assert.Empty(t, changes[1].Details)
			assert.Equal(t, 123000000, changes[1].Created.Nanosecond())

			// page size 2 and 3 entries: the second page reaches totalResults
			assert.Equal(t, 2, feed.RequestCount())

			stats, err := f.App.CVEChangeService.Stats(context.Background())
			require.NoError(t, err)
			assert.EqualValues(t, 2, stats.CVEsOverTime["2024-03"])
			assert.EqualValues(t, 1, stats.CVEsOverTime["2024-04"])

			var record dtos.RefreshRecord
			require.NoError(t, f.App.ConfigService.GetJSONConfig(vulndb.LastRefreshConfigKey, &record))
			assert.True(t, record.Complete)
			assert.Equal(t, 3, record.Records)
		})
	})

	t.Run("should stop at the first empty page if the feed reports no total", func(t *testing.T) {
		feed := NewFakeFeed(threeEntryFeed())
		defer feed.Close()
		feed.OmitTotalResults()

		opts := TestAppOptions{
			FeedURL:   feed.URL,
			Configure: func(cfg *config.Config) { cfg.FeedPageSize = 3 },
		}
		WithTestAppOptions(t, "../initdb.sql", opts, func(f *TestFixture) {
			records, err := f.App.IngestionService.RunFullRefresh(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 3, records)

			// one full page, then the empty terminal page
			requests := feed.Requests()
			require.Len(t, requests, 2)
			assert.Equal(t, 0, requests[0].StartIndex)
			assert.Equal(t, 3, requests[1].StartIndex)

			changes := storedChanges(t, f.DB)
			require.Len(t, changes, 3)

			assert.Equal(t, "CVE-2024-0001", changes[0].CVEID)
			assert.Equal(t, "New CVE Received", changes[0].EventName)
			assert.Equal(t, "nvd@nist.gov", changes[0].SourceIdentifier)
			assert.True(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC).Equal(changes[0].Created))
			assert.JSONEq(t, `[{"action":"Added","type":"Description"}]`, string(changes[0].Details))

			assert.Equal(t, "CVE-2024-0002", changes[1].CVEID)
			assert.Equal(t, "Initial Analysis", changes[1].EventName)
			assert.Equal(t, "nvd@nist.gov", changes[1].SourceIdentifier)
			assert.True(t, time.Date(2024, 3, 2, 11, 30, 0, 123000000, time.UTC).Equal(changes[1].Created))
			assert.Empty(t, changes[1].Details)

			assert.Equal(t, "CVE-2024-0003", changes[2].CVEID)
			assert.Equal(t, "CVE Modified", changes[2].EventName)
			assert.Equal(t, "cve@mitre.org", changes[2].SourceIdentifier)
			assert.True(t, time.Date(2024, 4, 5, 8, 15, 42, 500000000, time.UTC).Equal(changes[2].Created))
			assert.Empty(t, changes[2].Details)
		})
	})

	t.Run("should clear the table if the feed is empty", func(t *testing.T) {
		feed := NewFakeFeed(nil)
		defer feed.Close()
		feed.OmitTotalResults()

		WithTestAppOptions(t, "../initdb.sql", TestAppOptions{FeedURL: feed.URL}, func(f *TestFixture) {
			f.CreateChange("CVE-1999-0001", "Stale", time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC))

			records, err := f.App.IngestionService.RunFullRefresh(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 0, records)
			assert.Equal(t, 1, feed.RequestCount())
			assert.Empty(t, storedChanges(t, f.DB))

			var record dtos.RefreshRecord
			require.NoError(t, f.App.ConfigService.GetJSONConfig(vulndb.LastRefreshConfigKey, &record))
			assert.True(t, record.Complete)
			assert.Equal(t, 0, record.Records)
		})
	})

	t.Run("should keep already committed pages if a later page fails", func(t *testing.T) {
		feed := NewFakeFeed(threeEntryFeed())
		defer feed.Close()
		feed.FailAt(2, 503)

		WithTestAppOptions(t, "../initdb.sql", TestAppOptions{FeedURL: feed.URL}, func(f *TestFixture) {
			f.CreateChange("CVE-1999-0001", "Stale", time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC))

			records, err := f.App.IngestionService.RunFullRefresh(context.Background())
			var fetchErr *vulndb.FeedFetchError
			require.True(t, errors.As(err, &fetchErr))
			assert.Equal(t, 503, fetchErr.StatusCode)
			assert.Equal(t, 2, fetchErr.StartIndex)
			assert.Equal(t, "feed unavailable", fetchErr.Body)
			assert.Equal(t, 2, records)

			changes := storedChanges(t, f.DB)
			assert.Len(t, changes, 2)

			var record dtos.RefreshRecord
			require.NoError(t, f.App.ConfigService.GetJSONConfig(vulndb.LastRefreshConfigKey, &record))
			assert.False(t, record.Complete)
			assert.NotEmpty(t, record.Error)
		})
	})

	t.Run("should keep the old data if the first page fails", func(t *testing.T) {
		feed := NewFakeFeed(threeEntryFeed())
		defer feed.Close()
		feed.FailAt(0, 403)

		WithTestAppOptions(t, "../initdb.sql", TestAppOptions{FeedURL: feed.URL}, func(f *TestFixture) {
			f.CreateChange("CVE-1999-0001", "Stale", time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC))

			_, err := f.App.IngestionService.RunFullRefresh(context.Background())
			require.Error(t, err)

			changes := storedChanges(t, f.DB)
			require.Len(t, changes, 1)
			assert.Equal(t, "CVE-1999-0001", changes[0].CVEID)
		})
	})

	t.Run("should roll back everything in atomic mode", func(t *testing.T) {
		feed := NewFakeFeed(threeEntryFeed())
		defer feed.Close()
		feed.FailAt(2, 500)

		opts := TestAppOptions{
			FeedURL:   feed.URL,
			Configure: func(cfg *config.Config) { cfg.AtomicRefresh = true },
		}
		WithTestAppOptions(t, "../initdb.sql", opts, func(f *TestFixture) {
			f.CreateChange("CVE-1999-0001", "Stale", time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC))

			records, err := f.App.IngestionService.RunFullRefresh(context.Background())
			require.Error(t, err)
			assert.Equal(t, 0, records)

			changes := storedChanges(t, f.DB)
			require.Len(t, changes, 1)
			assert.Equal(t, "CVE-1999-0001", changes[0].CVEID)
		})
	})

	t.Run("should abort on an entry without a created timestamp", func(t *testing.T) {
		entries := threeEntryFeed()
		entries[1].Created = "03/02/2024"
		feed := NewFakeFeed(entries)
		defer feed.Close()

		WithTestAppOptions(t, "../initdb.sql", TestAppOptions{FeedURL: feed.URL}, func(f *TestFixture) {
			_, err := f.App.IngestionService.RunFullRefresh(context.Background())

			var mappingErr *vulndb.MappingError
			require.True(t, errors.As(err, &mappingErr))
			assert.Equal(t, 1, mappingErr.Index)
			assert.Equal(t, "created", mappingErr.Field)
		})
	})

	t.Run("should stop after the configured number of entries and send the api key", func(t *testing.T) {
		feed := NewFakeFeed(threeEntryFeed())
		defer feed.Close()

		opts := TestAppOptions{
			FeedURL: feed.URL,
			Configure: func(cfg *config.Config) {
				cfg.FeedEntriesToFetch = 2
				cfg.FeedAPIKey = "secret-key"
			},
		}
		WithTestAppOptions(t, "../initdb.sql", opts, func(f *TestFixture) {
			records, err := f.App.IngestionService.RunFullRefresh(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 2, records)

			requests := feed.Requests()
			require.Len(t, requests, 1)
			assert.Equal(t, "secret-key", requests[0].APIKey)
			assert.Equal(t, 2, requests[0].ResultsPerPage)
		})
	})
}
