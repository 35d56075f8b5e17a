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
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/l3montree-dev/cvehistory/config"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `{
	"resultsPerPage": 1,
	"startIndex": 4,
	"totalResults": 5,
	"format": "NVD_CVEHistory",
	"version": "2.0",
	"timestamp": "2024-03-05T12:00:00.000",
	"cveChanges": [
		{"change": {
			"cveId": "CVE-2024-0001",
			"eventName": "Initial Analysis",
			"cveChangeId": "5160FDEB-0FF0-457B-AA36-0AEDCAB2522E",
			"sourceIdentifier": "nvd@nist.gov",
			"created": "2024-03-05T10:15:30.457",
			"details": [{"action": "Added", "type": "CVSS V3.1", "newValue": "NIST AV:N"}]
		}}
	]
}`

func TestFetchPage(t *testing.T) {
	t.Run("should send the pagination parameters and the api key", func(t *testing.T) {
		var got *http.Request
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r
			w.Write([]byte(samplePage)) // nolint:errcheck
		}))
		defer srv.Close()

		client := NewNVDFeedClient(config.Config{FeedURL: srv.URL, FeedAPIKey: "key", FeedRequestTimeout: time.Second})
		page, err := client.FetchPage(context.Background(), 4, 1)
		require.NoError(t, err)

		assert.Equal(t, "4", got.URL.Query().Get("startIndex"))
		assert.Equal(t, "1", got.URL.Query().Get("resultsPerPage"))
		assert.Equal(t, "key", got.Header.Get("apiKey"))

		assert.Equal(t, 5, page.TotalResults)
		require.Len(t, page.CVEChanges, 1)
		assert.Equal(t, "CVE-2024-0001", *page.CVEChanges[0].Change.CVEID)
	})

	t.Run("should not send an empty api key", func(t *testing.T) {
		var got *http.Request
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r
			w.Write([]byte(samplePage)) // nolint:errcheck
		}))
		defer srv.Close()

		_, err := NewNVDFeedClient(config.Config{FeedURL: srv.URL}).FetchPage(context.Background(), 0, 10)
		require.NoError(t, err)
		_, present := got.Header["Apikey"]
		assert.False(t, present)
	})

	t.Run("should return a FeedFetchError for non 200 answers", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte("rate limit exceeded")) // nolint:errcheck
		}))
		defer srv.Close()

		_, err := NewNVDFeedClient(config.Config{FeedURL: srv.URL}).FetchPage(context.Background(), 5000, 5000)

		var fetchErr *FeedFetchError
		require.True(t, errors.As(err, &fetchErr))
		assert.Equal(t, http.StatusForbidden, fetchErr.StatusCode)
		assert.Equal(t, 5000, fetchErr.StartIndex)
		assert.Equal(t, "rate limit exceeded", fetchErr.Body)
	})

	t.Run("should time out", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer srv.Close()

		_, err := NewNVDFeedClient(config.Config{FeedURL: srv.URL, FeedRequestTimeout: 50 * time.Millisecond}).FetchPage(context.Background(), 0, 1)
		assert.Error(t, err)
	})
}
