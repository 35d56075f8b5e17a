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

package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var RefreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "cvehistory_refresh_duration_minutes",
	Help:    "Duration of a full cve history refresh in minutes",
	Buckets: prometheus.DefBuckets,
})

var RefreshFailures = promauto.NewCounter(prometheus.CounterOpts{
	Name: "cvehistory_refresh_failures_total",
	Help: "Number of aborted cve history refresh runs",
})

var FeedPagesFetched = promauto.NewCounter(prometheus.CounterOpts{
	Name: "cvehistory_feed_pages_fetched_total",
	Help: "Number of pages fetched from the NVD cvehistory feed",
})

var FeedFetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "cvehistory_feed_fetch_duration_seconds",
	Help:    "Duration of a single NVD cvehistory page request in seconds",
	Buckets: prometheus.DefBuckets,
})

var RecordsIngested = promauto.NewCounter(prometheus.CounterOpts{
	Name: "cvehistory_records_ingested_total",
	Help: "Number of cve change events written to storage",
})
