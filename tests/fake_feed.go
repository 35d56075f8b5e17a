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
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"
)

// FakeFeedEntry is one change as served by the fake cvehistory feed.
type FakeFeedEntry struct {
	CVEID            string          `json:"cveId"`
	EventName        string          `json:"eventName"`
	CVEChangeID      string          `json:"cveChangeId"`
	SourceIdentifier string          `json:"sourceIdentifier"`
	Created          string          `json:"created"`
	Details          json.RawMessage `json:"details,omitempty"`
}

// FakeFeed serves entries in pages. A status in FailAt makes the request with
// that start index fail.
type FakeFeed struct {
	*httptest.Server

	mu               sync.Mutex
	entries          []FakeFeedEntry
	failAt           map[int]int
	omitTotalResults bool
	requests         []feedRequest
}

type feedRequest struct {
	StartIndex     int
	ResultsPerPage int
	APIKey         string
}

func NewFakeFeed(entries []FakeFeedEntry) *FakeFeed {
	feed := &FakeFeed{entries: entries, failAt: map[int]int{}}
	feed.Server = httptest.NewServer(http.HandlerFunc(feed.serve))
	return feed
}

func (f *FakeFeed) FailAt(startIndex, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failAt[startIndex] = status
}

// OmitTotalResults drops totalResults from every page, so the only way to
// detect the end of the feed is an empty page.
func (f *FakeFeed) OmitTotalResults() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.omitTotalResults = true
}

func (f *FakeFeed) RequestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *FakeFeed) serve(w http.ResponseWriter, r *http.Request) {
	startIndex, _ := strconv.Atoi(r.URL.Query().Get("startIndex"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("resultsPerPage"))

	f.mu.Lock()
	f.requests = append(f.requests, feedRequest{StartIndex: startIndex, ResultsPerPage: perPage, APIKey: r.Header.Get("apiKey")})
	status, fail := f.failAt[startIndex]
	entries := f.entries
	omitTotal := f.omitTotalResults
	f.mu.Unlock()

	if fail {
		w.WriteHeader(status)
		fmt.Fprint(w, "feed unavailable")
		return
	}

	end := min(startIndex+perPage, len(entries))
	page := []FakeFeedEntry{}
	if startIndex < len(entries) {
		page = entries[startIndex:end]
	}

	changes := make([]map[string]FakeFeedEntry, 0, len(page))
	for _, e := range page {
		changes = append(changes, map[string]FakeFeedEntry{"change": e})
	}

	body := map[string]any{
		"resultsPerPage": len(page),
		"startIndex":     startIndex,
		"totalResults":   len(entries),
		"format":         "NVD_CVEHistory",
		"version":        "2.0",
		"timestamp":      time.Now().UTC().Format("2006-01-02T15:04:05.000"),
		"cveChanges":     changes,
	}
	if omitTotal {
		delete(body, "totalResults")
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

func (f *FakeFeed) Requests() []feedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]feedRequest(nil), f.requests...)
}
