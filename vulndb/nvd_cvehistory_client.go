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
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/l3montree-dev/cvehistory/common"
	"github.com/l3montree-dev/cvehistory/config"
	"github.com/l3montree-dev/cvehistory/monitoring"
	"github.com/pkg/errors"
)

type FeedClient interface {
	FetchPage(ctx context.Context, startIndex, pageSize int) (CVEHistoryResponse, error)
}

// only the beginning of an error body ends up in the error message
const maxErrorBodySize = 64 << 10

type NVDFeedClient struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
}

func NewNVDFeedClient(cfg config.Config) *NVDFeedClient {
	httpClient := &http.Client{
		Transport: &http.Transport{
			MaxIdleConnsPerHost: 3,
		},
	}
	common.WrapHTTPClient(httpClient, common.StaticHeaders(map[string]string{
		"apiKey": cfg.FeedAPIKey,
	}))

	baseURL := cfg.FeedURL
	if baseURL == "" {
		baseURL = config.DefaultFeedURL
	}

	return &NVDFeedClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		timeout:    cfg.FeedRequestTimeout,
	}
}

func (c *NVDFeedClient) pageURL(startIndex, pageSize int) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", errors.Wrap(err, "could not parse feed url")
	}
	q := u.Query()
	q.Set("resultsPerPage", strconv.Itoa(pageSize))
	q.Set("startIndex", strconv.Itoa(startIndex))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// FetchPage issues exactly one request. There is no retry.
func (c *NVDFeedClient) FetchPage(ctx context.Context, startIndex, pageSize int) (CVEHistoryResponse, error) {
	begin := time.Now()
	defer func() {
		monitoring.FeedFetchDuration.Observe(time.Since(begin).Seconds())
	}()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	u, err := c.pageURL(startIndex, pageSize)
	if err != nil {
		return CVEHistoryResponse{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return CVEHistoryResponse{}, errors.Wrap(err, "could not create request before fetching from NVD")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return CVEHistoryResponse{}, errors.Wrap(err, "could not fetch from NVD")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBodySize))
		return CVEHistoryResponse{}, &FeedFetchError{
			StatusCode: res.StatusCode,
			StartIndex: startIndex,
			Body:       string(body),
		}
	}

	var page CVEHistoryResponse
	if err := json.NewDecoder(res.Body).Decode(&page); err != nil {
		return CVEHistoryResponse{}, errors.Wrap(err, "could not decode response from NVD")
	}

	monitoring.FeedPagesFetched.Inc()
	return page, nil
}
