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


package daemons

import (
	"context"
	"testing"

	"github.com/l3montree-dev/cvehistory/config"
	"github.com/l3montree-dev/cvehistory/mocks"
	"github.com/l3montree-dev/cvehistory/vulndb"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestRunRefresh(t *testing.T) {
	t.Run("should return nil after a successful refresh", func(t *testing.T) {
		ingestion := mocks.NewIngestionService(t)
		ingestion.On("RunFullRefresh", mock.Anything).Return(3, nil)

		runner := NewDaemonRunner(config.Config{}, ingestion)
		assert.NoError(t, runner.RunRefresh(context.Background()))
	})

	t.Run("should pass feed errors through", func(t *testing.T) {
		ingestion := mocks.NewIngestionService(t)
		feedErr := &vulndb.FeedFetchError{StatusCode: 503, StartIndex: 0, Body: "unavailable"}
		ingestion.On("RunFullRefresh", mock.Anything).Return(0, feedErr)

		runner := NewDaemonRunner(config.Config{}, ingestion)
		err := runner.RunRefresh(context.Background())

		var target *vulndb.FeedFetchError
		assert.True(t, errors.As(err, &target))
		assert.Equal(t, 503, target.StatusCode)
	})
}

func TestStartStop(t *testing.T) {
	t.Run("should not ingest if startup ingestion is disabled", func(t *testing.T) {
		ingestion := mocks.NewIngestionService(t)

		runner := NewDaemonRunner(config.Config{DisableStartupIngestion: true}, ingestion)
		runner.Start()
		runner.Stop()
		// the mock fails on any unexpected RunFullRefresh call
	})

	t.Run("should run the refresh once and wait for it on stop", func(t *testing.T) {
		ingestion := mocks.NewIngestionService(t)
		done := make(chan struct{})
		ingestion.On("RunFullRefresh", mock.Anything).Run(func(mock.Arguments) {
			close(done)
		}).Return(1, nil).Once()

		runner := NewDaemonRunner(config.Config{}, ingestion)
		runner.Start()
		<-done
		runner.Stop()
	})
}
