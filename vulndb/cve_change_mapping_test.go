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
	"encoding/json"
	"testing"
	"time"

	"github.com/l3montree-dev/cvehistory/shared"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCreated(t *testing.T) {
	valid := map[string]time.Time{
		"2024-03-05T10:15:30.4":      time.Date(2024, 3, 5, 10, 15, 30, 400000000, time.UTC),
		"2024-03-05T10:15:30.457":    time.Date(2024, 3, 5, 10, 15, 30, 457000000, time.UTC),
		"2024-03-05T10:15:30.123456": time.Date(2024, 3, 5, 10, 15, 30, 123456000, time.UTC),
	}
	for raw, expected := range valid {
		got, err := ParseCreated(raw)
		require.NoError(t, err, raw)
		assert.True(t, expected.Equal(got), raw)
	}

	for _, raw := range []string{
		"2024-03-05T10:15:30",
		"2024-03-05T10:15:30.1234567",
		"2024-03-05 10:15:30.457",
		"2024-03-05T10:15:30.457Z",
		"",
	} {
		_, err := ParseCreated(raw)
		assert.Error(t, err, raw)
	}
}

func TestFromRawCVEChanges(t *testing.T) {
	entry := func(created *string, details string) CVEChangeEntry {
		var raw json.RawMessage
		if details != "" {
			raw = json.RawMessage(details)
		}
		return CVEChangeEntry{Change: &RawCVEChange{
			CVEID:            shared.Ptr("CVE-2024-0001"),
			EventName:        shared.Ptr("Initial Analysis"),
			SourceIdentifier: shared.Ptr("nvd@nist.gov"),
			Created:          created,
			Details:          raw,
		}}
	}

	t.Run("should map a page", func(t *testing.T) {
		changes, err := fromRawCVEChanges([]CVEChangeEntry{
			entry(shared.Ptr("2024-03-05T10:15:30.457"), `[{"action":"Added"}]`),
			entry(shared.Ptr("2024-03-06T00:00:00.0"), ""),
			entry(shared.Ptr("2024-03-06T00:00:00.0"), "null"),
		}, 0)
		require.NoError(t, err)
		require.Len(t, changes, 3)

		assert.Equal(t, "CVE-2024-0001", changes[0].CVEID)
		assert.JSONEq(t, `[{"action":"Added"}]`, string(changes[0].Details))
		assert.Nil(t, changes[1].Details)
		assert.Nil(t, changes[2].Details)
	})

	t.Run("should report the absolute index of a broken entry", func(t *testing.T) {
		_, err := fromRawCVEChanges([]CVEChangeEntry{
			entry(shared.Ptr("2024-03-05T10:15:30.457"), ""),
			entry(nil, ""),
		}, 5000)

		var mappingErr *MappingError
		require.True(t, errors.As(err, &mappingErr))
		assert.Equal(t, 5001, mappingErr.Index)
		assert.Equal(t, "created", mappingErr.Field)
	})

	t.Run("should store a missing details key as null", func(t *testing.T) {
		var page CVEHistoryResponse
		require.NoError(t, json.Unmarshal([]byte(`{"totalResults":1,"cveChanges":[{"change":{
			"cveId":"CVE-2024-0001",
			"eventName":"CVE Received",
			"cveChangeId":"x",
			"sourceIdentifier":"cve@mitre.org",
			"created":"2024-03-05T10:15:30.457"
		}}]}`), &page))

		changes, err := fromRawCVEChanges(page.CVEChanges, 0)
		require.NoError(t, err)
		require.Len(t, changes, 1)
		assert.Nil(t, changes[0].Details)
		assert.Equal(t, "CVE Received", changes[0].EventName)
	})

	t.Run("should reject an entry without change", func(t *testing.T) {
		_, err := fromRawCVEChanges([]CVEChangeEntry{{}}, 0)

		var mappingErr *MappingError
		require.True(t, errors.As(err, &mappingErr))
		assert.Equal(t, "change", mappingErr.Field)
	})
}
