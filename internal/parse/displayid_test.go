package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDisplayID(t *testing.T) {
	testCases := []struct {
		name     string
		id       int64
		at       time.Time
		expected string
	}{
		{name: "current century", id: 1, at: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), expected: "1/25"},
		{name: "zero padded year", id: 417, at: time.Date(2009, 12, 31, 23, 59, 0, 0, time.UTC), expected: "417/09"},
		{name: "century rollover", id: 12, at: time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC), expected: "12/00"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, FormatDisplayID(tc.id, tc.at))
		})
	}
}

func TestParseDisplayID(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  DisplayID
		expectErr bool
	}{
		{name: "Standard", raw: "42/25", expected: DisplayID{ID: 42, Year: 25}},
		{name: "Whitespace", raw: " 7 / 09 ", expected: DisplayID{ID: 7, Year: 9}},
		{name: "Zero id", raw: "0/25", expectErr: true},
		{name: "Four digit year", raw: "42/2025", expectErr: true},
		{name: "Free text", raw: "Bosch", expectErr: true},
		{name: "Empty", raw: "", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDisplayID(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestDisplayIDRoundTrip(t *testing.T) {
	at := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	parsed, err := ParseDisplayID(FormatDisplayID(305, at))
	assert.NoError(t, err)
	assert.Equal(t, DisplayID{ID: 305, Year: 24}, parsed)
}
