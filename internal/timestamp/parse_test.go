package timestamp

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCascade(t *testing.T) {
	p := DefaultParser()

	tests := []struct {
		name     string
		raw      string
		want     Timestamp
		strategy string
	}{
		{"clean", "2024-08-01 06:31:27", Timestamp{2024, 8, 1, 6, 31, 27}, "date_then_clock"},
		{"letter O", "2O24-08-01 06:31:27", Timestamp{2024, 8, 1, 6, 31, 27}, "date_then_clock"},
		{"single digit hour", "2024-08-01 6:31:27", Timestamp{2024, 8, 1, 6, 31, 27}, "date_then_clock"},
		{"overlay noise around", "M 25C 2024-08-01 06:31:27 CAM1", Timestamp{2024, 8, 1, 6, 31, 27}, "date_then_clock"},
		{"spaced colons", "2024-08-01 06 : 31 : 27", Timestamp{2024, 8, 1, 6, 31, 27}, "date_then_clock"},
		{"doubled minute", "2024-08-01 06:131:27", Timestamp{2024, 8, 1, 6, 31, 27}, "date_then_clock"},
		{"slashed date", "2024/08/01 06:31:27", Timestamp{2024, 8, 1, 6, 31, 27}, "date_then_clock"},
		{"time without colons", "2024-08-01 06-31-27", Timestamp{2024, 8, 1, 6, 31, 27}, "flexible_hour"},
		{"compact", "20240801063127", Timestamp{2024, 8, 1, 6, 31, 27}, "flexible_hour"},
		{"split pairs", "2024 0 8 0-1 0 6 3 1 2 7", Timestamp{2024, 8, 1, 6, 31, 27}, "loose_pairs"},
		{"old year strict", "1999-12-31 23:59:59", Timestamp{1999, 12, 31, 23, 59, 59}, "strict_iso"},
		{"old year after noise", "CAM 1999-12-31 23:59:59", Timestamp{1999, 12, 31, 23, 59, 59}, "strict_iso"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := p.Explain(tt.raw)
			require.True(t, ok, "normalized %q", m.Repaired)
			assert.Equal(t, tt.want, m.Timestamp)
			assert.Equal(t, tt.strategy, m.Strategy)
		})
	}
}

func TestParseRejects(t *testing.T) {
	p := DefaultParser()
	for _, raw := range []string{
		"",
		"garbage",
		"::--::",
		"2024-13-01 06:31:27",
		"2024-02-30 06:31:27",
		"2024-08-01",
		"06:31:27",
		// year cut out of a longer digit run
		"20190-06-0122:58:44",
		"21494-02-24 09:08:14",
		"2l025-12-1603:00:27",
	} {
		t.Run(raw, func(t *testing.T) {
			_, ok := p.Parse(raw)
			assert.False(t, ok)
		})
	}
}

func TestParseInvalidFirstMatchFallsThrough(t *testing.T) {
	// the date anchor reads hour 25 and fails; a later matcher must not
	// return an invalid timestamp either
	p := DefaultParser()
	_, ok := p.Parse("2024-08-01 25:31:27")
	assert.False(t, ok)
}

func TestParseStrictRoundTrip(t *testing.T) {
	p := DefaultParser()
	years := []int{1, 999, 1970, 1999, 2000, 2024, 2099, 2100, 9999}
	for _, y := range years {
		for _, ts := range []Timestamp{
			{y, 1, 1, 0, 0, 0},
			{y, 2, 28, 12, 30, 45},
			{y, 12, 31, 23, 59, 59},
			{y, 6, 20, 20, 20, 20},
			{y, 10, 10, 1, 7, 9},
		} {
			raw := fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d",
				ts.Year, ts.Month, ts.Day, ts.Hour, ts.Minute, ts.Second)
			got, ok := p.Parse(raw)
			require.True(t, ok, raw)
			assert.Equal(t, ts, got, raw)
		}
	}
}

func TestParseAllDaysOf2024(t *testing.T) {
	p := DefaultParser()
	for m := 1; m <= 12; m++ {
		for d := 1; d <= daysIn(2024, m); d++ {
			ts := Timestamp{2024, m, d, d % 24, (d * 7) % 60, (d * 13) % 60}
			got, ok := p.Parse(ts.Canonical())
			require.True(t, ok, ts.Canonical())
			assert.Equal(t, ts, got)
		}
	}
}

type fixedMatcher struct {
	name string
	ts   Timestamp
	ok   bool
}

func (f fixedMatcher) Name() string                   { return f.name }
func (f fixedMatcher) Match(string) (Timestamp, bool) { return f.ts, f.ok }

func TestParserOrderAndValidation(t *testing.T) {
	p := NewParser(
		fixedMatcher{"miss", Timestamp{}, false},
		fixedMatcher{"invalid", Timestamp{2024, 13, 1, 0, 0, 0}, true},
		fixedMatcher{"good", Timestamp{2024, 1, 1, 0, 0, 0}, true},
		fixedMatcher{"later", Timestamp{2025, 1, 1, 0, 0, 0}, true},
	)
	assert.Equal(t, []string{"miss", "invalid", "good", "later"}, p.Strategies())

	m, ok := p.Explain("x")
	require.True(t, ok)
	assert.Equal(t, "good", m.Strategy)
	assert.Equal(t, 2024, m.Timestamp.Year)
}
