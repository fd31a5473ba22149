package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-booking/internal/shape"
)

// 2024-06-12 was a Wednesday.
var wednesday = time.Date(2024, 6, 12, 15, 30, 0, 0, time.UTC)

func TestISOWeekdayOf(t *testing.T) {
	assert.Equal(t, Wednesday, ISOWeekdayOf(wednesday))
	assert.Equal(t, Sunday, ISOWeekdayOf(time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, Monday, ISOWeekdayOf(time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC)))
}

func TestProjectNextDateZeroBasedFriday(t *testing.T) {
	target, err := ParseWeekday(4.0, shape.Monday0)
	require.NoError(t, err)
	assert.Equal(t, Friday, target)

	got, err := ProjectNextDate(target, wednesday)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-14", got)
}

func TestProjectNextDateSameWeekdayIsNextWeek(t *testing.T) {
	got, err := ProjectNextDate(Wednesday, wednesday)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-19", got)
}

func TestProjectNextDateAllEncodings(t *testing.T) {
	encodings := map[shape.WeekdayEncoding][]int{
		shape.Monday0: {0, 1, 2, 3, 4, 5, 6},
		shape.Monday1: {1, 2, 3, 4, 5, 6, 7},
	}

	for d := 0; d < 7; d++ {
		today := wednesday.AddDate(0, 0, d)
		for enc, values := range encodings {
			for _, v := range values {
				target, err := ParseWeekday(v, enc)
				require.NoError(t, err)

				got, err := ProjectNextDate(target, today)
				require.NoError(t, err)

				date, err := time.Parse(DateLayout, got)
				require.NoError(t, err)

				start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
				offset := int(date.Sub(start).Hours() / 24)
				assert.GreaterOrEqual(t, offset, 1, "enc=%s v=%d today=%s", enc, v, today.Weekday())
				assert.LessOrEqual(t, offset, 7, "enc=%s v=%d today=%s", enc, v, today.Weekday())
				assert.Equal(t, target, ISOWeekdayOf(date))
			}
		}
	}
}

func TestProjectNextDateAcrossMonthInShopZone(t *testing.T) {
	loc, err := time.LoadLocation("America/Bogota")
	require.NoError(t, err)

	// Sunday 23:30 in Bogotá is already Monday in UTC.
	today := time.Date(2024, 6, 30, 23, 30, 0, 0, loc)
	got, err := ProjectNextDate(Monday, today)
	require.NoError(t, err)
	assert.Equal(t, "2024-07-01", got)
}

func TestParseWeekdayRejectsDrift(t *testing.T) {
	tests := []struct {
		raw any
		enc shape.WeekdayEncoding
	}{
		{7, shape.Monday0},
		{-1, shape.Monday0},
		{0, shape.Monday1},
		{8, shape.Monday1},
		{"lunes", shape.Monday1},
		{2.5, shape.Monday0},
	}
	for _, tt := range tests {
		_, err := ParseWeekday(tt.raw, tt.enc)
		assert.True(t, errors.Is(err, ErrWeekdayOutOfRange), "raw=%v enc=%s", tt.raw, tt.enc)
	}
}

func TestProjectNextDateInvalidTarget(t *testing.T) {
	_, err := ProjectNextDate(0, wednesday)
	assert.ErrorIs(t, err, ErrWeekdayOutOfRange)
}

func TestResolveWeekday(t *testing.T) {
	c := shape.DefaultCatalog()

	tests := []struct {
		name    string
		rec     shape.Record
		want    ISOWeekday
		wantKey string
	}{
		{"backend zero based", shape.Record{"day_of_week": 0.0}, Monday, "day_of_week"},
		{"backend wins over legacy", shape.Record{"day_of_week": 4.0, "dia": 1.0}, Friday, "day_of_week"},
		{"legacy dia", shape.Record{"dia": 7.0}, Sunday, "dia"},
		{"alias as string", shape.Record{"weekday": "3"}, Wednesday, "weekday"},
		{"none", shape.Record{"id": 1.0}, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, key, err := ResolveWeekday(tt.rec, c)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantKey, key)
		})
	}

	_, key, err := ResolveWeekday(shape.Record{"day_of_week": 7.0}, c)
	assert.ErrorIs(t, err, ErrWeekdayOutOfRange)
	assert.Equal(t, "day_of_week", key)
}
