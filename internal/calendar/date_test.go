package calendar

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekdayOf(t *testing.T) {
	// 2024-09-01 是周日，2024-09-02 是周一
	assert.Equal(t, 7, WeekdayOf(time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1, WeekdayOf(time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 6, WeekdayOf(time.Date(2024, 9, 7, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 3, MustParse("2024-09-04").Weekday())
}

func TestISOWeek(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		{"2024-01-01", 1},
		{"2023-01-01", 52},
		{"2024-12-31", 1},
		{"2021-01-03", 53},
		{"2020-12-31", 53},
		{"2024-09-02", 36},
		{"2024-09-16", 38},
		{"2026-12-28", 53},
		{"2027-01-04", 1},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			assert.Equal(t, tt.want, ISOWeek(MustParse(tt.date)))
		})
	}
}

func TestISOWeek_MatchesStdlib(t *testing.T) {
	d := MustParse("2019-12-20")
	for i := 0; i < 3*366; i++ {
		_, want := d.Time().ISOWeek()
		require.Equal(t, want, ISOWeek(d), "date %s", d)
		d = d.AddDays(1)
	}
}

func TestFormat(t *testing.T) {
	d := New(2024, time.September, 2)
	assert.Equal(t, "2024-09-02", d.String())
	assert.Equal(t, "02.09.2024", d.FormatDE())
	assert.Equal(t, "", Date{}.String())
	assert.Equal(t, "", Date{}.FormatDE())
}

func TestFromTime_UsesLocalComponents(t *testing.T) {
	berlin := time.FixedZone("CEST", 2*60*60)
	// 本地 00:30 在 UTC 下仍是前一天，必须取本地日历部分
	local := time.Date(2024, 9, 2, 0, 30, 0, 0, berlin)
	assert.Equal(t, "2024-09-02", FromTime(local).String())
}

func TestInInterval(t *testing.T) {
	start := MustParse("2024-09-09")
	end := MustParse("2024-09-13")

	assert.True(t, InInterval(start, start, end))
	assert.True(t, InInterval(end, start, end))
	assert.True(t, InInterval(MustParse("2024-09-11"), start, end))
	assert.False(t, InInterval(MustParse("2024-09-08"), start, end))
	assert.False(t, InInterval(MustParse("2024-09-14"), start, end))
}

func TestAddYears_LeapDay(t *testing.T) {
	assert.Equal(t, "2025-03-01", MustParse("2024-02-29").AddYears(1).String())
	assert.Equal(t, "2026-09-02", MustParse("2024-09-02").AddYears(2).String())
}

func TestDaysUntil(t *testing.T) {
	a := MustParse("2024-02-27")
	b := MustParse("2024-03-02")
	assert.Equal(t, 4, a.DaysUntil(b))
	assert.Equal(t, -4, b.DaysUntil(a))
}

func TestNextMonday(t *testing.T) {
	assert.Equal(t, "2024-09-09", NextMonday(MustParse("2024-09-02")).String(), "周一应跳到下周一")
	assert.Equal(t, "2024-09-09", NextMonday(MustParse("2024-09-08")).String())
	assert.Equal(t, "2024-09-09", NextMonday(MustParse("2024-09-04")).String())
}

func TestSchoolYear(t *testing.T) {
	assert.Equal(t, "2024/2025", SchoolYear(MustParse("2024-08-01")))
	assert.Equal(t, "2023/2024", SchoolYear(MustParse("2024-07-31")))
	assert.Equal(t, "2024/2025", SchoolYear(MustParse("2025-02-10")))
}

func TestDateJSON(t *testing.T) {
	type wrapper struct {
		D Date `json:"d"`
	}

	b, err := json.Marshal(wrapper{D: MustParse("2024-09-02")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":"2024-09-02"}`, string(b))

	b, err = json.Marshal(wrapper{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":null}`, string(b))

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"d":"2024-12-23T00:00:00.000Z"}`), &w))
	assert.Equal(t, "2024-12-23", w.D.String())

	require.NoError(t, json.Unmarshal([]byte(`{"d":""}`), &w))
	assert.True(t, w.D.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`{"d":"23.12.2024"}`), &w))
	assert.Error(t, json.Unmarshal([]byte(`{"d":20241223}`), &w))
}
