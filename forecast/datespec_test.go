package forecast

import (
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
)

func dateStrings(dates []Date) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.String()
	}
	return out
}

func TestDateSpec_GenerateDates(t *testing.T) {
	tests := []struct {
		name       string
		spec       DateSpec
		queryStart string
		queryEnd   string
		want       []string
		wantErr    bool
	}{
		{
			name: "one-time transaction via daily with matching end",
			spec: DateSpec{
				Start:     MustDate("2022-01-10"),
				End:       ptr(MustDate("2022-01-10")),
				Frequency: FrequencyDaily,
				Interval:  1,
			},
			queryStart: "2022-01-01",
			queryEnd:   "2022-06-30",
			want:       []string{"2022-01-10"},
		},
		{
			name: "daily every third day",
			spec: DateSpec{
				Start:     MustDate("2022-01-01"),
				Frequency: FrequencyDaily,
				Interval:  3,
			},
			queryStart: "2022-01-01",
			queryEnd:   "2022-01-10",
			want:       []string{"2022-01-01", "2022-01-04", "2022-01-07", "2022-01-10"},
		},
		{
			name: "biweekly friday anchored on a friday",
			spec: DateSpec{
				Start:     MustDate("2022-01-14"),
				Frequency: FrequencyWeekly,
				Interval:  2,
				DayOfWeek: Friday,
			},
			queryStart: "2022-01-01",
			queryEnd:   "2022-03-31",
			want: []string{
				"2022-01-14", "2022-01-28",
				"2022-02-11", "2022-02-25",
				"2022-03-11", "2022-03-25",
			},
		},
		{
			name: "weekly anchor earlier in the week rolls forward",
			spec: DateSpec{
				// 2022-01-14 is a Friday; Monday of that week is the 10th,
				// already past, so the first monday emitted is the 24th.
				Start:     MustDate("2022-01-14"),
				Frequency: FrequencyWeekly,
				Interval:  2,
				DayOfWeek: Monday,
			},
			queryStart: "2022-01-01",
			queryEnd:   "2022-02-28",
			want:       []string{"2022-01-24", "2022-02-07", "2022-02-21"},
		},
		{
			name: "monthly on the 15th",
			spec: DateSpec{
				Start:      MustDate("2022-01-15"),
				Frequency:  FrequencyMonthly,
				Interval:   1,
				DayOfMonth: 15,
			},
			queryStart: "2022-01-01",
			queryEnd:   "2022-04-30",
			want:       []string{"2022-01-15", "2022-02-15", "2022-03-15", "2022-04-15"},
		},
		{
			name: "monthly day 31 becomes last day of month",
			spec: DateSpec{
				Start:      MustDate("2021-11-01"),
				Frequency:  FrequencyMonthly,
				Interval:   1,
				DayOfMonth: 31,
			},
			queryStart: "2021-11-01",
			queryEnd:   "2022-04-30",
			want: []string{
				"2021-11-30", "2021-12-31", "2022-01-31",
				"2022-02-28", "2022-03-31", "2022-04-30",
			},
		},
		{
			name: "monthly day 29 also lands on last day",
			spec: DateSpec{
				Start:      MustDate("2022-01-01"),
				Frequency:  FrequencyMonthly,
				Interval:   1,
				DayOfMonth: 29,
			},
			queryStart: "2022-01-01",
			queryEnd:   "2022-03-31",
			want:       []string{"2022-01-31", "2022-02-28", "2022-03-31"},
		},
		{
			name: "monthly without day keeps the start day and skips short months",
			spec: DateSpec{
				Start:     MustDate("2022-01-30"),
				Frequency: FrequencyMonthly,
				Interval:  1,
			},
			queryStart: "2022-01-01",
			queryEnd:   "2022-04-30",
			want:       []string{"2022-01-30", "2022-03-30", "2022-04-30"},
		},
		{
			name: "quarterly interval",
			spec: DateSpec{
				Start:      MustDate("2022-01-01"),
				Frequency:  FrequencyMonthly,
				Interval:   3,
				DayOfMonth: 1,
			},
			queryStart: "2022-01-01",
			queryEnd:   "2022-12-31",
			want:       []string{"2022-01-01", "2022-04-01", "2022-07-01", "2022-10-01"},
		},
		{
			name: "rule anchored before the window keeps its phase",
			spec: DateSpec{
				Start:     MustDate("2022-01-14"),
				Frequency: FrequencyWeekly,
				Interval:  2,
				DayOfWeek: Friday,
			},
			queryStart: "2022-02-01",
			queryEnd:   "2022-03-01",
			want:       []string{"2022-02-11", "2022-02-25"},
		},
		{
			name: "rule end caps before the window end",
			spec: DateSpec{
				Start:      MustDate("2022-01-01"),
				End:        ptr(MustDate("2022-03-15")),
				Frequency:  FrequencyMonthly,
				Interval:   1,
				DayOfMonth: 1,
			},
			queryStart: "2022-01-01",
			queryEnd:   "2022-12-31",
			want:       []string{"2022-01-01", "2022-02-01", "2022-03-01"},
		},
		{
			name: "rule entirely outside the window",
			spec: DateSpec{
				Start:     MustDate("2023-01-01"),
				Frequency: FrequencyDaily,
				Interval:  1,
			},
			queryStart: "2022-01-01",
			queryEnd:   "2022-06-30",
			want:       nil,
		},
		{
			name: "zero interval is rejected",
			spec: DateSpec{
				Start:     MustDate("2022-01-01"),
				Frequency: FrequencyDaily,
				Interval:  0,
			},
			queryStart: "2022-01-01",
			queryEnd:   "2022-06-30",
			wantErr:    true,
		},
		{
			name: "unknown frequency is rejected",
			spec: DateSpec{
				Start:     MustDate("2022-01-01"),
				Frequency: Frequency("yearly"),
				Interval:  1,
			},
			queryStart: "2022-01-01",
			queryEnd:   "2022-06-30",
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dates, err := tt.spec.GenerateDates(MustDate(tt.queryStart), MustDate(tt.queryEnd))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			if tt.want == nil {
				assert.Equal(t, 0, len(dates))
				return
			}
			assert.Equal(t, tt.want, dateStrings(dates))
		})
	}
}

func TestDateSpec_GenerateDatesBiweeklyYear(t *testing.T) {
	spec := DateSpec{
		Start:     MustDate("2021-11-05"),
		Frequency: FrequencyWeekly,
		Interval:  2,
		DayOfWeek: Friday,
	}

	dates, err := spec.GenerateDates(MustDate("2021-11-05"), MustDate("2022-11-05"))
	assert.NoError(t, err)
	assert.Equal(t, 27, len(dates))
	assert.Equal(t, "2021-11-05", dates[0].String())

	for i, d := range dates {
		assert.Equal(t, time.Friday, d.Weekday())
		if i > 0 {
			assert.Equal(t, "336h0m0s", d.Sub(dates[i-1].Time).String())
		}
	}
}

func TestParseFrequency(t *testing.T) {
	f, err := ParseFrequency("weekly")
	assert.NoError(t, err)
	assert.Equal(t, FrequencyWeekly, f)

	_, err = ParseFrequency("fortnightly")
	assert.Error(t, err)
}

func TestParseWeekday(t *testing.T) {
	d, err := ParseWeekday("fri")
	assert.NoError(t, err)
	assert.Equal(t, Friday, d)

	_, err = ParseWeekday("friday")
	assert.Error(t, err)
}

func ptr[T any](v T) *T {
	return &v
}
