package payroll_test

import (
	"testing"
	"time"

	"pharmacy-hr/internal/payroll"
	"pharmacy-hr/internal/worklog"

	"github.com/stretchr/testify/assert"
)

func shift(start, end string, breakMinutes int) payroll.Shift {
	return payroll.Shift{WorkDate: "2026-03-02", StartTime: start, EndTime: end, BreakMinutes: breakMinutes}
}

func TestSummarize(t *testing.T) {
	cfg := payroll.PayConfig{HourlyRate: 10000, TaxRate: 0.033}

	t.Run("single full day", func(t *testing.T) {
		sum := payroll.Summarize([]payroll.Shift{shift("09:00", "18:00", 60)}, cfg)

		assert.Equal(t, 480, sum.TotalWorkedMinutes)
		assert.Equal(t, 8.0, sum.TotalHours)
		assert.InDelta(t, 80000, sum.GrossPay, 1e-6)
		assert.InDelta(t, 77360, sum.NetPay, 1e-6)
		assert.True(t, sum.Lines[0].Included)
	})

	t.Run("seconds are truncated", func(t *testing.T) {
		sum := payroll.Summarize([]payroll.Shift{shift("09:00:59", "10:00:00", 0)}, cfg)
		assert.Equal(t, 60, sum.TotalWorkedMinutes)
	})

	t.Run("unparseable time contributes nothing", func(t *testing.T) {
		sum := payroll.Summarize([]payroll.Shift{
			shift("9am", "18:00", 0),
			shift("09:00", "25:00", 0),
			shift("10:00", "12:00", 0),
		}, cfg)

		assert.Equal(t, 120, sum.TotalWorkedMinutes)
		assert.Equal(t, payroll.ExcludedInvalidTime, sum.Lines[0].Excluded)
		assert.Equal(t, payroll.ExcludedInvalidTime, sum.Lines[1].Excluded)
		assert.Len(t, sum.Lines, 3)
	})

	t.Run("break eats the whole shift", func(t *testing.T) {
		sum := payroll.Summarize([]payroll.Shift{shift("09:00", "10:00", 60)}, cfg)
		assert.Equal(t, 0, sum.TotalWorkedMinutes)
		assert.Equal(t, 0.0, sum.GrossPay)
		assert.False(t, sum.Lines[0].Included)
		assert.Equal(t, payroll.ExcludedNonPositive, sum.Lines[0].Excluded)
	})

	t.Run("one minute counts", func(t *testing.T) {
		sum := payroll.Summarize([]payroll.Shift{shift("09:00", "10:00", 59)}, cfg)
		assert.Equal(t, 1, sum.TotalWorkedMinutes)
		assert.True(t, sum.Lines[0].Included)
	})

	t.Run("overnight is not wrapped", func(t *testing.T) {
		sum := payroll.Summarize([]payroll.Shift{shift("22:00", "06:00", 0)}, cfg)
		assert.Equal(t, 0, sum.TotalWorkedMinutes)
		assert.Equal(t, -960, sum.Lines[0].NetMinutes)
	})

	t.Run("order does not matter", func(t *testing.T) {
		a := []payroll.Shift{shift("09:00", "18:00", 60), shift("13:00", "15:30", 15), shift("bad", "10:00", 0)}
		b := []payroll.Shift{a[2], a[0], a[1]}

		sa := payroll.Summarize(a, cfg)
		sb := payroll.Summarize(b, cfg)
		assert.Equal(t, sa.TotalWorkedMinutes, sb.TotalWorkedMinutes)
		assert.Equal(t, sa.NetPay, sb.NetPay)
		assert.Equal(t, 615, sa.TotalWorkedMinutes)
	})

	t.Run("empty input", func(t *testing.T) {
		sum := payroll.Summarize(nil, cfg)
		assert.Equal(t, 0, sum.TotalWorkedMinutes)
		assert.Equal(t, 0.0, sum.NetPay)
		assert.Empty(t, sum.Lines)
	})

	t.Run("zero tax keeps gross", func(t *testing.T) {
		sum := payroll.Summarize([]payroll.Shift{shift("09:00", "10:30", 0)}, payroll.PayConfig{HourlyRate: 9860})
		assert.InDelta(t, 14790, sum.GrossPay, 1e-9)
		assert.Equal(t, sum.GrossPay, sum.NetPay)
	})
}

func TestShiftsFromWorkLogs(t *testing.T) {
	logs := []worklog.WorkLog{{
		WorkDate:     time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		StartTime:    "09:00",
		EndTime:      "18:00",
		BreakMinutes: 60,
	}}

	shifts := payroll.ShiftsFromWorkLogs(logs)
	assert.Equal(t, []payroll.Shift{shift("09:00", "18:00", 60)}, shifts)
}
