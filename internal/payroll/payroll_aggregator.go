package payroll

import (
	"pharmacy-hr/internal/shared/timeofday"
	"pharmacy-hr/internal/worklog"
)

const (
	ExcludedInvalidTime = "invalid_time"
	ExcludedNonPositive = "non_positive_duration"
)

type PayConfig struct {
	HourlyRate float64
	TaxRate    float64
}

// Shift is the slice of a work log the fold reads.
type Shift struct {
	WorkDate     string
	StartTime    string
	EndTime      string
	BreakMinutes int
}

type Line struct {
	WorkDate     string
	StartTime    string
	EndTime      string
	BreakMinutes int
	NetMinutes   int
	Included     bool
	Excluded     string
}

type Summary struct {
	TotalWorkedMinutes int
	TotalHours         float64
	GrossPay           float64
	NetPay             float64
	Lines              []Line
}

// Summarize folds shifts into worked time and pay. Callers pass approved shifts only.
// A shift counts when end - start - break is positive; unparseable times count as zero.
func Summarize(shifts []Shift, cfg PayConfig) Summary {
	sum := Summary{Lines: make([]Line, 0, len(shifts))}

	for _, sh := range shifts {
		line := Line{
			WorkDate:     sh.WorkDate,
			StartTime:    sh.StartTime,
			EndTime:      sh.EndTime,
			BreakMinutes: sh.BreakMinutes,
		}

		start, errStart := timeofday.Parse(sh.StartTime)
		end, errEnd := timeofday.Parse(sh.EndTime)
		switch {
		case errStart != nil || errEnd != nil:
			line.Excluded = ExcludedInvalidTime
		default:
			// no overnight handling: end before start goes negative
			net := end - start - sh.BreakMinutes
			line.NetMinutes = net
			if net > 0 {
				line.Included = true
				sum.TotalWorkedMinutes += net
			} else {
				line.Excluded = ExcludedNonPositive
			}
		}

		sum.Lines = append(sum.Lines, line)
	}

	sum.TotalHours = float64(sum.TotalWorkedMinutes) / 60
	sum.GrossPay = sum.TotalHours * cfg.HourlyRate
	sum.NetPay = sum.GrossPay * (1 - cfg.TaxRate)
	return sum
}

func ShiftsFromWorkLogs(logs []worklog.WorkLog) []Shift {
	shifts := make([]Shift, len(logs))
	for i, w := range logs {
		shifts[i] = Shift{
			WorkDate:     w.WorkDate.Format("2006-01-02"),
			StartTime:    w.StartTime,
			EndTime:      w.EndTime,
			BreakMinutes: w.BreakMinutes,
		}
	}
	return shifts
}
