package payroll

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var krwPrinter = message.NewPrinter(language.English)

// FormatDuration renders 480 as "8h 0m" and -61 as "-1h 1m".
func FormatDuration(minutes int) string {
	sign := ""
	if minutes < 0 {
		sign = "-"
		minutes = -minutes
	}
	return fmt.Sprintf("%s%dh %dm", sign, minutes/60, minutes%60)
}

// FormatKRW rounds to whole won: 77360.4 -> "77,360 KRW".
func FormatKRW(amount float64) string {
	return krwPrinter.Sprintf("%d KRW", int64(math.Round(amount)))
}

func formatPercent(rate float64) string {
	return fmt.Sprintf("%.2f%%", rate*100)
}
