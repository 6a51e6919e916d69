// Package timeofday parses the wall-clock strings stored on work logs.
package timeofday

import (
	"errors"
	"fmt"
)

var ErrInvalidTimeOfDay = errors.New("invalid time of day, expected HH:MM or HH:MM:SS")

// Parse returns the number of minutes since midnight for "HH:MM" or "HH:MM:SS".
// Seconds are validated and then truncated.
func Parse(s string) (int, error) {
	if len(s) != 5 && len(s) != 8 {
		return 0, ErrInvalidTimeOfDay
	}
	if s[2] != ':' || (len(s) == 8 && s[5] != ':') {
		return 0, ErrInvalidTimeOfDay
	}

	hour, ok := twoDigits(s[0:2])
	if !ok || hour > 23 {
		return 0, ErrInvalidTimeOfDay
	}
	minute, ok := twoDigits(s[3:5])
	if !ok || minute > 59 {
		return 0, ErrInvalidTimeOfDay
	}
	if len(s) == 8 {
		second, ok := twoDigits(s[6:8])
		if !ok || second > 59 {
			return 0, ErrInvalidTimeOfDay
		}
	}

	return hour*60 + minute, nil
}

// Format renders minutes since midnight as HH:MM.
func Format(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Normalize validates s and returns it in HH:MM form.
func Normalize(s string) (string, error) {
	m, err := Parse(s)
	if err != nil {
		return "", err
	}
	return Format(m), nil
}

func twoDigits(s string) (int, bool) {
	if s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, false
	}
	return int(s[0]-'0')*10 + int(s[1]-'0'), true
}
