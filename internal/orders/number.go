package orders

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

const (
	numberPrefix = "ORD"
	dayKeyLayout = "20060102"
	sequenceName = "order"
)

var numberPattern = regexp.MustCompile(`^ORD-(\d{8})-(\d{4,})$`)

// DayKey is the calendar day of t in loc, as used in order numbers.
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(dayKeyLayout)
}

// FormatNumber renders ORD-YYYYMMDD-NNNN. Sequences past 9999 simply grow wider.
func FormatNumber(day string, seq int) string {
	return fmt.Sprintf("%s-%s-%04d", numberPrefix, day, seq)
}

// ParseNumber splits an order number into its day key and sequence.
func ParseNumber(number string) (day string, seq int, err error) {
	m := numberPattern.FindStringSubmatch(number)
	if m == nil {
		return "", 0, fmt.Errorf("order number %q does not match ORD-YYYYMMDD-NNNN", number)
	}
	if _, err := time.Parse(dayKeyLayout, m[1]); err != nil {
		return "", 0, fmt.Errorf("order number %q has an invalid date", number)
	}
	seq, err = strconv.Atoi(m[2])
	if err != nil || seq < 1 {
		return "", 0, fmt.Errorf("order number %q has an invalid sequence", number)
	}
	return m[1], seq, nil
}

// dayPrefix is the literal prefix shared by every order number of one day.
func dayPrefix(day string) string {
	return numberPrefix + "-" + day + "-"
}
