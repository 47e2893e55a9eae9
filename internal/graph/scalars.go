package graph

import (
	"encoding/json"
	"fmt"
	"time"
)

// dateLayout matches JavaScript's Date.toISOString.
const dateLayout = "2006-01-02T15:04:05.000Z"

// Date is an instant exchanged as an ISO-8601 string. Input accepts RFC 3339 or a
// bare calendar date, which is read as midnight UTC.
type Date struct {
	time.Time
}

func newDate(t time.Time) Date {
	return Date{Time: t.UTC()}
}

func optionalDate(t *time.Time) *Date {
	if t == nil {
		return nil
	}
	d := newDate(*t)
	return &d
}

func (Date) ImplementsGraphQLType(name string) bool {
	return name == "Date"
}

func (d *Date) UnmarshalGraphQL(input interface{}) error {
	switch v := input.(type) {
	case string:
		t, err := ParseDate(v)
		if err != nil {
			return err
		}
		d.Time = t
		return nil
	case time.Time:
		d.Time = v.UTC()
		return nil
	}
	return fmt.Errorf("graph: Date must be a string, got %T", input)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.UTC().Format(dateLayout))
}

// ParseDate reads RFC 3339 timestamps and YYYY-MM-DD dates into UTC.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("graph: invalid Date %q", s)
}

func (d *Date) timePtr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}
