package codec

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Temporal adapts strings matching Pattern to time.Time using Layout.
// time.Time input is truncated to the parts the layout carries.
type Temporal struct {
	Name    string
	Layout  string
	Pattern *regexp.Regexp
	Strip   bool
}

var (
	datePattern     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern     = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}$`)
	dateTimePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`)
)

const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04:05"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// NewDate returns a codec for YYYY-MM-DD.
func NewDate() Temporal {
	return Temporal{Name: "date", Layout: DateLayout, Pattern: datePattern, Strip: true}
}

// NewTime returns a codec for HH:MM:SS.
func NewTime() Temporal {
	return Temporal{Name: "time", Layout: TimeLayout, Pattern: timePattern, Strip: true}
}

// NewDateTime returns a codec for YYYY-MM-DD HH:MM:SS.
func NewDateTime() Temporal {
	return Temporal{Name: "datetime", Layout: DateTimeLayout, Pattern: dateTimePattern, Strip: true}
}

func (c Temporal) Adapt(raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	v, ok := indirect(raw)
	if !ok {
		return nil, nil
	}
	switch x := v.(type) {
	case time.Time:
		return c.truncate(x), nil
	case string:
		s := x
		if c.Strip {
			s = strings.TrimSpace(s)
		}
		if c.Pattern != nil && !c.Pattern.MatchString(s) {
			return nil, adaptErr(raw, c.Name)
		}
		t, err := time.Parse(c.Layout, s)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrAdapt, c.Name, err)
		}
		return t, nil
	default:
		return nil, adaptErr(raw, c.Name)
	}
}

func (c Temporal) truncate(t time.Time) time.Time {
	switch c.Layout {
	case DateLayout:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	case TimeLayout:
		return time.Date(0, time.January, 1, t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
	}
}

func (c Temporal) Serialize(v any) string {
	t, ok := v.(time.Time)
	if !ok {
		return Text(v)
	}
	return t.Format(c.Layout)
}
