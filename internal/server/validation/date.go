package validation

import (
	"fmt"
	"time"
)

// DateLayouts are the accepted calendar date formats, tried in order.
var DateLayouts = []string{"2006/01/02", "02-01-2006", "2006-01-02"}

// ParseDate parses s with the first matching layout in DateLayouts. The
// result is midnight UTC.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}
