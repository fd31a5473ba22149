package validators

import (
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// IsDate reports whether s is a calendar date in YYYY-MM-DD form.
func IsDate(s string) bool {
	_, err := time.Parse(DateLayout, strings.TrimSpace(s))
	return err == nil
}
