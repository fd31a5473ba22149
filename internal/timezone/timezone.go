package timezone

import "time"

// DefaultTimezone is the shop's zone when none is configured.
const DefaultTimezone = "America/Bogota"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// Location resolves tz, falling back to DefaultTimezone and then UTC.
func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	if loc, err := time.LoadLocation(DefaultTimezone); err == nil {
		return loc
	}
	return time.UTC
}

// Clock returns a now func pinned to loc.
func Clock(loc *time.Location) func() time.Time {
	return func() time.Time { return time.Now().In(loc) }
}
