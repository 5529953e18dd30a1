package utils

import (
	"time"
)

// MarketTimezone is the exchange timezone used for run timestamps and YTD boundaries.
const MarketTimezone = "America/New_York"

// GetMarketTimeLocation returns the exchange location, falling back to UTC
// when the tz database is not available.
func GetMarketTimeLocation() *time.Location {
	loc, err := time.LoadLocation(MarketTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// TimeNowMarket returns the current time in the exchange timezone.
func TimeNowMarket() time.Time {
	return time.Now().In(GetMarketTimeLocation())
}

// PrettyDate formats t as "Jan 02, 2006".
func PrettyDate(t time.Time) string {
	return t.Format("Jan 02, 2006")
}
