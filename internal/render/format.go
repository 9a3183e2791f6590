package render

import "time"

// dateLayout matches the dd MMM yyyy presentation used on the card.
const dateLayout = "02 Jan 2006"

// FormatDate renders a millisecond epoch timestamp as a display date.
func FormatDate(millis int64) string {
	return time.UnixMilli(millis).UTC().Format(dateLayout)
}

// ValidUntil computes the display-only expiry date: createdAt plus the
// validity window. The result is derived at render time and never stored.
func ValidUntil(createdAtMillis int64, validity time.Duration) string {
	return FormatDate(createdAtMillis + validity.Milliseconds())
}
