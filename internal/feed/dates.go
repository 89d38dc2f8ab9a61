package feed

import (
	"fmt"
	"time"
)

// pubDateLayout is the feed's publication date convention,
// e.g. "Mon, 25 Nov 2025 10:30:00 +0900".
const pubDateLayout = "Mon, 02 Jan 2006 15:04:05 -0700"

// NormalizePubDate converts a raw feed publication date into a timestamp.
// The wall-clock time keeps the feed-supplied offset; callers format it with
// the storage layout for persistence. Input not matching the expected layout
// fails with an error carrying the offending string.
func NormalizePubDate(raw string) (time.Time, error) {
	t, err := time.Parse(pubDateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("converting publication date %q: %w", raw, err)
	}
	return t, nil
}
