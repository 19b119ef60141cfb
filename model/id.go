package model

import (
	"fmt"
	"strconv"
	"time"

	"github.com/truyenhub/truyenhub/util"
)

// NewID mints a client-side document id: base-36 unix milliseconds plus
// six random base-36 characters. The id is fixed before any write, which
// keeps create retries at-most-once.
func NewID() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 36) + util.RandomBase36(6)
}

// FormatDate renders t as "{day}/{month}/{year}" with no zero padding.
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d", t.Day(), int(t.Month()), t.Year())
}

// Today is the current device date in the textual wire format.
func Today() string {
	return FormatDate(time.Now())
}
