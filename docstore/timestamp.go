package docstore

import (
	"time"
)

// Timestamp is the server timestamp type as it appears on the wire.
type Timestamp struct {
	Seconds int64 `json:"_seconds"`
	Nanos   int64 `json:"_nanoseconds"`
}

func Now() Timestamp {
	return FromTime(time.Now())
}

func FromTime(t time.Time) Timestamp {
	return Timestamp{Seconds: t.Unix(), Nanos: int64(t.Nanosecond())}
}

func (t Timestamp) Time() time.Time {
	return time.Unix(t.Seconds, t.Nanos)
}

// AsTimestamp recognizes a timestamp value whether it is still typed or
// has already been through a JSON decode into a plain map.
func AsTimestamp(v any) (Timestamp, bool) {
	switch ts := v.(type) {
	case Timestamp:
		return ts, true
	case map[string]any:
		secs, ok := ts["_seconds"]
		if !ok {
			return Timestamp{}, false
		}
		nanos := ts["_nanoseconds"]
		return Timestamp{Seconds: toInt64(secs), Nanos: toInt64(nanos)}, true
	}
	return Timestamp{}, false
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	}
	return 0
}
