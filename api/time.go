package api

import (
	"bytes"
	"strconv"
	"time"
)

// EpochMillis is a point in time in milliseconds since the Unix epoch. The
// backend is inconsistent about its encoding: status endpoints return
// ISO-8601 strings while result payloads carry numbers, so decoding accepts
// both. Encoding always emits a number.
type EpochMillis int64

// Time converts to a time.Time in UTC.
func (m EpochMillis) Time() time.Time {
	return time.UnixMilli(int64(m)).UTC()
}

var isoFormats = []string{
	"2006-01-02T15:04:05.999999Z",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05.999999Z07:00",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

func (m *EpochMillis) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*m = 0
		return nil
	}
	if data[0] == '"' {
		s := string(data[1 : len(data)-1])
		if s == "" {
			*m = 0
			return nil
		}
		for _, format := range isoFormats {
			if t, err := time.Parse(format, s); err == nil {
				*m = EpochMillis(t.UnixMilli())
				return nil
			}
		}
		// Unknown date format degrades to zero rather than failing the
		// whole status decode.
		*m = 0
		return nil
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		*m = 0
		return nil
	}
	*m = EpochMillis(n)
	return nil
}

func (m EpochMillis) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(int64(m), 10)), nil
}
