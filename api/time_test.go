package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEpochMillisUnmarshal(t *testing.T) {
	utc := time.Date(2023, 5, 15, 10, 30, 0, 123456000, time.UTC)

	tests := []struct {
		name string
		data string
		want int64
	}{
		{
			name: "number",
			data: `1684146600123`,
			want: 1684146600123,
		},
		{
			name: "iso with microseconds",
			data: `"2023-05-15T10:30:00.123456Z"`,
			want: utc.UnixMilli(),
		},
		{
			name: "iso without fraction",
			data: `"2023-05-15T10:30:00Z"`,
			want: utc.Truncate(time.Second).UnixMilli(),
		},
		{
			name: "iso with offset",
			data: `"2023-05-15T10:30:00+02:00"`,
			want: time.Date(2023, 5, 15, 10, 30, 0, 0, time.FixedZone("", 2*3600)).UnixMilli(),
		},
		{
			name: "iso without zone is read as utc",
			data: `"2023-05-15T10:30:00"`,
			want: utc.Truncate(time.Second).UnixMilli(),
		},
		{
			name: "unknown format degrades to zero",
			data: `"15/05/2023 10:30"`,
			want: 0,
		},
		{
			name: "null",
			data: `null`,
			want: 0,
		},
		{
			name: "empty string",
			data: `""`,
			want: 0,
		},
		{
			name: "malformed number degrades to zero",
			data: `1.5e3`,
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m EpochMillis
			require.NoError(t, json.Unmarshal([]byte(tt.data), &m))
			assert.Equal(t, tt.want, int64(m))
		})
	}
}

func TestEpochMillisMarshal(t *testing.T) {
	data, err := json.Marshal(EpochMillis(1684146600123))
	require.NoError(t, err)
	assert.Equal(t, "1684146600123", string(data))
}

func TestEpochMillisTime(t *testing.T) {
	m := EpochMillis(time.Date(2023, 5, 15, 10, 30, 0, 0, time.UTC).UnixMilli())
	assert.Equal(t, "2023-05-15T10:30:00Z", m.Time().Format(time.RFC3339))
}
