package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// TimeLayout is the on-disk order time format.
const TimeLayout = "2006-01-02 15:04:05"

// Timestamp is an order time with second precision in local time.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.Truncate(time.Second).In(time.Local)}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(t.Format(TimeLayout))
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("order time: %w", err)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTimestamp accepts the file layout and RFC 3339. Empty input yields the
// zero value.
func ParseTimestamp(s string) (Timestamp, error) {
	if s == "" {
		return Timestamp{}, nil
	}
	if v, err := time.ParseInLocation(TimeLayout, s, time.Local); err == nil {
		return Timestamp{Time: v}, nil
	}
	v, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Timestamp{}, fmt.Errorf("order time %q: unrecognized format", s)
	}
	return NewTimestamp(v), nil
}
