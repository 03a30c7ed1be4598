package dto

import (
	"fmt"
	"time"
)

// localDateTimeLayout is the fixed wire pattern for timestamps:
// microsecond precision, no timezone offset. Values are serialized in the
// zone they carry and parsed as naive local times, which keeps the contract
// byte-compatible with existing consumers.
const localDateTimeLayout = "2006-01-02T15:04:05.000000"

// LocalDateTime serializes a time.Time without an offset.
type LocalDateTime time.Time

// MarshalJSON renders the fixed-pattern timestamp.
func (t LocalDateTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(t).Format(localDateTimeLayout) + `"`), nil
}

// UnmarshalJSON parses the fixed-pattern timestamp.
func (t *LocalDateTime) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid timestamp: %s", s)
	}
	parsed, err := time.ParseInLocation(localDateTimeLayout, s[1:len(s)-1], time.Local)
	if err != nil {
		return err
	}
	*t = LocalDateTime(parsed)
	return nil
}

// Time returns the underlying time value.
func (t LocalDateTime) Time() time.Time {
	return time.Time(t)
}
