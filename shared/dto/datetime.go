package dto

import (
	"encoding/json"
	"fmt"
	"shareit/shared/constant"
	"shareit/shared/timezone"
	"time"
)

// DateTime is a timestamp on the wire. It accepts RFC 3339 as well as zone-less
// local timestamps and always renders RFC 3339 in the application timezone.
type DateTime struct {
	time.Time
}

func NewDateTime(t time.Time) DateTime {
	return DateTime{Time: t}
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(timezone.Format(d.Time, constant.DateFormat)) //nolint:wrapcheck
}

func (d *DateTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}

	parsed, err := timezone.ParseDateTime(raw)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", raw, err)
	}

	d.Time = parsed

	return nil
}

// UTC returns the instant in UTC, which is how timestamps are stored.
func (d DateTime) UTC() time.Time {
	return d.Time.UTC()
}
