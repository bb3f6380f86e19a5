package timezone

import (
	"shareit/config"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	appLocation *time.Location
)

// dateTimeLayouts are tried in order by ParseDateTime.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

func init() {
	cfg := config.Get()

	if cfg.App.Timezone == "" {
		log.Warn().Msg("No timezone configured, using UTC as default")
		cfg.App.Timezone = "UTC"
	}

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Error().
			Err(err).
			Str("timezone", cfg.App.Timezone).
			Msg("Failed to load timezone, falling back to UTC. Please use standard timezone names like 'Europe/Moscow', 'UTC', 'America/New_York'")
		appLocation = time.UTC

		return
	}

	appLocation = loc
	log.Info().
		Str("timezone", cfg.App.Timezone).
		Str("location", loc.String()).
		Msg("Application timezone initialized")
}

// Now returns the current time in the application timezone
func Now() time.Time {
	return time.Now().In(GetLocation())
}

// ToAppTime converts a time to the application timezone
func ToAppTime(t time.Time) time.Time {
	return t.In(GetLocation())
}

// GetLocation returns the current application timezone location
func GetLocation() *time.Location {
	if appLocation == nil {
		return time.UTC
	}

	return appLocation
}

// ParseDateTime accepts RFC 3339 timestamps as well as zone-less local
// timestamps such as "2026-10-20T10:00:00", which are read in the application timezone.
func ParseDateTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)

	var (
		parsed time.Time
		err    error
	)

	for _, layout := range dateTimeLayouts {
		parsed, err = time.ParseInLocation(layout, value, GetLocation())
		if err == nil {
			return parsed, nil
		}
	}

	return time.Time{}, err //nolint:wrapcheck
}

// Format formats a time in the application timezone
func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}
