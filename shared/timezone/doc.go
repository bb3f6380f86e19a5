// Package timezone pins every timestamp the service produces or compares to one location.
//
// Booking windows, comment timestamps and the "now" used for booking states all go
// through this package so that comparisons never mix zones:
//
//	now := timezone.Now()
//	start, err := timezone.ParseDateTime("2026-10-20T10:00:00")
//	out := timezone.Format(start, constant.DateFormat)
//
// The location comes from APP_TIMEZONE (IANA names such as "UTC" or "Europe/Moscow")
// and is loaded when the package is imported. UTC is used when it is missing or invalid.
package timezone
