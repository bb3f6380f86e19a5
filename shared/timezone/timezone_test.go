package timezone_test

import (
	"shareit/shared/timezone"
	"testing"
	"time"
)

func TestTimezoneInit(t *testing.T) {
	if timezone.Now().IsZero() {
		t.Error("Now() returned zero time")
	}

	if timezone.GetLocation() == nil {
		t.Error("GetLocation() returned nil")
	}
}

func TestParseDateTime(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "rfc3339 with offset",
			value: "2026-10-20T10:00:00+03:00",
			want:  time.Date(2026, 10, 20, 7, 0, 0, 0, time.UTC),
		},
		{
			name:  "local timestamp",
			value: "2026-10-20T10:00:00",
			want:  time.Date(2026, 10, 20, 10, 0, 0, 0, timezone.GetLocation()),
		},
		{
			name:  "local timestamp without seconds",
			value: " 2026-10-20T10:00 ",
			want:  time.Date(2026, 10, 20, 10, 0, 0, 0, timezone.GetLocation()),
		},
		{
			name:    "garbage",
			value:   "tomorrow",
			wantErr: true,
		},
		{
			name:    "empty",
			value:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := timezone.ParseDateTime(tt.value)

			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %v", got)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !got.Equal(tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	testTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	formatted := timezone.Format(testTime, time.RFC3339)

	parsed, err := time.Parse(time.RFC3339, formatted)
	if err != nil {
		t.Fatalf("Format() produced unparsable output %q: %v", formatted, err)
	}

	if !parsed.Equal(testTime) {
		t.Errorf("expected %v, got %v", testTime, parsed)
	}
}
