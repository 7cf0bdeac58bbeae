package log

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"WARN", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"verbose", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tc := range cases {
		if got := parseLevel(tc.in); got != tc.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNewRespectsLevel(t *testing.T) {
	logger := New("error")
	if logger.GetLevel() != zerolog.ErrorLevel {
		t.Fatalf("level = %v, want error", logger.GetLevel())
	}
	if New(DefaultLevel).GetLevel() != zerolog.InfoLevel {
		t.Fatalf("default level = %v, want info", New(DefaultLevel).GetLevel())
	}
}
