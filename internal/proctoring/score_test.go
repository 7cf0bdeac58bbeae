package proctoring

import (
	"testing"

	"github.com/hireloop/interview-server/internal/store"
)

func eventsOf(severities ...store.Severity) []store.ProctoringEvent {
	events := make([]store.ProctoringEvent, 0, len(severities))
	for _, sev := range severities {
		events = append(events, store.ProctoringEvent{Type: store.EventTabSwitch, Severity: sev})
	}
	return events
}

func TestScoreEvents(t *testing.T) {
	cases := []struct {
		name       string
		severities []store.Severity
		want       int
	}{
		{"empty log", nil, 100},
		{"low and critical", []store.Severity{store.SeverityLow, store.SeverityCritical}, 78},
		{"two medium one high", []store.Severity{store.SeverityMedium, store.SeverityMedium, store.SeverityHigh}, 80},
		{"floors at zero", []store.Severity{
			store.SeverityCritical, store.SeverityCritical, store.SeverityCritical,
			store.SeverityCritical, store.SeverityCritical, store.SeverityCritical,
		}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			report := scoreEvents(eventsOf(tc.severities...))
			if report.Score != tc.want {
				t.Fatalf("score = %d, want %d", report.Score, tc.want)
			}
			if report.TotalEvents != len(tc.severities) {
				t.Fatalf("total = %d, want %d", report.TotalEvents, len(tc.severities))
			}
		})
	}
}

func TestScoreEventsBreakdown(t *testing.T) {
	report := scoreEvents(eventsOf(
		store.SeverityLow, store.SeverityLow,
		store.SeverityMedium,
		store.SeverityCritical,
	))
	if report.Score != 100-2-2-5-20 {
		t.Fatalf("score = %d", report.Score)
	}
	if report.Breakdown[store.SeverityLow] != 2 ||
		report.Breakdown[store.SeverityMedium] != 1 ||
		report.Breakdown[store.SeverityHigh] != 0 ||
		report.Breakdown[store.SeverityCritical] != 1 {
		t.Fatalf("unexpected breakdown: %+v", report.Breakdown)
	}
}

func TestScoreEventsDeterministic(t *testing.T) {
	events := eventsOf(store.SeverityHigh, store.SeverityLow, store.SeverityMedium)
	first := scoreEvents(events)
	second := scoreEvents(events)
	if first.Score != second.Score || first.TotalEvents != second.TotalEvents {
		t.Fatalf("recomputation diverged: %+v vs %+v", first, second)
	}
}

func TestScoreEventsMonotone(t *testing.T) {
	var severities []store.Severity
	prev := 100
	for _, sev := range []store.Severity{
		store.SeverityLow, store.SeverityMedium, store.SeverityHigh,
		store.SeverityCritical, store.SeverityCritical, store.SeverityCritical,
		store.SeverityCritical, store.SeverityCritical,
	} {
		severities = append(severities, sev)
		report := scoreEvents(eventsOf(severities...))
		if report.Score > prev {
			t.Fatalf("score increased from %d to %d after appending %s", prev, report.Score, sev)
		}
		if report.Score < 0 || report.Score > 100 {
			t.Fatalf("score out of range: %d", report.Score)
		}
		prev = report.Score
	}
}
