package proctoring

import "github.com/hireloop/interview-server/internal/store"

// deductions maps severities to integrity score penalties.
var deductions = map[store.Severity]int{
	store.SeverityLow:      2,
	store.SeverityMedium:   5,
	store.SeverityHigh:     10,
	store.SeverityCritical: 20,
}

// ScoreReport is the derived integrity score for a session.
// It is a pure function of the event log at computation time.
type ScoreReport struct {
	Score       int                    `json:"score"`
	TotalEvents int                    `json:"total_events"`
	Breakdown   map[store.Severity]int `json:"breakdown"`
}

// scoreEvents folds the deduction table over the log, starting at 100
// and flooring at 0.
func scoreEvents(events []store.ProctoringEvent) ScoreReport {
	report := ScoreReport{
		Score:       100,
		TotalEvents: len(events),
		Breakdown: map[store.Severity]int{
			store.SeverityLow:      0,
			store.SeverityMedium:   0,
			store.SeverityHigh:     0,
			store.SeverityCritical: 0,
		},
	}
	for _, e := range events {
		report.Breakdown[e.Severity]++
		report.Score -= deductions[e.Severity]
	}
	if report.Score < 0 {
		report.Score = 0
	}
	return report
}
