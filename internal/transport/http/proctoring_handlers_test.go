package http

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/hireloop/interview-server/internal/session"
	"github.com/hireloop/interview-server/internal/store"
)

func seedActiveSession(t *testing.T, sessions *session.Service, st store.Store) *store.Session {
	t.Helper()
	sess, err := sessions.Create(context.Background(), session.Input{Title: "backend screen"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	now := time.Now()
	sess.Status = store.SessionStatusInProgress
	sess.StartedAt = &now
	if err := st.UpdateSession(context.Background(), sess); err != nil {
		t.Fatalf("update: %v", err)
	}
	return sess
}

func TestRecordEventEndpoint(t *testing.T) {
	ts, sessions, st := newTestServer(t)
	sess := seedActiveSession(t, sessions, st)

	resp := postJSON(t, ts.URL+"/api/proctoring/event", map[string]any{
		"sessionId": sess.ID,
		"type":      "tab_switch",
		"severity":  "medium",
		"detail":    "switched to another tab",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	event := decodeJSON[EventResponse](t, resp)
	if event.ID == "" || event.SessionID != sess.ID || event.Type != "tab_switch" {
		t.Fatalf("unexpected event: %+v", event)
	}
}

func TestRecordEventEndpointRejections(t *testing.T) {
	ts, sessions, st := newTestServer(t)
	sess := seedActiveSession(t, sessions, st)

	cases := []struct {
		name string
		body map[string]any
		want int
	}{
		{"missing fields", map[string]any{"sessionId": sess.ID}, http.StatusBadRequest},
		{"unknown type", map[string]any{
			"sessionId": sess.ID, "type": "mind_reading", "severity": "low",
		}, http.StatusBadRequest},
		{"unknown severity", map[string]any{
			"sessionId": sess.ID, "type": "tab_switch", "severity": "extreme",
		}, http.StatusBadRequest},
		{"unknown session", map[string]any{
			"sessionId": "missing", "type": "tab_switch", "severity": "low",
		}, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := postJSON(t, ts.URL+"/api/proctoring/event", tc.body)
			defer resp.Body.Close()
			if resp.StatusCode != tc.want {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tc.want)
			}
		})
	}
}

func TestListEventsAndScoreEndpoints(t *testing.T) {
	ts, sessions, st := newTestServer(t)
	sess := seedActiveSession(t, sessions, st)

	for _, sev := range []string{"low", "critical"} {
		resp := postJSON(t, ts.URL+"/api/proctoring/event", map[string]any{
			"sessionId": sess.ID,
			"type":      "phone_detected",
			"severity":  sev,
		})
		resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status = %d", resp.StatusCode)
		}
	}

	listResp, err := http.Get(ts.URL + "/api/proctoring/" + sess.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	events := decodeJSON[[]EventResponse](t, listResp)
	if len(events) != 2 || events[0].Severity != "low" || events[1].Severity != "critical" {
		t.Fatalf("unexpected events: %+v", events)
	}

	scoreResp, err := http.Get(ts.URL + "/api/proctoring/" + sess.ID + "/score")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	score := decodeJSON[ScoreResponse](t, scoreResp)
	if score.Score != 78 || score.TotalEvents != 2 {
		t.Fatalf("unexpected score: %+v", score)
	}
	if score.Breakdown["low"] != 1 || score.Breakdown["critical"] != 1 {
		t.Fatalf("unexpected breakdown: %+v", score.Breakdown)
	}

	missing, err := http.Get(ts.URL + "/api/proctoring/missing/score")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d", missing.StatusCode)
	}
}

func TestVerifyIdentityEndpointUnavailable(t *testing.T) {
	// The test server has no verifier configured.
	ts, sessions, st := newTestServer(t)
	sess := seedActiveSession(t, sessions, st)

	resp := postJSON(t, ts.URL+"/api/proctoring/verify-identity", map[string]any{
		"sessionId": sess.ID,
		"userId":    "user-9",
		"image":     "frame",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestDashboardSessionsEndpoint(t *testing.T) {
	ts, sessions, st := newTestServer(t)
	sess := seedActiveSession(t, sessions, st)

	resp := postJSON(t, ts.URL+"/api/proctoring/event", map[string]any{
		"sessionId": sess.ID,
		"type":      "fullscreen_exit",
		"severity":  "high",
	})
	resp.Body.Close()

	dashResp, err := http.Get(ts.URL + "/api/proctoring/dashboard/sessions")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	summaries := decodeJSON[[]SessionSummaryResponse](t, dashResp)
	if len(summaries) != 1 {
		t.Fatalf("expected one summary, got %d", len(summaries))
	}
	s := summaries[0]
	if s.SessionID != sess.ID || s.Score != 90 || s.TotalEvents != 1 {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if len(s.RecentEvents) != 1 || s.RecentEvents[0].Type != "fullscreen_exit" {
		t.Fatalf("unexpected recent events: %+v", s.RecentEvents)
	}
}
