package verifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestVerifySuccess(t *testing.T) {
	var got verifyRequest
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/verify" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(Result{Verified: true, Score: 0.97, Liveness: true})
	}))
	defer backend.Close()

	v := NewHTTP(backend.URL, time.Second)
	result, err := v.Verify(context.Background(), "sess-1", "user-9", "frame")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !result.Verified || result.Score != 0.97 || !result.Liveness {
		t.Fatalf("unexpected result: %+v", result)
	}
	if got.SessionID != "sess-1" || got.UserID != "user-9" || got.Image != "frame" {
		t.Fatalf("unexpected request body: %+v", got)
	}
}

func TestVerifyServerErrorIsUnavailable(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer backend.Close()

	v := NewHTTP(backend.URL, time.Second)
	if _, err := v.Verify(context.Background(), "s", "u", "i"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestVerifyTransportErrorIsUnavailable(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	backend.Close() // nothing is listening anymore

	v := NewHTTP(backend.URL, time.Second)
	if _, err := v.Verify(context.Background(), "s", "u", "i"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestVerifyRejectionIsNotUnavailable(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer backend.Close()

	v := NewHTTP(backend.URL, time.Second)
	_, err := v.Verify(context.Background(), "s", "u", "i")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrUnavailable) {
		t.Fatalf("rejection must not map to ErrUnavailable: %v", err)
	}
}
