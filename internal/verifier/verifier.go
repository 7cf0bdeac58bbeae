// Package verifier talks to the external face-verification service.
// The coordinator only relays verification requests and consumes the
// verdict; matching itself happens on the collaborator's side.
package verifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrUnavailable indicates the verification service could not be reached.
// Callers surface it distinctly from a "not verified" verdict.
var ErrUnavailable = errors.New("verifier unavailable")

// Result is the collaborator's verdict on a submitted frame.
type Result struct {
	Verified bool    `json:"verified"`
	Score    float64 `json:"score"`
	Liveness bool    `json:"liveness"`
}

// Verifier checks a captured frame against a user's reference identity.
type Verifier interface {
	Verify(ctx context.Context, sessionID, userID, image string) (Result, error)
}

// HTTPVerifier implements Verifier over the collaborator's JSON API.
type HTTPVerifier struct {
	baseURL string
	client  *http.Client
}

// NewHTTP builds a verifier client for the given base URL.
func NewHTTP(baseURL string, timeout time.Duration) *HTTPVerifier {
	return &HTTPVerifier{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type verifyRequest struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Image     string `json:"image"`
}

// Verify submits the frame and decodes the verdict. Transport failures and
// 5xx responses map to ErrUnavailable.
func (v *HTTPVerifier) Verify(ctx context.Context, sessionID, userID, image string) (Result, error) {
	body, err := json.Marshal(verifyRequest{SessionID: sessionID, UserID: userID, Image: image})
	if err != nil {
		return Result{}, fmt.Errorf("encode verify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL+"/verify", bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("build verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return Result{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("verify request rejected: status %d", resp.StatusCode)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Result{}, fmt.Errorf("decode verify response: %w", err)
	}
	return result, nil
}
