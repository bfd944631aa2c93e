package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mesaverdecleaning/site/internal/config"
	"github.com/mesaverdecleaning/site/internal/metrics"

	"go.opentelemetry.io/otel"
)

const tracerName = "github.com/mesaverdecleaning/site/internal/service"

// RecaptchaService verifies reCAPTCHA v3 tokens. Every failure, including a
// missing secret or an unreachable provider, rejects the token.
type RecaptchaService struct {
	secretKey      string
	verifyURL      string
	minScore       float64
	expectedAction string
	client         *http.Client
}

// NewRecaptchaService creates a new reCAPTCHA service
func NewRecaptchaService(cfg config.RecaptchaConfig, timeout time.Duration) *RecaptchaService {
	return &RecaptchaService{
		secretKey:      cfg.SecretKey,
		verifyURL:      cfg.VerifyURL,
		minScore:       cfg.MinScore,
		expectedAction: cfg.ExpectedAction,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// recaptchaResponse represents the response from Google's reCAPTCHA API
type recaptchaResponse struct {
	Success     bool     `json:"success"`
	Score       float64  `json:"score"`
	Action      string   `json:"action"`
	ChallengeTS string   `json:"challenge_ts"`
	Hostname    string   `json:"hostname"`
	ErrorCodes  []string `json:"error-codes,omitempty"`
}

// VerifyToken verifies a reCAPTCHA token. The returned error, when present,
// wraps ErrVerification and explains the rejection.
func (s *RecaptchaService) VerifyToken(ctx context.Context, token string) (bool, error) {
	if s.secretKey == "" {
		return false, fmt.Errorf("%w: reCAPTCHA secret key not configured", ErrVerification)
	}

	if token == "" {
		return false, fmt.Errorf("%w: reCAPTCHA token is required", ErrVerification)
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "recaptcha.verify")
	defer span.End()

	start := time.Now()
	result, err := s.siteVerify(ctx, token)
	metrics.RecordOutboundCall("recaptcha", err, time.Since(start))
	if err != nil {
		span.RecordError(err)
		return false, err
	}

	if !result.Success {
		return false, fmt.Errorf("%w: reCAPTCHA rejected token: %v", ErrVerification, result.ErrorCodes)
	}

	if result.Score < s.minScore {
		return false, fmt.Errorf("%w: reCAPTCHA score too low: %.2f < %.2f", ErrVerification, result.Score, s.minScore)
	}

	if s.expectedAction != "" && result.Action != s.expectedAction {
		return false, fmt.Errorf("%w: unexpected reCAPTCHA action %q", ErrVerification, result.Action)
	}

	return true, nil
}

func (s *RecaptchaService) siteVerify(ctx context.Context, token string) (*recaptchaResponse, error) {
	data := url.Values{}
	data.Set("secret", s.secretKey)
	data.Set("response", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.verifyURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build request: %v", ErrVerification, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to verify reCAPTCHA: %v", ErrVerification, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: reCAPTCHA API returned status %d", ErrVerification, resp.StatusCode)
	}

	var result recaptchaResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: failed to parse reCAPTCHA response: %v", ErrVerification, err)
	}

	return &result, nil
}
