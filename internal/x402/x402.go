// Package x402 verifies micropayment proofs against x402 facilitators.
// Payment proofs arrive base64-encoded in the X-Payment header; the
// facilitator's /verify endpoint settles whether they satisfy the
// resource's payment requirements.
package x402

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// USDC on Base, 6 decimals.
const AssetUSDCBase = "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913"

// DefaultAmount is the price per paid invocation: 0.05 USDC in
// 6-decimal units, as a string per the x402 wire format.
const DefaultAmount = "50000"

// DefaultFacilitators are tried in order; the first success wins.
var DefaultFacilitators = []string{
	"https://facilitator.daydreams.systems",
	"https://api.cdp.coinbase.com/platform/v2/x402/facilitator",
}

// Requirements describes what a resource charges, in the shape both
// the facilitator /verify call and the 402 "accepts" list expect.
type Requirements struct {
	Scheme            string `json:"scheme"`
	Network           string `json:"network"`
	MaxAmountRequired string `json:"maxAmountRequired"`
	Resource          string `json:"resource"`
	Description       string `json:"description"`
	MimeType          string `json:"mimeType"`
	PayTo             string `json:"payTo"`
	MaxTimeoutSeconds int    `json:"maxTimeoutSeconds"`
	Asset             string `json:"asset"`
}

// RequirementsFor builds the standard requirements for one resource:
// exact-scheme USDC on Base paid to payTo.
func RequirementsFor(resource, description, payTo string) Requirements {
	return Requirements{
		Scheme:            "exact",
		Network:           "base",
		MaxAmountRequired: DefaultAmount,
		Resource:          resource,
		Description:       description,
		MimeType:          "application/json",
		PayTo:             payTo,
		MaxTimeoutSeconds: 30,
		Asset:             AssetUSDCBase,
	}
}

type verifyRequest struct {
	PaymentPayload  json.RawMessage `json:"paymentPayload"`
	PaymentRequired Requirements    `json:"paymentRequirements"`
}

type verifyResponse struct {
	IsValid       bool   `json:"isValid"`
	Payer         string `json:"payer"`
	InvalidReason string `json:"invalidReason"`
}

// Verifier checks payment proofs against an ordered facilitator list.
type Verifier struct {
	facilitators []string
	payTo        string
	client       *http.Client
	logger       *slog.Logger
}

func NewVerifier(facilitators []string, payTo string, logger *slog.Logger) *Verifier {
	if len(facilitators) == 0 {
		facilitators = DefaultFacilitators
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Verifier{
		facilitators: facilitators,
		payTo:        payTo,
		client:       &http.Client{Timeout: 10 * time.Second},
		logger:       logger,
	}
}

// Verify decodes the X-Payment header and settles it against each
// facilitator in order. Returns nil once any facilitator accepts; if
// all reject or fail, returns the last error.
func (v *Verifier) Verify(ctx context.Context, paymentHeader, resourceURL string) error {
	raw, err := base64.StdEncoding.DecodeString(paymentHeader)
	if err != nil {
		return fmt.Errorf("invalid payment header format: %w", err)
	}
	if !json.Valid(raw) {
		return fmt.Errorf("invalid payment header format: not JSON")
	}

	req := verifyRequest{
		PaymentPayload:  raw,
		PaymentRequired: RequirementsFor(resourceURL, "x402 micropayment", v.payTo),
	}
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal verify request: %w", err)
	}

	lastErr := fmt.Errorf("no facilitators configured")
	for _, facilitator := range v.facilitators {
		if err := v.verifyWith(ctx, facilitator, body); err != nil {
			v.logger.Debug("facilitator rejected payment", "facilitator", facilitator, "error", err)
			lastErr = err
			continue
		}
		return nil
	}
	v.logger.Warn("payment rejected by all facilitators", "error", lastErr)
	return lastErr
}

func (v *Verifier) verifyWith(ctx context.Context, facilitator string, body []byte) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, facilitator+"/verify", bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("facilitator unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("payment verification failed: %s", msg)
	}

	var result verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode facilitator response: %w", err)
	}
	if !result.IsValid {
		reason := result.InvalidReason
		if reason == "" {
			reason = "unknown reason"
		}
		return fmt.Errorf("payment invalid: %s", reason)
	}

	v.logger.Info("payment verified", "facilitator", facilitator, "payer", result.Payer)
	return nil
}
