package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/deganai/yield-pool-watcher/internal/metrics"
	"github.com/deganai/yield-pool-watcher/internal/x402"
)

// PaymentVerifier settles an X-Payment proof for a resource URL.
type PaymentVerifier interface {
	Verify(ctx context.Context, paymentHeader, resourceURL string) error
}

// Payment gates paid entrypoints behind x402 verification. Only POSTs
// under /entrypoints/ are charged; discovery GETs, health checks, and
// .well-known metadata pass through. freeMode disables the gate
// entirely for local development.
func Payment(verifier PaymentVerifier, payTo, baseURL string, freeMode bool, logger *slog.Logger) func(http.Handler) http.Handler {
	skipPrefixes := []string{"/health", "/.well-known", "/metrics", "/docs"}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if freeMode {
				next.ServeHTTP(w, r)
				return
			}

			path := r.URL.Path
			if path == "/" || hasAnyPrefix(path, skipPrefixes) {
				next.ServeHTTP(w, r)
				return
			}

			if r.Method != http.MethodPost || !strings.Contains(path, "/entrypoints/") {
				next.ServeHTTP(w, r)
				return
			}

			resource := baseURL + r.URL.RequestURI()
			header := r.Header.Get("X-Payment")
			if header == "" {
				logger.Info("payment required", "path", path)
				metrics.PaymentVerificationsTotal.WithLabelValues("missing").Inc()
				writePaymentRequired(w, resource, payTo, "")
				return
			}

			if err := verifier.Verify(r.Context(), header, resource); err != nil {
				logger.Warn("payment verification failed", "path", path, "error", err)
				metrics.PaymentVerificationsTotal.WithLabelValues("rejected").Inc()
				writePaymentRequired(w, resource, payTo, err.Error())
				return
			}

			metrics.PaymentVerificationsTotal.WithLabelValues("verified").Inc()
			next.ServeHTTP(w, r)
		})
	}
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// writePaymentRequired emits the 402 payload: the accepts list always,
// plus error details when a proof was supplied but rejected.
func writePaymentRequired(w http.ResponseWriter, resource, payTo, verifyErr string) {
	body := map[string]any{
		"x402Version": 1,
		"accepts": []x402.Requirements{
			x402.RequirementsFor(resource, "Payment required to access this resource", payTo),
		},
	}
	if verifyErr != "" {
		body["error"] = "Payment verification failed"
		body["message"] = verifyErr
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusPaymentRequired)
	_ = json.NewEncoder(w).Encode(body)
}
