package handler

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/deganai/yield-pool-watcher/internal/x402"
)

const (
	skillID          = "yield-pool-watcher"
	entrypointPath   = "/entrypoints/yield-pool-watcher/invoke"
	agentName        = "Yield Pool Watcher"
	agentDescription = "Track APY and TVL across DeFi pools and alert on sharp changes. " +
		"Monitor Uniswap, Aave, Curve, and more across 7 chains."
	skillDescription = "Monitor pool APY and TVL with configurable threshold alerts"
)

var watchInputSchema = map[string]any{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type":    "object",
	"properties": map[string]any{
		"protocol_ids": map[string]any{
			"description": "DeFi protocols to monitor",
			"type":        "array",
			"items":       map[string]any{"type": "string"},
		},
		"pools": map[string]any{
			"description": "Pool addresses to watch",
			"type":        "array",
			"items":       map[string]any{"type": "string"},
		},
		"chain": map[string]any{
			"description": "Target blockchain chain ID",
			"type":        "integer",
		},
		"threshold_rules": map[string]any{
			"description": "Alert threshold configuration",
			"type":        "array",
			"items":       map[string]any{"type": "object"},
		},
	},
	"required":             []string{"protocol_ids", "pools", "chain", "threshold_rules"},
	"additionalProperties": false,
}

var watchOutputSchema = map[string]any{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type":    "object",
	"properties": map[string]any{
		"pool_metrics": map[string]any{"type": "array"},
		"deltas":       map[string]any{"type": "array"},
		"alerts":       map[string]any{"type": "array"},
	},
	"required":             []string{"pool_metrics", "deltas", "alerts"},
	"additionalProperties": false,
}

// AgentCard handles GET /.well-known/agent.json: AP2 agent metadata,
// served with 200 unlike the x402 discovery endpoints.
func AgentCard(baseURL, paymentAddress string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		card := map[string]any{
			"name":        agentName,
			"description": agentDescription,
			"url":         strings.Replace(baseURL, "https://", "http://", 1) + "/",
			"version":     "1.0.0",
			"capabilities": map[string]any{
				"streaming":              false,
				"pushNotifications":      false,
				"stateTransitionHistory": true,
				"extensions": []map[string]any{
					{
						"uri":         "https://github.com/google-agentic-commerce/ap2/tree/v0.1",
						"description": "Agent Payments Protocol (AP2)",
						"required":    true,
						"params":      map[string]any{"roles": []string{"merchant"}},
					},
				},
			},
			"defaultInputModes":  []string{"application/json"},
			"defaultOutputModes": []string{"application/json", "text/plain"},
			"skills": []map[string]any{
				{
					"id":              skillID,
					"name":            skillID,
					"description":     skillDescription,
					"inputModes":      []string{"application/json"},
					"outputModes":     []string{"application/json"},
					"streaming":       false,
					"x_input_schema":  watchInputSchema,
					"x_output_schema": watchOutputSchema,
				},
			},
			"supportsAuthenticatedExtendedCard": false,
			"entrypoints": map[string]any{
				skillID: map[string]any{
					"description":   "Track APY and TVL across DeFi pools with real-time alerts",
					"streaming":     false,
					"input_schema":  watchInputSchema,
					"output_schema": watchOutputSchema,
					"pricing":       map[string]any{"invoke": "0.05 USDC"},
				},
			},
			"payments": []map[string]any{
				{
					"method":     "x402",
					"payee":      paymentAddress,
					"network":    "base",
					"endpoint":   x402.DefaultFacilitators[0],
					"priceModel": map[string]any{"default": "0.05"},
					"extensions": map[string]any{
						"x402": map[string]any{"facilitatorUrl": x402.DefaultFacilitators[0]},
					},
				},
			},
		}
		writeJSON(w, http.StatusOK, card)
	}
}

// X402Metadata handles GET /.well-known/x402. The 402 status is the
// protocol's discovery convention, not an error.
func X402Metadata(baseURL, paymentAddress string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusPaymentRequired, map[string]any{
			"x402Version": 1,
			"accepts": []x402.Requirements{
				x402.RequirementsFor(baseURL+entrypointPath, skillDescription, paymentAddress),
			},
		})
	}
}

// EntrypointDiscovery handles GET/HEAD on the paid entrypoint: a 402
// carrying the payment requirements plus I/O schemas for x402scan.
func EntrypointDiscovery(baseURL, paymentAddress string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		req := x402.RequirementsFor(baseURL+entrypointPath,
			"Yield Pool Watcher - Monitor pool APY and TVL with threshold alerts", paymentAddress)
		accepts := map[string]any{
			"scheme":            req.Scheme,
			"network":           req.Network,
			"maxAmountRequired": req.MaxAmountRequired,
			"resource":          req.Resource,
			"description":       req.Description,
			"mimeType":          req.MimeType,
			"payTo":             req.PayTo,
			"maxTimeoutSeconds": req.MaxTimeoutSeconds,
			"asset":             req.Asset,
			"inputSchema":       watchInputSchema,
			"outputSchema":      watchOutputSchema,
		}
		writeJSON(w, http.StatusPaymentRequired, map[string]any{
			"x402Version": 1,
			"accepts":     []map[string]any{accepts},
		})
	}
}

// EntrypointInvoke handles POST on the paid entrypoint. Payment is
// enforced by middleware before this runs; an empty body still gets
// the discovery 402 so agents can probe with a bare POST.
func EntrypointInvoke(watchHandler, discovery http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil || len(bytes.TrimSpace(body)) == 0 {
			discovery(w, r)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
		watchHandler(w, r)
	}
}
