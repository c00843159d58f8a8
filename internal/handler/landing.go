package handler

import "net/http"

const landingHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Yield Pool Watcher</title>
  <style>
    body { font-family: -apple-system, sans-serif; max-width: 720px; margin: 40px auto; padding: 0 16px; color: #1a1a2e; }
    code { background: #f0f0f5; padding: 2px 6px; border-radius: 4px; }
    .method { font-weight: 700; margin-right: 8px; }
  </style>
</head>
<body>
  <h1>Yield Pool Watcher</h1>
  <p>Track APY and TVL across major DeFi pools and get alerted when metrics
  change beyond your configured thresholds. Supports Uniswap, SushiSwap,
  Aave, Curve, PancakeSwap, and TraderJoe across 7 chains.</p>
  <h2>Endpoints</h2>
  <p><span class="method">POST</span><code>/pools/watch</code> &mdash; monitor pools with threshold rules</p>
  <p><span class="method">GET</span><code>/protocols</code> &mdash; list supported protocols</p>
  <p><span class="method">GET</span><code>/health</code> &mdash; health check</p>
  <p><span class="method">GET</span><code>/.well-known/agent.json</code> &mdash; agent metadata (AP2)</p>
  <p>Paid access via the x402 protocol: <code>POST /entrypoints/yield-pool-watcher/invoke</code>
  (0.05 USDC on Base per call).</p>
</body>
</html>
`

// Landing handles GET / with a short human-readable index.
func Landing() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(landingHTML))
	}
}
