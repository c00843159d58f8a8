package config

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	infisical "github.com/infisical/go-sdk"
)

type Config struct {
	Port           string
	BaseURL        string
	DatabaseURL    string
	RedisURL       string
	RedisPassword  string
	PaymentAddress string
	Facilitators   []string
	FreeMode       bool
	FrontendOrigin string
	RPCURLs        map[int]string
}

func Load() Config {
	cfg := Config{
		Port:           envOr("PORT", "8080"),
		BaseURL:        envOr("BASE_URL", "https://yield-pool-watcher-production.up.railway.app"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       envOr("REDIS_URL", "redis://redis-master.redis.svc.cluster.local:6379/0"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		PaymentAddress: os.Getenv("PAYMENT_ADDRESS"),
		FreeMode:       strings.EqualFold(os.Getenv("FREE_MODE"), "true"),
		FrontendOrigin: envOr("FRONTEND_ORIGIN", "*"),
		RPCURLs:        rpcURLs(),
	}

	if v := os.Getenv("FACILITATOR_URLS"); v != "" {
		for _, u := range strings.Split(v, ",") {
			if u = strings.TrimSpace(u); u != "" {
				cfg.Facilitators = append(cfg.Facilitators, u)
			}
		}
	}

	// If Infisical credentials are available, fetch secrets from Infisical
	clientID := os.Getenv("INFISICAL_CLIENT_ID")
	clientSecret := os.Getenv("INFISICAL_CLIENT_SECRET")
	if clientID != "" && clientSecret != "" {
		loadFromInfisical(&cfg, clientID, clientSecret)
	}

	if cfg.PaymentAddress == "" {
		cfg.PaymentAddress = "0x01D11F7e1a46AbFC6092d7be484895D2d505095c"
	}

	return cfg
}

// rpcURLs maps chain ID to RPC endpoint, with public llamarpc defaults
// overridable per chain.
func rpcURLs() map[int]string {
	return map[int]string{
		1:     envOr("ETHEREUM_RPC_URL", "https://eth.llamarpc.com"),
		137:   envOr("POLYGON_RPC_URL", "https://polygon.llamarpc.com"),
		42161: envOr("ARBITRUM_RPC_URL", "https://arbitrum.llamarpc.com"),
		10:    envOr("OPTIMISM_RPC_URL", "https://optimism.llamarpc.com"),
		8453:  envOr("BASE_RPC_URL", "https://base.llamarpc.com"),
		56:    envOr("BSC_RPC_URL", "https://bsc.llamarpc.com"),
		43114: envOr("AVALANCHE_RPC_URL", "https://avalanche.llamarpc.com"),
	}
}

func loadFromInfisical(cfg *Config, clientID, clientSecret string) {
	siteURL := envOr("INFISICAL_SITE_URL",
		"http://infisical-infisical-standalone-infisical.infisical.svc.cluster.local:8080")
	projectID := os.Getenv("INFISICAL_PROJECT_ID")
	envSlug := envOr("INFISICAL_ENV", "prod")

	if projectID == "" {
		slog.Warn("INFISICAL_PROJECT_ID not set, skipping Infisical")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := infisical.NewInfisicalClient(ctx, infisical.Config{
		SiteUrl:          siteURL,
		AutoTokenRefresh: false,
	})

	_, err := client.Auth().UniversalAuthLogin(clientID, clientSecret)
	if err != nil {
		slog.Error("infisical auth failed", "error", err)
		return
	}

	secrets := map[string]*string{
		"DATABASE_URL":    &cfg.DatabaseURL,
		"REDIS_PASSWORD":  &cfg.RedisPassword,
		"PAYMENT_ADDRESS": &cfg.PaymentAddress,
	}

	for key, target := range secrets {
		if *target != "" {
			continue // env var already set, skip
		}
		secret, err := client.Secrets().Retrieve(infisical.RetrieveSecretOptions{
			SecretKey:   key,
			Environment: envSlug,
			ProjectID:   projectID,
			SecretPath:  "/",
		})
		if err != nil {
			slog.Warn("failed to retrieve secret from infisical", "key", key, "error", err)
			continue
		}
		*target = secret.SecretValue
		slog.Info("loaded secret from infisical", "key", key)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
