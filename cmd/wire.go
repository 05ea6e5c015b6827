package cmd

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/viper"
	"github.com/walink/whatsapp-link-cli/internal/adapters/bridge/evolution"
	pairingrender "github.com/walink/whatsapp-link-cli/internal/adapters/render/pairing"
	tomlrecord "github.com/walink/whatsapp-link-cli/internal/adapters/record/toml"
	"github.com/walink/whatsapp-link-cli/internal/application"
	"github.com/walink/whatsapp-link-cli/internal/domain"
	"github.com/walink/whatsapp-link-cli/internal/ports"
)

type app struct {
	controller *application.Controller
	records    *tomlrecord.Store
	renderer   func(domain.Session, pairingrender.RenderOptions) (string, error)
	now        func() time.Time
}

func wireApp() (*app, error) {
	cfg := viper.New()

	records, err := tomlrecord.NewStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire instance record store: %w", err)
	}

	bridge := &evolution.Client{
		API: evolution.API{
			BaseURL: envOrDefault("WL_BRIDGE_URL", "http://localhost:8080"),
		},
		APIKey:     os.Getenv("WL_BRIDGE_API_KEY"),
		HTTPClient: http.DefaultClient,
	}

	controller := application.NewController(bridge, records, ports.SystemClock{}, pairingConfig(cfg))

	return &app{
		controller: controller,
		records:    records,
		renderer:   pairingrender.Render,
		now:        time.Now,
	}, nil
}

// pairingConfig maps the optional [pairing] section of ~/.walink/config.toml
// onto the orchestrator tunables. Unset keys read as zero and take the
// built-in defaults.
func pairingConfig(cfg *viper.Viper) application.Config {
	return application.Config{
		PollInterval:       cfg.GetDuration("pairing.poll_interval"),
		PollTimeout:        cfg.GetDuration("pairing.poll_timeout"),
		FailureThreshold:   cfg.GetInt("pairing.failure_threshold"),
		InitiateRetries:    cfg.GetInt("pairing.initiate_retries"),
		InitiateRetryDelay: cfg.GetDuration("pairing.initiate_retry_delay"),
		ConnectSettleDelay: cfg.GetDuration("pairing.connect_settle_delay"),
		EvictionGrace:      cfg.GetDuration("pairing.eviction_grace"),
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
