package config

import "evault/core"

const (
	defaultLocation    = "UTC"
	defaultAccrualSpec = "@every 1m"
	defaultOracleTTL   = 60
)

func defaults(cfg *core.Config) {
	if cfg.App.Location == "" {
		cfg.App.Location = defaultLocation
	}

	if cfg.Worker.AccrualSpec == "" {
		cfg.Worker.AccrualSpec = defaultAccrualSpec
	}

	if cfg.Oracle.EndPoint != "" && cfg.Oracle.TTLSeconds <= 0 {
		cfg.Oracle.TTLSeconds = defaultOracleTTL
	}
}
