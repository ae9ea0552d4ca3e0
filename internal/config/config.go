package config

import (
	"errors"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	DB struct {
		// Empty DSN runs the API on the in-memory store.
		DSN string `yaml:"dsn"`
	} `yaml:"db"`
	Gateway struct {
		BaseURL     string `yaml:"base_url"`
		KeyID       string `yaml:"key_id"`
		Secret      string `yaml:"secret"`
		CallbackURL string `yaml:"callback_url"`
	} `yaml:"gateway"`
	Payment struct {
		AmountCents     int64  `yaml:"amount_cents"`
		Currency        string `yaml:"currency"`
		SourceAmount    string `yaml:"source_amount"`
		TerminalID      string `yaml:"terminal_id"`
		MerchantID      string `yaml:"merchant_id"`
		InstitutionCode string `yaml:"institution_code"`
	} `yaml:"payment"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(&cfg)

	if cfg.Server.Addr == "" {
		return nil, errors.New("server.addr is required")
	}
	if cfg.Gateway.BaseURL == "" {
		return nil, errors.New("gateway.base_url is required")
	}
	if cfg.Gateway.KeyID == "" || cfg.Gateway.Secret == "" {
		return nil, errors.New("gateway credentials are required")
	}
	if cfg.Gateway.CallbackURL == "" {
		return nil, errors.New("gateway.callback_url is required")
	}
	if cfg.Payment.AmountCents <= 0 {
		return nil, errors.New("payment.amount_cents must be positive")
	}
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("DB_DSN"); v != "" {
		cfg.DB.DSN = v
	}
	if v := os.Getenv("NETS_BASE_URL"); v != "" {
		cfg.Gateway.BaseURL = v
	}
	if v := os.Getenv("NETS_KEY_ID"); v != "" {
		cfg.Gateway.KeyID = v
	}
	if v := os.Getenv("NETS_SECRET"); v != "" {
		cfg.Gateway.Secret = v
	}
	if v := os.Getenv("NETS_CALLBACK_URL"); v != "" {
		cfg.Gateway.CallbackURL = v
	}
	if v := os.Getenv("PAYMENT_AMOUNT_CENTS"); v != "" {
		cfg.Payment.AmountCents = atoi64Or(cfg.Payment.AmountCents, v)
	}
	if v := os.Getenv("PAYMENT_CURRENCY"); v != "" {
		cfg.Payment.Currency = v
	}
	if v := os.Getenv("PAYMENT_SOURCE_AMOUNT"); v != "" {
		cfg.Payment.SourceAmount = v
	}
	if v := os.Getenv("TERMINAL_ID"); v != "" {
		cfg.Payment.TerminalID = v
	}
	if v := os.Getenv("MERCHANT_ID"); v != "" {
		cfg.Payment.MerchantID = v
	}
	if v := os.Getenv("INSTITUTION_CODE"); v != "" {
		cfg.Payment.InstitutionCode = v
	}
}

func atoi64Or(fallback int64, v string) int64 {
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return i
}
