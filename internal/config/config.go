package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	ServerPort string
	Env        string

	BankzClientID     string
	BankzClientSecret string
	BankzTimeout      time.Duration

	// Partner account ids surfaced on the linked-balances listing.
	LinkedPartnerAccounts []string
}

func Load() (*Config, error) {
	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	clientID := os.Getenv("BANKZ_CLIENT_ID")
	if clientID == "" {
		clientID = "mock-client-id"
	}

	clientSecret := os.Getenv("BANKZ_CLIENT_SECRET")
	if clientSecret == "" {
		clientSecret = "mock-client-secret"
	}

	timeout := 5 * time.Second
	if raw := os.Getenv("BANKZ_TIMEOUT"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid BANKZ_TIMEOUT: %w", err)
		}
		timeout = parsed
	}

	return &Config{
		ServerPort:            port,
		Env:                   env,
		BankzClientID:         clientID,
		BankzClientSecret:     clientSecret,
		BankzTimeout:          timeout,
		LinkedPartnerAccounts: []string{"bankz-acc-123", "bankz-acc-456"},
	}, nil
}
