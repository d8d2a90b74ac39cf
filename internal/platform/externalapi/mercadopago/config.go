// Package mercadopago provides a client for the Mercado Pago Checkout Pro API.
package mercadopago

import (
	"os"
	"time"
)

// Config holds configuration for the Mercado Pago API client.
type Config struct {
	AccessToken string        // Access token for authentication
	BaseURL     string        // Base URL for the API (e.g., "https://api.mercadopago.com")
	BackURL     string        // URL the provider redirects to after payment
	Timeout     time.Duration // HTTP request timeout
}

// LoadConfig loads Mercado Pago configuration from environment variables.
func LoadConfig() Config {
	return Config{
		AccessToken: os.Getenv("MP_ACCESS_TOKEN"),
		BaseURL:     os.Getenv("MP_BASE_URL"),
		BackURL:     os.Getenv("MP_BACK_URL"),
		Timeout:     10 * time.Second,
	}
}
