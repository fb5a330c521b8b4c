// internal/workers/payment/payment-confirmed/config.go
package paymentconfirmed

import "time"

type Config struct {
	Timeout       time.Duration
	WebhookSecret string
}

func LoadConfig(webhookSecret string) *Config {
	return &Config{
		Timeout:       30 * time.Second,
		WebhookSecret: webhookSecret,
	}
}
