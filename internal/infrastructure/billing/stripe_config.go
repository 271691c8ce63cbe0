package billing

import (
	"fmt"
	"strings"

	"github.com/storefront/backend/internal/infrastructure/config"
)

// ValidateStripeConfig checks the keys needed to charge customers
func ValidateStripeConfig(cfg config.StripeConfig) error {
	if cfg.SecretKey == "" {
		return fmt.Errorf("stripe: secret key is required")
	}
	if !strings.HasPrefix(cfg.SecretKey, "sk_") && !strings.HasPrefix(cfg.SecretKey, "rk_") {
		return fmt.Errorf("stripe: secret key must start with sk_ or rk_")
	}
	if cfg.PublishableKey != "" && IsTestKey(cfg.SecretKey) != IsTestKey(cfg.PublishableKey) {
		return fmt.Errorf("stripe: secret and publishable keys belong to different modes")
	}
	if cfg.Currency == "" {
		return fmt.Errorf("stripe: currency is required")
	}
	return nil
}

// IsTestKey reports whether a Stripe key belongs to test mode
func IsTestKey(key string) bool {
	return strings.Contains(key, "_test_")
}
