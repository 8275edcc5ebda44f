package translator

import (
	"fmt"
	"time"
)

// DefaultAPIURL is the fixed translateHtml endpoint.
const DefaultAPIURL = "https://translate-pa.googleapis.com/v1/translateHtml"

// Protocol headers the endpoint checks. They are constants, not secrets.
const (
	headerAPIKey      = "x-goog-api-key"
	contentType       = "application/json+protobuf"
	originMarker      = "https://translatesubtitles.co"
	browserValidation = "KqmDAG1DH9OIy1zCqHPuTzvnaBc="
	browserYear       = "2026"
	browserChannel    = "stable"
)

// Config holds the client configuration.
// APIKey is only used for calls that do not carry their own key.
type Config struct {
	APIKey  string
	APIURL  string
	Timeout time.Duration
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("API URL is required")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	return nil
}

// GetHeaders returns the headers of a translate request made with apiKey,
// falling back to the configured key when apiKey is empty.
func (c *Config) GetHeaders(apiKey string) map[string]string {
	if apiKey == "" {
		apiKey = c.APIKey
	}
	return map[string]string{
		headerAPIKey:           apiKey,
		"content-type":         contentType,
		"origin":               originMarker,
		"x-browser-validation": browserValidation,
		"x-browser-year":       browserYear,
		"x-browser-channel":    browserChannel,
	}
}
