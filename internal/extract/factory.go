package extract

import (
	"fmt"
	"strings"
)

// NewClient creates an extraction client based on the provided configuration.
func NewClient(cfg Config) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "gemini":
		return newGeminiClient(cfg)
	case "relay":
		return newRelayClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported extraction provider: %s", cfg.Provider)
	}
}
