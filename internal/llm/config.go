// Package llm holds the model client used for resume enhancement and the
// configuration for switching model tiers.
package llm

// ModelTier represents the capability level of a model
type ModelTier string

const (
	// TierLite is for cheap tasks: keyword extraction, summarization
	TierLite ModelTier = "lite"
	// TierStandard is for structured rewriting, the default for enhancement
	TierStandard ModelTier = "standard"
	// TierAdvanced is for full-resume rewrites against a target role
	TierAdvanced ModelTier = "advanced"
)

// Config maps model tiers to provider model names.
type Config struct {
	Models map[ModelTier]string
}

// DefaultConfig returns the default Gemini model mapping.
func DefaultConfig() *Config {
	return &Config{
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
}

// GetModel returns the model name for a tier, falling back to standard then
// lite when the tier has no mapping.
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}
