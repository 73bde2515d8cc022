package revision

import "strings"

// CommandConfiguration captures configuration values for base revision resolution.
type CommandConfiguration struct {
	FallbackRevisions []string `mapstructure:"fallback_revisions"`
}

// DefaultCommandConfiguration provides baseline configuration values for base revision resolution.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		FallbackRevisions: append([]string(nil), DefaultFallbackRevisions...),
	}
}

// Sanitize trims configuration values without applying implicit defaults.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.FallbackRevisions = sanitizeRevisions(configuration.FallbackRevisions)
	return sanitized
}

func sanitizeRevisions(raw []string) []string {
	sanitized := make([]string, 0, len(raw))
	for _, candidate := range raw {
		trimmed := strings.TrimSpace(candidate)
		if len(trimmed) == 0 {
			continue
		}
		sanitized = append(sanitized, trimmed)
	}
	return sanitized
}
