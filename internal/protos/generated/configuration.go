package generated

import "strings"

// CommandConfiguration captures configuration values for the generated-file audit.
type CommandConfiguration struct {
	AuditSubtree string `mapstructure:"audit_subtree"`
}

// DefaultCommandConfiguration provides baseline configuration values for the audit.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{}
}

// Sanitize trims configuration values without applying implicit defaults.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.AuditSubtree = strings.TrimSpace(configuration.AuditSubtree)
	return sanitized
}
