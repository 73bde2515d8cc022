package rebuild

import (
	"strings"

	"github.com/temirov/protoci/internal/protos/revision"
	"github.com/temirov/protoci/internal/protos/shared"
)

const (
	fallbackRevisionsConfigurationKeyConstant    = "fallback_revisions"
	protoDirectoryMarkerConfigurationKeyConstant = "proto_directory_marker"
	auditSubtreeConfigurationKeyConstant         = "audit_subtree"
	bindingsOutputConfigurationKeyConstant       = "bindings_output"
	stubsOutputConfigurationKeyConstant          = "stubs_output"
	configurationKeySeparatorConstant            = "."
	defaultOutputDirectoryConstant               = "."
)

// CommandConfiguration captures configuration values for the rebuild pipeline.
type CommandConfiguration struct {
	FallbackRevisions    []string `mapstructure:"fallback_revisions"`
	ProtoDirectoryMarker string   `mapstructure:"proto_directory_marker"`
	AuditSubtree         string   `mapstructure:"audit_subtree"`
	BindingsOutput       string   `mapstructure:"bindings_output"`
	StubsOutput          string   `mapstructure:"stubs_output"`
}

// DefaultCommandConfiguration provides baseline configuration values for the rebuild pipeline.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		FallbackRevisions:    append([]string(nil), revision.DefaultFallbackRevisions...),
		ProtoDirectoryMarker: shared.DefaultProtoDirectoryMarkerConstant,
		AuditSubtree:         shared.DefaultAuditSubtreeConstant,
		BindingsOutput:       defaultOutputDirectoryConstant,
		StubsOutput:          defaultOutputDirectoryConstant,
	}
}

// DefaultConfigurationValues produces Viper defaults for the rebuild pipeline.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + configurationKeySeparatorConstant + fallbackRevisionsConfigurationKeyConstant:    defaults.FallbackRevisions,
		rootKey + configurationKeySeparatorConstant + protoDirectoryMarkerConfigurationKeyConstant: defaults.ProtoDirectoryMarker,
		rootKey + configurationKeySeparatorConstant + auditSubtreeConfigurationKeyConstant:         defaults.AuditSubtree,
		rootKey + configurationKeySeparatorConstant + bindingsOutputConfigurationKeyConstant:       defaults.BindingsOutput,
		rootKey + configurationKeySeparatorConstant + stubsOutputConfigurationKeyConstant:          defaults.StubsOutput,
	}
}

// Sanitize trims configuration values without applying implicit defaults.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.FallbackRevisions = trimRevisions(configuration.FallbackRevisions)
	sanitized.ProtoDirectoryMarker = strings.TrimSpace(configuration.ProtoDirectoryMarker)
	sanitized.AuditSubtree = strings.TrimSpace(configuration.AuditSubtree)
	sanitized.BindingsOutput = strings.TrimSpace(configuration.BindingsOutput)
	sanitized.StubsOutput = strings.TrimSpace(configuration.StubsOutput)
	return sanitized
}

func trimRevisions(raw []string) []string {
	trimmed := make([]string, 0, len(raw))
	for _, candidate := range raw {
		trimmedCandidate := strings.TrimSpace(candidate)
		if len(trimmedCandidate) == 0 {
			continue
		}
		trimmed = append(trimmed, trimmedCandidate)
	}
	return trimmed
}
