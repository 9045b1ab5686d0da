package config

import (
	"fmt"
	"net/url"
	"strings"
)

// validateConfig collects every invalid value and reports them together.
func validateConfig(config *Config) error {
	var validationErrors []string

	validationErrors = append(validationErrors, validatePipe(config)...)
	validationErrors = append(validationErrors, validateHelper(config)...)
	validationErrors = append(validationErrors, validateOrchestrator(config)...)
	validationErrors = append(validationErrors, validateWindow(config)...)
	validationErrors = append(validationErrors, validateJournal(config)...)
	validationErrors = append(validationErrors, validateLogging(config)...)

	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}

	return nil
}

func validatePipe(config *Config) []string {
	var validationErrors []string
	if config.Pipe.Path == config.Pipe.ControlPath {
		validationErrors = append(validationErrors, "pipe.control_path must differ from pipe.path")
	}
	switch config.Pipe.InvalidUTF8 {
	case InvalidUTF8Drop, InvalidUTF8Replace:
	default:
		validationErrors = append(validationErrors,
			fmt.Sprintf("pipe.invalid_utf8 must be one of: drop, replace (got: %s)", config.Pipe.InvalidUTF8))
	}
	if config.Pipe.MaxLineBytes < 0 {
		validationErrors = append(validationErrors, "pipe.max_line_bytes must be non-negative")
	}
	return validationErrors
}

func validateHelper(config *Config) []string {
	var validationErrors []string
	if strings.TrimSpace(config.Helper.Command) == "" {
		validationErrors = append(validationErrors, "helper.command must not be empty")
	}
	if config.Helper.Timeout < 0 {
		validationErrors = append(validationErrors, "helper.timeout must be non-negative (0 disables the limit)")
	}
	return validationErrors
}

func validateOrchestrator(config *Config) []string {
	var validationErrors []string
	if strings.TrimSpace(config.Orchestrator.ReadyEvent) == "" {
		validationErrors = append(validationErrors, "orchestrator.ready_event must not be empty")
	}
	if strings.TrimSpace(config.Orchestrator.PayloadEvent) == "" {
		validationErrors = append(validationErrors, "orchestrator.payload_event must not be empty")
	}
	if config.Orchestrator.ReadyEvent != "" && config.Orchestrator.ReadyEvent == config.Orchestrator.PayloadEvent {
		validationErrors = append(validationErrors, "orchestrator.ready_event and orchestrator.payload_event must differ")
	}
	if !isEventName(config.Orchestrator.ReadyEvent) || !isEventName(config.Orchestrator.PayloadEvent) {
		validationErrors = append(validationErrors, "orchestrator event names may only contain letters, digits, '-', '_' and ':'")
	}
	switch config.Orchestrator.PayloadEnvelope {
	case PayloadEnvelopeRaw, PayloadEnvelopeMessage:
	default:
		validationErrors = append(validationErrors,
			fmt.Sprintf("orchestrator.payload_envelope must be one of: raw, message (got: %s)", config.Orchestrator.PayloadEnvelope))
	}
	return validationErrors
}

func isEventName(name string) bool {
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == ':':
		default:
			return false
		}
	}
	return true
}

func validateWindow(config *Config) []string {
	var validationErrors []string
	if config.Window.BaseURL != "" {
		u, err := url.Parse(config.Window.BaseURL)
		if err != nil || u.Scheme == "" {
			validationErrors = append(validationErrors, "window.base_url must be an absolute URL")
		}
	}
	if config.Window.Width <= 0 || config.Window.Height <= 0 {
		validationErrors = append(validationErrors, "window.width and window.height must be positive")
	}
	return validationErrors
}

func validateJournal(config *Config) []string {
	if config.Journal.MaxEntries < 0 {
		return []string{"journal.max_entries must be non-negative"}
	}
	return nil
}

func validateLogging(config *Config) []string {
	var validationErrors []string
	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	if config.Logging.Level != "" && !validLevels[config.Logging.Level] {
		validationErrors = append(validationErrors,
			fmt.Sprintf("logging.level must be one of: trace, debug, info, warn, error (got: %s)", config.Logging.Level))
	}
	if config.Logging.Format != "" && config.Logging.Format != "json" && config.Logging.Format != "console" {
		validationErrors = append(validationErrors,
			fmt.Sprintf("logging.format must be one of: json, console (got: %s)", config.Logging.Format))
	}
	if config.Logging.MaxSizeMB < 0 || config.Logging.MaxBackups < 0 || config.Logging.MaxAgeDays < 0 {
		validationErrors = append(validationErrors, "logging rotation limits must be non-negative")
	}
	return validationErrors
}
