package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	defaultPipeName        = "pipewin"
	defaultHelperCommand   = "./scripts/command.sh"
	defaultHelperTimeout   = 30 * time.Second
	defaultMaxLineBytes    = 1024 * 1024
	defaultReadyEvent      = "mounted"
	defaultPayloadEvent    = "cmd-args"
	defaultTarget          = "/"
	defaultBaseURL         = "http://localhost:1420"
	defaultWindowWidth     = 800
	defaultWindowHeight    = 600
	defaultJournalEntries  = 5000
	defaultLogMaxSizeMB    = 10
	defaultLogMaxBackups   = 3
	defaultLogMaxAgeDays   = 7
	controlSuffix          = ".control"
	defaultWindowTitleText = "pipewin"
)

// DefaultPipePath returns the default FIFO location under the temp directory.
func DefaultPipePath() string {
	return filepath.Join(os.TempDir(), defaultPipeName)
}

// ControlPathFor derives the control channel path from the pipe path.
func ControlPathFor(pipePath string) string {
	return pipePath + controlSuffix
}

func getDefaultLogDir() string {
	logDir, err := GetLogDir()
	if err != nil {
		return ""
	}
	return logDir
}

// DefaultConfig returns the default configuration values for pipewin.
func DefaultConfig() *Config {
	pipePath := DefaultPipePath()
	return &Config{
		Pipe: PipeConfig{
			Path:         pipePath,
			ControlPath:  ControlPathFor(pipePath),
			InvalidUTF8:  InvalidUTF8Drop,
			ReopenOnEOF:  false,
			MaxLineBytes: defaultMaxLineBytes,
		},
		Helper: HelperConfig{
			Command: defaultHelperCommand,
			Args:    []string{},
			Timeout: defaultHelperTimeout,
		},
		Orchestrator: OrchestratorConfig{
			ReadyEvent:      defaultReadyEvent,
			PayloadEvent:    defaultPayloadEvent,
			DefaultTarget:   defaultTarget,
			PayloadEnvelope: PayloadEnvelopeRaw,
		},
		Window: WindowConfig{
			BaseURL: defaultBaseURL,
			Title:   defaultWindowTitleText,
			Width:   defaultWindowWidth,
			Height:  defaultWindowHeight,
		},
		Journal: JournalConfig{
			Enabled: true,
			// Path is set dynamically in Load()
			MaxEntries: defaultJournalEntries,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			LogDir:     getDefaultLogDir(),
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
			MaxAgeDays: defaultLogMaxAgeDays,
		},
	}
}
