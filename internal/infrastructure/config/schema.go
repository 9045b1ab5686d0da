package config

import "time"

// Config represents the complete configuration for pipewin.
type Config struct {
	// Pipe describes the command FIFO and its control channel.
	Pipe PipeConfig `mapstructure:"pipe" yaml:"pipe" toml:"pipe" json:"pipe"`
	// Helper is the external program run once per command line.
	Helper HelperConfig `mapstructure:"helper" yaml:"helper" toml:"helper" json:"helper"`
	// Orchestrator controls window reuse and payload delivery.
	Orchestrator OrchestratorConfig `mapstructure:"orchestrator" yaml:"orchestrator" toml:"orchestrator" json:"orchestrator"`
	Window       WindowConfig       `mapstructure:"window" yaml:"window" toml:"window" json:"window"`
	// Journal records every processed command in SQLite.
	Journal JournalConfig `mapstructure:"journal" yaml:"journal" toml:"journal" json:"journal"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging" toml:"logging" json:"logging"`
}

// InvalidUTF8Policy decides what happens to pipe lines that are not valid UTF-8.
type InvalidUTF8Policy string

const (
	InvalidUTF8Drop    InvalidUTF8Policy = "drop"
	InvalidUTF8Replace InvalidUTF8Policy = "replace"
)

// PayloadEnvelope selects the shape of the event payload sent to windows.
type PayloadEnvelope string

const (
	// PayloadEnvelopeRaw forwards the helper stdout verbatim.
	PayloadEnvelopeRaw PayloadEnvelope = "raw"
	// PayloadEnvelopeMessage wraps the helper stdout as {"message": "<stdout>"}.
	PayloadEnvelopeMessage PayloadEnvelope = "message"
)

type PipeConfig struct {
	// Path of the command FIFO. Created with mkfifo when missing.
	Path string `mapstructure:"path" yaml:"path" toml:"path" json:"path"`
	// ControlPath receives the "quit" sentinel on shutdown. Defaults to <path>.control.
	ControlPath  string            `mapstructure:"control_path" yaml:"control_path" toml:"control_path" json:"control_path"`
	InvalidUTF8  InvalidUTF8Policy `mapstructure:"invalid_utf8" yaml:"invalid_utf8" toml:"invalid_utf8" json:"invalid_utf8" jsonschema:"enum=drop,enum=replace"`
	ReopenOnEOF  bool              `mapstructure:"reopen_on_eof" yaml:"reopen_on_eof" toml:"reopen_on_eof" json:"reopen_on_eof"`
	MaxLineBytes int               `mapstructure:"max_line_bytes" yaml:"max_line_bytes" toml:"max_line_bytes" json:"max_line_bytes"`
}

type HelperConfig struct {
	Command string   `mapstructure:"command" yaml:"command" toml:"command" json:"command"`
	Args    []string `mapstructure:"args" yaml:"args" toml:"args" json:"args"`
	// Timeout bounds a single helper run. Zero disables the limit.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout" toml:"timeout" json:"timeout"`
	WorkDir string        `mapstructure:"work_dir" yaml:"work_dir" toml:"work_dir" json:"work_dir"`
}

type OrchestratorConfig struct {
	ReadyEvent    string `mapstructure:"ready_event" yaml:"ready_event" toml:"ready_event" json:"ready_event"`
	PayloadEvent  string `mapstructure:"payload_event" yaml:"payload_event" toml:"payload_event" json:"payload_event"`
	DefaultTarget string `mapstructure:"default_target" yaml:"default_target" toml:"default_target" json:"default_target"`
	// DeliverWhenMounted emits immediately to windows whose content already signalled ready.
	DeliverWhenMounted bool            `mapstructure:"deliver_when_mounted" yaml:"deliver_when_mounted" toml:"deliver_when_mounted" json:"deliver_when_mounted"`
	PayloadEnvelope    PayloadEnvelope `mapstructure:"payload_envelope" yaml:"payload_envelope" toml:"payload_envelope" json:"payload_envelope" jsonschema:"enum=raw,enum=message"`
}

type WindowConfig struct {
	// BaseURL is joined with relative navigation targets such as "/foo".
	BaseURL        string `mapstructure:"base_url" yaml:"base_url" toml:"base_url" json:"base_url"`
	Title          string `mapstructure:"title" yaml:"title" toml:"title" json:"title"`
	Width          int    `mapstructure:"width" yaml:"width" toml:"width" json:"width"`
	Height         int    `mapstructure:"height" yaml:"height" toml:"height" json:"height"`
	EnableDevTools bool   `mapstructure:"enable_devtools" yaml:"enable_devtools" toml:"enable_devtools" json:"enable_devtools"`
}

type JournalConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled" toml:"enabled" json:"enabled"`
	// Path is set dynamically in Load() when empty.
	Path       string `mapstructure:"path" yaml:"path" toml:"path" json:"path"`
	MaxEntries int    `mapstructure:"max_entries" yaml:"max_entries" toml:"max_entries" json:"max_entries"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level" toml:"level" json:"level"`
	Format string `mapstructure:"format" yaml:"format" toml:"format" json:"format"`

	// File output configuration
	LogDir        string `mapstructure:"log_dir" yaml:"log_dir" toml:"log_dir" json:"log_dir"`
	EnableFileLog bool   `mapstructure:"enable_file_log" yaml:"enable_file_log" toml:"enable_file_log" json:"enable_file_log"`
	MaxSizeMB     int    `mapstructure:"max_size_mb" yaml:"max_size_mb" toml:"max_size_mb" json:"max_size_mb"`
	MaxBackups    int    `mapstructure:"max_backups" yaml:"max_backups" toml:"max_backups" json:"max_backups"`
	MaxAgeDays    int    `mapstructure:"max_age_days" yaml:"max_age_days" toml:"max_age_days" json:"max_age_days"`
}
