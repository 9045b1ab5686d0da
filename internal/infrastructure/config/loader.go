package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config     *Config
	viper      *viper.Viper
	mu         sync.RWMutex
	callbacks  []func(*Config)
	watching   bool
	configFile string
}

// NewManager creates a configuration manager reading $XDG_CONFIG_HOME/pipewin/config.toml.
func NewManager() (*Manager, error) {
	return newManager("")
}

// NewManagerAt creates a configuration manager bound to an explicit file path.
func NewManagerAt(configFile string) (*Manager, error) {
	if configFile == "" {
		return nil, errors.New("config file path is empty")
	}
	return newManager(configFile)
}

func newManager(configFile string) (*Manager, error) {
	v := viper.New()
	v.SetConfigType("toml")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		configDir, err := GetConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to determine config directory: %w\nCheck XDG_CONFIG_HOME environment variable or HOME directory", err)
		}
		v.AddConfigPath(configDir)
	}

	// PIPEWIN_PIPE_PATH, PIPEWIN_HELPER_TIMEOUT, ... map onto nested keys.
	v.SetEnvPrefix("PIPEWIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("logging.level", "PIPEWIN_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind PIPEWIN_LOG_LEVEL: %w", err)
	}
	if err := v.BindEnv("logging.format", "PIPEWIN_LOG_FORMAT"); err != nil {
		return nil, fmt.Errorf("failed to bind PIPEWIN_LOG_FORMAT: %w", err)
	}

	return &Manager{
		viper:      v,
		callbacks:  make([]func(*Config), 0),
		configFile: configFile,
	}, nil
}

// Load loads the configuration from file and environment variables.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.configFile == "" {
		if err := EnsureDirectories(); err != nil {
			return fmt.Errorf("failed to ensure directories: %w", err)
		}
	}

	m.setDefaults()

	if err := m.readConfigFile(); err != nil {
		return err
	}

	config, err := m.decode()
	if err != nil {
		return err
	}
	m.config = config
	return nil
}

func (m *Manager) readConfigFile() error {
	err := m.viper.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read config file at %s: %w\nCheck the file format (must be valid TOML) and permissions", m.resolveConfigFile(), err)
	}

	if createErr := m.createDefaultConfig(); createErr != nil {
		return fmt.Errorf("failed to create default config at %s: %w\nTry creating the directory manually or check permissions", m.resolveConfigFile(), createErr)
	}
	if rereadErr := m.viper.ReadInConfig(); rereadErr != nil {
		return fmt.Errorf("failed to read newly created config file: %w", rereadErr)
	}
	return nil
}

// decode unmarshals, fills derived values, normalizes and validates.
func (m *Manager) decode() (*Config, error) {
	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf(
			"failed to parse config file at %s: %w\nCheck for syntax errors, invalid values, or type mismatches",
			m.viper.ConfigFileUsed(),
			err,
		)
	}
	if err := ensureJournalPath(config); err != nil {
		return nil, err
	}
	normalizeConfig(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

func ensureJournalPath(config *Config) error {
	if config.Journal.Path != "" {
		return nil
	}
	path, err := GetJournalFile()
	if err != nil {
		return fmt.Errorf("failed to get journal path: %w", err)
	}
	config.Journal.Path = path
	return nil
}

func normalizeConfig(config *Config) {
	config.Pipe.Path = strings.TrimSpace(config.Pipe.Path)
	if config.Pipe.Path == "" {
		config.Pipe.Path = DefaultPipePath()
	}
	config.Pipe.ControlPath = strings.TrimSpace(config.Pipe.ControlPath)
	if config.Pipe.ControlPath == "" {
		config.Pipe.ControlPath = ControlPathFor(config.Pipe.Path)
	}

	switch InvalidUTF8Policy(strings.ToLower(string(config.Pipe.InvalidUTF8))) {
	case "", InvalidUTF8Drop:
		config.Pipe.InvalidUTF8 = InvalidUTF8Drop
	case InvalidUTF8Replace:
		config.Pipe.InvalidUTF8 = InvalidUTF8Replace
	}

	switch PayloadEnvelope(strings.ToLower(string(config.Orchestrator.PayloadEnvelope))) {
	case "", PayloadEnvelopeRaw:
		config.Orchestrator.PayloadEnvelope = PayloadEnvelopeRaw
	case PayloadEnvelopeMessage:
		config.Orchestrator.PayloadEnvelope = PayloadEnvelopeMessage
	}

	if strings.TrimSpace(config.Orchestrator.DefaultTarget) == "" {
		config.Orchestrator.DefaultTarget = defaultTarget
	}
	config.Logging.Level = strings.ToLower(strings.TrimSpace(config.Logging.Level))
	config.Logging.Format = strings.ToLower(strings.TrimSpace(config.Logging.Format))
}

// Get returns the current configuration (thread-safe).
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return DefaultConfig()
	}
	return cloneConfig(m.config)
}

// GetConfigFile returns the path to the configuration file being used.
func (m *Manager) GetConfigFile() string {
	return m.viper.ConfigFileUsed()
}

func (m *Manager) resolveConfigFile() string {
	if m.configFile != "" {
		return m.configFile
	}
	if used := m.viper.ConfigFileUsed(); used != "" {
		return used
	}
	path, _ := GetConfigFile()
	return path
}

// createDefaultConfig creates a default configuration file.
func (m *Manager) createDefaultConfig() error {
	configFile := m.resolveConfigFile()
	if configFile == "" {
		return errors.New("could not resolve config file path")
	}

	if err := os.MkdirAll(filepath.Dir(configFile), dirPerm); err != nil {
		return err
	}

	m.viper.SetConfigType("toml")
	if err := m.viper.SafeWriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if m.configFile == "" {
		m.viper.SetConfigFile(configFile)
	}

	fmt.Fprintf(os.Stderr, "Created default configuration file: %s (TOML format)\n", configFile)
	return nil
}

// setDefaults sets default configuration values in Viper.
func (m *Manager) setDefaults() {
	defaults := DefaultConfig()

	m.setPipeDefaults(defaults)
	m.setHelperDefaults(defaults)
	m.setOrchestratorDefaults(defaults)
	m.setWindowDefaults(defaults)
	m.setJournalDefaults(defaults)
	m.setLoggingDefaults(defaults)
}

func (m *Manager) setPipeDefaults(defaults *Config) {
	m.viper.SetDefault("pipe.path", defaults.Pipe.Path)
	// Derived from pipe.path in normalizeConfig when left empty.
	m.viper.SetDefault("pipe.control_path", "")
	m.viper.SetDefault("pipe.invalid_utf8", string(defaults.Pipe.InvalidUTF8))
	m.viper.SetDefault("pipe.reopen_on_eof", defaults.Pipe.ReopenOnEOF)
	m.viper.SetDefault("pipe.max_line_bytes", defaults.Pipe.MaxLineBytes)
}

func (m *Manager) setHelperDefaults(defaults *Config) {
	m.viper.SetDefault("helper.command", defaults.Helper.Command)
	m.viper.SetDefault("helper.args", defaults.Helper.Args)
	m.viper.SetDefault("helper.timeout", defaults.Helper.Timeout.String())
	m.viper.SetDefault("helper.work_dir", defaults.Helper.WorkDir)
}

func (m *Manager) setOrchestratorDefaults(defaults *Config) {
	m.viper.SetDefault("orchestrator.ready_event", defaults.Orchestrator.ReadyEvent)
	m.viper.SetDefault("orchestrator.payload_event", defaults.Orchestrator.PayloadEvent)
	m.viper.SetDefault("orchestrator.default_target", defaults.Orchestrator.DefaultTarget)
	m.viper.SetDefault("orchestrator.deliver_when_mounted", defaults.Orchestrator.DeliverWhenMounted)
	m.viper.SetDefault("orchestrator.payload_envelope", string(defaults.Orchestrator.PayloadEnvelope))
}

func (m *Manager) setWindowDefaults(defaults *Config) {
	m.viper.SetDefault("window.base_url", defaults.Window.BaseURL)
	m.viper.SetDefault("window.title", defaults.Window.Title)
	m.viper.SetDefault("window.width", defaults.Window.Width)
	m.viper.SetDefault("window.height", defaults.Window.Height)
	m.viper.SetDefault("window.enable_devtools", defaults.Window.EnableDevTools)
}

func (m *Manager) setJournalDefaults(defaults *Config) {
	m.viper.SetDefault("journal.enabled", defaults.Journal.Enabled)
	m.viper.SetDefault("journal.path", "")
	m.viper.SetDefault("journal.max_entries", defaults.Journal.MaxEntries)
}

func (m *Manager) setLoggingDefaults(defaults *Config) {
	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", defaults.Logging.Format)
	m.viper.SetDefault("logging.log_dir", defaults.Logging.LogDir)
	m.viper.SetDefault("logging.enable_file_log", defaults.Logging.EnableFileLog)
	m.viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	m.viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
	m.viper.SetDefault("logging.max_age_days", defaults.Logging.MaxAgeDays)
}

// Global configuration manager instance
var globalManager *Manager
var globalManagerOnce sync.Once

// Init initializes the global configuration manager.
func Init() error {
	var err error
	globalManagerOnce.Do(func() {
		globalManager, err = NewManager()
		if err != nil {
			return
		}
		err = globalManager.Load()
	})
	return err
}

// Get returns the global configuration.
func Get() *Config {
	if globalManager == nil {
		// Return defaults if not initialized
		return DefaultConfig()
	}
	return globalManager.Get()
}

// GetManager returns the global configuration manager.
func GetManager() *Manager {
	return globalManager
}
