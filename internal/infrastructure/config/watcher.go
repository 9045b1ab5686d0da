package config

import (
	"fmt"
	"reflect"

	"github.com/bnema/pipewin/internal/logging"
	"github.com/fsnotify/fsnotify"
)

// Watch reloads the config file whenever it changes on disk and notifies
// callbacks when the decoded values differ. An invalid edit is logged and
// the previous configuration stays active.
func (m *Manager) Watch() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.watching {
		return nil
	}

	m.viper.OnConfigChange(m.handleFileEvent)
	m.viper.WatchConfig()

	m.watching = true
	return nil
}

func (m *Manager) handleFileEvent(e fsnotify.Event) {
	log := logging.NewFromEnv()
	if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) && !e.Has(fsnotify.Rename) {
		return
	}
	log.Debug().Str("op", e.Op.String()).Str("file", e.Name).Msg("config file changed")

	m.mu.Lock()
	changed, err := m.reload()
	if err != nil {
		m.mu.Unlock()
		log.Warn().Err(err).Msg("failed to reload config, keeping previous values")
		return
	}
	if !changed {
		m.mu.Unlock()
		return
	}
	m.notifyCallbacksLocked()
}

// notifyCallbacksLocked releases m.mu, then hands each callback its own copy.
func (m *Manager) notifyCallbacksLocked() {
	current := m.config
	callbacks := make([]func(*Config), len(m.callbacks))
	copy(callbacks, m.callbacks)
	m.mu.Unlock()

	for _, callback := range callbacks {
		callback(cloneConfig(current))
	}
}

// OnConfigChange registers a callback run after every effective reload.
func (m *Manager) OnConfigChange(callback func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.callbacks = append(m.callbacks, callback)
}

// Reload re-reads the config file and notifies callbacks unconditionally.
func (m *Manager) Reload() error {
	m.mu.Lock()
	if _, err := m.reload(); err != nil {
		m.mu.Unlock()
		return err
	}
	m.notifyCallbacksLocked()
	return nil
}

// reload swaps in the re-read configuration and reports whether it differs
// from the previous one. Caller holds m.mu for write.
func (m *Manager) reload() (bool, error) {
	if err := m.viper.ReadInConfig(); err != nil {
		return false, err
	}
	config, err := m.decode()
	if err != nil {
		return false, err
	}
	changed := m.config == nil || !reflect.DeepEqual(*m.config, *config)
	m.config = config
	return changed, nil
}

func cloneConfig(c *Config) *Config {
	clone := *c
	clone.Helper.Args = append([]string(nil), c.Helper.Args...)
	return &clone
}

// Watch starts watching the global configuration for changes.
func Watch() error {
	if globalManager == nil {
		return fmt.Errorf("configuration not initialized")
	}
	return globalManager.Watch()
}

// OnConfigChange registers a callback for global configuration changes.
func OnConfigChange(callback func(*Config)) {
	if globalManager == nil {
		return
	}
	globalManager.OnConfigChange(callback)
}
