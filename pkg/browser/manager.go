// Package browser owns the headless Chrome used to render search pages.
//
// The browser is an explicit resource: serve acquires it once with Start
// and releases it with Close on shutdown. Pages are opened per request and
// always closed before Snapshot returns.
package browser

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"photowall/pkg/config"
	"photowall/pkg/logger"
)

// Manager manages the Chrome lifecycle.
type Manager struct {
	cfg config.BrowserConfig
	log logger.Logger

	mu      sync.RWMutex
	browser *rod.Browser
	lnch    *launcher.Launcher
	closed  bool
}

// NewManager creates a Manager. Call Start before taking snapshots.
func NewManager(cfg config.BrowserConfig) *Manager {
	return &Manager{
		cfg: cfg,
		log: logger.GetLogger().WithField("component", "browser"),
	}
}

// Start launches Chrome, or connects to browser.remote_url when set.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("browser: manager is closed")
	}
	if m.browser != nil {
		return nil
	}

	wsURL := m.cfg.RemoteURL
	if wsURL == "" {
		l := launcher.New().
			Context(ctx).
			Headless(m.cfg.Headless).
			NoSandbox(true).
			Set("disable-blink-features", "AutomationControlled").
			Set("disable-dev-shm-usage").
			Set("disable-gpu").
			Set("window-size", fmt.Sprintf("%d,%d", m.cfg.ViewportWidth, m.cfg.ViewportHeight))

		u, err := l.Launch()
		if err != nil {
			return fmt.Errorf("browser: launch: %w", err)
		}
		wsURL = u
		m.lnch = l
		m.log.WithField("url", wsURL).Info("Launched local chrome")
	} else {
		m.log.WithField("url", wsURL).Info("Connecting to remote chrome")
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		m.cleanup()
		return fmt.Errorf("browser: connect: %w", err)
	}
	m.browser = b
	return nil
}

// Browser returns the connected browser, or nil before Start or after Close.
func (m *Manager) Browser() *rod.Browser {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.browser
}

// Close shuts Chrome down. It is safe to call more than once.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	err := m.cleanup()
	m.log.Info("Browser closed")
	return err
}

func (m *Manager) cleanup() error {
	var err error
	if m.browser != nil {
		err = m.browser.Close()
		m.browser = nil
	}
	if m.lnch != nil {
		m.lnch.Cleanup()
		m.lnch = nil
	}
	return err
}
