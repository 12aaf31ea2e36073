// Package browser manages the Chrome session hosting the target page:
// connect to a remote instance or launch a local one, open a stealth tab,
// and navigate it to the host application.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"
)

// Config configures the browser session.
type Config struct {
	// RemoteURL is the WebSocket URL of an already-running Chrome.
	// Empty launches a local one via launcher.
	RemoteURL string

	// Headful shows the browser window. The injected UI is meant to be
	// used by a person, so this is the normal mode.
	Headful bool

	// NavTimeout bounds navigation plus initial load. Default: 30s.
	NavTimeout time.Duration

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.NavTimeout <= 0 {
		c.NavTimeout = 30 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Session is a connected browser with one open tab on the host page.
type Session struct {
	Browser *rod.Browser
	Page    *rod.Page

	cfg  Config
	lnch *launcher.Launcher
}

// Open connects (or launches) Chrome, opens a stealth tab, and navigates it
// to pageURL, waiting for the initial load.
func Open(ctx context.Context, cfg Config, pageURL string) (*Session, error) {
	cfg.defaults()
	log := cfg.Logger

	s := &Session{cfg: cfg}

	var wsURL string
	if cfg.RemoteURL != "" {
		wsURL = cfg.RemoteURL
		log.Info("browser: connecting to remote", "url", wsURL)
	} else {
		l := launcher.New().
			Headless(!cfg.Headful).
			Set("disable-blink-features", "AutomationControlled")
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("browser: launch: %w", err)
		}
		wsURL = u
		s.lnch = l
		log.Info("browser: launched local chrome", "headful", cfg.Headful)
	}

	b := rod.New().Context(ctx).ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		s.cleanup()
		return nil, fmt.Errorf("browser: connect: %w", err)
	}
	s.Browser = b

	page, err := stealth.Page(b)
	if err != nil {
		s.cleanup()
		return nil, fmt.Errorf("browser: create tab: %w", err)
	}
	s.Page = page

	navCtx, cancel := context.WithTimeout(ctx, cfg.NavTimeout)
	defer cancel()

	if err := page.Context(navCtx).Navigate(pageURL); err != nil {
		s.cleanup()
		return nil, fmt.Errorf("browser: navigate %s: %w", pageURL, err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		log.Warn("browser: wait load timeout", "url", pageURL, "error", err)
	}

	log.Info("browser: page ready", "url", pageURL)
	return s, nil
}

// Close shuts down the tab and, for a locally launched Chrome, the browser
// process.
func (s *Session) Close() error {
	s.cleanup()
	return nil
}

func (s *Session) cleanup() {
	if s.Page != nil {
		s.Page.Close()
		s.Page = nil
	}
	if s.Browser != nil {
		s.Browser.Close()
		s.Browser = nil
	}
	if s.lnch != nil {
		s.lnch.Cleanup()
		s.lnch = nil
	}
}
