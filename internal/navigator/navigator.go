package navigator

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/pkg/browser"

	"github.com/kyleseneker/rating-prompt/internal/logging"
)

// Browser opens URIs with the platform's default handler (xdg-open, open or
// rundll32, picked by pkg/browser). Schemes outside the allow-list are rejected
// without launching anything, since most desktops have no handler for market://.
type Browser struct {
	schemes map[string]bool
	open    func(uri string) error // browser.OpenURL; replaced in tests
	logger  logging.Logger
}

// NewBrowser creates a navigator that accepts the given schemes.
// If schemes is empty only http and https are allowed.
func NewBrowser(schemes []string, logger logging.Logger) *Browser {
	if len(schemes) == 0 {
		schemes = []string{"http", "https"}
	}
	allowed := make(map[string]bool, len(schemes))
	for _, s := range schemes {
		allowed[strings.ToLower(strings.TrimSpace(s))] = true
	}
	return &Browser{
		schemes: allowed,
		open:    browser.OpenURL,
		logger:  logger.Named("browser_navigator"),
	}
}

// Open hands uri to the default handler.
func (b *Browser) Open(uri string) error {
	u, err := url.Parse(uri)
	if err != nil {
		return fmt.Errorf("invalid uri %q: %w", uri, err)
	}
	if !b.schemes[strings.ToLower(u.Scheme)] {
		b.logger.Debug("Scheme cannot be resolved on this host", "scheme", u.Scheme)
		return fmt.Errorf("no handler for scheme %q", u.Scheme)
	}

	if err := b.open(uri); err != nil {
		b.logger.Warn("Failed to open uri", "uri", uri, "error", err)
		return fmt.Errorf("failed to open %s: %w", uri, err)
	}
	b.logger.Info("Opened uri", "uri", uri)
	return nil
}

// Log only records the URI it was asked to open. Used for dry runs.
type Log struct {
	logger logging.Logger
	opened []string
}

// NewLog creates a dry-run navigator.
func NewLog(logger logging.Logger) *Log {
	return &Log{logger: logger.Named("dry_run_navigator")}
}

// Open logs uri and always succeeds.
func (l *Log) Open(uri string) error {
	l.logger.Info("Dry run: would open uri", "uri", uri)
	l.opened = append(l.opened, uri)
	return nil
}

// Opened returns every URI passed to Open.
func (l *Log) Opened() []string {
	return append([]string(nil), l.opened...)
}
