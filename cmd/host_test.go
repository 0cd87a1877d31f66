package cmd

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyleseneker/rating-prompt/internal/config"
	"github.com/kyleseneker/rating-prompt/internal/logging"
	"github.com/kyleseneker/rating-prompt/internal/navigator"
	"github.com/kyleseneker/rating-prompt/internal/presenter"
	"github.com/kyleseneker/rating-prompt/internal/prompt"
	"github.com/kyleseneker/rating-prompt/internal/tracker"
)

func testHostConfig(t *testing.T) *config.Config {
	return &config.Config{
		PackageID:          "org.example.app",
		MinimumLaunchCount: 1,
		MinimumDaysAfter:   0,
		UseOrCombinator:    true,
		Cancelable:         true,
		Title:              "Rate",
		Message:            "Please rate us.",
		RateNowLabel:       "Rate now",
		RemindLaterLabel:   "Later",
		StoreType:          "file",
		StoreDir:           t.TempDir(),
		StoreNamespace:     "rating_prompt",
		DryRun:             true,
		LogLevel:           "INFO",
		LogFormat:          "text",
	}
}

func TestNewHost_SessionsPersistAcrossHosts(t *testing.T) {
	cfg := testHostConfig(t)
	var out bytes.Buffer

	for i := 0; i < 2; i++ {
		h, err := newHost(cfg, logging.Discard(), &out)
		require.NoError(t, err)
		h.ctrl.OnStart()
		h.Close()
	}

	h, err := newHost(cfg, logging.Discard(), &out)
	require.NoError(t, err)
	defer h.Close()
	assert.Equal(t, 2, h.usage.LaunchCount())
	assert.True(t, h.ctrl.ShouldShow())
}

func TestNewHost_DryRunRate(t *testing.T) {
	cfg := testHostConfig(t)
	var out bytes.Buffer

	h, err := newHost(cfg, logging.Discard(), &out)
	require.NoError(t, err)
	defer h.Close()

	require.NoError(t, h.ctrl.RateNow())
	logNav, ok := h.navigator.(*navigator.Log)
	require.True(t, ok)
	assert.Equal(t, []string{"market://details?id=org.example.app"}, logNav.Opened())
	assert.True(t, h.usage.HasRated())
	assert.Contains(t, out.String(), "Rate now clicked")
}

func TestNewHost_Sqlite(t *testing.T) {
	cfg := testHostConfig(t)
	cfg.StoreType = "sqlite"
	cfg.StoreDSN = t.TempDir() + "/prefs.db"

	h, err := newHost(cfg, logging.Discard(), &bytes.Buffer{})
	require.NoError(t, err)
	defer h.Close()

	h.ctrl.OnStart()
	assert.Equal(t, 1, h.usage.LaunchCount())
}

func TestNewHost_InvalidPromptConfig(t *testing.T) {
	cfg := testHostConfig(t)
	cfg.Message = ""

	_, err := newHost(cfg, logging.Discard(), &bytes.Buffer{})
	require.Error(t, err)
}

func TestPromptConfig(t *testing.T) {
	cfg := testHostConfig(t)
	pc := promptConfig(cfg)

	assert.Equal(t, "org.example.app", pc.PackageID)
	assert.Equal(t, prompt.Texts{Title: "Rate", Message: "Please rate us.", RateNow: "Rate now", RemindLater: "Later"}, pc.Texts)
	assert.True(t, pc.UseOrCombinator)
}

func TestRenderStatus(t *testing.T) {
	cfg := testHostConfig(t)
	usage := tracker.NewUsageTracker(tracker.NewMemoryStore(), logging.Discard())
	usage.SetFirstLaunch(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC))
	usage.SetLaunchCount(3)

	ctrl, err := prompt.NewController(promptConfig(cfg), usage, logging.Discard())
	require.NoError(t, err)

	var out bytes.Buffer
	renderStatus(&out, cfg, ctrl.Record(), ctrl.Evaluate())

	s := out.String()
	assert.Contains(t, s, "Usage Record")
	assert.Contains(t, s, "2026-10-01T")
	assert.Contains(t, s, "thresholds_met")
	assert.Contains(t, s, "OR")
}

// stubTerminal swaps openTerminal for the duration of the test.
func stubTerminal(t *testing.T, fn func(dispatch func(func()), logger logging.Logger) (*presenter.TTY, io.Closer, error)) {
	orig := openTerminal
	openTerminal = fn
	t.Cleanup(func() { openTerminal = orig })
}

func TestShowPrompt(t *testing.T) {
	t.Run("No Terminal", func(t *testing.T) {
		stubTerminal(t, func(func(func()), logging.Logger) (*presenter.TTY, io.Closer, error) {
			return nil, nil, presenter.ErrNoTerminal
		})
		var out bytes.Buffer
		h, err := newHost(testHostConfig(t), logging.Discard(), &out)
		require.NoError(t, err)
		defer h.Close()
		h.ctrl.OnStart()
		h.ctrl.OnStart()
		require.True(t, h.ctrl.ShouldShow())

		require.NoError(t, showPrompt(h, &out, false))
		assert.Contains(t, out.String(), "Prompt not shown (no terminal available)")
		assert.NotContains(t, out.String(), "thresholds_met")
		assert.False(t, h.ctrl.IsShowing())
	})

	t.Run("Criteria Not Met", func(t *testing.T) {
		stubTerminal(t, func(dispatch func(func()), logger logging.Logger) (*presenter.TTY, io.Closer, error) {
			return presenter.NewTTY(strings.NewReader(""), io.Discard, dispatch, logger), io.NopCloser(nil), nil
		})
		var out bytes.Buffer
		h, err := newHost(testHostConfig(t), logging.Discard(), &out)
		require.NoError(t, err)
		defer h.Close()

		require.NoError(t, showPrompt(h, &out, false))
		assert.Contains(t, out.String(), "Prompt not shown (thresholds_not_met)")
	})

	t.Run("Forced Prompt Records Answer", func(t *testing.T) {
		stubTerminal(t, func(dispatch func(func()), logger logging.Logger) (*presenter.TTY, io.Closer, error) {
			return presenter.NewTTY(strings.NewReader("2\n"), io.Discard, dispatch, logger), io.NopCloser(nil), nil
		})
		var out bytes.Buffer
		h, err := newHost(testHostConfig(t), logging.Discard(), &out)
		require.NoError(t, err)
		defer h.Close()
		h.ctrl.OnStart()

		require.NoError(t, showPrompt(h, &out, true))
		assert.Contains(t, out.String(), "Dialog was shown")
		assert.Contains(t, out.String(), "Remind later clicked")
		assert.Equal(t, 0, h.usage.LaunchCount())
	})
}
