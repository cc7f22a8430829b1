package testsupport

import (
	"path/filepath"
	"testing"

	"github.com/lusinstrella/karl-dukstein-photography/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t   testing.TB
	cfg *config.Config
}

// NewConfig produces a config rooted at a unique temp directory with every
// path resolved beneath it, then applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()
	t.Setenv("PORTFOLIO_LOG_LEVEL", "")
	t.Setenv("PORTFOLIO_SITE_URL", "")

	cfg, _, _, err := config.Load(t.TempDir(), "")
	if err != nil {
		t.Fatalf("load test config: %v", err)
	}
	cfg.Preview.Bind = "127.0.0.1:0"
	cfg.Watch.DebounceMS = 20

	builder := &configBuilder{t: t, cfg: cfg}
	for _, opt := range opts {
		opt(builder)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("invalid test config: %v", err)
	}
	return builder.cfg
}

// WithCategories replaces the category list with the given keys, deriving
// labels from them.
func WithCategories(keys ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Categories = b.cfg.Categories[:0]
		for _, key := range keys {
			b.cfg.Categories = append(b.cfg.Categories, config.Category{Key: key, Label: config.TitleFromKey(key)})
		}
	}
}

// WithSmallPresets shrinks preset widths so encoding tests stay fast.
func WithSmallPresets() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Presets = []config.Preset{
			{Label: "thumb", Width: 16, Quality: 80},
			{Label: "medium", Width: 32, Quality: 85},
			{Label: "full", Width: 64, Quality: 90},
		}
	}
}

// WithSiteURL sets the canonical site URL.
func WithSiteURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Site.BaseURL = url
	}
}

// CategoryDir returns the images directory for key, for use in fixtures.
func CategoryDir(cfg *config.Config, key string) string {
	return filepath.Join(cfg.Paths.ImagesDir, key)
}
