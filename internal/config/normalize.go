package config

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCategories()
	c.normalizePresets()
	c.normalizeSite()
	c.normalizePreview()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.ImagesDir, err = resolveUnder(c.Root, defaultString(c.Paths.ImagesDir, defaultImagesDir)); err != nil {
		return fmt.Errorf("paths.images_dir: %w", err)
	}
	if c.Paths.OriginalsDir, err = resolveUnder(c.Root, defaultString(c.Paths.OriginalsDir, defaultOriginalsDir)); err != nil {
		return fmt.Errorf("paths.originals_dir: %w", err)
	}
	if c.Paths.SiteDir, err = resolveUnder(c.Root, defaultString(c.Paths.SiteDir, defaultSiteDir)); err != nil {
		return fmt.Errorf("paths.site_dir: %w", err)
	}
	if c.Paths.Manifest, err = resolveUnder(c.Root, defaultString(c.Paths.Manifest, defaultManifest)); err != nil {
		return fmt.Errorf("paths.manifest: %w", err)
	}
	if c.Paths.LogDir, err = resolveUnder(c.Root, c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.ImagesURL = strings.Trim(strings.TrimSpace(c.Paths.ImagesURL), "/")
	if c.Paths.ImagesURL == "" {
		c.Paths.ImagesURL = defaultImagesURL
	}
	return nil
}

func (c *Config) normalizeCategories() {
	if len(c.Categories) == 0 {
		c.Categories = DefaultCategories()
		return
	}
	for i := range c.Categories {
		c.Categories[i].Key = strings.TrimSpace(c.Categories[i].Key)
		c.Categories[i].Label = strings.TrimSpace(c.Categories[i].Label)
		if c.Categories[i].Label == "" {
			c.Categories[i].Label = TitleFromKey(c.Categories[i].Key)
		}
	}
}

func (c *Config) normalizePresets() {
	if len(c.Presets) == 0 {
		c.Presets = DefaultPresets()
		return
	}
	for i := range c.Presets {
		c.Presets[i].Label = strings.ToLower(strings.TrimSpace(c.Presets[i].Label))
	}
}

func (c *Config) normalizeSite() {
	c.Site.Title = strings.TrimSpace(c.Site.Title)
	if c.Site.Title == "" {
		c.Site.Title = defaultSiteTitle
	}
	c.Site.BaseURL = strings.TrimSpace(c.Site.BaseURL)
	if c.Site.BaseURL == "" {
		if value, ok := os.LookupEnv("PORTFOLIO_SITE_URL"); ok {
			c.Site.BaseURL = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizePreview() {
	c.Preview.Bind = strings.TrimSpace(c.Preview.Bind)
	if c.Preview.Bind == "" {
		c.Preview.Bind = defaultPreviewBind
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	if value, ok := os.LookupEnv("PORTFOLIO_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// TitleFromKey derives a display label from a category key, e.g.
// "student-work" -> "Student Work".
func TitleFromKey(key string) string {
	words := strings.ReplaceAll(strings.TrimSpace(key), "-", " ")
	return cases.Title(language.Und).String(words)
}
