package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lusinstrella/karl-dukstein-photography/internal/naming"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCategories(); err != nil {
		return err
	}
	if err := c.validatePresets(); err != nil {
		return err
	}
	if err := c.validateWatch(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateCategories() error {
	if len(c.Categories) == 0 {
		return errors.New("categories must include at least one entry")
	}
	seen := make(map[string]struct{}, len(c.Categories))
	for i, cat := range c.Categories {
		if cat.Key == "" {
			return fmt.Errorf("categories[%d].key must be set", i)
		}
		if err := ValidateCategoryKey(cat.Key); err != nil {
			return fmt.Errorf("categories[%d].key: %w", i, err)
		}
		if _, dup := seen[cat.Key]; dup {
			return fmt.Errorf("categories[%d].key %q is duplicated", i, cat.Key)
		}
		seen[cat.Key] = struct{}{}
	}
	return nil
}

// ValidateCategoryKey rejects keys that are not a single directory name.
func ValidateCategoryKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("%q must be a single directory name", key)
	}
	return nil
}

func (c *Config) validatePresets() error {
	if len(c.Presets) == 0 {
		return errors.New("presets must include at least one entry")
	}
	seen := make(map[string]struct{}, len(c.Presets))
	hasThumb := false
	for i, preset := range c.Presets {
		size, ok := naming.ParseSize(preset.Label)
		if !ok {
			return fmt.Errorf("presets[%d].label %q must be one of thumb, medium, full", i, preset.Label)
		}
		if _, dup := seen[preset.Label]; dup {
			return fmt.Errorf("presets[%d].label %q is duplicated", i, preset.Label)
		}
		seen[preset.Label] = struct{}{}
		if size == naming.SizeThumb {
			hasThumb = true
		}
		if preset.Width <= 0 {
			return fmt.Errorf("presets[%d].width must be positive", i)
		}
		if preset.Quality < 1 || preset.Quality > 100 {
			return fmt.Errorf("presets[%d].quality must be between 1 and 100", i)
		}
	}
	if !hasThumb {
		return errors.New("presets must include a thumb entry; items are only catalogued when a thumb exists")
	}
	return nil
}

func (c *Config) validateWatch() error {
	if c.Watch.DebounceMS < 0 {
		return errors.New("watch.debounce_ms must be >= 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
}
