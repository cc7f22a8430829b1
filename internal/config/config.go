package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// FileName is the configuration file looked up in the project root.
const FileName = "portfolio.toml"

// Paths contains directory layout configuration. Relative values are resolved
// against the project root.
type Paths struct {
	ImagesDir    string `toml:"images_dir"`
	OriginalsDir string `toml:"originals_dir"`
	SiteDir      string `toml:"site_dir"`
	Manifest     string `toml:"manifest"`
	ImagesURL    string `toml:"images_url"`
	LogDir       string `toml:"log_dir"`
}

// Category is one fixed gallery section.
type Category struct {
	Key   string `toml:"key"`
	Label string `toml:"label"`
}

// Preset describes one generated variant width.
type Preset struct {
	Label   string `toml:"label"`
	Width   int    `toml:"width"`
	Quality int    `toml:"quality"`
}

// Site contains values interpolated into generated pages.
type Site struct {
	Title   string `toml:"title"`
	BaseURL string `toml:"base_url"`
}

// Preview contains configuration for the local preview server.
type Preview struct {
	Bind string `toml:"bind"`
}

// Watch contains configuration for rebuild-on-change.
type Watch struct {
	DebounceMS int `toml:"debounce_ms"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for a portfolio build.
//
// Configuration sections:
//   - Paths: images, originals, site, and manifest locations
//   - Categories: the ordered, fixed list of gallery sections
//   - Presets: variant widths and qualities produced by the codec stages
//   - Site: page title and canonical URL for the sitemap
//   - Preview: bind address of the preview server
//   - Watch: debounce window for rebuild-on-change
//   - Logging: log format and level
type Config struct {
	Root       string     `toml:"-"`
	Paths      Paths      `toml:"paths"`
	Categories []Category `toml:"categories"`
	Presets    []Preset   `toml:"presets"`
	Site       Site       `toml:"site"`
	Preview    Preview    `toml:"preview"`
	Watch      Watch      `toml:"watch"`
	Logging    Logging    `toml:"logging"`
}

// Load locates, parses, and validates a configuration file for the project
// rooted at root. An explicit path wins; otherwise <root>/portfolio.toml is
// used when present and defaults apply when it is not. The returned config has
// all path fields resolved to absolute paths.
func Load(root, path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedRoot, err := expandPath(defaultString(root, "."))
	if err != nil {
		return nil, "", false, fmt.Errorf("resolve root: %w", err)
	}
	cfg.Root = resolvedRoot

	resolvedPath, exists, err := resolveConfigPath(resolvedRoot, path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(root, path string) (string, bool, error) {
	candidate := filepath.Join(root, FileName)
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		candidate = expanded
	}
	info, err := os.Stat(candidate)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return candidate, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %q is a directory", candidate)
	}
	return candidate, true, nil
}

// EnsureDirectories creates the output directories the page and manifest
// stages write into. Input directories are never created here; a missing
// images or originals tree is an expected state.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.SiteDir, filepath.Dir(c.Paths.Manifest)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.LogDir) != "" {
		if err := os.MkdirAll(c.Paths.LogDir, 0o755); err != nil {
			return fmt.Errorf("create log directory %q: %w", c.Paths.LogDir, err)
		}
	}
	return nil
}

// CategoryDir returns the directory holding a category's variants.
func (c *Config) CategoryDir(key string) string {
	return filepath.Join(c.Paths.ImagesDir, key)
}

// CategoryKeys returns the configured category keys in order.
func (c *Config) CategoryKeys() []string {
	keys := make([]string, 0, len(c.Categories))
	for _, cat := range c.Categories {
		keys = append(keys, cat.Key)
	}
	return keys
}

// HasCategory reports whether key is a configured category.
func (c *Config) HasCategory(key string) bool {
	for _, cat := range c.Categories {
		if cat.Key == key {
			return true
		}
	}
	return false
}

// LockPath returns the file guarding concurrent builds of this project.
func (c *Config) LockPath() string {
	return filepath.Join(c.Root, ".portfolio.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func resolveUnder(root, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	if !filepath.IsAbs(value) && !strings.HasPrefix(value, "~") {
		value = filepath.Join(root, value)
	}
	return expandPath(value)
}

func defaultString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
