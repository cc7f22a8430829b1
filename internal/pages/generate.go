package pages

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/lusinstrella/karl-dukstein-photography/internal/config"
	"github.com/lusinstrella/karl-dukstein-photography/internal/fileutil"
	"github.com/lusinstrella/karl-dukstein-photography/internal/logging"
	"github.com/lusinstrella/karl-dukstein-photography/internal/manifest"
)

// SitemapFile is written into the site directory when a base URL is set.
const SitemapFile = "sitemap.xml"

// Options configures Generate.
type Options struct {
	ManifestPath string
	SiteDir      string
	Categories   []config.Category
	SiteTitle    string
	BaseURL      string
	Logger       *slog.Logger
}

// OptionsFromConfig derives page options from cfg.
func OptionsFromConfig(cfg *config.Config, logger *slog.Logger) Options {
	return Options{
		ManifestPath: cfg.Paths.Manifest,
		SiteDir:      cfg.Paths.SiteDir,
		Categories:   cfg.Categories,
		SiteTitle:    cfg.Site.Title,
		BaseURL:      cfg.Site.BaseURL,
		Logger:       logger,
	}
}

// Generate reads the manifest and writes <key>.html for every category in
// it. It returns the written paths. A missing manifest is an error.
func Generate(ctx context.Context, opts Options) ([]string, error) {
	logger := logging.WithContext(ctx, logging.NewComponentLogger(opts.Logger, "pages"))

	doc, err := manifest.Load(opts.ManifestPath)
	if err != nil {
		return nil, err
	}

	labels := make(map[string]string, len(opts.Categories))
	for _, cat := range opts.Categories {
		labels[cat.Key] = cat.Label
	}

	var written []string
	for _, key := range doc.Keys() {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		entries, _ := doc.Entries(key)
		label := labels[key]
		if label == "" {
			label = config.TitleFromKey(key)
		}
		page := Page{
			SiteTitle:  opts.SiteTitle,
			Key:        key,
			Label:      label,
			Categories: opts.Categories,
			Hero:       SelectHero(entries),
		}
		target := filepath.Join(opts.SiteDir, key+".html")
		if err := Write(ctx, target, page); err != nil {
			return written, err
		}
		written = append(written, target)
		heroID := ""
		if page.Hero != nil {
			heroID = page.Hero.ID
		}
		logger.Info("page written",
			logging.String(logging.FieldCategory, key),
			logging.Output(target),
			logging.String("hero", heroID),
		)
	}

	if strings.TrimSpace(opts.BaseURL) != "" {
		target := filepath.Join(opts.SiteDir, SitemapFile)
		if err := WriteSitemap(target, opts.BaseURL, doc.Keys()); err != nil {
			return written, err
		}
		written = append(written, target)
		logger.Info("sitemap written", logging.Output(target), logging.Int("urls", doc.Len()+1))
	}
	return written, nil
}

// Render writes the complete HTML document for page to w.
func Render(ctx context.Context, w io.Writer, page Page) error {
	if err := Document(page).Render(ctx, w); err != nil {
		return fmt.Errorf("render %s: %w", page.Key, err)
	}
	return nil
}

// Write renders page to path atomically.
func Write(ctx context.Context, path string, page Page) error {
	var buf bytes.Buffer
	if err := Render(ctx, &buf, page); err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write page %s: %w", page.Key, err)
	}
	return nil
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc string `xml:"loc"`
}

// BuildURL joins path segments onto base.
func BuildURL(base string, segments ...string) string {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return base
	}
	u.Path = path.Join("/", u.Path, path.Join(segments...))
	return u.String()
}

// Sitemap encodes a sitemap listing the home page and each category page.
func Sitemap(baseURL string, keys []string) ([]byte, error) {
	home := BuildURL(baseURL)
	if !strings.HasSuffix(home, "/") {
		home += "/"
	}
	set := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  []sitemapURL{{Loc: home}},
	}
	for _, key := range keys {
		set.URLs = append(set.URLs, sitemapURL{Loc: BuildURL(baseURL, key+".html")})
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return nil, fmt.Errorf("encode sitemap: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// WriteSitemap writes the sitemap for keys to path.
func WriteSitemap(path, baseURL string, keys []string) error {
	data, err := Sitemap(baseURL, keys)
	if err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(path, data, 0o644)
}
