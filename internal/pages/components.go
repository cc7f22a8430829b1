package pages

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/lusinstrella/karl-dukstein-photography/internal/config"
	"github.com/lusinstrella/karl-dukstein-photography/internal/manifest"
)

// Page is the data rendered into one category document.
type Page struct {
	SiteTitle  string
	Key        string
	Label      string
	Categories []config.Category
	Hero       *manifest.Entry
}

// SelectHero returns the entry flagged hero, else the first entry, else nil.
func SelectHero(entries []manifest.Entry) *manifest.Entry {
	for i := range entries {
		if entries[i].Hero {
			return &entries[i]
		}
	}
	if len(entries) > 0 {
		return &entries[0]
	}
	return nil
}

type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(parts ...string) {
	for _, part := range parts {
		if h.err != nil {
			return
		}
		_, h.err = io.WriteString(h.w, part)
	}
}

func (h *htmlWriter) component(ctx context.Context, c templ.Component) {
	if h.err != nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

var esc = templ.EscapeString[string]

// Document renders the full category page.
func Document(p Page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		brand := esc(strings.ToUpper(p.SiteTitle))
		h.raw(`<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width,initial-scale=1">
  <title>`, esc(p.Label), ` | `, esc(p.SiteTitle), `</title>
  <link rel="stylesheet" href="/assets/css/styles.css">
</head>
<body>
  <header class="site-header">
    <div class="container header-inner">
      <div class="brand"><a href="/">`, brand, `</a></div>
      <nav class="main-nav">
        <button class="menu-toggle" aria-label="Open menu">&#9776;</button>
        <ul class="nav-list">
          <li><a href="/">Home</a></li>
          <li><a href="/about.html">About</a></li>
          <li><a href="/contact.html">Contact</a></li>
        </ul>
      </nav>
    </div>
  </header>

  <aside class="site-sidebar">
    <div class="sidebar-inner">
      <div class="brand">`, brand, `</div>
`)
		h.component(ctx, Nav(p.Categories, p.Key))
		h.raw(`    </div>
  </aside>

  <main>
    <section class="hero" id="hero">
`)
		if p.Hero != nil {
			h.component(ctx, HeroPicture(*p.Hero))
		}
		h.raw(`      <div class="hero-overlay"></div>
    </section>

    <div class="container">
      <section class="section">
        <h2>`, esc(p.Label), `</h2>
        <div class="grid" data-section="`, esc(p.Key), `"></div>
        <nav class="pagination" aria-label="Pagination"></nav>
      </section>
    </div>
  </main>

  <footer class="site-footer">
    <div class="container">
      <div>&copy; `, brand, ` &bull; <a href="/contact.html">Contact</a></div>
    </div>
  </footer>

  <div id="lightbox" class="lightbox" aria-hidden="true">
    <button class="lb-close" aria-label="Close">&#10005;</button>
    <button class="lb-prev" aria-label="Previous">&#9664;</button>
    <div class="lb-image-wrap"><img class="lb-image" src="" alt=""></div>
    <div class="lb-counter"></div>
    <button class="lb-next" aria-label="Next">&#9654;</button>
  </div>

  <script src="/assets/js/lightbox.js" defer></script>
  <script src="/assets/js/main.js" defer></script>
</body>
</html>
`)
		return h.err
	})
}

// Nav renders the sidebar navigation shared by every page.
func Nav(categories []config.Category, active string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw("      <nav class=\"main-nav\">\n        <ul class=\"nav-list\">\n          <li><a href=\"/\">Home</a></li>\n")
		for _, cat := range categories {
			current := ""
			if cat.Key == active {
				current = ` aria-current="page"`
			}
			h.raw(`          <li><a href="/`, esc(cat.Key), `.html"`, current, `>`, esc(cat.Label), "</a></li>\n")
		}
		h.raw("          <li><a href=\"/contact.html\">Contact</a></li>\n        </ul>\n      </nav>\n")
		return h.err
	})
}

// HeroPicture renders the hero <picture>, preferring the modern source.
func HeroPicture(e manifest.Entry) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw("      <picture class=\"hero-pic\">\n")
		if e.FullWebP != "" {
			h.raw(`        <source srcset="/`, esc(e.FullWebP), "\" type=\"image/webp\">\n")
		}
		src := e.FullJPG
		if src == "" {
			src = e.FullWebP
		}
		if src != "" {
			style := ""
			if e.ObjectPosition != "" {
				style = fmt.Sprintf(` style="object-position:%s"`, esc(e.ObjectPosition))
			}
			h.raw(`        <img class="hero-img" src="/`, esc(src), `" alt="`, esc(e.Alt), `" loading="lazy"`, style, ">\n")
		}
		h.raw("      </picture>\n")
		return h.err
	})
}
