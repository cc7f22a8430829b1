// Package pages renders one static HTML page per gallery category from the
// manifest, plus an optional sitemap.
//
// Pages carry only the shell: navigation, the hero picture, and the grid and
// pagination placeholders filled in client-side from sections.json.
package pages
