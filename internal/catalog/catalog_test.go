package catalog_test

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"testing/fstest"

	"github.com/lusinstrella/karl-dukstein-photography/internal/catalog"
	"github.com/lusinstrella/karl-dukstein-photography/internal/naming"
)

func TestReconcileIsDeterministic(t *testing.T) {
	files := []string{"b-thumb.jpg", "a-thumb.webp", "c-full.jpg", "a-full.jpg", "b-thumb.webp"}
	first := catalog.Reconcile("misc", files, nil)

	shuffled := []string{"b-thumb.webp", "a-full.jpg", "c-full.jpg", "a-thumb.webp", "b-thumb.jpg"}
	second := catalog.Reconcile("misc", shuffled, nil)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("reconcile depends on input order:\n%+v\n%+v", first, second)
	}
	if len(first) != 2 || first[0].ID != "a" || first[1].ID != "b" {
		t.Fatalf("unexpected ids: %+v", first)
	}
}

func TestReconcileRequiresThumb(t *testing.T) {
	files := []string{"orphan-full.jpg", "orphan-medium.webp", "kept-thumb.jpg", "kept-thumb.png", "notes.txt"}
	items := catalog.Reconcile("misc", files, nil)
	if len(items) != 1 || items[0].ID != "kept" {
		t.Fatalf("expected only thumb-bearing id, got %+v", items)
	}
}

func TestReconcileToleratesPartialVariants(t *testing.T) {
	files := []string{"solo-thumb.jpg"}
	items := catalog.Reconcile("misc", files, nil)
	if len(items) != 1 {
		t.Fatalf("expected one item, got %d", len(items))
	}
	item := items[0]
	if len(item.Variants) != 1 {
		t.Fatalf("expected only the thumb variant, got %+v", item.Variants)
	}
	thumb, ok := item.Variant(naming.SizeThumb)
	if !ok || thumb.Modern || !thumb.Legacy {
		t.Fatalf("unexpected thumb flags: %+v", thumb)
	}
	if _, ok := item.Variant(naming.SizeFull); ok {
		t.Fatal("full variant should be absent")
	}
}

func TestReconcileVariantsAscending(t *testing.T) {
	files := []string{"x-full.webp", "x-thumb.webp", "x-medium.jpg"}
	items := catalog.Reconcile("misc", files, nil)
	got := make([]naming.Size, 0, 3)
	for _, v := range items[0].Variants {
		got = append(got, v.Size)
	}
	want := []naming.Size{naming.SizeThumb, naming.SizeMedium, naming.SizeFull}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("variant order = %v, want %v", got, want)
	}
}

func TestReconcileAltText(t *testing.T) {
	items := catalog.Reconcile("dnc", []string{"march-on-broad-street-thumb.jpg"}, nil)
	if items[0].Alt != "march on broad street" {
		t.Fatalf("unexpected alt: %q", items[0].Alt)
	}
	if items[0].Category != "dnc" {
		t.Fatalf("unexpected category: %q", items[0].Category)
	}
}

func TestReconcileHeroFallbackFlagsFirst(t *testing.T) {
	files := []string{"zeta-thumb.jpg", "alpha-thumb.jpg", "mid-thumb.jpg"}
	items := catalog.Reconcile("misc", files, fstest.MapFS{})
	heroes := heroIDs(items)
	if !reflect.DeepEqual(heroes, []string{"alpha"}) {
		t.Fatalf("expected fallback hero alpha, got %v", heroes)
	}
}

func TestReconcileEmptyHeroFileFallsBack(t *testing.T) {
	sidecars := fstest.MapFS{naming.HeroFile: {Data: []byte("\n  \n")}}
	items := catalog.Reconcile("misc", []string{"b-thumb.jpg", "a-thumb.jpg"}, sidecars)
	if !reflect.DeepEqual(heroIDs(items), []string{"a"}) {
		t.Fatalf("expected fallback hero, got %v", heroIDs(items))
	}
}

func TestReconcileHeroUnion(t *testing.T) {
	files := []string{"a-thumb.jpg", "b-thumb.jpg", "c-thumb.jpg", "b-hero.jpg"}
	sidecars := fstest.MapFS{naming.HeroFile: {Data: []byte("c\n")}}
	items := catalog.Reconcile("misc", files, sidecars)
	if !reflect.DeepEqual(heroIDs(items), []string{"b", "c"}) {
		t.Fatalf("expected union of hero markers, got %v", heroIDs(items))
	}
}

func TestReconcileHeroNamedTwiceFlagsOnce(t *testing.T) {
	files := []string{"a-thumb.jpg", "b-thumb.jpg", "b-hero.jpg"}
	sidecars := fstest.MapFS{naming.HeroFile: {Data: []byte("b\n")}}
	items := catalog.Reconcile("misc", files, sidecars)
	if len(items) != 2 {
		t.Fatalf("expected two items, got %+v", items)
	}
	if !reflect.DeepEqual(heroIDs(items), []string{"b"}) {
		t.Fatalf("expected only b flagged, got %v", heroIDs(items))
	}
}

func TestReconcileUnknownHeroIDDoesNotSuppressFallback(t *testing.T) {
	sidecars := fstest.MapFS{naming.HeroFile: {Data: []byte("ghost\n")}}
	items := catalog.Reconcile("misc", []string{"a-thumb.jpg"}, sidecars)
	if !items[0].Hero {
		t.Fatal("expected fallback when named hero has no item")
	}
}

func TestReconcileEmptyDirectoryHasNoHero(t *testing.T) {
	if items := catalog.Reconcile("misc", nil, nil); len(items) != 0 {
		t.Fatalf("expected no items, got %+v", items)
	}
}

func TestReconcileFocalPoints(t *testing.T) {
	files := []string{"a-thumb.jpg", "b-thumb.jpg", "c-thumb.jpg", "d-thumb.jpg"}
	sidecars := fstest.MapFS{
		"a-focus.txt": {Data: []byte("top\n")},
		"b-focus.txt": {Data: []byte("25 60")},
		"c-focus.txt": {Data: []byte("10 20 30")},
	}
	items := catalog.Reconcile("misc", files, sidecars)
	if items[0].Focus == nil || items[0].Focus.Position() != "top" {
		t.Fatalf("unexpected focus for a: %+v", items[0].Focus)
	}
	if items[1].Focus == nil || items[1].Focus.Position() != "25% 60%" {
		t.Fatalf("unexpected focus for b: %+v", items[1].Focus)
	}
	if items[2].Focus != nil {
		t.Fatalf("three tokens should yield no focus, got %+v", items[2].Focus)
	}
	if items[3].Focus != nil {
		t.Fatalf("missing sidecar should yield no focus, got %+v", items[3].Focus)
	}
}

func TestParseFocalPoint(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"left", "left", true},
		{" bottom \n", "bottom", true},
		{"12.5 80", "12.5% 80%", true},
		{"-5 0", "-5% 0%", true},
		{"center", "", false},
		{"NaN 4", "", false},
		{"1 Inf", "", false},
		{"a b", "", false},
		{"", "", false},
	}
	for _, tc := range tests {
		got, ok := catalog.ParseFocalPoint([]byte(tc.in))
		if ok != tc.ok {
			t.Fatalf("ParseFocalPoint(%q) ok = %v, want %v", tc.in, ok, tc.ok)
		}
		if ok && got.Position() != tc.want {
			t.Fatalf("ParseFocalPoint(%q) = %q, want %q", tc.in, got.Position(), tc.want)
		}
	}
}

func TestReconcileDirReadsSidecars(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"rally-thumb.jpg":  "x",
		"rally-full.jpg":   "x",
		"rally-full.webp":  "x",
		"speech-thumb.jpg": "x",
		"hero.txt":         "rally\n",
		"rally-focus.txt":  "right",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested-thumb.jpg"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	items, err := catalog.ReconcileDir(context.Background(), "dnc", dir)
	if err != nil {
		t.Fatalf("ReconcileDir: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected two items, got %+v", items)
	}
	if !items[0].Hero || items[1].Hero {
		t.Fatalf("expected only rally as hero: %+v", items)
	}
	if items[0].Focus == nil || items[0].Focus.Side != "right" {
		t.Fatalf("expected right focus, got %+v", items[0].Focus)
	}
}

func TestReconcileDirMissingDirectory(t *testing.T) {
	items, err := catalog.ReconcileDir(context.Background(), "dnc", filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("missing dir should not error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty list, got %+v", items)
	}
}

func heroIDs(items []catalog.Item) []string {
	var ids []string
	for _, item := range items {
		if item.Hero {
			ids = append(ids, item.ID)
		}
	}
	return ids
}
