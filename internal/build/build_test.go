package build_test

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/lusinstrella/karl-dukstein-photography/internal/batch"
	"github.com/lusinstrella/karl-dukstein-photography/internal/build"
	"github.com/lusinstrella/karl-dukstein-photography/internal/codec"
	"github.com/lusinstrella/karl-dukstein-photography/internal/services"
	"github.com/lusinstrella/karl-dukstein-photography/internal/testsupport"
)

func testOptions() build.Options {
	return build.Options{
		Encoder: codec.NewWithModern(func(w io.Writer, img image.Image, _ int) error {
			return png.Encode(w, img)
		}),
	}
}

func TestRunFullPipeline(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCategories("dnc", "misc"), testsupport.WithSmallPresets())
	testsupport.WriteImage(t, filepath.Join(cfg.Paths.OriginalsDir, "dnc", "rally.jpg"), 80, 40)

	result, err := build.Run(context.Background(), cfg, testOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := uuid.Parse(result.RunID); err != nil {
		t.Fatalf("run id %q is not a uuid: %v", result.RunID, err)
	}
	if len(result.Reports) != 2 || result.Reports[0].Stage != build.StagePSD {
		t.Fatalf("expected psd and originals reports, got %+v", result.Reports)
	}
	report := result.Reports[1]
	if report.Stage != build.StageOriginals || report.RunID != result.RunID {
		t.Fatalf("unexpected report identity: stage=%q run=%q", report.Stage, report.RunID)
	}
	if summary := report.Summary(); summary.OK != 6 || summary.Failed != 0 {
		t.Fatalf("expected six written variants, got %+v", summary)
	}
	for _, name := range []string{"rally-thumb.webp", "rally-thumb.jpg", "rally-full.jpg"} {
		if _, err := os.Stat(filepath.Join(cfg.CategoryDir("dnc"), name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}

	entries, ok := result.Manifest.Manifest.Entries("dnc")
	if !ok || len(entries) != 1 || entries[0].ID != "rally" || !entries[0].Hero {
		t.Fatalf("unexpected dnc entries: %+v", entries)
	}
	if misc, ok := result.Manifest.Manifest.Entries("misc"); !ok || len(misc) != 0 {
		t.Fatalf("expected empty misc section, got %+v (present=%v)", misc, ok)
	}
	if !result.Manifest.Changed {
		t.Fatal("first run should report a changed manifest")
	}

	if len(result.Pages) != 2 {
		t.Fatalf("expected two pages, got %v", result.Pages)
	}
	page, err := os.ReadFile(filepath.Join(cfg.Paths.SiteDir, "dnc.html"))
	if err != nil {
		t.Fatalf("read page: %v", err)
	}
	if !strings.Contains(string(page), `class="hero-img"`) {
		t.Fatalf("page missing hero picture:\n%s", page)
	}
}

func TestRebuildIsStable(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCategories("dnc"))
	dir := cfg.CategoryDir("dnc")
	testsupport.WriteFile(t, filepath.Join(dir, "rally-thumb.jpg"), 1)
	testsupport.WriteFile(t, filepath.Join(dir, "rally-full.jpg"), 1)

	opts := testOptions()
	opts.Diff = true
	first, err := build.Rebuild(context.Background(), cfg, opts)
	if err != nil {
		t.Fatalf("first Rebuild: %v", err)
	}
	if len(first.Reports) != 0 {
		t.Fatalf("rebuild should not run codec stages, got %d reports", len(first.Reports))
	}
	if first.Manifest.Diff == "" {
		t.Fatal("expected a diff against the absent manifest")
	}

	second, err := build.Rebuild(context.Background(), cfg, opts)
	if err != nil {
		t.Fatalf("second Rebuild: %v", err)
	}
	if second.Manifest.Changed || second.Manifest.Diff != "" {
		t.Fatalf("identical inputs should not change the manifest: %+v", second.Manifest.Diff)
	}
	if first.RunID == second.RunID {
		t.Fatal("each run should get its own id")
	}

	testsupport.WriteFile(t, filepath.Join(dir, "crowd-thumb.webp"), 1)
	third, err := build.Rebuild(context.Background(), cfg, opts)
	if err != nil {
		t.Fatalf("third Rebuild: %v", err)
	}
	if !third.Manifest.Changed || !strings.Contains(third.Manifest.Diff, `+      "id": "crowd"`) {
		t.Fatalf("expected crowd in diff:\n%s", third.Manifest.Diff)
	}
}

func TestRunWithoutOriginalsIsNoop(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCategories("dnc"))

	result, err := build.Run(context.Background(), cfg, testOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Reports) != 2 {
		t.Fatalf("expected empty psd and originals reports, got %+v", result.Reports)
	}
	for _, report := range result.Reports {
		if report.Summary().Total() != 0 {
			t.Fatalf("expected an empty %s report, got %+v", report.Stage, report.Results)
		}
	}
	if _, err := os.Stat(cfg.Paths.Manifest); err != nil {
		t.Fatalf("manifest not written: %v", err)
	}
}

func TestRunExportsPSDBeforeOriginals(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCategories("dnc"), testsupport.WithSmallPresets())
	testsupport.WritePSD(t, filepath.Join(cfg.Paths.OriginalsDir, "dnc", "poster.psd"), 40, 20, color.RGBA{R: 30, G: 90, B: 200, A: 255})

	result, err := build.Run(context.Background(), cfg, testOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	psd, originals := result.Reports[0], result.Reports[1]
	if psd.Summary().OK != 1 || psd.Results[0].Output != filepath.Join(cfg.Paths.OriginalsDir, "dnc", "poster.jpg") {
		t.Fatalf("unexpected psd report: %+v", psd.Results)
	}
	if originals.Summary().OK != 6 {
		t.Fatalf("exported jpeg should feed the originals stage: %+v", originals.Summary())
	}
	if _, err := os.Stat(filepath.Join(cfg.CategoryDir("dnc"), "poster-medium.webp")); err != nil {
		t.Fatalf("expected variants of the export: %v", err)
	}
}

func TestRunRefusesWhenLocked(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCategories("dnc"))
	lock, err := build.Acquire(cfg.LockPath())
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer lock.Unlock()

	_, err = build.Run(context.Background(), cfg, testOptions())
	if !errors.Is(err, services.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	if _, statErr := os.Stat(cfg.Paths.Manifest); !os.IsNotExist(statErr) {
		t.Fatalf("locked run must not write the manifest, stat err=%v", statErr)
	}
}

func TestPagesWithoutManifestFails(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCategories("dnc"))
	_, err := build.Pages(context.Background(), cfg, build.Options{})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestInPlaceEncodesLooseSources(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCategories("misc"), testsupport.WithSmallPresets())
	testsupport.WriteImage(t, filepath.Join(cfg.CategoryDir("misc"), "barn.png"), 40, 40)
	testsupport.WriteImage(t, filepath.Join(cfg.Paths.OriginalsDir, "misc", "skip.png"), 40, 40)

	report, err := build.InPlace(context.Background(), cfg, testOptions())
	if err != nil {
		t.Fatalf("InPlace: %v", err)
	}
	for _, result := range report.Results {
		if result.Status != batch.StatusOK {
			t.Fatalf("unexpected failure: %+v", result)
		}
		if strings.Contains(result.Source, "originals") {
			t.Fatalf("originals tree must be excluded, got %s", result.Source)
		}
	}
	if got := report.Summary().OK; got != 6 {
		t.Fatalf("expected six variants, got %d", got)
	}
}

func TestCheckReportsStageReadiness(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCategories("dnc"))
	byName := func(checks []build.Health) map[string]build.Health {
		out := map[string]build.Health{}
		for _, h := range checks {
			out[h.Name] = h
		}
		return out
	}

	before := byName(build.Check(cfg))
	if before[build.StageOriginals].Ready || before[build.StagePages].Ready {
		t.Fatalf("empty project should not be ready: %+v", before)
	}

	testsupport.WriteFile(t, filepath.Join(cfg.Paths.OriginalsDir, "dnc", "a.jpg"), 1)
	if _, err := build.Rebuild(context.Background(), cfg, build.Options{}); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	after := byName(build.Check(cfg))
	if !after[build.StageOriginals].Ready || !after[build.StagePages].Ready || !after[build.StageManifest].Ready {
		t.Fatalf("expected ready stages, got %+v", after)
	}
}
