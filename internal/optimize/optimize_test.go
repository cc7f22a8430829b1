package optimize_test

import (
	"context"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/lusinstrella/karl-dukstein-photography/internal/batch"
	"github.com/lusinstrella/karl-dukstein-photography/internal/codec"
	"github.com/lusinstrella/karl-dukstein-photography/internal/optimize"
	"github.com/lusinstrella/karl-dukstein-photography/internal/testsupport"
)

func pngModern(w io.Writer, img image.Image, _ int) error {
	return png.Encode(w, img)
}

var smallPresets = []codec.Preset{
	{Label: "thumb", Width: 16, Quality: 80},
	{Label: "full", Width: 64, Quality: 90},
}

func TestPlanOriginalsMissingDirectory(t *testing.T) {
	_, err := optimize.PlanOriginals(filepath.Join(t.TempDir(), "originals"), t.TempDir())
	if !errors.Is(err, optimize.ErrNoOriginals) {
		t.Fatalf("expected ErrNoOriginals, got %v", err)
	}
}

func TestPlanOriginalsTargetsCategory(t *testing.T) {
	root := t.TempDir()
	originals := filepath.Join(root, "images", "originals")
	images := filepath.Join(root, "images")
	testsupport.WriteFile(t, filepath.Join(originals, "dnc", "Rally at Dusk.JPG"), 1)
	testsupport.WriteFile(t, filepath.Join(originals, "dnc", "2024", "crowd.tif"), 1)
	testsupport.WriteFile(t, filepath.Join(originals, "dnc", "notes.txt"), 1)
	testsupport.WriteFile(t, filepath.Join(originals, "stray.jpg"), 1)

	plan, err := optimize.PlanOriginals(originals, images)
	if err != nil {
		t.Fatalf("PlanOriginals: %v", err)
	}
	jobs := plan.Jobs
	if len(jobs) != 2 {
		t.Fatalf("expected two jobs, got %+v", jobs)
	}
	byBase := map[string]optimize.Job{}
	for _, job := range jobs {
		byBase[job.Base] = job
	}
	rally, ok := byBase["Rally-at-Dusk"]
	if !ok {
		t.Fatalf("expected space-free base name, got %+v", jobs)
	}
	if rally.Category != "dnc" || rally.TargetDir != filepath.Join(images, "dnc") {
		t.Fatalf("unexpected rally job: %+v", rally)
	}
	if crowd := byBase["crowd"]; crowd.TargetDir != filepath.Join(images, "dnc") {
		t.Fatalf("nested originals should target the category dir, got %+v", crowd)
	}
}

func TestPlanInPlaceSkipsVariantsAndOriginals(t *testing.T) {
	images := filepath.Join(t.TempDir(), "images")
	originals := filepath.Join(images, "originals")
	testsupport.WriteFile(t, filepath.Join(images, "portraits", "sam.png"), 1)
	testsupport.WriteFile(t, filepath.Join(images, "portraits", "sam-thumb.jpg"), 1)
	testsupport.WriteFile(t, filepath.Join(images, "portraits", "sam-hero.jpg"), 1)
	testsupport.WriteFile(t, filepath.Join(images, "portraits", "hero.txt"), 1)
	testsupport.WriteFile(t, filepath.Join(originals, "portraits", "raw.jpg"), 1)
	testsupport.WriteFile(t, filepath.Join(images, "loose.jpg"), 1)

	plan, err := optimize.PlanInPlace(images, originals)
	if err != nil {
		t.Fatalf("PlanInPlace: %v", err)
	}
	jobs := plan.Jobs
	if len(jobs) != 1 || jobs[0].Base != "sam" || jobs[0].TargetDir != filepath.Join(images, "portraits") {
		t.Fatalf("unexpected jobs: %+v", jobs)
	}

	reasons := map[string]string{}
	for _, result := range plan.Report.Results {
		if result.Status != batch.StatusSkipped {
			t.Fatalf("planning should only skip: %+v", result)
		}
		reasons[filepath.Base(result.Source)] = result.Reason
	}
	if len(reasons) != 2 || reasons["sam-thumb.jpg"] != "already a variant" || reasons["sam-hero.jpg"] != "reserved suffix -hero" {
		t.Fatalf("unexpected skipped files: %v", reasons)
	}
}

func TestRunCarriesSkippedFilesIntoReport(t *testing.T) {
	images := filepath.Join(t.TempDir(), "images")
	testsupport.WriteImage(t, filepath.Join(images, "misc", "a.png"), 20, 20)
	testsupport.WriteFile(t, filepath.Join(images, "misc", "a-thumb.webp"), 1)

	plan, err := optimize.PlanInPlace(images, "")
	if err != nil {
		t.Fatalf("PlanInPlace: %v", err)
	}
	report, err := optimize.Run(context.Background(), plan, codec.NewWithModern(pngModern), smallPresets, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	summary := report.Summary()
	if summary.Skipped != 1 || summary.OK != 4 || summary.Failed != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if report.Stage != "optimize" {
		t.Fatalf("stage = %q", report.Stage)
	}
}

func TestPlanOriginalsContinuesPastUnreadableDirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	root := t.TempDir()
	originals := filepath.Join(root, "originals")
	locked := filepath.Join(originals, "dnc", "locked")
	testsupport.WriteFile(t, filepath.Join(locked, "hidden.jpg"), 1)
	testsupport.WriteFile(t, filepath.Join(originals, "dnc", "rally.jpg"), 1)
	testsupport.WriteFile(t, filepath.Join(originals, "portraits", "sam.jpg"), 1)
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	plan, err := optimize.PlanOriginals(originals, filepath.Join(root, "images"))
	if err != nil {
		t.Fatalf("an unreadable subdirectory must not abort planning: %v", err)
	}
	if len(plan.Jobs) != 2 {
		t.Fatalf("expected the readable sources, got %+v", plan.Jobs)
	}
	summary := plan.Report.Summary()
	if summary.Failed != 1 || plan.Report.Results[0].Source != locked {
		t.Fatalf("expected the locked directory recorded as failed: %+v", plan.Report.Results)
	}
}

func TestPlanInPlaceMissingImagesDir(t *testing.T) {
	plan, err := optimize.PlanInPlace(filepath.Join(t.TempDir(), "none"), "")
	if err != nil || len(plan.Jobs) != 0 || len(plan.Report.Results) != 0 {
		t.Fatalf("expected empty plan, got %+v %v", plan, err)
	}
}

func TestRunWritesVariantsAndContinuesPastFailures(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "images", "dnc")
	good := filepath.Join(root, "src", "rally.jpg")
	bad := filepath.Join(root, "src", "broken.png")
	testsupport.WriteImage(t, good, 128, 64)
	testsupport.WriteFile(t, bad, 32)

	jobs := []optimize.Job{
		{Source: bad, Category: "dnc", TargetDir: target, Base: "broken"},
		{Source: good, Category: "dnc", TargetDir: target, Base: "rally"},
	}
	report, err := optimize.Run(context.Background(), optimize.Plan{Jobs: jobs}, codec.NewWithModern(pngModern), smallPresets, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	summary := report.Summary()
	if summary.Failed != 1 || summary.OK != 4 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if report.Results[0].Status != batch.StatusFailed || report.Results[0].Source != bad {
		t.Fatalf("expected broken source to fail first: %+v", report.Results[0])
	}

	f, err := os.Open(filepath.Join(target, "rally-thumb.jpg"))
	if err != nil {
		t.Fatalf("open thumb: %v", err)
	}
	defer f.Close()
	cfg, err := jpeg.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode thumb: %v", err)
	}
	if cfg.Width != 16 || cfg.Height != 8 {
		t.Fatalf("thumb size = %dx%d", cfg.Width, cfg.Height)
	}
	for _, name := range []string{"rally-thumb.webp", "rally-full.jpg", "rally-full.webp"} {
		if _, err := os.Stat(filepath.Join(target, name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}
}

func TestRunIsIdempotent(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "a.png")
	testsupport.WriteImage(t, src, 20, 20)
	jobs := []optimize.Job{{Source: src, Category: "misc", TargetDir: filepath.Join(root, "out"), Base: "a"}}
	enc := codec.NewWithModern(pngModern)

	for i := 0; i < 2; i++ {
		report, err := optimize.Run(context.Background(), optimize.Plan{Jobs: jobs}, enc, smallPresets, nil)
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		if report.Summary().OK != 4 {
			t.Fatalf("run %d summary: %+v", i, report.Summary())
		}
	}
	entries, err := os.ReadDir(filepath.Join(root, "out"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 4 {
		t.Fatalf("expected four variant files, got %d", len(entries))
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	jobs := []optimize.Job{{Source: "x.jpg", Base: "x"}}
	report, err := optimize.Run(ctx, optimize.Plan{Jobs: jobs}, codec.NewWithModern(pngModern), smallPresets, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if len(report.Results) != 0 {
		t.Fatalf("no job should run after cancel: %+v", report.Results)
	}
}

func TestIsSupported(t *testing.T) {
	for name, want := range map[string]bool{
		"a.JPG": true, "b.heic": true, "c.tif": true, "d.psd": false, "e": false,
	} {
		if got := optimize.IsSupported(name); got != want {
			t.Errorf("IsSupported(%q) = %v", name, got)
		}
	}
}
