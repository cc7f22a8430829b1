package optimize

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/lusinstrella/karl-dukstein-photography/internal/batch"
	"github.com/lusinstrella/karl-dukstein-photography/internal/naming"
)

// ErrNoOriginals reports that the originals tree does not exist. Callers
// treat it as a successful no-op.
var ErrNoOriginals = errors.New("no originals folder found")

var supportedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".tiff": {},
	".tif":  {},
	".webp": {},
	".heic": {},
	".bmp":  {},
	".gif":  {},
}

// IsSupported reports whether name has a source image extension.
func IsSupported(name string) bool {
	_, ok := supportedExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Job is one source image and where its variants go.
type Job struct {
	Source    string
	Category  string
	TargetDir string
	Base      string
}

// VariantPath returns the output path for a preset label and format.
func (j Job) VariantPath(label string, format naming.Format) string {
	return filepath.Join(j.TargetDir, j.Base+"-"+label+"."+format.Ext())
}

// Plan is the work found by a walk. Report already holds the outcomes
// decided while walking: unreadable directories are failed and files left
// alone on purpose are skipped. Run appends to the same report.
type Plan struct {
	Jobs   []Job
	Report *batch.Report
}

func newPlan() Plan {
	return Plan{Report: batch.NewReport("", "")}
}

// walk visits root like filepath.WalkDir. An error on root aborts the walk;
// an error below root is recorded as a failure and its subtree is skipped.
func (p *Plan) walk(root string, visit func(path string, d fs.DirEntry) error) error {
	return filepath.WalkDir(root, p.walkFunc(root, visit))
}

func (p *Plan) walkFunc(root string, visit func(path string, d fs.DirEntry) error) fs.WalkDirFunc {
	return func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			p.Report.Failed(path, "", fmt.Errorf("walk %s: %w", path, err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		return visit(path, d)
	}
}

// PlanOriginals lists every supported image under originalsDir/<category>/
// and targets imagesDir/<category>. Files directly under originalsDir have no
// category and are ignored.
func PlanOriginals(originalsDir, imagesDir string) (Plan, error) {
	plan := newPlan()
	if err := requireOriginals(originalsDir); err != nil {
		return plan, err
	}

	err := plan.walk(originalsDir, func(path string, d fs.DirEntry) error {
		if d.IsDir() || !IsSupported(d.Name()) {
			return nil
		}
		category, ok := firstSegment(originalsDir, path)
		if !ok {
			return nil
		}
		plan.Jobs = append(plan.Jobs, Job{
			Source:    path,
			Category:  category,
			TargetDir: filepath.Join(imagesDir, category),
			Base:      naming.OutputBase(d.Name()),
		})
		return nil
	})
	if err != nil {
		return plan, fmt.Errorf("walk originals: %w", err)
	}
	return plan, nil
}

// PlanInPlace lists loose source images inside the category directories of
// imagesDir. The exclude tree (normally the originals directory) is not
// entered. Generated variants and hero marker files are recorded as skipped.
func PlanInPlace(imagesDir, exclude string) (Plan, error) {
	plan := newPlan()
	if _, err := os.Stat(imagesDir); errors.Is(err, fs.ErrNotExist) {
		return plan, nil
	}

	err := plan.walk(imagesDir, func(path string, d fs.DirEntry) error {
		if d.IsDir() {
			if exclude != "" && path == exclude {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsSupported(d.Name()) {
			return nil
		}
		category, ok := firstSegment(imagesDir, path)
		if !ok {
			return nil
		}
		if parsed := naming.Parse(d.Name()); parsed.Suffix != naming.SuffixNone {
			reason := "reserved suffix -" + string(parsed.Suffix)
			if parsed.IsVariant() {
				reason = "already a variant"
			}
			plan.Report.Skipped(path, reason)
			return nil
		}
		plan.Jobs = append(plan.Jobs, Job{
			Source:    path,
			Category:  category,
			TargetDir: filepath.Dir(path),
			Base:      naming.OutputBase(d.Name()),
		})
		return nil
	})
	if err != nil {
		return plan, fmt.Errorf("walk images: %w", err)
	}
	return plan, nil
}

func requireOriginals(originalsDir string) error {
	info, err := os.Stat(originalsDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNoOriginals
		}
		return fmt.Errorf("stat originals: %w", err)
	}
	if !info.IsDir() {
		return ErrNoOriginals
	}
	return nil
}

func firstSegment(root, path string) (string, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) < 2 {
		return "", false
	}
	return parts[0], true
}
