package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/lusinstrella/karl-dukstein-photography/internal/batch"
	"github.com/lusinstrella/karl-dukstein-photography/internal/logging"
)

// printReports writes a per-stage summary table with a combined footer,
// followed by one row per failed file.
func printReports(out io.Writer, reports []*batch.Report, colorize bool) {
	if len(reports) == 0 {
		return
	}
	combined := batch.NewReport("total", reports[0].RunID)
	rows := make([][]string, 0, len(reports))
	var failures [][]string
	for _, report := range reports {
		combined.Merge(report)
		rows = append(rows, summaryRow(report.Stage, report.Summary(), report.Duration))
		for _, r := range report.Results {
			if r.Status == batch.StatusFailed {
				failures = append(failures, []string{r.Source, r.Output, r.Reason})
			}
		}
	}
	total := combined.Summary()

	var footer []string
	if len(reports) > 1 {
		footer = summaryRow(combined.Stage, total, combined.Duration)
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Stage", "Written", "Failed", "Skipped", "Output", "Elapsed"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
		footer,
	))
	if len(failures) > 0 {
		for _, line := range renderSectionHeader("Failures", colorize) {
			fmt.Fprintln(out, line)
		}
		fmt.Fprintln(out, renderTable([]string{"Source", "Output", "Reason"}, failures, nil, nil))
	}

	kind, message := outcomeDone, fmt.Sprintf("%d files written", total.OK)
	if total.Failed > 0 {
		kind = outcomePartial
		message = fmt.Sprintf("%d written, %d failed (see log for details)", total.OK, total.Failed)
	}
	if total.Skipped > 0 {
		message += fmt.Sprintf(", %d skipped", total.Skipped)
	}
	fmt.Fprintln(out, renderStatusLine("Files", kind, message, colorize))
}

func summaryRow(stage string, s batch.Summary, elapsed time.Duration) []string {
	return []string{
		stage,
		strconv.Itoa(s.OK),
		strconv.Itoa(s.Failed),
		strconv.Itoa(s.Skipped),
		logging.FormatBytes(s.Bytes),
		elapsed.Round(time.Millisecond).String(),
	}
}

func printPages(out io.Writer, written []string, colorize bool) {
	names := make([]string, 0, len(written))
	for _, path := range written {
		names = append(names, filepath.Base(path))
	}
	message := fmt.Sprintf("%d written", len(written))
	if len(names) > 0 {
		message += " (" + strings.Join(names, ", ") + ")"
	}
	fmt.Fprintln(out, renderStatusLine("Pages", outcomeDone, message, colorize))
}
