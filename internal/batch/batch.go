// Package batch records per-file outcomes of a pipeline stage.
package batch

import "time"

// Status is the outcome of one file operation.
type Status string

const (
	StatusOK      Status = "ok"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Result is one file outcome.
type Result struct {
	Source string `json:"source" yaml:"source"`
	Output string `json:"output,omitempty" yaml:"output,omitempty"`
	Status Status `json:"status" yaml:"status"`
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
	Bytes  int64  `json:"bytes,omitempty" yaml:"bytes,omitempty"`
}

// Report collects the results of one stage run.
type Report struct {
	Stage    string        `json:"stage" yaml:"stage"`
	RunID    string        `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Results  []Result      `json:"results" yaml:"results"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// Summary counts results by status.
type Summary struct {
	OK      int   `json:"ok" yaml:"ok"`
	Failed  int   `json:"failed" yaml:"failed"`
	Skipped int   `json:"skipped" yaml:"skipped"`
	Bytes   int64 `json:"bytes" yaml:"bytes"`
}

// Total returns the number of recorded results.
func (s Summary) Total() int {
	return s.OK + s.Failed + s.Skipped
}

// NewReport returns an empty report for stage.
func NewReport(stage, runID string) *Report {
	return &Report{Stage: stage, RunID: runID, Results: []Result{}}
}

// Add appends a result.
func (r *Report) Add(result Result) {
	r.Results = append(r.Results, result)
}

// Ok records a successful write of output from source.
func (r *Report) Ok(source, output string, bytes int64) {
	r.Add(Result{Source: source, Output: output, Status: StatusOK, Bytes: bytes})
}

// Failed records a failure with its reason.
func (r *Report) Failed(source, output string, err error) {
	reason := ""
	if err != nil {
		reason = err.Error()
	}
	r.Add(Result{Source: source, Output: output, Status: StatusFailed, Reason: reason})
}

// Skipped records a file that was intentionally not processed.
func (r *Report) Skipped(source, reason string) {
	r.Add(Result{Source: source, Status: StatusSkipped, Reason: reason})
}

// Summary counts the recorded results.
func (r *Report) Summary() Summary {
	var s Summary
	for _, res := range r.Results {
		switch res.Status {
		case StatusOK:
			s.OK++
			s.Bytes += res.Bytes
		case StatusFailed:
			s.Failed++
		case StatusSkipped:
			s.Skipped++
		}
	}
	return s
}

// Merge appends the results of other.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	r.Results = append(r.Results, other.Results...)
	r.Duration += other.Duration
}
