package models

import (
	"encoding/json"
	"fmt"
)

// Result is the outcome of one (source, target) resize-and-save attempt.
type Result struct {
	Rank   int
	Source string
	Target string
	Output string
	Err    error
}

// OK reports whether the artifact was written.
func (r Result) OK() bool { return r.Err == nil }

// FileResult groups the per-target results of one selected source.
// DecodeErr is set when the source could not be read at all; Artifacts then
// holds one failed Result per target carrying the same error.
type FileResult struct {
	Rank      int
	Source    string
	DecodeErr error
	Artifacts []Result
}

// Summary is everything a run produced.
type Summary struct {
	RunID      string
	Discovered int
	Selected   int
	Succeeded  int
	Failed     int
	Files      []FileResult
	Targets    []TargetSpec
}

type resultJSON struct {
	Rank   int    `json:"rank"`
	Source string `json:"source"`
	Target string `json:"target"`
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

func (r Result) MarshalJSON() ([]byte, error) {
	out := resultJSON{Rank: r.Rank, Source: r.Source, Target: r.Target, Output: r.Output}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	return json.Marshal(out)
}

// MarshalJSON flattens the summary for the completion callback.
func (s Summary) MarshalJSON() ([]byte, error) {
	var results []Result
	for _, f := range s.Files {
		results = append(results, f.Artifacts...)
	}
	return json.Marshal(struct {
		RunID      string       `json:"run_id"`
		Discovered int          `json:"discovered"`
		Selected   int          `json:"selected"`
		Succeeded  int          `json:"succeeded"`
		Failed     int          `json:"failed"`
		Targets    []TargetSpec `json:"targets"`
		Results    []Result     `json:"results"`
	}{s.RunID, s.Discovered, s.Selected, s.Succeeded, s.Failed, s.Targets, results})
}

// RecordKey is the run-record key of one artifact: {runID}/{target}/{rank:02d}.
// Keys of one run share the "{runID}/" prefix.
func RecordKey(runID, target string, rank int) string {
	return fmt.Sprintf("%s/%s/%02d", runID, target, rank)
}
