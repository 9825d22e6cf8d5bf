package output

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/torosent/stagger/internal/config"
	"github.com/torosent/stagger/internal/metrics"
)

// NoSuccessMessage is printed instead of statistics when no request succeeded.
const NoSuccessMessage = "No successful requests were made."

// Report is the structured form of a run's result.
type Report struct {
	RunID   string           `json:"run_id" yaml:"run_id"`
	Target  string           `json:"target" yaml:"target"`
	Summary *metrics.Summary `json:"summary,omitempty" yaml:"summary,omitempty"`
	Message string           `json:"message,omitempty" yaml:"message,omitempty"`
}

// NewReport builds a Report. ok is the flag returned by Collector.Summary.
func NewReport(runID, target string, summary metrics.Summary, ok bool) Report {
	report := Report{RunID: runID, Target: target}
	if ok {
		report.Summary = &summary
	} else {
		report.Message = NoSuccessMessage
	}
	return report
}

// PrintReport outputs the human-readable summary: average, max and min in
// seconds with two decimals, or NoSuccessMessage.
func PrintReport(w io.Writer, report Report) {
	if report.Summary == nil {
		fmt.Fprintln(w, NoSuccessMessage)
		return
	}
	fmt.Fprintf(w, "Average response time: %.2fs\n", report.Summary.MeanSeconds)
	fmt.Fprintf(w, "Max response time: %.2fs\n", report.Summary.MaxSeconds)
	fmt.Fprintf(w, "Min response time: %.2fs\n", report.Summary.MinSeconds)
}

// PrintJSONReport outputs a JSON-formatted report.
func PrintJSONReport(w io.Writer, report Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// PrintYAMLReport outputs a YAML-formatted report.
func PrintYAMLReport(w io.Writer, report Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return err
	}
	return enc.Close()
}

// Print writes report in the requested format. An empty format means text.
func Print(w io.Writer, format config.Format, report Report) error {
	switch format {
	case "", config.FormatText:
		PrintReport(w, report)
		return nil
	case config.FormatJSON:
		return PrintJSONReport(w, report)
	case config.FormatYAML:
		return PrintYAMLReport(w, report)
	default:
		return fmt.Errorf("unsupported report format %q", format)
	}
}
