package benchmarks

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"

	"github.com/sarchlab/ssabench/ssa"
)

var (
	bold = color.New(color.Bold)
	red  = color.New(color.FgRed)
)

// PrintHeader writes a short description of the run.
func PrintHeader(w io.Writer, bench BenchmarkConfig, config HarnessConfig) {
	_, _ = bold.Fprintln(w, "SSA Timing Benchmark")
	_, _ = fmt.Fprintf(w, "Model:        %s (%s%s)\n", bench.ModelName, bench.ModelDir(), ModelFile)
	_, _ = fmt.Fprintf(w, "End time:     %s\n", FormatSample(bench.TFinal))
	_, _ = fmt.Fprintf(w, "Trajectories: %d\n", bench.NReal)
	_, _ = fmt.Fprintf(w, "Seed:         %d\n", bench.Seed)
	_, _ = fmt.Fprintf(w, "Samples:      %d\n", bench.NSample)
	_, _ = fmt.Fprintf(w, "Methods:      %v\n", config.Methods)
	_, _ = fmt.Fprintln(w, "")
}

// PrintSummary renders one table row per benchmarked method.
func PrintSummary(w io.Writer, results []MethodResult) error {
	_, _ = bold.Fprintln(w, "=== Results ===")

	table := tablewriter.NewWriter(w)
	table.Header("Method", "Samples", "Total (s)", "Result File")

	for _, r := range results {
		if err := table.Append(
			r.Method.String(),
			strconv.Itoa(len(r.Times)),
			FormatSample(r.Total()),
			r.Path,
		); err != nil {
			return fmt.Errorf("failed to build summary table: %w", err)
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render summary table: %w", err)
	}
	return nil
}

// PrintError writes err to w in red.
func PrintError(w io.Writer, err error) {
	_, _ = red.Fprintf(w, "Error: %v\n", err)
}

// BarReporter draws a progress bar per method.
type BarReporter struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

// NewBarReporter creates a reporter that draws on w.
func NewBarReporter(w io.Writer) *BarReporter {
	return &BarReporter{w: w}
}

// Start begins a new bar for method.
func (r *BarReporter) Start(method ssa.Method, total int) {
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.w),
		progressbar.OptionSetDescription(fmt.Sprintf("Sampling %s", method)),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
	)
}

// Advance moves the bar one sample forward.
func (r *BarReporter) Advance() {
	if r.bar != nil {
		_ = r.bar.Add(1)
	}
}

// Finish completes the current bar.
func (r *BarReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
		_, _ = fmt.Fprintln(r.w)
		r.bar = nil
	}
}
